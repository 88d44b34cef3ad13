package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/neildavis/drivers/irremote/irprotocol"
)

// MetricsSink counts events as prometheus metrics
type MetricsSink struct {
	commands *prometheus.CounterVec
	errors   *prometheus.CounterVec
	samples  prometheus.Counter
}

// NewMetricsSink registers the irdecode metrics with reg
func NewMetricsSink(reg prometheus.Registerer) (*MetricsSink, error) {
	s := &MetricsSink{
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "irdecode_commands_total",
			Help: "Decoded commands by protocol and button",
		}, []string{"protocol", "button"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "irdecode_decode_errors_total",
			Help: "Dropped frames by protocol and error kind",
		}, []string{"protocol", "kind"}),
		samples: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "irdecode_samples_total",
			Help: "Receiver samples processed",
		}),
	}
	for _, c := range []prometheus.Collector{s.commands, s.errors, s.samples} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *MetricsSink) Dispatch(ev Event) error {
	button := "unmapped"
	if ev.Mapped {
		button = ev.Button.String()
	}
	s.commands.WithLabelValues(ev.Command.Protocol.String(), button).Inc()
	return nil
}

func (s *MetricsSink) DecodeFailed(protocol irprotocol.ProtocolID, kind string) {
	s.errors.WithLabelValues(protocol.String(), kind).Inc()
}

func (s *MetricsSink) AddSamples(n uint64) {
	s.samples.Add(float64(n))
}
