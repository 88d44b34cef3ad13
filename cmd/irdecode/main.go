// Command irdecode decodes infrared remote control commands from recorded
// captures or a serial sampler and dispatches them to the log, an MQTT
// broker and a prometheus endpoint.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/neildavis/drivers/internal/capture"
	"github.com/neildavis/drivers/internal/config"
	"github.com/neildavis/drivers/internal/dispatch"
	"github.com/neildavis/drivers/internal/logging"
	"github.com/neildavis/drivers/internal/pipeline"
	"github.com/neildavis/drivers/irremote"
	"github.com/neildavis/drivers/irremote/irprotocol"
)

type flags struct {
	config    string
	input     string
	serial    string
	baud      int
	protocol  string
	rate      uint32
	tolerance int
	activeLow bool
	metrics   string
	mqtt      string
	topic     string
	logLevel  string
	jsonLog   bool
}

func parseFlags(fs *pflag.FlagSet, args []string) (*flags, error) {
	f := &flags{}
	fs.StringVarP(&f.config, "config", "c", "", "YAML configuration file")
	fs.StringVarP(&f.input, "input", "i", "", "capture file to decode (.zst files are decompressed)")
	fs.StringVar(&f.serial, "serial", "", "serial device streaming packed samples")
	fs.IntVar(&f.baud, "baud", config.DefaultBaudRate, "serial baud rate")
	fs.StringVarP(&f.protocol, "protocol", "p", config.DefaultProtocol, "protocol to decode (nec, samsung, sirc, rc5, rc6)")
	fs.Uint32VarP(&f.rate, "rate", "r", config.DefaultSampleRate, "sample rate in Hz")
	fs.IntVar(&f.tolerance, "tolerance", 0, "timing tolerance in percent (0 = protocol default)")
	fs.BoolVar(&f.activeLow, "active-low", true, "receiver output is low while IR is received")
	fs.StringVar(&f.metrics, "metrics-listen", "", "address to serve prometheus metrics on, e.g. :9101")
	fs.StringVar(&f.mqtt, "mqtt-broker", "", "MQTT broker URL, enables MQTT output")
	fs.StringVar(&f.topic, "mqtt-topic", config.DefaultTopic, "MQTT topic prefix")
	fs.StringVarP(&f.logLevel, "log-level", "l", config.DefaultLogLevel, "log level")
	fs.BoolVar(&f.jsonLog, "json-log", false, "log JSON instead of console output")
	return f, fs.Parse(args)
}

// apply overrides cfg with the flags given on the command line
func (f *flags) apply(fs *pflag.FlagSet, cfg *config.Config) {
	set := fs.Changed
	if set("input") {
		cfg.Source.Kind, cfg.Source.Path = config.SourceFile, f.input
	}
	if set("serial") {
		cfg.Source.Kind, cfg.Source.Path = config.SourceSerial, f.serial
		if cfg.Source.BaudRate == 0 {
			cfg.Source.BaudRate = f.baud
		}
	}
	if set("baud") {
		cfg.Source.BaudRate = f.baud
	}
	if set("protocol") {
		cfg.Receiver.Protocol = f.protocol
	}
	if set("rate") {
		cfg.Receiver.SampleRate = f.rate
	}
	if set("tolerance") {
		cfg.Receiver.Tolerance = f.tolerance
	}
	if set("active-low") {
		cfg.Receiver.ActiveLow = &f.activeLow
	}
	if set("metrics-listen") {
		cfg.Metrics.Listen = f.metrics
	}
	if set("mqtt-broker") {
		cfg.MQTT.Enabled, cfg.MQTT.Broker = true, f.mqtt
	}
	if set("mqtt-topic") {
		cfg.MQTT.Topic = f.topic
	}
	if set("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if set("json-log") {
		cfg.Log.JSON = f.jsonLog
	}
}

func loadConfig(args []string) (*config.Config, error) {
	fs := pflag.NewFlagSet("irdecode", pflag.ContinueOnError)
	f, err := parseFlags(fs, args)
	if err != nil {
		return nil, err
	}
	cfg := config.Default()
	if f.config != "" {
		if cfg, err = config.Load(f.config); err != nil {
			return nil, err
		}
	}
	f.apply(fs, cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func openSource(cfg *config.Config) (io.ReadCloser, error) {
	if cfg.Source.Kind == config.SourceSerial {
		return capture.OpenSerial(cfg.Source.Path, cfg.Source.BaudRate)
	}
	if cfg.Source.Path == "" || cfg.Source.Path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return capture.Open(cfg.Source.Path)
}

func buildSinks(cfg *config.Config, log zerolog.Logger, reg *prometheus.Registry) (dispatch.Fanout, error) {
	sinks := dispatch.Fanout{dispatch.NewLogSink(log)}
	if cfg.Metrics.Listen != "" {
		m, err := dispatch.NewMetricsSink(reg)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, m)
	}
	if cfg.MQTT.Enabled {
		client, err := dispatch.DialMQTT(dispatch.MQTTOptions{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
			QoS:      cfg.MQTT.QoS,
			Retain:   cfg.MQTT.Retain,
			Timeout:  cfg.MQTT.Timeout,
		}, log)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, dispatch.NewMQTTSink(client, cfg.MQTT.Topic))
	}
	return sinks, nil
}

func serveMetrics(addr string, reg *prometheus.Registry, log zerolog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("listen", addr).Msg("metrics server failed")
		}
	}()
	log.Info().Str("listen", addr).Msg("serving metrics")
	return srv
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	registry, err := cfg.Registry()
	if err != nil {
		return err
	}
	dec, err := irprotocol.New(cfg.ProtocolID(), cfg.DecoderConfig())
	if err != nil {
		return err
	}
	rx, err := irremote.NewReceiver(irremote.ReceiverConfig{
		Decoder:   dec,
		ActiveLow: cfg.Receiver.IsActiveLow(),
	})
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	sinks, err := buildSinks(cfg, log, reg)
	if err != nil {
		return err
	}
	defer sinks.Close()
	if cfg.Metrics.Listen != "" {
		srv := serveMetrics(cfg.Metrics.Listen, reg, log)
		defer srv.Close()
	}

	src, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	runner, err := pipeline.New(pipeline.Config{
		Receiver:   rx,
		Registry:   registry,
		Sink:       sinks,
		SampleRate: cfg.Receiver.SampleRate,
		Logger:     log,
	})
	if err != nil {
		return err
	}
	reader := capture.NewReader(src)
	err = runner.Run(ctx, reader)

	stats := runner.Stats()
	log.Info().
		Uint64("samples", stats.Samples).
		Uint64("commands", stats.Commands).
		Uint64("buttons", stats.Buttons).
		Uint64("errors", stats.Errors).
		Msg("done")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "irdecode:", err)
		os.Exit(2)
	}
	log, err := logging.Init("irdecode", cfg.Log.Level, cfg.Log.JSON)
	if err != nil {
		fmt.Fprintln(os.Stderr, "irdecode:", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("irdecode failed")
		stop()
		os.Exit(1)
	}
}
