// Package pipeline drives a receiver from a sample source and dispatches
// the decoded commands.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/neildavis/drivers/internal/capture"
	"github.com/neildavis/drivers/internal/dispatch"
	"github.com/neildavis/drivers/irremote"
	"github.com/neildavis/drivers/irremote/irprotocol"
	"github.com/neildavis/drivers/irremote/remotes"
)

var (
	ErrNoReceiver   = errors.New("pipeline: receiver is required")
	ErrNoSink       = errors.New("pipeline: sink is required")
	ErrNoSampleRate = errors.New("pipeline: sample rate is required")
)

type Config struct {
	Receiver *irremote.Receiver
	// Registry maps commands to buttons. It may be nil.
	Registry   *remotes.Registry
	Sink       dispatch.Sink
	SampleRate uint32
	// Start is the time of the first sample. Event times are derived from
	// the sample count so that replayed captures get stable timestamps.
	// The zero value selects the current time.
	Start  time.Time
	Logger zerolog.Logger
}

// Stats counts what a Runner has processed
type Stats struct {
	Samples  uint64
	Commands uint64
	Buttons  uint64
	Errors   uint64
}

// Runner owns the receiver for the duration of a run. It is not safe for
// concurrent use.
type Runner struct {
	rx       *irremote.Receiver
	registry *remotes.Registry
	sink     dispatch.Sink
	rate     uint32
	start    time.Time
	log      zerolog.Logger

	index   uint32
	pending uint64 // samples not yet reported to the sink
	stats   Stats
}

func New(cfg Config) (*Runner, error) {
	switch {
	case cfg.Receiver == nil:
		return nil, ErrNoReceiver
	case cfg.Sink == nil:
		return nil, ErrNoSink
	case cfg.SampleRate == 0:
		return nil, ErrNoSampleRate
	}
	if cfg.Start.IsZero() {
		cfg.Start = time.Now()
	}
	return &Runner{
		rx:       cfg.Receiver,
		registry: cfg.Registry,
		sink:     cfg.Sink,
		rate:     cfg.SampleRate,
		start:    cfg.Start,
		log:      cfg.Logger,
	}, nil
}

// Handle processes one sample. Decode errors and failed deliveries are
// logged and counted; they never stop the runner.
func (r *Runner) Handle(level bool) {
	t := r.elapsed()
	cmd, ok, err := r.rx.Sample(level, r.index)
	r.index++
	r.stats.Samples++
	if r.pending++; r.pending >= uint64(r.rate) {
		r.flushSamples()
	}

	if err != nil {
		r.stats.Errors++
		if es, ok := r.sink.(dispatch.ErrorSink); ok {
			es.DecodeFailed(r.rx.Protocol(), irprotocol.Kind(err))
		}
		return
	}
	if !ok {
		return
	}

	ev := dispatch.Event{Time: r.start.Add(t), Command: cmd}
	r.stats.Commands++
	if r.registry != nil {
		if p, b, mapped := r.registry.Lookup(cmd); p != nil {
			ev.Profile, ev.Button, ev.Mapped = p.Name(), b, mapped
		}
	}
	if ev.Mapped {
		r.stats.Buttons++
	}
	if err := r.sink.Dispatch(ev); err != nil {
		r.log.Warn().Err(err).Stringer("command", cmd).Msg("dispatch failed")
	}
}

// elapsed returns the time of the current sample relative to Start
func (r *Runner) elapsed() time.Duration {
	rate := uint64(r.rate)
	secs := r.stats.Samples / rate
	frac := r.stats.Samples % rate
	return time.Duration(secs)*time.Second + time.Duration(frac*uint64(time.Second)/rate)
}

func (r *Runner) flushSamples() {
	if r.pending == 0 {
		return
	}
	if ss, ok := r.sink.(dispatch.SampleSink); ok {
		ss.AddSamples(r.pending)
	}
	r.pending = 0
}

// Run feeds every sample of src to the receiver until the source ends or
// ctx is done
func (r *Runner) Run(ctx context.Context, src *capture.Reader) error {
	r.log.Debug().
		Stringer("protocol", r.rx.Protocol()).
		Uint32("rate", r.rate).
		Msg("decoding")
	defer r.flushSamples()
	return src.Run(ctx, func(level bool) error {
		r.Handle(level)
		return nil
	})
}

func (r *Runner) Stats() Stats { return r.stats }
