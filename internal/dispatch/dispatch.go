// Package dispatch delivers decoded remote control events to their consumers.
package dispatch

import (
	"errors"
	"time"

	"github.com/neildavis/drivers/irremote/irprotocol"
	"github.com/neildavis/drivers/irremote/remotes"
)

// Event is one decoded command. Profile is empty when no registered remote
// uses the command's protocol and address; Mapped reports whether Button
// holds a button of that profile.
type Event struct {
	Time    time.Time
	Command irprotocol.Command
	Profile string
	Button  remotes.StandardButton
	Mapped  bool
}

// Sink consumes events
type Sink interface {
	Dispatch(ev Event) error
}

// ErrorSink is implemented by sinks that record decode failures.
// kind is the label returned by irprotocol.Kind.
type ErrorSink interface {
	DecodeFailed(protocol irprotocol.ProtocolID, kind string)
}

// SampleSink is implemented by sinks that count processed samples
type SampleSink interface {
	AddSamples(n uint64)
}

// Fanout delivers every event to each of its sinks in order
type Fanout []Sink

// Dispatch delivers ev to all sinks, even when some of them fail
func (f Fanout) Dispatch(ev Event) error {
	var errs []error
	for _, s := range f {
		if err := s.Dispatch(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f Fanout) DecodeFailed(protocol irprotocol.ProtocolID, kind string) {
	for _, s := range f {
		if es, ok := s.(ErrorSink); ok {
			es.DecodeFailed(protocol, kind)
		}
	}
}

func (f Fanout) AddSamples(n uint64) {
	for _, s := range f {
		if ss, ok := s.(SampleSink); ok {
			ss.AddSamples(n)
		}
	}
}

// Close closes the sinks that implement io.Closer
func (f Fanout) Close() error {
	var errs []error
	for _, s := range f {
		if c, ok := s.(interface{ Close() error }); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
