// Package irremote receives infrared remote control commands from a
// periodically sampled IR receiver pin.
//
// A Receiver is driven from a timer callback: each call hands it one sample
// of the receiver output together with a running sample counter. Decoding
// happens synchronously inside the call and never blocks.
//
//	rx, _ := irremote.NewReceiver(irremote.ReceiverConfig{
//		Decoder:   dec,
//		Pin:       pin,
//		ActiveLow: true,
//	})
//	// in the timer interrupt handler
//	if button, ok, _ := rx.TickAsButton(remotes.PhilipsTV, counter); ok {
//		println(button.String())
//	}
//	counter++
package irremote // import "github.com/neildavis/drivers/irremote"

import (
	"errors"

	"github.com/neildavis/drivers/irremote/irprotocol"
	"github.com/neildavis/drivers/irremote/remotes"
)

var (
	ErrNoDecoder = errors.New("irremote: receiver needs a decoder")
	ErrNoPin     = errors.New("irremote: receiver has no pin")
)

// Pin is the input connected to the IR receiver output.
// machine.Pin satisfies it.
type Pin interface {
	Get() bool
}

// ReceiverConfig is used to configure the Receiver
type ReceiverConfig struct {
	// Decoder decodes the protocol of the remote control
	Decoder irprotocol.Decoder
	// Pin is sampled by Tick. It may be nil if samples are passed to Sample.
	Pin Pin
	// ActiveLow is set for receivers that pull their output low while
	// receiving a carrier, as most demodulating IR receivers do
	ActiveLow bool
}

// Receiver owns the decoding state of one IR input. It must only be used
// from one goroutine or interrupt handler.
type Receiver struct {
	acc       EdgeAccumulator
	dec       irprotocol.Decoder
	pin       Pin
	activeLow bool
}

// NewReceiver returns a new IR receiver
func NewReceiver(config ReceiverConfig) (*Receiver, error) {
	if config.Decoder == nil {
		return nil, ErrNoDecoder
	}
	return &Receiver{
		dec:       config.Decoder,
		pin:       config.Pin,
		activeLow: config.ActiveLow,
	}, nil
}

// Sample processes one sample of the receiver output.
// It returns a command and true when the sample completes a frame. Decode
// errors are expected under noise; the frame is dropped and decoding
// restarts with the next sample.
func (r *Receiver) Sample(level bool, index uint32) (irprotocol.Command, bool, error) {
	span, ok := r.acc.Process(level != r.activeLow, index)
	if !ok {
		return irprotocol.Command{}, false, nil
	}
	cmd, ok, err := r.dec.Feed(span)
	if err != nil {
		r.acc.Reset()
		return irprotocol.Command{}, false, err
	}
	return cmd, ok, nil
}

// SampleAsButton is like Sample but maps the command through a remote
// control profile. Commands that are not part of the profile are dropped.
func (r *Receiver) SampleAsButton(profile *remotes.Profile, level bool, index uint32) (remotes.StandardButton, bool, error) {
	cmd, ok, err := r.Sample(level, index)
	if !ok {
		return remotes.None, false, err
	}
	button, ok := profile.Lookup(cmd)
	return button, ok, nil
}

// Tick reads the configured pin and processes it as sample index
func (r *Receiver) Tick(index uint32) (irprotocol.Command, bool, error) {
	if r.pin == nil {
		return irprotocol.Command{}, false, ErrNoPin
	}
	return r.Sample(r.pin.Get(), index)
}

// TickAsButton reads the configured pin and maps a completed command
// through profile
func (r *Receiver) TickAsButton(profile *remotes.Profile, index uint32) (remotes.StandardButton, bool, error) {
	if r.pin == nil {
		return remotes.None, false, ErrNoPin
	}
	return r.SampleAsButton(profile, r.pin.Get(), index)
}

// Reset abandons any frame in progress
func (r *Receiver) Reset() {
	r.acc.Reset()
	r.dec.Reset()
}

// Protocol returns the protocol decoded by the receiver
func (r *Receiver) Protocol() irprotocol.ProtocolID {
	return r.dec.Protocol()
}
