// Package irprotocol implements span-level decoders for consumer infrared
// remote control protocols.
//
// A decoder consumes Spans (a mark or space level together with its length
// in sample ticks) and reconstructs frames from them. Decoders do not
// allocate, block or log, so they are safe to drive from a timer interrupt.
package irprotocol // import "github.com/neildavis/drivers/irremote/irprotocol"

import (
	"fmt"
	"strings"
	"time"
)

// ProtocolID identifies an infrared protocol
type ProtocolID uint8

const (
	Unknown ProtocolID = iota
	NEC
	Samsung
	SIRC
	RC5
	RC6
)

var protocolNames = [...]string{
	Unknown: "unknown",
	NEC:     "nec",
	Samsung: "samsung",
	SIRC:    "sirc",
	RC5:     "rc5",
	RC6:     "rc6",
}

func (p ProtocolID) String() string {
	if int(p) < len(protocolNames) {
		return protocolNames[p]
	}
	return fmt.Sprintf("protocol(%d)", uint8(p))
}

// ParseProtocol returns the ProtocolID for a case-insensitive protocol name
func ParseProtocol(name string) (ProtocolID, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for id, n := range protocolNames {
		if id != int(Unknown) && n == name {
			return ProtocolID(id), nil
		}
	}
	return Unknown, fmt.Errorf("irprotocol: unknown protocol %q", name)
}

// Command is a decoded remote control command
type Command struct {
	Protocol ProtocolID
	Address  uint16
	Command  uint8
	// Repeat is set when the frame signals that the key is still held
	Repeat bool
	// Toggle is the toggle bit of protocols that carry one (RC5, RC6)
	Toggle bool
}

func (c Command) String() string {
	s := fmt.Sprintf("%s addr=%#04x cmd=%#02x", c.Protocol, c.Address, c.Command)
	if c.Toggle {
		s += " toggle"
	}
	if c.Repeat {
		s += " repeat"
	}
	return s
}

// Span is a run of identical line levels measured in sample ticks
type Span struct {
	Mark  bool
	Ticks uint32
}

func (s Span) String() string {
	if s.Mark {
		return fmt.Sprintf("mark(%d)", s.Ticks)
	}
	return fmt.Sprintf("space(%d)", s.Ticks)
}

// State is the position of a decoder within a frame
type State uint8

const (
	StateIdle        State = iota // waiting for a header mark
	StateHeaderSpace              // header mark seen, validating the header space
	StateData                     // demodulating bits
	StateTrailer                  // all bits received, waiting for the stop mark
	StateDone                     // frame complete
	StateError                    // protocol violation
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHeaderSpace:
		return "header-space"
	case StateData:
		return "data"
	case StateTrailer:
		return "trailer"
	case StateDone:
		return "done"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Decoder is implemented by every protocol decoder.
//
// Feed consumes one span. It returns a Command and true when the span
// completes a frame, or an error when the span violates the protocol. In both
// cases the decoder is back in StateIdle when Feed returns. A returned error
// is only valid until the next call to Feed.
type Decoder interface {
	Feed(s Span) (Command, bool, error)
	Reset()
	State() State
	Protocol() ProtocolID
}

// Config is used to construct decoders
type Config struct {
	// SampleRate is the frequency in Hz at which the receiver line is sampled
	SampleRate uint32
	// Tolerance is the accepted timing deviation in percent.
	// A value of zero selects the protocol default.
	Tolerance int
	// RepeatPeriod overrides the frame period used to flag repeated frames
	// on protocols without a dedicated repeat frame.
	// A value of zero selects the protocol default.
	RepeatPeriod time.Duration
}

// New returns a decoder for the given protocol
func New(id ProtocolID, cfg Config) (Decoder, error) {
	switch id {
	case NEC:
		return NewNEC(cfg)
	case Samsung:
		return NewSamsung(cfg)
	case SIRC:
		return NewSIRC(cfg)
	case RC5:
		return NewRC5(cfg)
	case RC6:
		return NewRC6(cfg)
	}
	return nil, fmt.Errorf("irprotocol: no decoder for %s", id)
}
