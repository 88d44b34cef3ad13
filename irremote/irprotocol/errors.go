package irprotocol

import (
	"errors"
	"fmt"
)

var (
	// ErrHeaderMismatch reports a frame start that does not match the protocol header
	ErrHeaderMismatch = errors.New("header mismatch")
	// ErrDataTiming reports a corrupt data span or a failed integrity check
	ErrDataTiming = errors.New("data timing error")
	// ErrFrameLength reports a frame that ended with the wrong number of bits
	ErrFrameLength = errors.New("frame length error")

	// ErrInvalidSampleRate is returned by decoder constructors when the sample
	// rate cannot resolve the protocol's shortest timing unit
	ErrInvalidSampleRate = errors.New("irprotocol: invalid sample rate")
	// ErrInvalidTolerance is returned when the tolerance would make short and
	// long timings indistinguishable
	ErrInvalidTolerance = errors.New("irprotocol: invalid tolerance")
	// ErrFieldRange is returned by Encode when a command field does not fit the protocol
	ErrFieldRange = errors.New("irprotocol: field out of range")
)

// DecodeError describes a rejected frame. Kind is one of ErrHeaderMismatch,
// ErrDataTiming or ErrFrameLength and can be matched with errors.Is.
type DecodeError struct {
	Protocol ProtocolID
	Kind     error
	State    State // state in which the violation was detected
	Span     Span  // offending span
	Reason   string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %v in %s at %s: %s", e.Protocol, e.Kind, e.State, e.Span, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Kind }

// Kind returns a short label for the decode error class of err,
// or an empty string when err is not a decode error.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrHeaderMismatch):
		return "header"
	case errors.Is(err, ErrDataTiming):
		return "data"
	case errors.Is(err, ErrFrameLength):
		return "length"
	}
	return ""
}

// frameError is embedded by decoders. It holds the last DecodeError so that
// rejecting a frame does not allocate.
type frameError struct {
	err DecodeError
}

func (f *frameError) fail(id ProtocolID, kind error, st State, s Span, reason string) error {
	f.err = DecodeError{Protocol: id, Kind: kind, State: st, Span: s, Reason: reason}
	return &f.err
}
