package dispatch

import (
	"github.com/rs/zerolog"

	"github.com/neildavis/drivers/irremote/irprotocol"
)

// LogSink writes events to a zerolog logger
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Dispatch(ev Event) error {
	e := s.log.Info().
		Stringer("protocol", ev.Command.Protocol).
		Uint16("address", ev.Command.Address).
		Uint8("command", ev.Command.Command).
		Bool("repeat", ev.Command.Repeat).
		Bool("toggle", ev.Command.Toggle)
	if ev.Profile != "" {
		e = e.Str("profile", ev.Profile)
	}
	if ev.Mapped {
		e.Stringer("button", ev.Button).Msg("button")
		return nil
	}
	e.Msg("command")
	return nil
}

// DecodeFailed logs at debug level; corrupted frames are routine
func (s *LogSink) DecodeFailed(protocol irprotocol.ProtocolID, kind string) {
	s.log.Debug().Stringer("protocol", protocol).Str("kind", kind).Msg("frame dropped")
}
