package irprotocol

import "time"

// Philips RC6 protocol reference
// https://www.sbprojects.net/knowledge/ir/rc6.php

const (
	RC6_modulation_frequency = 36_000

	RC6_unit         = 444 * time.Microsecond // half of a normal bit
	RC6_leader_mark  = RC6_unit * 6           // 2.664 ms
	RC6_leader_space = RC6_unit * 2           // 888 us

	rc6DefaultTolerance = 35

	// start bit, 3 mode bits, double width trailer, 8 address and 8 command bits
	rc6HalfBits     = 2 + 3*2 + 4 + 16*2
	rc6ModeOffset   = 2
	rc6ToggleOffset = 8
	rc6DataOffset   = 12
)

// RC6Decoder decodes RC6 mode 0 frames. A one is a mark followed by a space.
// The trailer bit is twice as long as the others and carries the toggle.
type RC6Decoder struct {
	frameError
	leaderMark  window
	leaderSpace window
	q           unitQuantizer
	hb          halfBits

	state State
	last  Command
	seen  bool
}

// NewRC6 returns a decoder for RC6 mode 0
func NewRC6(cfg Config) (*RC6Decoder, error) {
	tol := cfg.Tolerance
	if tol == 0 {
		tol = rc6DefaultTolerance
	}
	if err := checkUnitTolerance(RC6, tol); err != nil {
		return nil, err
	}
	if err := checkRate(RC6, cfg.SampleRate, RC6_unit); err != nil {
		return nil, err
	}
	return &RC6Decoder{
		leaderMark:  newWindow(RC6_leader_mark, cfg.SampleRate, tol),
		leaderSpace: newWindow(RC6_leader_space, cfg.SampleRate, tol),
		q:           newUnitQuantizer(RC6_unit, cfg.SampleRate, tol, 3),
	}, nil
}

func (d *RC6Decoder) failed(kind error, s Span, reason string) error {
	st := d.state
	d.state = StateIdle
	return d.fail(RC6, kind, st, s, reason)
}

func (d *RC6Decoder) Feed(s Span) (Command, bool, error) {
	switch d.state {
	case StateIdle:
		if !s.Mark {
			return Command{}, false, nil
		}
		if !d.leaderMark.contains(s.Ticks) {
			return Command{}, false, d.failed(ErrHeaderMismatch, s, "leader mark")
		}
		d.state = StateHeaderSpace

	case StateHeaderSpace:
		if s.Mark || !d.leaderSpace.contains(s.Ticks) {
			return Command{}, false, d.failed(ErrHeaderMismatch, s, "leader space")
		}
		d.hb.reset(rc6HalfBits)
		d.state = StateData

	case StateData:
		n := d.q.units(s.Ticks)
		if n == 0 {
			if !s.Mark && s.Ticks >= d.q.gap {
				return Command{}, false, d.failed(ErrFrameLength, s, "frame truncated")
			}
			return Command{}, false, d.failed(ErrDataTiming, s, "half-bit length")
		}
		if !d.hb.push(s.Mark, n) {
			return Command{}, false, d.failed(ErrFrameLength, s, "frame overrun")
		}
		if !d.hb.complete() {
			return Command{}, false, nil
		}
		return d.decode(s)
	}
	return Command{}, false, nil
}

func (d *RC6Decoder) decode(s Span) (Command, bool, error) {
	if start, ok := d.hb.bit(0, true); !ok || !start {
		return Command{}, false, d.failed(ErrHeaderMismatch, s, "start bit")
	}
	var mode uint8
	for i := 0; i < 3; i++ {
		bit, ok := d.hb.bit(rc6ModeOffset+2*i, true)
		if !ok {
			return Command{}, false, d.failed(ErrDataTiming, s, "missing mid-bit transition")
		}
		mode <<= 1
		if bit {
			mode |= 1
		}
	}
	if mode != 0 {
		return Command{}, false, d.failed(ErrHeaderMismatch, s, "unsupported mode")
	}
	t := rc6ToggleOffset
	if d.hb.at(t) != d.hb.at(t+1) || d.hb.at(t+2) != d.hb.at(t+3) || d.hb.at(t) == d.hb.at(t+2) {
		return Command{}, false, d.failed(ErrDataTiming, s, "trailer bit")
	}
	var data uint16
	for i := 0; i < 16; i++ {
		bit, ok := d.hb.bit(rc6DataOffset+2*i, true)
		if !ok {
			return Command{}, false, d.failed(ErrDataTiming, s, "missing mid-bit transition")
		}
		data <<= 1
		if bit {
			data |= 1
		}
	}
	d.state = StateDone
	cmd := Command{
		Protocol: RC6,
		Address:  data >> 8,
		Command:  uint8(data),
		Toggle:   d.hb.at(t),
	}
	cmd.Repeat = d.seen && d.last.Address == cmd.Address &&
		d.last.Command == cmd.Command && d.last.Toggle == cmd.Toggle
	d.last = cmd
	d.seen = true
	d.state = StateIdle
	return cmd, true, nil
}

func (d *RC6Decoder) Reset() {
	d.state = StateIdle
	d.seen = false
}

func (d *RC6Decoder) State() State { return d.state }

func (d *RC6Decoder) Protocol() ProtocolID { return RC6 }
