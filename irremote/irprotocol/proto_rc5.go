package irprotocol

import "time"

// Philips RC5 protocol reference
// https://www.sbprojects.net/knowledge/ir/rc5.php

const (
	RC5_modulation_frequency = 36_000

	RC5_unit       = 889 * time.Microsecond // half a bit
	RC5_frame_bits = 14

	rc5DefaultTolerance = 35
	rc5HalfBits         = RC5_frame_bits * 2
)

// RC5Decoder decodes 14-bit RC5 and RC5X frames. A one is a space followed
// by a mark; the first half of the first start bit is indistinguishable
// from idle, so frames begin with a mark.
//
// RC5 has no header, so after an error the decoder waits for an idle gap
// before it accepts a new start bit.
type RC5Decoder struct {
	frameError
	q  unitQuantizer
	hb halfBits

	state  State
	synced bool
	last   Command
	seen   bool
}

// NewRC5 returns a decoder for the RC5 protocol
func NewRC5(cfg Config) (*RC5Decoder, error) {
	tol := cfg.Tolerance
	if tol == 0 {
		tol = rc5DefaultTolerance
	}
	if err := checkUnitTolerance(RC5, tol); err != nil {
		return nil, err
	}
	if err := checkRate(RC5, cfg.SampleRate, RC5_unit); err != nil {
		return nil, err
	}
	return &RC5Decoder{q: newUnitQuantizer(RC5_unit, cfg.SampleRate, tol, 2), synced: true}, nil
}

func (d *RC5Decoder) failed(kind error, s Span, reason string) error {
	st := d.state
	d.state = StateIdle
	d.synced = false
	return d.fail(RC5, kind, st, s, reason)
}

func (d *RC5Decoder) Feed(s Span) (Command, bool, error) {
	n := d.q.units(s.Ticks)
	switch d.state {
	case StateIdle:
		if !s.Mark {
			if s.Ticks >= d.q.gap {
				d.synced = true
			}
			return Command{}, false, nil
		}
		if !d.synced {
			return Command{}, false, nil
		}
		if n == 0 {
			return Command{}, false, d.failed(ErrHeaderMismatch, s, "start bit")
		}
		d.hb.reset(rc5HalfBits)
		d.hb.push(false, 1)
		d.hb.push(true, n)
		d.state = StateData
		return Command{}, false, nil

	case StateData:
		if n == 0 {
			if !s.Mark && s.Ticks >= d.q.gap {
				err := d.failed(ErrFrameLength, s, "frame truncated")
				d.synced = true
				return Command{}, false, err
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

func (d *RC5Decoder) decode(s Span) (Command, bool, error) {
	var data uint16
	for i := 0; i < RC5_frame_bits; i++ {
		bit, ok := d.hb.bit(2*i, false)
		if !ok {
			return Command{}, false, d.failed(ErrDataTiming, s, "missing mid-bit transition")
		}
		data <<= 1
		if bit {
			data |= 1
		}
	}
	d.state = StateDone
	// S1 S2 T A4..A0 C5..C0, with S2 inverted as command bit 6
	cmd := Command{
		Protocol: RC5,
		Toggle:   data&(1<<11) != 0,
		Address:  (data >> 6) & 0x1f,
		Command:  uint8(data & 0x3f),
	}
	if data&(1<<12) == 0 {
		cmd.Command |= 0x40
	}
	cmd.Repeat = d.seen && d.last.Address == cmd.Address &&
		d.last.Command == cmd.Command && d.last.Toggle == cmd.Toggle
	d.last = cmd
	d.seen = true
	d.state = StateIdle
	return cmd, true, nil
}

func (d *RC5Decoder) Reset() {
	d.state = StateIdle
	d.synced = true
	d.seen = false
}

func (d *RC5Decoder) State() State { return d.state }

func (d *RC5Decoder) Protocol() ProtocolID { return RC5 }
