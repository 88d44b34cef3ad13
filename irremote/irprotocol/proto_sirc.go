package irprotocol

import "time"

// Sony SIRC protocol reference
// https://www.sbprojects.net/knowledge/ir/sirc.php

const (
	// SIRC is modulated at 40 kHz
	SIRC_modulation_frequency = 40_000

	SIRC_unit          = 600 * time.Microsecond
	SIRC_lead_mark     = SIRC_unit * 4 // 2.4 ms
	SIRC_space         = SIRC_unit     // 600 us
	SIRC_bit_0_mark    = SIRC_unit     // 600 us
	SIRC_bit_1_mark    = SIRC_unit * 2 // 1.2 ms
	SIRC_repeat_period = 45 * time.Millisecond
	SIRC_frame_bits    = 12

	sircDefaultTolerance = 25
)

// SIRCDecoder decodes 12-bit Sony SIRC frames. Bits are carried in the mark
// length, LSB first: 7 command bits then 5 address bits. The frame completes
// on its 12th mark.
type SIRCDecoder struct {
	frameError
	lead    window
	space   window
	zero    window
	one     window
	gap     uint32
	repeats repeatDetector

	state      State
	expectMark bool
	data       uint16
	n          int
	idleGap    uint32
	frameGap   uint32
}

// NewSIRC returns a decoder for the 12-bit Sony SIRC protocol
func NewSIRC(cfg Config) (*SIRCDecoder, error) {
	tol := cfg.Tolerance
	if tol == 0 {
		tol = sircDefaultTolerance
	}
	if err := checkTolerance(SIRC, tol); err != nil {
		return nil, err
	}
	if err := checkRate(SIRC, cfg.SampleRate, SIRC_unit); err != nil {
		return nil, err
	}
	rate := cfg.SampleRate
	d := &SIRCDecoder{
		lead:    newWindow(SIRC_lead_mark, rate, tol),
		space:   newWindow(SIRC_space, rate, tol),
		zero:    newWindow(SIRC_bit_0_mark, rate, tol),
		one:     newWindow(SIRC_bit_1_mark, rate, tol),
		gap:     Ticks(SIRC_lead_mark, rate),
		repeats: newRepeatDetector(SIRC_repeat_period, cfg),
	}
	if err := checkDistinct(SIRC, tol, d.zero, d.one); err != nil {
		return nil, err
	}
	if err := checkDistinct(SIRC, tol, d.one, d.lead); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *SIRCDecoder) failed(kind error, s Span, reason string) error {
	st := d.state
	d.reset()
	return d.fail(SIRC, kind, st, s, reason)
}

func (d *SIRCDecoder) reset() {
	d.state = StateIdle
	d.expectMark = false
	d.data = 0
	d.n = 0
}

func (d *SIRCDecoder) Feed(s Span) (Command, bool, error) {
	switch d.state {
	case StateIdle:
		if !s.Mark {
			d.idleGap = s.Ticks
			return Command{}, false, nil
		}
		if !d.lead.contains(s.Ticks) {
			return Command{}, false, d.failed(ErrHeaderMismatch, s, "header mark")
		}
		d.frameGap = d.idleGap
		d.idleGap = 0
		d.state = StateHeaderSpace

	case StateHeaderSpace:
		if s.Mark || !d.space.contains(s.Ticks) {
			return Command{}, false, d.failed(ErrHeaderMismatch, s, "header space")
		}
		d.state = StateData
		d.expectMark = true
		d.data = 0
		d.n = 0

	case StateData:
		if s.Mark != d.expectMark {
			return Command{}, false, d.failed(ErrDataTiming, s, "level out of sequence")
		}
		if !s.Mark {
			switch {
			case d.space.contains(s.Ticks):
				d.expectMark = true
				return Command{}, false, nil
			case s.Ticks >= d.gap:
				return Command{}, false, d.failed(ErrFrameLength, s, "frame truncated")
			}
			return Command{}, false, d.failed(ErrDataTiming, s, "bit space")
		}
		switch {
		case d.zero.contains(s.Ticks):
		case d.one.contains(s.Ticks):
			d.data |= 1 << d.n
		default:
			return Command{}, false, d.failed(ErrDataTiming, s, "bit mark")
		}
		d.n++
		d.expectMark = false
		if d.n < SIRC_frame_bits {
			return Command{}, false, nil
		}
		d.state = StateDone
		cmd := Command{
			Protocol: SIRC,
			Command:  uint8(d.data & 0x7f),
			Address:  (d.data >> 7) & 0x1f,
		}
		d.reset()
		return d.repeats.mark(cmd, d.frameGap), true, nil
	}
	return Command{}, false, nil
}

func (d *SIRCDecoder) Reset() {
	d.reset()
	d.repeats.valid = false
}

func (d *SIRCDecoder) State() State { return d.state }

func (d *SIRCDecoder) Protocol() ProtocolID { return SIRC }
