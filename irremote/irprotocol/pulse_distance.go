package irprotocol

import "time"

// pulseDistanceTiming describes a protocol that encodes bits in the length of
// the space following a fixed mark, ending the frame with a stop mark
type pulseDistanceTiming struct {
	headerMark  time.Duration
	headerSpace time.Duration
	repeatSpace time.Duration // zero when the protocol has no repeat frame
	bitMark     time.Duration
	zeroSpace   time.Duration
	oneSpace    time.Duration
	gap         time.Duration // spaces this long during data end the frame
	bits        int
}

// pulseDistance is the frame state machine shared by NEC and Samsung. It
// collects bits LSB first.
type pulseDistance struct {
	frameError
	id ProtocolID

	headerMark  window
	headerSpace window
	repeatSpace window
	hasRepeat   bool
	bitMark     window
	zeroSpace   window
	oneSpace    window
	gap         uint32
	bits        int

	state      State
	expectMark bool
	repeat     bool
	data       uint32
	n          int

	idleGap  uint32 // length of the last idle space
	frameGap uint32 // idle space that preceded the current frame
}

func newPulseDistance(id ProtocolID, t pulseDistanceTiming, cfg Config, defaultTolerance int) (pulseDistance, error) {
	tol := cfg.Tolerance
	if tol == 0 {
		tol = defaultTolerance
	}
	if err := checkTolerance(id, tol); err != nil {
		return pulseDistance{}, err
	}
	if err := checkRate(id, cfg.SampleRate, t.bitMark); err != nil {
		return pulseDistance{}, err
	}
	rate := cfg.SampleRate
	p := pulseDistance{
		id:          id,
		headerMark:  newWindow(t.headerMark, rate, tol),
		headerSpace: newWindow(t.headerSpace, rate, tol),
		bitMark:     newWindow(t.bitMark, rate, tol),
		zeroSpace:   newWindow(t.zeroSpace, rate, tol),
		oneSpace:    newWindow(t.oneSpace, rate, tol),
		gap:         Ticks(t.gap, rate),
		bits:        t.bits,
	}
	if err := checkDistinct(id, tol, p.zeroSpace, p.oneSpace); err != nil {
		return pulseDistance{}, err
	}
	if t.repeatSpace > 0 {
		p.hasRepeat = true
		p.repeatSpace = newWindow(t.repeatSpace, rate, tol)
		if err := checkDistinct(id, tol, p.repeatSpace, p.headerSpace); err != nil {
			return pulseDistance{}, err
		}
	}
	return p, nil
}

func (p *pulseDistance) reset() {
	p.state = StateIdle
	p.expectMark = false
	p.repeat = false
	p.data = 0
	p.n = 0
}

func (p *pulseDistance) failed(kind error, s Span, reason string) error {
	st := p.state
	p.reset()
	return p.fail(p.id, kind, st, s, reason)
}

// feed advances the frame. done is true when a full frame or a repeat frame
// has been received; raw holds the frame's bits LSB first.
func (p *pulseDistance) feed(s Span) (raw uint32, repeat, done bool, err error) {
	switch p.state {
	case StateIdle:
		if !s.Mark {
			p.idleGap = s.Ticks
			return 0, false, false, nil
		}
		if !p.headerMark.contains(s.Ticks) {
			return 0, false, false, p.failed(ErrHeaderMismatch, s, "header mark")
		}
		p.frameGap = p.idleGap
		p.idleGap = 0
		p.state = StateHeaderSpace

	case StateHeaderSpace:
		switch {
		case s.Mark:
			return 0, false, false, p.failed(ErrHeaderMismatch, s, "expected header space")
		case p.headerSpace.contains(s.Ticks):
			p.state = StateData
			p.expectMark = true
			p.data = 0
			p.n = 0
		case p.hasRepeat && p.repeatSpace.contains(s.Ticks):
			p.state = StateTrailer
			p.repeat = true
		default:
			return 0, false, false, p.failed(ErrHeaderMismatch, s, "header space")
		}

	case StateData:
		if s.Mark != p.expectMark {
			return 0, false, false, p.failed(ErrDataTiming, s, "level out of sequence")
		}
		if s.Mark {
			if !p.bitMark.contains(s.Ticks) {
				return 0, false, false, p.failed(ErrDataTiming, s, "bit mark")
			}
			p.expectMark = false
			return 0, false, false, nil
		}
		switch {
		case p.zeroSpace.contains(s.Ticks):
		case p.oneSpace.contains(s.Ticks):
			p.data |= 1 << p.n
		case s.Ticks >= p.gap:
			return 0, false, false, p.failed(ErrFrameLength, s, "frame truncated")
		default:
			return 0, false, false, p.failed(ErrDataTiming, s, "bit space")
		}
		p.n++
		p.expectMark = true
		if p.n == p.bits {
			p.state = StateTrailer
		}

	case StateTrailer:
		if !s.Mark || !p.bitMark.contains(s.Ticks) {
			return 0, false, false, p.failed(ErrDataTiming, s, "stop mark")
		}
		p.state = StateDone
		raw, repeat = p.data, p.repeat
		p.reset()
		return raw, repeat, true, nil
	}
	return 0, false, false, nil
}

// repeatDetector flags frames of protocols that resend the full frame while
// a key is held: a frame equal to the previous one that follows it within
// one frame period is a repeat.
type repeatDetector struct {
	last   Command
	valid  bool
	period uint32
}

func newRepeatDetector(period time.Duration, cfg Config) repeatDetector {
	if cfg.RepeatPeriod > 0 {
		period = cfg.RepeatPeriod
	}
	return repeatDetector{period: Ticks(period, cfg.SampleRate)}
}

func (r *repeatDetector) mark(cmd Command, gap uint32) Command {
	cmd.Repeat = r.valid && gap > 0 && gap < r.period &&
		r.last.Address == cmd.Address && r.last.Command == cmd.Command
	r.last = cmd
	r.valid = true
	return cmd
}
