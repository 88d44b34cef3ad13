package irprotocol

import (
	"fmt"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

// feedAll feeds spans to d, collecting every command and a copy of every error
func feedAll(d Decoder, spans []Span) (cmds []Command, errs []error) {
	for _, s := range spans {
		cmd, ok, err := d.Feed(s)
		if err != nil {
			de := *err.(*DecodeError)
			errs = append(errs, &de)
		}
		if ok {
			cmds = append(cmds, cmd)
		}
	}
	return cmds, errs
}

func mustSpans(c *qt.C, cmd Command, rate uint32) []Span {
	pulses, err := Encode(cmd)
	c.Assert(err, qt.IsNil)
	return Spans(pulses, rate)
}

func gap(rate uint32) Span {
	return Span{Mark: false, Ticks: Ticks(200*time.Millisecond, rate)}
}

var testCommands = []Command{
	{Protocol: NEC, Address: 0x04, Command: 0x08},
	{Protocol: NEC, Address: 0xF00D, Command: 0xA5},
	{Protocol: Samsung, Address: 0x07, Command: 0x02},
	{Protocol: Samsung, Address: 0x0E07, Command: 0xFF},
	{Protocol: SIRC, Address: 0x01, Command: 21},
	{Protocol: SIRC, Address: 0x1F, Command: 0x7F},
	{Protocol: RC5, Address: 0x00, Command: 12},
	{Protocol: RC5, Address: 0x1F, Command: 0x7F, Toggle: true},
	{Protocol: RC5, Address: 0x05, Command: 0x40},
	{Protocol: RC6, Address: 0x00, Command: 12},
	{Protocol: RC6, Address: 0xFF, Command: 0xFF, Toggle: true},
	{Protocol: RC6, Address: 0x80, Command: 0x01},
}

var testRates = []uint32{20_000, 38_000, 100_000}

func TestDecodeValidFrames(t *testing.T) {
	c := qt.New(t)

	for _, rate := range testRates {
		for _, want := range testCommands {
			c.Run(fmt.Sprintf("%d/%s", rate, want), func(c *qt.C) {
				d, err := New(want.Protocol, Config{SampleRate: rate})
				c.Assert(err, qt.IsNil)
				c.Assert(d.Protocol(), qt.Equals, want.Protocol)

				spans := mustSpans(c, want, rate)
				for i, s := range spans {
					cmd, ok, err := d.Feed(s)
					c.Assert(err, qt.IsNil, qt.Commentf("span %d %s", i, s))
					if i < len(spans)-1 {
						c.Assert(ok, qt.IsFalse, qt.Commentf("span %d", i))
						c.Assert(d.State(), qt.Not(qt.Equals), StateIdle)
						continue
					}
					c.Assert(ok, qt.IsTrue)
					c.Assert(cmd, qt.Equals, want)
				}
				c.Assert(d.State(), qt.Equals, StateIdle)
			})
		}
	}
}

// Two separate presses of the same key decode independently
func TestDecodeTwoPresses(t *testing.T) {
	c := qt.New(t)
	const rate = 38_000

	for _, first := range testCommands {
		c.Run(first.String(), func(c *qt.C) {
			d, err := New(first.Protocol, Config{SampleRate: rate})
			c.Assert(err, qt.IsNil)

			second := first
			second.Toggle = first.Toggle != (first.Protocol == RC5 || first.Protocol == RC6)

			var spans []Span
			spans = append(spans, mustSpans(c, first, rate)...)
			spans = append(spans, gap(rate))
			spans = append(spans, mustSpans(c, second, rate)...)

			cmds, errs := feedAll(d, spans)
			c.Assert(errs, qt.HasLen, 0)
			c.Assert(cmds, qt.DeepEquals, []Command{first, second})
			c.Assert(d.State(), qt.Equals, StateIdle)
		})
	}
}

// Frames resent while a key is held are flagged as repeats
func TestDecodeHeldKey(t *testing.T) {
	c := qt.New(t)
	const rate = 38_000

	held := map[ProtocolID]time.Duration{
		Samsung: 40 * time.Millisecond,
		SIRC:    20 * time.Millisecond,
		RC5:     90 * time.Millisecond,
		RC6:     90 * time.Millisecond,
	}
	for _, want := range testCommands {
		pause, ok := held[want.Protocol]
		if !ok {
			continue
		}
		c.Run(want.String(), func(c *qt.C) {
			d, err := New(want.Protocol, Config{SampleRate: rate})
			c.Assert(err, qt.IsNil)

			frame := mustSpans(c, want, rate)
			var spans []Span
			for i := 0; i < 3; i++ {
				spans = append(spans, frame...)
				spans = append(spans, Span{Mark: false, Ticks: Ticks(pause, rate)})
			}
			cmds, errs := feedAll(d, spans)
			c.Assert(errs, qt.HasLen, 0)
			c.Assert(cmds, qt.HasLen, 3)
			c.Assert(cmds[0].Repeat, qt.IsFalse)
			c.Assert(cmds[1].Repeat, qt.IsTrue)
			c.Assert(cmds[2].Repeat, qt.IsTrue)
		})
	}
}

// corrupt moves a span outside every timing window it could match
func corrupt(p ProtocolID, i int, s Span, rate uint32) Span {
	switch {
	case p == RC5:
		s.Ticks += Ticks(RC5_unit/2, rate)
	case p == RC6 && i >= 2:
		s.Ticks += Ticks(RC6_unit/2, rate)
	case p == RC6:
		s.Ticks = s.Ticks * 3 / 2
	default:
		s.Ticks = s.Ticks * 7 / 5
	}
	return s
}

func TestDecodeOutOfTolerance(t *testing.T) {
	c := qt.New(t)
	const rate = 100_000

	for _, want := range testCommands {
		spans := mustSpans(c, want, rate)
		for i := range spans {
			c.Run(fmt.Sprintf("%s/span%d", want, i), func(c *qt.C) {
				d, err := New(want.Protocol, Config{SampleRate: rate})
				c.Assert(err, qt.IsNil)

				bad := append([]Span(nil), spans...)
				bad[i] = corrupt(want.Protocol, i, bad[i], rate)

				var errs int
				for j, s := range bad {
					_, ok, err := d.Feed(s)
					c.Assert(ok, qt.IsFalse, qt.Commentf("span %d", j))
					if err != nil {
						errs++
						c.Assert(d.State(), qt.Equals, StateIdle)
						c.Assert(Kind(err), qt.Not(qt.Equals), "")
					}
				}
				c.Assert(errs > 0, qt.IsTrue)

				// The decoder recovers for the next transmission
				cmds, errs2 := feedAll(d, append([]Span{gap(rate)}, spans...))
				c.Assert(errs2, qt.HasLen, 0)
				c.Assert(cmds, qt.HasLen, 1)
				c.Assert(cmds[0].Address, qt.Equals, want.Address)
				c.Assert(cmds[0].Command, qt.Equals, want.Command)
			})
		}
	}
}

func TestDecodeZeroLengthDataSpan(t *testing.T) {
	c := qt.New(t)
	const rate = 20_000

	for _, want := range testCommands {
		c.Run(want.String(), func(c *qt.C) {
			d, err := New(want.Protocol, Config{SampleRate: rate})
			c.Assert(err, qt.IsNil)

			spans := mustSpans(c, want, rate)
			spans[3].Ticks = 0
			cmds, errs := feedAll(d, spans[:4])
			c.Assert(cmds, qt.HasLen, 0)
			c.Assert(errs, qt.HasLen, 1)
			c.Assert(errs[0], qt.ErrorIs, ErrDataTiming)
			c.Assert(d.State(), qt.Equals, StateIdle)
		})
	}
}

// A frame cut short stays in progress until a long gap closes it
func TestDecodeTruncatedFrame(t *testing.T) {
	c := qt.New(t)
	const rate = 38_000

	for _, want := range testCommands {
		c.Run(want.String(), func(c *qt.C) {
			d, err := New(want.Protocol, Config{SampleRate: rate})
			c.Assert(err, qt.IsNil)

			spans := mustSpans(c, want, rate)
			cut := 2*(len(spans)/4) + 1
			cmds, errs := feedAll(d, spans[:cut])
			c.Assert(cmds, qt.HasLen, 0)
			c.Assert(errs, qt.HasLen, 0)
			c.Assert(d.State(), qt.Not(qt.Equals), StateIdle)

			_, ok, err := d.Feed(gap(rate))
			c.Assert(ok, qt.IsFalse)
			c.Assert(err, qt.ErrorIs, ErrFrameLength)
			c.Assert(d.State(), qt.Equals, StateIdle)

			cmds, errs = feedAll(d, spans)
			c.Assert(errs, qt.HasLen, 0)
			c.Assert(cmds, qt.DeepEquals, []Command{want})
		})
	}
}

// RC6 frames in modes other than 0 are rejected as a header mismatch
func TestRC6UnsupportedMode(t *testing.T) {
	c := qt.New(t)
	const rate = 100_000

	levels := []bool{true, false}
	levels = append(levels, true, false, true, false, false, true) // mode 6
	levels = append(levels, false, false, true, true)
	for i := 0; i < 16; i++ {
		levels = append(levels, true, false)
	}
	pulses := append([]time.Duration{RC6_leader_mark, RC6_leader_space}, runs(levels, RC6_unit)...)

	d, err := NewRC6(Config{SampleRate: rate})
	c.Assert(err, qt.IsNil)
	cmds, errs := feedAll(d, Spans(pulses, rate))
	c.Assert(cmds, qt.HasLen, 0)
	c.Assert(errs, qt.HasLen, 1)
	c.Assert(errs[0], qt.ErrorIs, ErrHeaderMismatch)
}

func TestConstructorsRejectSlowSampleRates(t *testing.T) {
	c := qt.New(t)

	for _, p := range []ProtocolID{NEC, Samsung, SIRC, RC5, RC6} {
		_, err := New(p, Config{})
		c.Assert(err, qt.ErrorIs, ErrInvalidSampleRate)
		_, err = New(p, Config{SampleRate: 2_000})
		c.Assert(err, qt.ErrorIs, ErrInvalidSampleRate)
	}
	_, err := New(Unknown, Config{SampleRate: 20_000})
	c.Assert(err, qt.ErrorMatches, "irprotocol: no decoder for unknown")
	_, err = NewRC5(Config{SampleRate: 20_000, Tolerance: 50})
	c.Assert(err, qt.ErrorIs, ErrInvalidTolerance)
	_, err = NewSIRC(Config{SampleRate: 20_000, Tolerance: 40})
	c.Assert(err, qt.ErrorIs, ErrInvalidTolerance)
}

func TestEncodeFieldRange(t *testing.T) {
	c := qt.New(t)

	for _, cmd := range []Command{
		{Protocol: SIRC, Address: 0x20},
		{Protocol: SIRC, Command: 0x80},
		{Protocol: RC5, Address: 0x20},
		{Protocol: RC5, Command: 0x80},
		{Protocol: RC6, Address: 0x100},
		{Protocol: Samsung, Address: 0x0707},
	} {
		_, err := Encode(cmd)
		c.Assert(err, qt.ErrorIs, ErrFieldRange, qt.Commentf("%s", cmd))
	}
}

func TestParseProtocol(t *testing.T) {
	c := qt.New(t)

	for _, p := range []ProtocolID{NEC, Samsung, SIRC, RC5, RC6} {
		got, err := ParseProtocol(p.String())
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.Equals, p)
	}
	got, err := ParseProtocol(" RC6 ")
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, RC6)
	_, err = ParseProtocol("unknown")
	c.Assert(err, qt.IsNotNil)
}

func TestKind(t *testing.T) {
	c := qt.New(t)

	c.Assert(Kind(&DecodeError{Kind: ErrHeaderMismatch}), qt.Equals, "header")
	c.Assert(Kind(&DecodeError{Kind: ErrDataTiming}), qt.Equals, "data")
	c.Assert(Kind(fmt.Errorf("wrapped: %w", &DecodeError{Kind: ErrFrameLength})), qt.Equals, "length")
	c.Assert(Kind(ErrInvalidSampleRate), qt.Equals, "")
}

// At 20 kHz the RC6 leader is a 53 tick mark and an 18 tick space
func TestRC6LeaderTicks(t *testing.T) {
	c := qt.New(t)
	const rate = 20_000
	want := Command{Protocol: RC6, Address: 0, Command: 12}

	spans := mustSpans(c, want, rate)
	c.Assert(spans[:2], qt.DeepEquals, []Span{{Mark: true, Ticks: 53}, {Mark: false, Ticks: 18}})

	d, err := NewRC6(Config{SampleRate: rate})
	c.Assert(err, qt.IsNil)
	cmds, errs := feedAll(d, spans)
	c.Assert(errs, qt.HasLen, 0)
	c.Assert(cmds, qt.DeepEquals, []Command{want})
	c.Assert(d.State(), qt.Equals, StateIdle)

	// the same leader followed by a span with no recorded duration
	corrupt := append([]Span{}, spans[:2]...)
	corrupt = append(corrupt, Span{Mark: true, Ticks: 0})
	cmds, errs = feedAll(d, corrupt)
	c.Assert(cmds, qt.HasLen, 0)
	c.Assert(errs, qt.HasLen, 1)
	c.Assert(errs[0], qt.ErrorIs, ErrDataTiming)
	c.Assert(d.State(), qt.Equals, StateIdle)
}
