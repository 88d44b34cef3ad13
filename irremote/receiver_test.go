package irremote

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/neildavis/drivers/irremote/irprotocol"
	"github.com/neildavis/drivers/irremote/remotes"
)

const sampleRate = 20_000

var rc6Power = irprotocol.Command{Protocol: irprotocol.RC6, Address: 0, Command: 12}

func newRC6Receiver(c *qt.C, pin Pin) *Receiver {
	dec, err := irprotocol.NewRC6(irprotocol.Config{SampleRate: sampleRate})
	c.Assert(err, qt.IsNil)
	rx, err := NewReceiver(ReceiverConfig{Decoder: dec, Pin: pin, ActiveLow: true})
	c.Assert(err, qt.IsNil)
	return rx
}

// synthesize returns the output of an active-low receiver for frames
func synthesize(c *qt.C, frames ...Frame) []bool {
	marks, err := Synthesize(frames, sampleRate, 20*time.Millisecond)
	c.Assert(err, qt.IsNil)
	levels := make([]bool, len(marks))
	for i, m := range marks {
		levels[i] = !m
	}
	return levels
}

func run(c *qt.C, rx *Receiver, levels []bool, start uint32) (cmds []irprotocol.Command, errs []error) {
	index := start
	for _, level := range levels {
		cmd, ok, err := rx.Sample(level, index)
		if err != nil {
			errs = append(errs, err)
		}
		if ok {
			cmds = append(cmds, cmd)
		}
		index++
	}
	return cmds, errs
}

func TestReceiverDecodesRC6(t *testing.T) {
	c := qt.New(t)
	rx := newRC6Receiver(c, nil)
	c.Assert(rx.Protocol(), qt.Equals, irprotocol.RC6)

	levels := synthesize(c, Frame{Command: rc6Power, Gap: 100 * time.Millisecond})
	cmds, errs := run(c, rx, levels, 0)
	c.Assert(errs, qt.HasLen, 0)
	c.Assert(cmds, qt.DeepEquals, []irprotocol.Command{rc6Power})
}

func TestReceiverMapsRC6PowerButton(t *testing.T) {
	c := qt.New(t)
	rx := newRC6Receiver(c, nil)

	var buttons []remotes.StandardButton
	for i, level := range synthesize(c, Frame{Command: rc6Power, Gap: 100 * time.Millisecond}) {
		b, ok, err := rx.SampleAsButton(remotes.PhilipsTV, level, uint32(i))
		c.Assert(err, qt.IsNil)
		if ok {
			buttons = append(buttons, b)
		}
	}
	c.Assert(buttons, qt.DeepEquals, []remotes.StandardButton{remotes.Power})
}

// Unmapped commands are decoded but produce no button
func TestReceiverUnmappedCommand(t *testing.T) {
	c := qt.New(t)
	rx := newRC6Receiver(c, nil)

	cmd := irprotocol.Command{Protocol: irprotocol.RC6, Address: 0, Command: 200}
	var buttons int
	for i, level := range synthesize(c, Frame{Command: cmd, Gap: 100 * time.Millisecond}) {
		_, ok, err := rx.SampleAsButton(remotes.PhilipsTV, level, uint32(i))
		c.Assert(err, qt.IsNil)
		if ok {
			buttons++
		}
	}
	c.Assert(buttons, qt.Equals, 0)
}

// A one-sample glitch inside the data corrupts the frame without
// disturbing the next one
func TestReceiverGlitchedFrame(t *testing.T) {
	c := qt.New(t)
	rx := newRC6Receiver(c, nil)

	first := synthesize(c, Frame{Command: rc6Power, Gap: 100 * time.Millisecond})
	// 20 ms lead, 3.552 ms leader and the start bit, then the mode bits
	glitch := int(irprotocol.Ticks(20*time.Millisecond+3552*time.Microsecond+2*irprotocol.RC6_unit, sampleRate)) + 3
	first[glitch] = !first[glitch]

	cmds, errs := run(c, rx, first, 0)
	c.Assert(cmds, qt.HasLen, 0)
	c.Assert(errs, qt.Not(qt.HasLen), 0)
	c.Assert(errs[0], qt.ErrorIs, irprotocol.ErrDataTiming)

	cmds, errs = run(c, rx, synthesize(c, Frame{Command: rc6Power, Gap: 100 * time.Millisecond}), uint32(len(first)))
	c.Assert(errs, qt.HasLen, 0)
	c.Assert(cmds, qt.HasLen, 1)
	c.Assert(cmds[0].Command, qt.Equals, rc6Power.Command)
}

// Missed timer ticks and counter wrap-around do not affect decoding
func TestReceiverMissedSamplesAndWrap(t *testing.T) {
	c := qt.New(t)
	rx := newRC6Receiver(c, nil)

	next := irprotocol.Command{Protocol: irprotocol.RC6, Address: 0, Command: 76, Toggle: true}
	levels := synthesize(c,
		Frame{Command: rc6Power, Gap: 100 * time.Millisecond},
		Frame{Command: next, Gap: 100 * time.Millisecond},
	)
	var cmds []irprotocol.Command
	index := uint32(0xFFFFFFFF - 1000)
	for i, level := range levels {
		if i%7 != 3 {
			cmd, ok, err := rx.Sample(level, index)
			c.Assert(err, qt.IsNil)
			if ok {
				cmds = append(cmds, cmd)
			}
		}
		index++
	}
	c.Assert(cmds, qt.DeepEquals, []irprotocol.Command{rc6Power, next})
}

func TestReceiverDecodesEveryProtocol(t *testing.T) {
	c := qt.New(t)

	for _, cmd := range []irprotocol.Command{
		{Protocol: irprotocol.NEC, Address: 0x00, Command: 0x45},
		{Protocol: irprotocol.Samsung, Address: 0x07, Command: 0x02},
		{Protocol: irprotocol.SIRC, Address: 0x01, Command: 0x15},
		{Protocol: irprotocol.RC5, Address: 0x00, Command: 0x0C, Toggle: true},
		{Protocol: irprotocol.RC6, Address: 0x00, Command: 0x0C},
	} {
		c.Run(cmd.Protocol.String(), func(c *qt.C) {
			dec, err := irprotocol.New(cmd.Protocol, irprotocol.Config{SampleRate: sampleRate})
			c.Assert(err, qt.IsNil)
			rx, err := NewReceiver(ReceiverConfig{Decoder: dec, ActiveLow: true})
			c.Assert(err, qt.IsNil)

			cmds, errs := run(c, rx, synthesize(c, Frame{Command: cmd, Gap: 100 * time.Millisecond}), 0)
			c.Assert(errs, qt.HasLen, 0)
			c.Assert(cmds, qt.DeepEquals, []irprotocol.Command{cmd})
		})
	}
}

type fakePin struct {
	levels []bool
	pos    int
}

func (p *fakePin) Get() bool {
	level := p.levels[p.pos]
	p.pos++
	return level
}

func TestReceiverTick(t *testing.T) {
	c := qt.New(t)
	pin := &fakePin{levels: synthesize(c, Frame{Command: rc6Power, Gap: 100 * time.Millisecond})}
	rx := newRC6Receiver(c, pin)

	var buttons []remotes.StandardButton
	for i := range pin.levels {
		b, ok, err := rx.TickAsButton(remotes.PhilipsTV, uint32(i))
		c.Assert(err, qt.IsNil)
		if ok {
			buttons = append(buttons, b)
		}
	}
	c.Assert(buttons, qt.DeepEquals, []remotes.StandardButton{remotes.Power})
}

func TestReceiverConfigErrors(t *testing.T) {
	c := qt.New(t)

	_, err := NewReceiver(ReceiverConfig{})
	c.Assert(err, qt.Equals, ErrNoDecoder)

	rx := newRC6Receiver(c, nil)
	_, _, err = rx.Tick(0)
	c.Assert(err, qt.Equals, ErrNoPin)
	_, _, err = rx.TickAsButton(remotes.PhilipsTV, 0)
	c.Assert(err, qt.Equals, ErrNoPin)
}
