package irprotocol // import "github.com/neildavis/drivers/irremote/irprotocol"

import (
	"fmt"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

type NECTestData struct {
	Code    uint32
	Address uint16
	Command uint8
}

// Helper function to run NEC raw code decoding tests
func decodeTests(t *testing.T, tests []NECTestData, expectedValid bool) {
	c := qt.New(t)

	for _, data := range tests {
		name := fmt.Sprintf("Decode:Code:%08x Addr:%04x Cmd:%02x",
			data.Code, data.Address, data.Command)
		c.Run(name, func(c *qt.C) {
			valid, addr, cmd := SplitRawNECData(data.Code)
			c.Assert(valid, qt.Equals, expectedValid)
			if valid {
				c.Assert(addr, qt.Equals, data.Address)
				c.Assert(cmd, qt.Equals, data.Command)
			}
		})
	}
}

// Helper function to run NEC raw code encoding tests
func encodeTests(t *testing.T, tests []NECTestData) {
	c := qt.New(t)

	for _, data := range tests {
		name := fmt.Sprintf("Encode:Code:%08x Addr:%04x Cmd:%02x",
			data.Code, data.Address, data.Command)
		c.Run(name, func(c *qt.C) {
			code := MakeRawNECData(data.Address, data.Command)
			c.Assert(code, qt.Equals, data.Code)
		})
	}
}

// Helper function to run the same codes through the span decoder
func spanTests(t *testing.T, tests []NECTestData) {
	c := qt.New(t)

	for _, data := range tests {
		name := fmt.Sprintf("Spans:Code:%08x", data.Code)
		c.Run(name, func(c *qt.C) {
			d, err := NewNEC(Config{SampleRate: 38_000})
			c.Assert(err, qt.IsNil)
			cmds, errs := feedAll(d, Spans(encodePulseDistance(necTiming, data.Code), 38_000))
			c.Assert(errs, qt.HasLen, 0)
			c.Assert(cmds, qt.DeepEquals, []Command{{Protocol: NEC, Address: data.Address, Command: data.Command}})
		})
	}
}

// Tests encoding/decoding NEC raw data code with NEC non-extended (8-bit) addresses
func TestRawNECDataNonExtendedAddr(t *testing.T) {
	tests := []NECTestData{
		{Code: 0xFF00FF00, Address: 0x0000, Command: 0x00},
		{Code: 0x00FFFF00, Address: 0x0000, Command: 0xFF},
		{Code: 0xFF0000FF, Address: 0x00FF, Command: 0x00},
		{Code: 0x00FF00FF, Address: 0x00FF, Command: 0xFF},
		{Code: 0xFF00DF20, Address: 0x0020, Command: 0x00},
		{Code: 0xFF0020DF, Address: 0x00DF, Command: 0x00},
		{Code: 0xDF20FF00, Address: 0x0000, Command: 0x20},
		{Code: 0x20DFFF00, Address: 0x0000, Command: 0xDF},
	}
	decodeTests(t, tests, true)
	encodeTests(t, tests)
	spanTests(t, tests)
}

// Tests encoding/decoding NEC raw data code with NEC extended (16-bit) addresses
func TestRawNECDataExtendedAddr(t *testing.T) {
	tests := []NECTestData{
		{Code: 0xFF000100, Address: 0x0100, Command: 0x00},
		{Code: 0xFF00FE00, Address: 0xFE00, Command: 0x00},
		{Code: 0xFF00F00D, Address: 0xF00D, Command: 0x00},
	}
	decodeTests(t, tests, true)
	encodeTests(t, tests)
	spanTests(t, tests)
}

// Tests decoding NEC raw data code with an invalid command verification
func TestSplitRawNECDataInvalidAddress(t *testing.T) {
	decodeTests(t,
		[]NECTestData{
			// Test single incorrect bit in each position of inverse command
			{Code: 0x01FFFF00, Address: 0x0000, Command: 0xFF},
			{Code: 0x02FFFF00, Address: 0x0000, Command: 0xFF},
			{Code: 0x04FFFF00, Address: 0x0000, Command: 0xFF},
			{Code: 0x08FFFF00, Address: 0x0000, Command: 0xFF},
			{Code: 0x10FFFF00, Address: 0x0000, Command: 0xFF},
			{Code: 0x20FFFF00, Address: 0x0000, Command: 0xFF},
			{Code: 0x40FFFF00, Address: 0x0000, Command: 0xFF},
			{Code: 0x80FFFF00, Address: 0x0000, Command: 0xFF},
			// Test single incorrect bit in each position of command
			{Code: 0xFF01FF00, Address: 0x0000, Command: 0xFF},
			{Code: 0xFF02FF00, Address: 0x0000, Command: 0xFF},
			{Code: 0xFF04FF00, Address: 0x0000, Command: 0xFF},
			{Code: 0xFF08FF00, Address: 0x0000, Command: 0xFF},
			{Code: 0xFF10FF00, Address: 0x0000, Command: 0xFF},
			{Code: 0xFF20FF00, Address: 0x0000, Command: 0xFF},
			{Code: 0xFF40FF00, Address: 0x0000, Command: 0xFF},
			{Code: 0xFF80FF00, Address: 0x0000, Command: 0xFF},
		},
		false)
}

// A frame failing the inverse command check is data corruption
func TestNECInverseCommandMismatch(t *testing.T) {
	c := qt.New(t)
	d, err := NewNEC(Config{SampleRate: 38_000})
	c.Assert(err, qt.IsNil)

	cmds, errs := feedAll(d, Spans(encodePulseDistance(necTiming, 0x01FFFF00), 38_000))
	c.Assert(cmds, qt.HasLen, 0)
	c.Assert(errs, qt.HasLen, 1)
	c.Assert(errs[0], qt.ErrorIs, ErrDataTiming)
	c.Assert(d.State(), qt.Equals, StateIdle)
}

func TestNECRepeatCode(t *testing.T) {
	c := qt.New(t)
	const rate = 20_000
	d, err := NewNEC(Config{SampleRate: rate})
	c.Assert(err, qt.IsNil)

	repeat := mustSpans(c, Command{Protocol: NEC, Repeat: true}, rate)

	// A repeat code with nothing to repeat is dropped silently
	cmds, errs := feedAll(d, repeat)
	c.Assert(cmds, qt.HasLen, 0)
	c.Assert(errs, qt.HasLen, 0)

	press := Command{Protocol: NEC, Address: 0x00, Command: 0x45}
	cmds, errs = feedAll(d, mustSpans(c, press, rate))
	c.Assert(errs, qt.HasLen, 0)
	c.Assert(cmds, qt.DeepEquals, []Command{press})

	held := press
	held.Repeat = true
	for i := 0; i < 3; i++ {
		d.Feed(Span{Mark: false, Ticks: Ticks(NEC_repeat_period, rate)})
		cmds, errs = feedAll(d, repeat)
		c.Assert(errs, qt.HasLen, 0)
		c.Assert(cmds, qt.DeepEquals, []Command{held})
		c.Assert(d.State(), qt.Equals, StateIdle)
	}

	d.Reset()
	cmds, _ = feedAll(d, repeat)
	c.Assert(cmds, qt.HasLen, 0)
}

func TestNECHeaderMismatch(t *testing.T) {
	c := qt.New(t)
	d, err := NewNEC(Config{SampleRate: 20_000})
	c.Assert(err, qt.IsNil)

	_, ok, err := d.Feed(Span{Mark: true, Ticks: Ticks(5*time.Millisecond, 20_000)})
	c.Assert(ok, qt.IsFalse)
	c.Assert(err, qt.ErrorIs, ErrHeaderMismatch)
	c.Assert(d.State(), qt.Equals, StateIdle)

	var de *DecodeError
	c.Assert(err, qt.ErrorAs, &de)
	c.Assert(de.Protocol, qt.Equals, NEC)
	c.Assert(de.State, qt.Equals, StateIdle)

	// Header mark followed by a space matching neither header nor repeat
	_, _, err = d.Feed(Span{Mark: true, Ticks: Ticks(NEC_lead_mark, 20_000)})
	c.Assert(err, qt.IsNil)
	c.Assert(d.State(), qt.Equals, StateHeaderSpace)
	_, _, err = d.Feed(Span{Mark: false, Ticks: Ticks(NEC_unit*12, 20_000)})
	c.Assert(err, qt.ErrorIs, ErrHeaderMismatch)
	c.Assert(d.State(), qt.Equals, StateIdle)
}

func TestNECInvalidConfig(t *testing.T) {
	c := qt.New(t)

	_, err := NewNEC(Config{})
	c.Assert(err, qt.ErrorIs, ErrInvalidSampleRate)
	_, err = NewNEC(Config{SampleRate: 4_000})
	c.Assert(err, qt.ErrorIs, ErrInvalidSampleRate)
	_, err = NewNEC(Config{SampleRate: 20_000, Tolerance: 55})
	c.Assert(err, qt.ErrorIs, ErrInvalidTolerance)
	_, err = NewNEC(Config{SampleRate: 20_000, Tolerance: -1})
	c.Assert(err, qt.ErrorIs, ErrInvalidTolerance)
}
