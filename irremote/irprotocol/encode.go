package irprotocol

import (
	"fmt"
	"time"
)

// Encode renders cmd as alternating mark and space durations, starting and
// ending with a mark. It is used to synthesize reference signals.
// For NEC, a Command with Repeat set encodes a repeat code.
func Encode(cmd Command) ([]time.Duration, error) {
	switch cmd.Protocol {
	case NEC:
		if cmd.Repeat {
			return []time.Duration{NEC_lead_mark, NEC_repeat_space, NEC_trail_mark}, nil
		}
		return encodePulseDistance(necTiming, MakeRawNECData(cmd.Address, cmd.Command)), nil
	case Samsung:
		if cmd.Address > 0xff && byte(cmd.Address) == byte(cmd.Address>>8) {
			return nil, fmt.Errorf("%w: samsung address %#04x has equal bytes", ErrFieldRange, cmd.Address)
		}
		lo, hi := byte(cmd.Address), byte(cmd.Address>>8)
		if cmd.Address <= 0xff {
			hi = lo
		}
		raw := uint32(lo) | uint32(hi)<<8 | uint32(cmd.Command)<<16 | uint32(^cmd.Command)<<24
		return encodePulseDistance(samsungTiming, raw), nil
	case SIRC:
		if cmd.Address > 0x1f || cmd.Command > 0x7f {
			return nil, fmt.Errorf("%w: sirc addr=%#x cmd=%#x", ErrFieldRange, cmd.Address, cmd.Command)
		}
		return encodeSIRC(cmd), nil
	case RC5:
		if cmd.Address > 0x1f || cmd.Command > 0x7f {
			return nil, fmt.Errorf("%w: rc5 addr=%#x cmd=%#x", ErrFieldRange, cmd.Address, cmd.Command)
		}
		return encodeRC5(cmd), nil
	case RC6:
		if cmd.Address > 0xff {
			return nil, fmt.Errorf("%w: rc6 addr=%#x", ErrFieldRange, cmd.Address)
		}
		return encodeRC6(cmd), nil
	}
	return nil, fmt.Errorf("irprotocol: cannot encode %s", cmd.Protocol)
}

func encodePulseDistance(t pulseDistanceTiming, raw uint32) []time.Duration {
	out := make([]time.Duration, 0, 2+2*t.bits+1)
	out = append(out, t.headerMark, t.headerSpace)
	// bits are sent LSB first
	for i := 0; i < t.bits; i++ {
		out = append(out, t.bitMark)
		if raw&(1<<i) == 0 {
			out = append(out, t.zeroSpace)
		} else {
			out = append(out, t.oneSpace)
		}
	}
	return append(out, t.bitMark)
}

func encodeSIRC(cmd Command) []time.Duration {
	data := uint16(cmd.Command) | cmd.Address<<7
	out := make([]time.Duration, 0, 1+2*SIRC_frame_bits)
	out = append(out, SIRC_lead_mark)
	for i := 0; i < SIRC_frame_bits; i++ {
		out = append(out, SIRC_space)
		if data&(1<<i) == 0 {
			out = append(out, SIRC_bit_0_mark)
		} else {
			out = append(out, SIRC_bit_1_mark)
		}
	}
	return out
}

func encodeRC5(cmd Command) []time.Duration {
	data := uint16(1)<<13 | uint16(cmd.Address&0x1f)<<6 | uint16(cmd.Command&0x3f)
	if cmd.Command&0x40 == 0 {
		data |= 1 << 12
	}
	if cmd.Toggle {
		data |= 1 << 11
	}
	levels := make([]bool, 0, rc5HalfBits)
	for i := RC5_frame_bits - 1; i >= 0; i-- {
		one := data&(1<<i) != 0
		levels = append(levels, !one, one)
	}
	return runs(levels, RC5_unit)
}

func encodeRC6(cmd Command) []time.Duration {
	levels := make([]bool, 0, rc6HalfBits)
	levels = append(levels, true, false) // start bit
	for i := 0; i < 3; i++ {
		levels = append(levels, false, true) // mode 0
	}
	t := cmd.Toggle
	levels = append(levels, t, t, !t, !t)
	data := cmd.Address<<8 | uint16(cmd.Command)
	for i := 15; i >= 0; i-- {
		one := data&(1<<i) != 0
		levels = append(levels, one, !one)
	}
	return append([]time.Duration{RC6_leader_mark, RC6_leader_space}, runs(levels, RC6_unit)...)
}

// runs merges equal adjacent half-bit levels into durations. Leading and
// trailing spaces are part of the idle line and are dropped.
func runs(levels []bool, unit time.Duration) []time.Duration {
	for len(levels) > 0 && !levels[0] {
		levels = levels[1:]
	}
	for len(levels) > 0 && !levels[len(levels)-1] {
		levels = levels[:len(levels)-1]
	}
	var out []time.Duration
	for i := 0; i < len(levels); {
		j := i
		for j < len(levels) && levels[j] == levels[i] {
			j++
		}
		out = append(out, time.Duration(j-i)*unit)
		i = j
	}
	return out
}

// Spans quantizes alternating mark/space durations to sample ticks at rate.
// Edge times are rounded cumulatively so rounding errors do not accumulate.
func Spans(pulses []time.Duration, rate uint32) []Span {
	out := make([]Span, 0, len(pulses))
	var elapsed time.Duration
	var edge uint32
	for i, d := range pulses {
		elapsed += d
		next := Ticks(elapsed, rate)
		out = append(out, Span{Mark: i%2 == 0, Ticks: next - edge})
		edge = next
	}
	return out
}
