package irprotocol

import "time"

// NEC protocol references
// https://www.sbprojects.net/knowledge/ir/nec.php
// https://techdocs.altium.com/display/FPGA/NEC+Infrared+Transmission+Protocol

const (
	// NEC Consumer IR is modulated at 38 kHz
	NEC_modulation_frequency = 38_000

	NEC_unit          = time.Nanosecond * 562_500 // 562.5 us
	NEC_lead_mark     = NEC_unit * 16             // 9 ms
	NEC_lead_space    = NEC_unit * 8              // 4.5 ms
	NEC_repeat_space  = NEC_unit * 4              // 2.25 ms
	NEC_bit_mark      = NEC_unit                  // 562.5 us
	NEC_bit_0_space   = NEC_unit                  // 562.5 us
	NEC_bit_1_space   = NEC_unit * 3              // 1.687 ms
	NEC_trail_mark    = NEC_unit                  // 562 us
	NEC_repeat_period = NEC_unit * 192            // 108 ms
	NEC_frame_bits    = 32

	necDefaultTolerance = 30
)

var necTiming = pulseDistanceTiming{
	headerMark:  NEC_lead_mark,
	headerSpace: NEC_lead_space,
	repeatSpace: NEC_repeat_space,
	bitMark:     NEC_bit_mark,
	zeroSpace:   NEC_bit_0_space,
	oneSpace:    NEC_bit_1_space,
	gap:         NEC_lead_space,
	bits:        NEC_frame_bits,
}

// NECDecoder decodes NEC and extended NEC frames and NEC repeat codes
type NECDecoder struct {
	pd   pulseDistance
	last Command
	seen bool
}

// NewNEC returns a decoder for the NEC protocol
func NewNEC(cfg Config) (*NECDecoder, error) {
	pd, err := newPulseDistance(NEC, necTiming, cfg, necDefaultTolerance)
	if err != nil {
		return nil, err
	}
	return &NECDecoder{pd: pd}, nil
}

// Feed implements Decoder.
// A repeat code yields the last decoded command with Repeat set. A repeat
// code received before any full frame is dropped.
func (d *NECDecoder) Feed(s Span) (Command, bool, error) {
	raw, repeat, done, err := d.pd.feed(s)
	if err != nil || !done {
		return Command{}, false, err
	}
	if repeat {
		if !d.seen {
			return Command{}, false, nil
		}
		cmd := d.last
		cmd.Repeat = true
		return cmd, true, nil
	}
	valid, address, command := SplitRawNECData(raw)
	if !valid {
		return Command{}, false, d.pd.fail(NEC, ErrDataTiming, StateDone, s, "inverse command mismatch")
	}
	d.last = Command{Protocol: NEC, Address: address, Command: command}
	d.seen = true
	return d.last, true, nil
}

// Reset abandons any frame in progress and forgets the last command
func (d *NECDecoder) Reset() {
	d.pd.reset()
	d.seen = false
}

func (d *NECDecoder) State() State { return d.pd.state }

func (d *NECDecoder) Protocol() ProtocolID { return NEC }

// Helper func to break a raw NEC code into constituent parts performing validation
func SplitRawNECData(data uint32) (valid bool, address uint16, command byte) {
	valid = true
	addrLow := byte(data & 0xff)
	addrHigh := byte((data & 0xff00) >> 8)
	command = byte((data & 0xff0000) >> 16)
	invCmd := byte((data & 0xff000000) >> 24)
	address = MakeNECAddress(addrLow, addrHigh)
	// perform cmd inverse validation check
	if command != ^invCmd {
		// Validation failure. cmd and inverse cmd do not match
		valid = false
	}
	return
}

// Helper func to assemble a raw NEC code from constituent bytes
func MakeRawNECData(address uint16, command byte) uint32 {
	addrLow, addrHigh := SplitNECAddress(address)
	return (uint32(^command) << 24) | (uint32(command) << 16) | (uint32(addrHigh) << 8) | uint32(addrLow)
}

// Helper func to split an NEC address into low & high bytes
func SplitNECAddress(address uint16) (addrLow, addrHigh byte) {
	addrLow = byte(address & 0xff)
	addrHigh = byte((address & 0xff00) >> 8)
	if addrHigh == 0 {
		// NEC addresses in 8-bit range use inverse validation as addrHigh
		addrHigh = ^addrLow
	}
	return addrLow, addrHigh
}

// Helper func to assemble an NEC address from low & high bytes
func MakeNECAddress(addrLow, addrHigh byte) uint16 {
	if addrHigh == ^addrLow {
		// addrHigh is inverse of addrLow. This is not a valid 16-bit address in extended NEC coding
		// since it is indistinguishable from 8-bit address with inverse validation. Use the 8-bit address
		return uint16(addrLow)
	}
	return (uint16(addrHigh) << 8) | uint16(addrLow)
}
