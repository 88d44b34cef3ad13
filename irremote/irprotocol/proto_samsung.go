package irprotocol

import "time"

// Samsung32 uses NEC bit timing with a shorter header and no repeat code.
// Held keys resend the whole frame every 108 ms.
const (
	Samsung_lead_mark     = NEC_unit * 8 // 4.5 ms
	Samsung_lead_space    = NEC_unit * 8 // 4.5 ms
	Samsung_repeat_period = 108 * time.Millisecond

	samsungDefaultTolerance = 30
)

var samsungTiming = pulseDistanceTiming{
	headerMark:  Samsung_lead_mark,
	headerSpace: Samsung_lead_space,
	bitMark:     NEC_bit_mark,
	zeroSpace:   NEC_bit_0_space,
	oneSpace:    NEC_bit_1_space,
	gap:         Samsung_lead_space,
	bits:        32,
}

// SamsungDecoder decodes Samsung32 frames: address, address, command, ^command
type SamsungDecoder struct {
	pd      pulseDistance
	repeats repeatDetector
}

// NewSamsung returns a decoder for the Samsung32 protocol
func NewSamsung(cfg Config) (*SamsungDecoder, error) {
	pd, err := newPulseDistance(Samsung, samsungTiming, cfg, samsungDefaultTolerance)
	if err != nil {
		return nil, err
	}
	return &SamsungDecoder{pd: pd, repeats: newRepeatDetector(Samsung_repeat_period, cfg)}, nil
}

func (d *SamsungDecoder) Feed(s Span) (Command, bool, error) {
	raw, _, done, err := d.pd.feed(s)
	if err != nil || !done {
		return Command{}, false, err
	}
	addrLow, addrHigh := byte(raw), byte(raw>>8)
	command, invCmd := byte(raw>>16), byte(raw>>24)
	if command != ^invCmd {
		return Command{}, false, d.pd.fail(Samsung, ErrDataTiming, StateDone, s, "inverse command mismatch")
	}
	address := uint16(addrLow)
	if addrHigh != addrLow {
		address |= uint16(addrHigh) << 8
	}
	cmd := Command{Protocol: Samsung, Address: address, Command: command}
	return d.repeats.mark(cmd, d.pd.frameGap), true, nil
}

func (d *SamsungDecoder) Reset() {
	d.pd.reset()
	d.repeats.valid = false
}

func (d *SamsungDecoder) State() State { return d.pd.state }

func (d *SamsungDecoder) Protocol() ProtocolID { return Samsung }
