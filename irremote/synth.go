package irremote

import (
	"time"

	"github.com/neildavis/drivers/irremote/irprotocol"
)

// Frame is one transmission followed by the idle time before the next
type Frame struct {
	Command irprotocol.Command
	Gap     time.Duration
}

// Synthesize renders frames as the receiver line levels (true = mark) seen
// at rate, starting with lead of idle line. It produces reference signals
// for tests and capture files.
func Synthesize(frames []Frame, rate uint32, lead time.Duration) ([]bool, error) {
	var pulses []time.Duration
	idle := lead
	for _, f := range frames {
		p, err := irprotocol.Encode(f.Command)
		if err != nil {
			return nil, err
		}
		pulses = append(pulses, idle)
		pulses = append(pulses, p...)
		idle = f.Gap
	}
	pulses = append(pulses, idle)

	var levels []bool
	var elapsed time.Duration
	var edge uint32
	for i, d := range pulses {
		elapsed += d
		next := irprotocol.Ticks(elapsed, rate)
		// pulses start with idle space, so odd entries are marks
		mark := i%2 == 1
		for ; edge < next; edge++ {
			levels = append(levels, mark)
		}
	}
	return levels, nil
}
