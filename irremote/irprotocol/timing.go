package irprotocol

import (
	"fmt"
	"time"
)

// minUnitTicks is the number of samples needed to resolve a protocol's
// shortest timing unit
const minUnitTicks = 4

// Ticks converts a duration to sample ticks at rate, rounded to nearest
func Ticks(d time.Duration, rate uint32) uint32 {
	return uint32((uint64(d)*uint64(rate) + uint64(time.Second)/2) / uint64(time.Second))
}

// window is an inclusive range of accepted span lengths in ticks
type window struct {
	min, max uint32
}

func newWindow(d time.Duration, rate uint32, tolerance int) window {
	n := uint64(d) * uint64(rate)
	div := 100 * uint64(time.Second)
	lo := n * uint64(100-tolerance) / div
	hi := (n*uint64(100+tolerance) + div - 1) / div
	if lo < 1 {
		lo = 1
	}
	return window{min: uint32(lo), max: uint32(hi)}
}

func (w window) contains(t uint32) bool {
	return t >= w.min && t <= w.max
}

func (w window) overlaps(o window) bool {
	return w.min <= o.max && o.min <= w.max
}

func checkRate(id ProtocolID, rate uint32, unit time.Duration) error {
	if rate == 0 {
		return fmt.Errorf("%w: %s needs a non-zero sample rate", ErrInvalidSampleRate, id)
	}
	if t := Ticks(unit, rate); t < minUnitTicks {
		return fmt.Errorf("%w: %s unit of %v is %d ticks at %d Hz, need %d",
			ErrInvalidSampleRate, id, unit, t, rate, minUnitTicks)
	}
	return nil
}

func checkTolerance(id ProtocolID, tolerance int) error {
	if tolerance < 1 || tolerance > 60 {
		return fmt.Errorf("%w: %s tolerance %d%% outside 1-60%%", ErrInvalidTolerance, id, tolerance)
	}
	return nil
}

// checkUnitTolerance bounds Manchester tolerances below half a unit so
// that adjacent multiples never share a span length
func checkUnitTolerance(id ProtocolID, tolerance int) error {
	if tolerance < 1 || tolerance >= 50 {
		return fmt.Errorf("%w: %s tolerance %d%% outside 1-49%% of a half-bit", ErrInvalidTolerance, id, tolerance)
	}
	return nil
}

// checkDistinct fails when a short and a long timing window overlap
func checkDistinct(id ProtocolID, tolerance int, short, long window) error {
	if short.overlaps(long) {
		return fmt.Errorf("%w: %s tolerance %d%% merges %d-%d and %d-%d ticks",
			ErrInvalidTolerance, id, tolerance, short.min, short.max, long.min, long.max)
	}
	return nil
}

// unitQuantizer measures spans in whole multiples of a Manchester half-bit.
// Tolerance applies to one unit regardless of the multiple, so a span
// falling between two multiples is rejected instead of rounded.
type unitQuantizer struct {
	unit     uint64 // ticks * 1000
	slack    uint64 // ticks * 1000
	maxUnits int
	gap      uint32 // spaces this long end a frame
}

func newUnitQuantizer(unit time.Duration, rate uint32, tolerance, maxUnits int) unitQuantizer {
	u := uint64(unit) * uint64(rate) * 1000 / uint64(time.Second)
	return unitQuantizer{
		unit:     u,
		slack:    u * uint64(tolerance) / 100,
		maxUnits: maxUnits,
		gap:      uint32(u * uint64(maxUnits+1) / 1000),
	}
}

// units returns the number of half-bits in a span of t ticks, or 0 when t is
// not within tolerance of a whole multiple up to maxUnits
func (q unitQuantizer) units(t uint32) int {
	t1000 := uint64(t) * 1000
	n := (t1000 + q.unit/2) / q.unit
	if n == 0 || n > uint64(q.maxUnits) {
		return 0
	}
	nominal := n * q.unit
	diff := t1000 - nominal
	if t1000 < nominal {
		diff = nominal - t1000
	}
	if diff > q.slack {
		return 0
	}
	return int(n)
}

// halfBits collects Manchester half-bit levels of one frame in place
type halfBits struct {
	levels [44]bool
	n      int
	limit  int
}

func (h *halfBits) reset(limit int) {
	h.n = 0
	h.limit = limit
}

// push appends units half-bits of the given level. It reports false when the
// frame would overflow.
func (h *halfBits) push(mark bool, units int) bool {
	if h.n+units > h.limit {
		return false
	}
	for i := 0; i < units; i++ {
		h.levels[h.n] = mark
		h.n++
	}
	return true
}

// at returns the level of half-bit i. The half after the last received one
// is the idle space that ends the frame.
func (h *halfBits) at(i int) bool {
	if i >= h.n {
		return false
	}
	return h.levels[i]
}

// complete reports whether every bit of the frame is known. Bits are decided
// by their first half, so a frame whose final half-bit is the idle space is
// complete once the preceding mark has ended.
func (h *halfBits) complete() bool {
	return h.n == h.limit || (h.n == h.limit-1 && h.levels[h.n-1])
}

// bit returns the Manchester bit whose first half is at i, with markFirst
// giving the value of a mark-then-space pair. ok is false when both halves
// have the same level.
func (h *halfBits) bit(i int, markFirst bool) (value, ok bool) {
	a, b := h.at(i), h.at(i+1)
	if a == b {
		return false, false
	}
	return a == markFirst, true
}
