package irremote

import "github.com/neildavis/drivers/irremote/irprotocol"

// EdgeAccumulator turns a stream of line samples into Spans. It keeps the
// level of the current run and the sample index at which it began, so span
// lengths come from index deltas and stay correct when samples are missed.
type EdgeAccumulator struct {
	level  bool
	start  uint32
	primed bool
}

// Process consumes one sample. When level differs from the current run, it
// returns the completed run as a Span. Sample indexes may wrap around.
func (e *EdgeAccumulator) Process(level bool, index uint32) (irprotocol.Span, bool) {
	if !e.primed {
		e.level = level
		e.start = index
		e.primed = true
		return irprotocol.Span{}, false
	}
	if level == e.level {
		return irprotocol.Span{}, false
	}
	span := irprotocol.Span{Mark: e.level, Ticks: index - e.start}
	e.level = level
	e.start = index
	return span, true
}

// Reset discards the current run. The next sample starts a new run without
// emitting a span.
func (e *EdgeAccumulator) Reset() {
	e.primed = false
}
