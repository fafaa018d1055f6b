package chart

import "math"

// Axis is the derived visible-axis state: the timestamp at the left edge of
// the plot and the power value at the top of the Y axis. It is recomputed
// from the window contents every update cycle, never mutated in place.
// The zero Axis means "unset" (no data yet, or the window went stale).
type Axis struct {
	OriginTS int64
	MaxPower float64
}

// Valid reports whether the axis has been established.
func (a Axis) Valid() bool {
	return a.MaxPower > 0
}

// NeedsRescale reports whether moving from old to new invalidates every
// previously drawn pixel position. Both pixel mappings depend on both fields,
// so any change forces a full redraw.
func NeedsRescale(old, new Axis) bool {
	return old != new
}

// Scaler derives the axis from wall-clock time and the window's aggregate.
type Scaler struct {
	WindowSeconds int64
	ScrollQuantum int64   // origin shifts only in steps of this many seconds
	StepWatts     float64 // Y ceiling rounds up to a multiple of this
}

// Origin returns the left edge of the visible time range: now quantized down
// to the scroll quantum, minus the window length. Quantizing means the window
// only scrolls in discrete steps, which bounds how often a full redraw is
// forced purely by time passing.
func (sc Scaler) Origin(now int64) int64 {
	return floorToMultiple(now, sc.ScrollQuantum) - sc.WindowSeconds
}

// MaxPower returns the Y-axis ceiling for the given aggregate maximum: the
// value rounded up to the next step, plus one more step. The extra step
// guarantees the ceiling is strictly greater than every drawn value, which
// the coordinate mapping depends on.
func (sc Scaler) MaxPower(aggregateMax float64) float64 {
	if aggregateMax < 0 {
		aggregateMax = 0
	}
	return math.Ceil(aggregateMax/sc.StepWatts)*sc.StepWatts + sc.StepWatts
}

func floorToMultiple(v, step int64) int64 {
	return (v / step) * step
}
