// Package chart implements the incremental strip-chart core: the sliding
// sample window, axis scaling, redraw planning, coordinate mapping and the
// renderers for the graph and readout regions of the panel.
// This package performs no I/O of its own: drawing goes through the
// display.Surface capability and time is always passed in by the caller.
package chart

// Range is one channel's aggregation bucket: the minimum and maximum power
// observed within the bucket interval, in watts. A single instantaneous
// reading is the degenerate case Min == Max.
type Range struct {
	Min float64
	Max float64
}

// Mean returns the midpoint of the range.
func (r Range) Mean() float64 {
	return (r.Min + r.Max) / 2
}

// Sample is one time bucket of the two power channels. A channel is nil when
// the source had no data for it in that bucket.
type Sample struct {
	TS    int64 // unix seconds, strictly increasing across the stream
	Solar *Range
	Usage *Range
}

// Empty reports whether the sample carries no data for either channel.
// Empty samples are discarded before they reach the window.
func (s Sample) Empty() bool {
	return s.Solar == nil && s.Usage == nil
}

// MaxPower returns the largest value in either channel's range, clamped to
// zero. Upstream aggregation occasionally produces negative minimums.
func (s Sample) MaxPower() float64 {
	var max float64
	if s.Solar != nil && s.Solar.Max > max {
		max = s.Solar.Max
	}
	if s.Usage != nil && s.Usage.Max > max {
		max = s.Usage.Max
	}
	return max
}
