package chart

// Window is the ordered, time-bounded sample buffer backing the graph.
// Timestamps are strictly increasing. The window is owned by the renderer
// and mutated only through Append and Evict.
type Window struct {
	samples []Sample
}

// Append stores a sample under the ordering rules:
// a sample newer than the last stored one is pushed; one with the same
// timestamp replaces the last entry (a correction of the same bucket); an
// older one is discarded. Empty samples are always discarded.
// It reports whether the sample was stored.
func (w *Window) Append(s Sample) bool {
	if s.Empty() {
		return false
	}
	n := len(w.samples)
	if n == 0 || s.TS > w.samples[n-1].TS {
		w.samples = append(w.samples, s)
		return true
	}
	if s.TS == w.samples[n-1].TS {
		w.samples[n-1] = s
		return true
	}
	return false
}

// Evict removes all leading samples older than origin. It never removes from
// the middle or end.
func (w *Window) Evict(origin int64) {
	i := 0
	for i < len(w.samples) && w.samples[i].TS < origin {
		i++
	}
	if i > 0 {
		w.samples = w.samples[:copy(w.samples, w.samples[i:])]
	}
}

// AggregateMax returns the maximum value across both channels over all
// retained samples, clamped to zero. ok is false when the window is empty.
func (w *Window) AggregateMax() (max float64, ok bool) {
	if len(w.samples) == 0 {
		return 0, false
	}
	for _, s := range w.samples {
		if v := s.MaxPower(); v > max {
			max = v
		}
	}
	return max, true
}

// Len returns the number of retained samples.
func (w *Window) Len() int {
	return len(w.samples)
}

// Samples returns the retained samples, oldest first.
// Callers must not mutate the returned slice.
func (w *Window) Samples() []Sample {
	return w.samples
}

// Last returns the most recent retained sample.
func (w *Window) Last() (Sample, bool) {
	if len(w.samples) == 0 {
		return Sample{}, false
	}
	return w.samples[len(w.samples)-1], true
}
