package chart

import "testing"

func rng(min, max float64) *Range {
	return &Range{Min: min, Max: max}
}

func usageSample(ts int64, min, max float64) Sample {
	return Sample{TS: ts, Usage: rng(min, max)}
}

func TestWindowAppendOrdering(t *testing.T) {
	var w Window

	if !w.Append(usageSample(100, 10, 20)) {
		t.Fatal("first sample should be stored")
	}
	if !w.Append(usageSample(200, 30, 40)) {
		t.Fatal("newer sample should be stored")
	}
	if w.Len() != 2 {
		t.Fatalf("expected 2 samples, got %d", w.Len())
	}

	// Same timestamp replaces the last entry
	if !w.Append(usageSample(200, 50, 60)) {
		t.Fatal("equal-timestamp sample should replace")
	}
	if w.Len() != 2 {
		t.Fatalf("replacement should not grow the window, got %d samples", w.Len())
	}
	last, ok := w.Last()
	if !ok || last.Usage.Max != 60 {
		t.Errorf("expected replaced sample with max 60, got %+v", last)
	}

	// Older sample is discarded
	if w.Append(usageSample(150, 1, 2)) {
		t.Error("older sample should be discarded")
	}
	if w.Len() != 2 {
		t.Errorf("discard should not change the window, got %d samples", w.Len())
	}
}

func TestWindowAppendDiscardsEmpty(t *testing.T) {
	var w Window
	if w.Append(Sample{TS: 100}) {
		t.Error("empty sample should be discarded")
	}
	if w.Len() != 0 {
		t.Errorf("expected empty window, got %d samples", w.Len())
	}
}

func TestWindowEvictLeadingOnly(t *testing.T) {
	var w Window
	for ts := int64(100); ts <= 500; ts += 100 {
		w.Append(usageSample(ts, 1, 2))
	}

	w.Evict(300)
	if w.Len() != 3 {
		t.Fatalf("expected 3 samples after eviction, got %d", w.Len())
	}
	if w.Samples()[0].TS != 300 {
		t.Errorf("expected oldest sample at 300, got %d", w.Samples()[0].TS)
	}

	// Eviction before the oldest sample is a no-op
	w.Evict(100)
	if w.Len() != 3 {
		t.Errorf("expected no eviction, got %d samples", w.Len())
	}

	// Eviction past the end empties the window
	w.Evict(1000)
	if w.Len() != 0 {
		t.Errorf("expected empty window, got %d samples", w.Len())
	}
}

func TestWindowAggregateMax(t *testing.T) {
	var w Window
	if _, ok := w.AggregateMax(); ok {
		t.Error("empty window should report not ok")
	}

	w.Append(Sample{TS: 100, Solar: rng(0, 1200), Usage: rng(100, 300)})
	w.Append(Sample{TS: 200, Solar: rng(0, 800), Usage: rng(100, 2500)})

	max, ok := w.AggregateMax()
	if !ok {
		t.Fatal("expected ok")
	}
	if max != 2500 {
		t.Errorf("expected aggregate max 2500, got %v", max)
	}
}

func TestWindowAggregateMaxClampsNegative(t *testing.T) {
	var w Window
	w.Append(usageSample(100, -50, -10))

	max, ok := w.AggregateMax()
	if !ok {
		t.Fatal("expected ok")
	}
	if max != 0 {
		t.Errorf("expected negative aggregate clamped to 0, got %v", max)
	}
}
