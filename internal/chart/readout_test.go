package chart

import (
	"image"
	"testing"

	"github.com/sweeney/solar-monitor/internal/display"
)

func readoutSample(ts int64, solar, usage float64) Sample {
	return Sample{TS: ts, Solar: rng(solar, solar), Usage: rng(usage, usage)}
}

func newTestReadout(fake *display.Fake) *Readout {
	cfg := DefaultConfig()
	cfg.RefreshCycles = 0
	return NewReadout(cfg, fake, Icons{})
}

func TestReadoutDrawsReading(t *testing.T) {
	fake := display.NewFake(296, 128)
	r := newTestReadout(fake)

	action, err := r.Update(readoutSample(100, 850, 420))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if action != ActionIncremental {
		t.Errorf("got %v, want incremental", action)
	}

	texts := fake.OfKind(display.OpText)
	if len(texts) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(texts))
	}
	if texts[0].Text != "850.0W" {
		t.Errorf("solar text = %q, want 850.0W", texts[0].Text)
	}
	if texts[1].Text != "420.0W" {
		t.Errorf("usage text = %q, want 420.0W", texts[1].Text)
	}
	if texts[0].Font != display.FontLarge {
		t.Errorf("reading font = %v, want large", texts[0].Font)
	}
}

func TestReadoutSuppressesJitter(t *testing.T) {
	fake := display.NewFake(296, 128)
	r := newTestReadout(fake)

	if _, err := r.Update(readoutSample(100, 850, 420)); err != nil {
		t.Fatalf("first update: %v", err)
	}
	fake.Reset()

	// Both channels oscillate by 0.1W, within the 0.2W epsilon: no display
	// writes at all.
	for i := 1; i <= 10; i++ {
		delta := 0.1
		if i%2 == 0 {
			delta = -0.1
		}
		action, err := r.Update(readoutSample(100+int64(i), 850+delta, 420+delta))
		if err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
		if action != ActionNone {
			t.Fatalf("update %d: got %v, want none", i, action)
		}
	}
	if len(fake.Ops) != 0 {
		t.Errorf("suppressed updates touched the surface: %d ops", len(fake.Ops))
	}

	// A real change on one channel redraws
	action, err := r.Update(readoutSample(200, 850, 421))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if action == ActionNone {
		t.Error("expected a redraw after a change beyond epsilon")
	}
}

func TestReadoutAbsentChannel(t *testing.T) {
	fake := display.NewFake(296, 128)
	r := newTestReadout(fake)

	if _, err := r.Update(Sample{TS: 100, Usage: rng(300, 300)}); err != nil {
		t.Fatalf("update: %v", err)
	}
	texts := fake.OfKind(display.OpText)
	if len(texts) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(texts))
	}
	if texts[0].Text != absentText {
		t.Errorf("solar text = %q, want placeholder %q", texts[0].Text, absentText)
	}
	if texts[1].Text != "300.0W" {
		t.Errorf("usage text = %q, want 300.0W", texts[1].Text)
	}

	// Absent stays absent without a redraw
	fake.Reset()
	action, err := r.Update(Sample{TS: 101, Usage: rng(300, 300)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if action != ActionNone {
		t.Errorf("got %v, want none for unchanged absent channel", action)
	}

	// A channel appearing is always a visible change
	action, err = r.Update(readoutSample(102, 500, 300))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if action == ActionNone {
		t.Error("expected a redraw when a channel appears")
	}
}

func TestReadoutMarkStale(t *testing.T) {
	fake := display.NewFake(296, 128)
	r := newTestReadout(fake)

	if _, err := r.Update(readoutSample(100, 850, 420)); err != nil {
		t.Fatalf("update: %v", err)
	}

	fake.Reset()
	if err := r.MarkStale(); err != nil {
		t.Fatalf("mark stale: %v", err)
	}
	texts := fake.OfKind(display.OpText)
	if len(texts) != 2 || texts[0].Text != staleText || texts[1].Text != staleText {
		t.Fatalf("expected both channels to show %q, got %+v", staleText, texts)
	}

	// Already stale: no further writes
	fake.Reset()
	if err := r.MarkStale(); err != nil {
		t.Fatalf("repeat mark stale: %v", err)
	}
	if len(fake.Ops) != 0 {
		t.Errorf("repeated stale marking touched the surface: %d ops", len(fake.Ops))
	}

	// Recovery redraws even if the values match what was on screen before
	action, err := r.Update(readoutSample(200, 850, 420))
	if err != nil {
		t.Fatalf("recovery update: %v", err)
	}
	if action == ActionNone {
		t.Error("expected a redraw when recovering from stale")
	}
}

func TestReadoutForcedRefresh(t *testing.T) {
	fake := display.NewFake(296, 128)
	cfg := DefaultConfig()
	cfg.RefreshCycles = 0
	cfg.ReadoutRefreshUpdates = 3
	r := NewReadout(cfg, fake, Icons{})

	// Distinct values so nothing is suppressed
	for i := 1; i <= 2; i++ {
		action, err := r.Update(readoutSample(int64(i), float64(i)*10, 100))
		if err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
		if action != ActionIncremental {
			t.Fatalf("update %d: got %v, want incremental", i, action)
		}
	}

	fake.Reset()
	action, err := r.Update(readoutSample(3, 30, 100))
	if err != nil {
		t.Fatalf("update 3: %v", err)
	}
	if action != ActionFull {
		t.Fatalf("update 3: got %v, want forced full", action)
	}
	// The full repaint clears and redraws the chrome
	if len(fake.OfKind(display.OpFill)) == 0 {
		t.Error("forced full did not clear the region")
	}
	found := false
	for _, op := range fake.OfKind(display.OpLine) {
		if op.Y0 == cfg.Geom.DividerY && op.Y1 == cfg.Geom.DividerY {
			found = true
		}
	}
	if !found {
		t.Error("forced full did not repaint the separator line")
	}
}

func TestReadoutInitDrawsChrome(t *testing.T) {
	fake := display.NewFake(296, 128)
	cfg := DefaultConfig()
	cfg.RefreshCycles = 0
	icon := image.NewRGBA(image.Rect(0, 0, 32, 32))
	r := NewReadout(cfg, fake, Icons{Solar: icon, Usage: icon})

	if err := r.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if len(fake.OfKind(display.OpImage)) != 2 {
		t.Errorf("expected both icons drawn, got %d", len(fake.OfKind(display.OpImage)))
	}
	if len(fake.OfKind(display.OpLine)) != 1 {
		t.Errorf("expected the separator line, got %d lines", len(fake.OfKind(display.OpLine)))
	}
}
