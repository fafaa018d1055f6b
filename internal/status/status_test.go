package status

import (
	"testing"
	"time"
)

func newTestTracker() *Tracker {
	return NewTracker(time.Now(), Config{
		PollSeconds:   5,
		WindowSeconds: 3600,
		InfluxURL:     "http://localhost:8086",
	})
}

func TestTrackerInitialSnapshot(t *testing.T) {
	start := time.Now()
	tr := NewTracker(start, Config{PollSeconds: 5})
	snap := tr.Snapshot()

	if snap.Config.PollSeconds != 5 {
		t.Errorf("config not retained: %+v", snap.Config)
	}
	if snap.Counts != (Counts{}) {
		t.Errorf("expected zero counts, got %+v", snap.Counts)
	}
	if snap.Stale {
		t.Error("fresh tracker should not be stale")
	}
	if !snap.StartTime.Equal(start) {
		t.Errorf("start time = %v, want %v", snap.StartTime, start)
	}
	if snap.Uptime() < 0 {
		t.Errorf("uptime negative: %v", snap.Uptime())
	}
	if snap.Now.Before(start) {
		t.Errorf("snapshot time %v before start %v", snap.Now, start)
	}
}

func TestTrackerReadingClearsStale(t *testing.T) {
	tr := newTestTracker()

	tr.SetStale()
	if !tr.Snapshot().Stale {
		t.Fatal("expected stale")
	}

	solar := 850.0
	tr.SetReading(Reading{Timestamp: time.Now(), Solar: &solar})
	snap := tr.Snapshot()
	if snap.Stale {
		t.Error("new reading should clear the stale flag")
	}
	if snap.Reading.Solar == nil || *snap.Reading.Solar != 850 {
		t.Errorf("reading not recorded: %+v", snap.Reading)
	}
	if snap.Reading.Usage != nil {
		t.Errorf("usage should be nil, got %v", *snap.Reading.Usage)
	}
}

func TestTrackerCounts(t *testing.T) {
	tr := newTestTracker()

	tr.CountFetch(12)
	tr.CountFetch(0)
	tr.CountFetch(3)
	tr.CountChartRedraw(true)
	tr.CountChartRedraw(false)
	tr.CountChartRedraw(false)
	tr.CountReadout(true)
	tr.CountReadout(false)

	c := tr.Snapshot().Counts
	if c.Fetches != 3 || c.EmptyFetches != 1 || c.Samples != 15 {
		t.Errorf("fetch counts wrong: %+v", c)
	}
	if c.FullRedraws != 1 || c.IncrementalRedraws != 2 {
		t.Errorf("redraw counts wrong: %+v", c)
	}
	if c.ReadoutDraws != 1 || c.ReadoutSkips != 1 {
		t.Errorf("readout counts wrong: %+v", c)
	}
}

func TestTrackerAxisAndMQTT(t *testing.T) {
	tr := newTestTracker()

	tr.SetAxis(1700000000, 3500, 42)
	tr.SetMQTTConnected(true)

	snap := tr.Snapshot()
	if snap.OriginTS != 1700000000 || snap.MaxPowerW != 3500 || snap.WindowLen != 42 {
		t.Errorf("axis not recorded: %+v", snap)
	}
	if !snap.MQTTConnected {
		t.Error("mqtt connection not recorded")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	tr := newTestTracker()
	snap := tr.Snapshot()

	tr.CountFetch(10)
	if snap.Counts.Fetches != 0 {
		t.Error("snapshot mutated after the fact")
	}
}
