// Package status provides a thread-safe status tracker for the solar-monitor
// daemon. It is read by the HTTP handlers and embedded in MQTT system events.
package status

import (
	"sync"
	"time"
)

// Reading is the latest power reading shown on the panel.
// A nil channel means no data for it in the latest bucket.
type Reading struct {
	Timestamp time.Time
	Solar     *float64
	Usage     *float64
}

// Counts tracks cumulative work since startup.
type Counts struct {
	Fetches            int
	EmptyFetches       int // failed or no-data cycles; the source hides which
	Samples            int
	FullRedraws        int
	IncrementalRedraws int
	ReadoutDraws       int
	ReadoutSkips       int
}

// Config contains daemon configuration for display.
type Config struct {
	PollSeconds   int
	WindowSeconds int64
	ScrollQuantum int64
	InfluxURL     string
	Broker        string
	HTTPAddr      string
	Display       string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Reading       Reading
	Stale         bool
	OriginTS      int64
	MaxPowerW     float64
	WindowLen     int
	Counts        Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// SetReading records the latest reading and clears the stale flag.
func (t *Tracker) SetReading(r Reading) {
	t.mu.Lock()
	t.snap.Reading = r
	t.snap.Stale = false
	t.mu.Unlock()
}

// SetStale marks the feed as stopped; the last reading is retained.
func (t *Tracker) SetStale() {
	t.mu.Lock()
	t.snap.Stale = true
	t.mu.Unlock()
}

// SetAxis records the current axis state and window occupancy.
func (t *Tracker) SetAxis(originTS int64, maxPowerW float64, windowLen int) {
	t.mu.Lock()
	t.snap.OriginTS = originTS
	t.snap.MaxPowerW = maxPowerW
	t.snap.WindowLen = windowLen
	t.mu.Unlock()
}

// CountFetch records one fetch cycle.
func (t *Tracker) CountFetch(samples int) {
	t.mu.Lock()
	t.snap.Counts.Fetches++
	if samples == 0 {
		t.snap.Counts.EmptyFetches++
	}
	t.snap.Counts.Samples += samples
	t.mu.Unlock()
}

// CountChartRedraw records one graph redraw.
func (t *Tracker) CountChartRedraw(full bool) {
	t.mu.Lock()
	if full {
		t.snap.Counts.FullRedraws++
	} else {
		t.snap.Counts.IncrementalRedraws++
	}
	t.mu.Unlock()
}

// CountReadout records one readout update: drawn or suppressed.
func (t *Tracker) CountReadout(drawn bool) {
	t.mu.Lock()
	if drawn {
		t.snap.Counts.ReadoutDraws++
	} else {
		t.snap.Counts.ReadoutSkips++
	}
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
