// Package clock steps the system clock from sample timestamps on hosts
// without a battery-backed RTC. The time-series server is assumed to be
// NTP-synced, so a sample from the future means the local clock is behind.
package clock

import "time"

// DriftThreshold is how far ahead of local time a sample timestamp must be
// before the clock is stepped. Small drift is left to accumulate to avoid
// constant adjustments.
const DriftThreshold = 5 * time.Second

// Syncer adjusts the system clock from an observed sample timestamp.
type Syncer interface {
	// Sync steps the clock when ts (unix seconds) is more than the drift
	// threshold ahead of local time. The clock is only ever moved forward.
	Sync(ts int64) error
}

// Nop is a Syncer that never touches the clock. Used in tests and on hosts
// where NTP owns timekeeping.
type Nop struct{}

// Sync does nothing.
func (Nop) Sync(int64) error { return nil }
