//go:build linux

package clock

import (
	"fmt"
	"log"
	"time"

	"golang.org/x/sys/unix"
)

// System steps the system clock via settimeofday. Requires CAP_SYS_TIME
// (run as root on the target device).
type System struct{}

// Sync steps the clock forward when ts runs ahead of local time by more than
// the drift threshold.
func (System) Sync(ts int64) error {
	now := time.Now()
	if ts <= now.Add(DriftThreshold).Unix() {
		return nil
	}
	tv := unix.NsecToTimeval(ts * int64(time.Second))
	if err := unix.Settimeofday(&tv); err != nil {
		return fmt.Errorf("settimeofday: %w", err)
	}
	log.Printf("clock: stepped system time %v -> %v", now.UTC(), time.Unix(ts, 0).UTC())
	return nil
}
