//go:build !linux

package clock

import "errors"

// System is not available on non-Linux platforms.
type System struct{}

// Sync returns an error on non-Linux platforms.
func (System) Sync(int64) error {
	return errors.New("clock: setting system time not supported on this platform")
}
