//go:build !linux

package display

import "errors"

// EPDConfig describes the panel wiring.
type EPDConfig struct {
	SPIPort string
	Chip    string
	DCPin   int
	RSTPin  int
	BusyPin int
	Width   int
	Height  int
}

// EPD is not available on non-Linux platforms.
type EPD struct {
	*Memory
}

// NewEPD returns an error on non-Linux platforms.
func NewEPD(cfg EPDConfig) (*EPD, error) {
	return nil, errors.New("display: e-paper panel not supported on this platform (requires Linux)")
}

// Close is not implemented on non-Linux platforms.
func (e *EPD) Close() error { return nil }
