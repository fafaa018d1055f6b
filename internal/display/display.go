// Package display abstracts the e-paper panel as a small drawing surface.
// The real implementation drives an SSD1680-class panel over SPI.
// The memory implementation renders into an image for simulation and the web UI.
// The fake implementation records draw calls for testing without hardware.
package display

import "image"

// Color is a 1-bit pixel value. The panel has no greyscale.
type Color uint8

const (
	White Color = iota
	Black
)

// Font selects one of the two text sizes the panel renders.
type Font uint8

const (
	FontSmall Font = iota
	FontLarge
)

// Surface is the drawing capability consumed by the renderers.
// Draw calls buffer into the current frame; nothing is guaranteed to reach
// the panel until Flush. A draw sequence without a trailing Flush is an
// invalid intermediate state.
type Surface interface {
	// Size returns the panel dimensions in pixels.
	Size() (width, height int)

	// FillRect fills the rectangle at (x, y) with the given color.
	FillRect(x, y, w, h int, c Color)

	// DrawLine draws a 1px line between two points, endpoints inclusive.
	DrawLine(x0, y0, x1, y1 int, c Color)

	// DrawPixel sets a single pixel.
	DrawPixel(x, y int, c Color)

	// DrawText draws text with (x, y) as the top-left corner.
	DrawText(x, y int, text string, f Font, c Color)

	// DrawImage draws an image with (x, y) as the top-left corner.
	// The image is thresholded to 1-bit by implementations that need to.
	DrawImage(x, y int, img image.Image)

	// Flush commits the current frame to the panel.
	Flush() error
}

// Default panel dimensions (2.9" landscape).
const (
	DefaultWidth  = 296
	DefaultHeight = 128
)
