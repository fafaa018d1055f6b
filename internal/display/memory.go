package display

import (
	"image"
	"image/color"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/inconsolata"
)

// Memory is a Surface rendering into an in-memory frame. It backs the
// simulator mode, the web UI's frame snapshot, and the real panel driver,
// which packs the frame to 1bpp on Flush.
type Memory struct {
	mu    sync.Mutex // Frame is read from HTTP handlers
	w, h  int
	img   *image.RGBA
	ctx   *gg.Context
	small font.Face
	large font.Face
}

// NewMemory creates a Memory surface cleared to white.
func NewMemory(w, h int) *Memory {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	ctx := gg.NewContextForRGBA(img)
	ctx.SetColor(color.White)
	ctx.Clear()
	ctx.SetLineWidth(1)
	return &Memory{
		w:     w,
		h:     h,
		img:   img,
		ctx:   ctx,
		small: basicfont.Face7x13,
		large: inconsolata.Regular8x16,
	}
}

// Size returns the frame dimensions.
func (m *Memory) Size() (int, int) { return m.w, m.h }

// FillRect fills the rectangle at (x, y) with the given color.
func (m *Memory) FillRect(x, y, w, h int, c Color) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ctx.SetColor(rgb(c))
	m.ctx.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	m.ctx.Fill()
}

// DrawLine draws a 1px line, endpoints inclusive. The half-pixel offset keeps
// horizontal and vertical lines on a single crisp pixel row or column.
func (m *Memory) DrawLine(x0, y0, x1, y1 int, c Color) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ctx.SetColor(rgb(c))
	m.ctx.DrawLine(float64(x0)+0.5, float64(y0)+0.5, float64(x1)+0.5, float64(y1)+0.5)
	m.ctx.Stroke()
}

// DrawPixel sets a single pixel.
func (m *Memory) DrawPixel(x, y int, c Color) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ctx.SetColor(rgb(c))
	m.ctx.SetPixel(x, y)
}

// DrawText draws text with (x, y) as the top-left corner.
func (m *Memory) DrawText(x, y int, text string, f Font, c Color) {
	m.mu.Lock()
	defer m.mu.Unlock()
	face := m.small
	if f == FontLarge {
		face = m.large
	}
	m.ctx.SetFontFace(face)
	m.ctx.SetColor(rgb(c))
	ascent := face.Metrics().Ascent.Ceil()
	m.ctx.DrawString(text, float64(x), float64(y+ascent))
}

// DrawImage draws an image with (x, y) as the top-left corner.
func (m *Memory) DrawImage(x, y int, img image.Image) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ctx.DrawImage(img, x, y)
}

// Flush is a no-op: the frame lives in memory.
func (m *Memory) Flush() error { return nil }

// Frame returns a copy of the current frame.
func (m *Memory) Frame() image.Image {
	m.mu.Lock()
	defer m.mu.Unlock()
	dup := image.NewRGBA(m.img.Rect)
	copy(dup.Pix, m.img.Pix)
	return dup
}

// whiteAt reports whether the pixel at (x, y) thresholds to white.
// Callers must hold mu.
func (m *Memory) whiteAt(x, y int) bool {
	px := m.img.RGBAAt(x, y)
	lum := (299*int(px.R) + 587*int(px.G) + 114*int(px.B)) / 1000
	return lum >= 128
}

// Pack1BPP packs the frame row-major into 1 bit per pixel, MSB first,
// 1 = white. Rows are padded to a byte boundary.
func (m *Memory) Pack1BPP() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	stride := (m.w + 7) / 8
	buf := make([]byte, stride*m.h)
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			if m.whiteAt(x, y) {
				buf[y*stride+x/8] |= 0x80 >> (x % 8)
			}
		}
	}
	return buf
}

func rgb(c Color) color.Color {
	if c == Black {
		return color.Black
	}
	return color.White
}
