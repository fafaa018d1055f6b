package display

import (
	"image"
	"testing"
)

var _ Surface = (*Memory)(nil)
var _ Surface = (*Fake)(nil)

func frameWhiteAt(t *testing.T, frame image.Image, x, y int) bool {
	t.Helper()
	r, g, b, _ := frame.At(x, y).RGBA()
	lum := (299*int(r>>8) + 587*int(g>>8) + 114*int(b>>8)) / 1000
	return lum >= 128
}

func TestMemoryStartsWhite(t *testing.T) {
	m := NewMemory(16, 8)
	frame := m.Frame()
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			if !frameWhiteAt(t, frame, x, y) {
				t.Fatalf("pixel (%d,%d) not white on a fresh surface", x, y)
			}
		}
	}
}

func TestMemoryFillRect(t *testing.T) {
	m := NewMemory(16, 8)
	m.FillRect(2, 2, 4, 3, Black)

	frame := m.Frame()
	if frameWhiteAt(t, frame, 3, 3) {
		t.Error("pixel inside the rectangle stayed white")
	}
	if !frameWhiteAt(t, frame, 0, 0) {
		t.Error("pixel outside the rectangle went black")
	}
	if !frameWhiteAt(t, frame, 7, 3) {
		t.Error("pixel right of the rectangle went black")
	}
}

func TestMemoryLinesAreCrisp(t *testing.T) {
	m := NewMemory(16, 16)
	m.DrawLine(2, 5, 12, 5, Black)

	frame := m.Frame()
	// Interior of the stroke lands fully on one pixel row
	for x := 3; x <= 11; x++ {
		if frameWhiteAt(t, frame, x, 5) {
			t.Errorf("pixel (%d,5) on the line stayed white", x)
		}
		if !frameWhiteAt(t, frame, x, 4) || !frameWhiteAt(t, frame, x, 6) {
			t.Errorf("line bled onto adjacent rows at x=%d", x)
		}
	}
}

func TestMemoryDrawPixel(t *testing.T) {
	m := NewMemory(8, 8)
	m.DrawPixel(4, 2, Black)

	frame := m.Frame()
	if frameWhiteAt(t, frame, 4, 2) {
		t.Error("pixel not set")
	}
	if !frameWhiteAt(t, frame, 5, 2) {
		t.Error("neighbor pixel set")
	}
}

func TestMemoryDrawTextMarksPixels(t *testing.T) {
	m := NewMemory(64, 32)
	m.DrawText(0, 0, "X", FontSmall, Black)

	frame := m.Frame()
	marked := false
	for y := 0; y < 32 && !marked; y++ {
		for x := 0; x < 64; x++ {
			if !frameWhiteAt(t, frame, x, y) {
				marked = true
				break
			}
		}
	}
	if !marked {
		t.Error("text drew nothing")
	}
}

func TestMemoryFrameIsACopy(t *testing.T) {
	m := NewMemory(8, 8)
	before := m.Frame()
	m.FillRect(0, 0, 8, 8, Black)

	if !frameWhiteAt(t, before, 0, 0) {
		t.Error("earlier frame snapshot was mutated")
	}
	if frameWhiteAt(t, m.Frame(), 0, 0) {
		t.Error("fill did not reach the current frame")
	}
}

func TestPack1BPP(t *testing.T) {
	m := NewMemory(8, 2)
	buf := m.Pack1BPP()
	if len(buf) != 2 {
		t.Fatalf("expected 2 bytes for 8x2, got %d", len(buf))
	}
	if buf[0] != 0xFF || buf[1] != 0xFF {
		t.Errorf("all-white frame packed to %x %x, want ff ff", buf[0], buf[1])
	}

	m.FillRect(0, 0, 1, 1, Black)
	buf = m.Pack1BPP()
	if buf[0] != 0x7F {
		t.Errorf("top-left black pixel packed to %x, want 7f (MSB first, 1=white)", buf[0])
	}
	if buf[1] != 0xFF {
		t.Errorf("second row packed to %x, want ff", buf[1])
	}
}

func TestPack1BPPPadsRows(t *testing.T) {
	m := NewMemory(10, 3)
	buf := m.Pack1BPP()
	if len(buf) != 6 {
		t.Errorf("expected 10px rows padded to 2 bytes each, got %d bytes", len(buf))
	}
}
