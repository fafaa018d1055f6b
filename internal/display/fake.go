package display

import "image"

// Op kinds recorded by the Fake surface.
const (
	OpFill  = "fill"
	OpLine  = "line"
	OpPixel = "pixel"
	OpText  = "text"
	OpImage = "image"
	OpFlush = "flush"
)

// Op is one recorded drawing operation.
type Op struct {
	Kind           string
	X0, Y0, X1, Y1 int // fill: X1,Y1 are width,height; line: second endpoint
	Color          Color
	Text           string
	Font           Font
}

// Fake is a test double that records every drawing operation.
type Fake struct {
	W, H int

	// Ops contains all recorded operations in call order, including flushes.
	Ops []Op

	// FlushErr, if set, is returned by Flush.
	FlushErr error
}

// NewFake creates a Fake surface with the given dimensions.
func NewFake(w, h int) *Fake {
	return &Fake{W: w, H: h}
}

// Size returns the configured dimensions.
func (f *Fake) Size() (int, int) { return f.W, f.H }

// FillRect records a fill operation.
func (f *Fake) FillRect(x, y, w, h int, c Color) {
	f.Ops = append(f.Ops, Op{Kind: OpFill, X0: x, Y0: y, X1: w, Y1: h, Color: c})
}

// DrawLine records a line operation.
func (f *Fake) DrawLine(x0, y0, x1, y1 int, c Color) {
	f.Ops = append(f.Ops, Op{Kind: OpLine, X0: x0, Y0: y0, X1: x1, Y1: y1, Color: c})
}

// DrawPixel records a pixel operation.
func (f *Fake) DrawPixel(x, y int, c Color) {
	f.Ops = append(f.Ops, Op{Kind: OpPixel, X0: x, Y0: y, Color: c})
}

// DrawText records a text operation.
func (f *Fake) DrawText(x, y int, text string, font Font, c Color) {
	f.Ops = append(f.Ops, Op{Kind: OpText, X0: x, Y0: y, Text: text, Font: font, Color: c})
}

// DrawImage records an image operation. The image itself is not retained.
func (f *Fake) DrawImage(x, y int, img image.Image) {
	f.Ops = append(f.Ops, Op{Kind: OpImage, X0: x, Y0: y})
}

// Flush records a flush operation and returns FlushErr.
func (f *Fake) Flush() error {
	f.Ops = append(f.Ops, Op{Kind: OpFlush})
	return f.FlushErr
}

// Reset discards all recorded operations.
func (f *Fake) Reset() {
	f.Ops = nil
}

// OfKind returns the recorded operations of the given kind, in call order.
func (f *Fake) OfKind(kind string) []Op {
	var ops []Op
	for _, op := range f.Ops {
		if op.Kind == kind {
			ops = append(ops, op)
		}
	}
	return ops
}

// Flushes returns the number of recorded flush operations.
func (f *Fake) Flushes() int {
	return len(f.OfKind(OpFlush))
}
