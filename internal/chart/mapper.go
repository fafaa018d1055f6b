package chart

import "fmt"

// debugChecks enables the strict axis-ceiling assertion inside Mapper.Y.
// In normal builds a value at or above the ceiling is clamped instead; the
// scaler's headroom step is responsible for never letting it happen.
const debugChecks = false

// Geometry describes the fixed pixel layout of the panel.
type Geometry struct {
	Width    int // full panel width
	Height   int // full panel height
	DividerY int // horizontal line separating the readout from the graph
	AxisX    int // Y-axis column; the plot starts right of it
	AxisY    int // X-axis row; the plot sits above it
}

// PlotLeft returns the leftmost plot column.
func (g Geometry) PlotLeft() int { return g.AxisX }

// PlotWidth returns the plot width in pixels.
func (g Geometry) PlotWidth() int { return g.Width - g.AxisX }

// PlotHeight returns the plot height in pixels.
func (g Geometry) PlotHeight() int { return g.AxisY - g.DividerY - 2 }

// PlotBottom returns the row corresponding to a zero power value.
func (g Geometry) PlotBottom() int { return g.DividerY + g.PlotHeight() }

// DefaultGeometry is the stock 2.9" landscape panel layout.
func DefaultGeometry() Geometry {
	return Geometry{
		Width:    296,
		Height:   128,
		DividerY: 33,
		AxisX:    20,
		AxisY:    128 - 13,
	}
}

// Mapper converts timestamps and power values to pixel coordinates for a
// given axis state. It is a pure value type: build a fresh one whenever the
// axis changes; never cache coordinates across a rescale.
type Mapper struct {
	Axis          Axis
	Geom          Geometry
	WindowSeconds int64
}

// X maps a timestamp to a column. The mapping is monotonic non-decreasing for
// timestamps inside the window and clamps to the plot edges outside it.
func (m Mapper) X(ts int64) int {
	d := ts - m.Axis.OriginTS
	w := m.Geom.PlotWidth()
	x := int((d*int64(w) + m.WindowSeconds/2) / m.WindowSeconds)
	if x < 0 {
		x = 0
	}
	if x > w-1 {
		x = w - 1
	}
	return m.Geom.PlotLeft() + x
}

// Y maps a power value to a row. Negative values clamp to zero, and a zero
// value still produces a visible 1px mark above the X axis. Values must stay
// strictly below the axis ceiling; if the scaler ever under-computes the
// headroom the value is clamped to the plot top rather than corrupting the
// coordinate.
func (m Mapper) Y(value float64) int {
	if value < 0 {
		value = 0
	}
	if debugChecks && value >= m.Axis.MaxPower {
		panic(fmt.Sprintf("chart: value %v reached axis ceiling %v", value, m.Axis.MaxPower))
	}
	h := int(value / m.Axis.MaxPower * float64(m.Geom.PlotHeight()))
	if h < 1 {
		h = 1
	}
	if h > m.Geom.PlotHeight() {
		h = m.Geom.PlotHeight()
	}
	return m.Geom.PlotBottom() - h
}
