package chart

import "testing"

func testMapper() Mapper {
	return Mapper{
		Axis:          Axis{OriginTS: 0, MaxPower: 1000},
		Geom:          DefaultGeometry(),
		WindowSeconds: 3600,
	}
}

func TestMapperXEdges(t *testing.T) {
	m := testMapper()
	geo := m.Geom

	if got := m.X(0); got != geo.PlotLeft() {
		t.Errorf("X(origin) = %d, want plot left %d", got, geo.PlotLeft())
	}
	right := geo.PlotLeft() + geo.PlotWidth() - 1
	if got := m.X(3600); got != right {
		t.Errorf("X(origin+window) = %d, want right edge %d", got, right)
	}

	// Out-of-window timestamps clamp to the edges
	if got := m.X(-500); got != geo.PlotLeft() {
		t.Errorf("X before origin = %d, want %d", got, geo.PlotLeft())
	}
	if got := m.X(99999); got != right {
		t.Errorf("X past window = %d, want %d", got, right)
	}
}

func TestMapperXMonotonic(t *testing.T) {
	m := testMapper()
	prev := m.X(0)
	for ts := int64(1); ts <= 3600; ts += 7 {
		x := m.X(ts)
		if x < prev {
			t.Fatalf("X(%d) = %d < X(%d) = %d", ts, x, ts-7, prev)
		}
		prev = x
	}
}

func TestMapperYZeroIsVisible(t *testing.T) {
	m := testMapper()
	geo := m.Geom

	// Zero and negative values still draw a 1px mark above the X axis
	if got := m.Y(0); got != geo.PlotBottom()-1 {
		t.Errorf("Y(0) = %d, want %d", got, geo.PlotBottom()-1)
	}
	if got := m.Y(-50); got != geo.PlotBottom()-1 {
		t.Errorf("Y(-50) = %d, want %d", got, geo.PlotBottom()-1)
	}
}

func TestMapperYMonotonic(t *testing.T) {
	m := testMapper()
	prev := m.Y(0)
	for v := 10.0; v < 1000; v += 10 {
		y := m.Y(v)
		if y > prev {
			t.Fatalf("Y(%v) = %d > Y(%v) = %d, rows must not increase with power", v, y, v-10, prev)
		}
		prev = y
	}
}

func TestMapperYClampsAtCeiling(t *testing.T) {
	m := testMapper()
	geo := m.Geom

	top := geo.PlotBottom() - geo.PlotHeight()
	if got := m.Y(2 * m.Axis.MaxPower); got != top {
		t.Errorf("Y above ceiling = %d, want clamp to plot top %d", got, top)
	}
	// Values just below the ceiling stay inside the plot
	if got := m.Y(999.9); got < top {
		t.Errorf("Y(999.9) = %d escaped the plot top %d", got, top)
	}
}

func TestDefaultGeometryDerived(t *testing.T) {
	geo := DefaultGeometry()
	if geo.PlotWidth() != 276 {
		t.Errorf("PlotWidth = %d, want 276", geo.PlotWidth())
	}
	if geo.PlotHeight() != 80 {
		t.Errorf("PlotHeight = %d, want 80", geo.PlotHeight())
	}
	if geo.PlotBottom() != 113 {
		t.Errorf("PlotBottom = %d, want 113", geo.PlotBottom())
	}
}
