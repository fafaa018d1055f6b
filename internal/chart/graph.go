package chart

import (
	"fmt"

	"github.com/sweeney/solar-monitor/internal/display"
)

// joinTolerancePx is the maximum horizontal distance, in pixels, across which
// consecutive samples of a channel are joined into a continuous silhouette.
// A wider gap means data was missing for that span and must stay visible as
// a gap.
const joinTolerancePx = 2

// yAxisTicks is the number of evenly spaced Y-axis ticks; every second one is
// labeled in kilowatts.
const yAxisTicks = 6

// xAxisSegments is the number of segments the X axis is divided into by time
// markers.
const xAxisSegments = 4

type channel int

const (
	channelSolar channel = iota
	channelUsage
)

// lastPoint is the last drawn pixel position for one channel, used for the
// join heuristic between consecutive samples.
type lastPoint struct {
	x, y int
	ok   bool
}

// Graph owns the chart region of the panel: the sliding sample window, the
// derived axis state and the per-channel continuity of the drawn traces.
type Graph struct {
	cfg     Config
	surface display.Surface
	scaler  Scaler
	planner Planner
	win     Window
	axis    Axis
	last    [2]lastPoint
}

// NewGraph creates a graph renderer drawing onto the given surface.
func NewGraph(cfg Config, surface display.Surface) *Graph {
	return &Graph{
		cfg:     cfg,
		surface: surface,
		scaler:  cfg.scaler(),
		planner: Planner{Threshold: cfg.ChartRefreshUpdates},
	}
}

// Axis returns the current axis state. The zero Axis means no data yet.
func (g *Graph) Axis() Axis { return g.axis }

// Len returns the number of samples currently retained.
func (g *Graph) Len() int { return g.win.Len() }

// Update ingests one fetched batch and draws whatever the planner decides.
// It returns the action taken and the number of samples newly stored.
func (g *Graph) Update(now int64, batch []Sample) (Action, int, error) {
	origin := g.scaler.Origin(now)
	g.win.Evict(origin)

	var fresh []Sample
	for _, s := range batch {
		if s.Empty() || s.TS < origin {
			continue
		}
		if g.win.Append(s) {
			fresh = append(fresh, s)
		}
	}

	if g.win.Len() == 0 {
		// Stale window: forget the axes so the next repaint starts from
		// scratch when data returns. The last good frame stays on the panel.
		g.axis = Axis{}
		return ActionNone, 0, nil
	}

	aggregate, _ := g.win.AggregateMax()
	next := Axis{OriginTS: origin, MaxPower: g.scaler.MaxPower(aggregate)}
	rescale := NeedsRescale(g.axis, next)

	action := g.planner.Plan(len(fresh) > 0, rescale)
	var err error
	switch action {
	case ActionFull:
		g.axis = next
		err = g.redrawAll()
	case ActionIncremental:
		err = g.drawSamples(fresh)
	}
	return action, len(fresh), err
}

func (g *Graph) mapper() Mapper {
	return Mapper{Axis: g.axis, Geom: g.cfg.Geom, WindowSeconds: g.cfg.WindowSeconds}
}

// redrawAll clears and cycles the chart region, repaints the axis
// decorations, and replays every retained sample from scratch.
func (g *Graph) redrawAll() error {
	geo := g.cfg.Geom
	regionY := geo.DividerY + 1
	regionH := geo.Height - regionY

	if err := cycleRegion(g.surface, 0, regionY, geo.Width, regionH, g.cfg.RefreshCycles); err != nil {
		return fmt.Errorf("cycle chart region: %w", err)
	}

	g.surface.DrawLine(geo.AxisX, geo.DividerY, geo.AxisX, geo.AxisY, display.Black)
	g.surface.DrawLine(0, geo.AxisY, geo.Width-1, geo.AxisY, display.Black)
	if err := g.surface.Flush(); err != nil {
		return fmt.Errorf("flush axis lines: %w", err)
	}

	if err := g.drawYAxis(); err != nil {
		return err
	}
	if err := g.drawXAxis(); err != nil {
		return err
	}

	g.last = [2]lastPoint{}
	return g.drawSamples(g.win.Samples())
}

// drawYAxis draws the power ticks. Every second tick carries a kilowatt
// label; labeled ticks are shortened to make room for the text.
func (g *Graph) drawYAxis() error {
	geo := g.cfg.Geom
	m := g.mapper()
	wattsPerTick := g.axis.MaxPower / yAxisTicks
	for tick := 0; tick < yAxisTicks; tick++ {
		watts := float64(tick) * wattsPerTick
		y := m.Y(watts)
		fromX := geo.AxisX - 5
		if tick%2 == 1 {
			fromX = geo.AxisX - 2
			label := fmt.Sprintf("%.1f", watts/1000)
			g.surface.DrawText(0, y-6, label, display.FontSmall, display.Black)
		}
		g.surface.DrawLine(fromX, y, geo.AxisX, y, display.Black)
	}
	if err := g.surface.Flush(); err != nil {
		return fmt.Errorf("flush y axis: %w", err)
	}
	return nil
}

// drawXAxis draws evenly spaced time markers labeled with the minute of the
// hour they fall on.
func (g *Graph) drawXAxis() error {
	geo := g.cfg.Geom
	m := g.mapper()
	ts := g.axis.OriginTS
	for i := 0; i <= xAxisSegments; i++ {
		x := m.X(ts)
		g.surface.DrawLine(x, geo.AxisY, x, geo.Height-4, display.Black)
		label := fmt.Sprintf(":%02d", (ts/60)%60)
		g.surface.DrawText(x+2, geo.AxisY, label, display.FontSmall, display.Black)
		ts += g.cfg.WindowSeconds / xAxisSegments
	}
	if err := g.surface.Flush(); err != nil {
		return fmt.Errorf("flush x axis: %w", err)
	}
	return nil
}

// drawSamples draws each sample as a vertical segment spanning its bucket's
// min..max range, per channel. The solar trace snaps to even columns so the
// two traces stay distinguishable without greyscale. Consecutive tops within
// the join tolerance are connected; wider gaps stay visible.
func (g *Graph) drawSamples(samples []Sample) error {
	m := g.mapper()
	for _, s := range samples {
		x := m.X(s.TS)
		if s.Solar != nil {
			sx := x - x%2
			g.drawRange(channelSolar, sx, *s.Solar, m)
		}
		if s.Usage != nil {
			g.drawRange(channelUsage, x, *s.Usage, m)
		}
	}
	if err := g.surface.Flush(); err != nil {
		return fmt.Errorf("flush samples: %w", err)
	}
	return nil
}

func (g *Graph) drawRange(ch channel, x int, r Range, m Mapper) {
	yMin := m.Y(r.Min)
	yMax := m.Y(r.Max)
	g.surface.DrawLine(x, yMin, x, yMax, display.Black)

	last := g.last[ch]
	if last.ok {
		if dx := x - last.x; dx >= 1 && dx <= joinTolerancePx {
			g.surface.DrawLine(last.x, last.y, x, yMax, display.Black)
		}
	}
	g.last[ch] = lastPoint{x: x, y: yMax, ok: true}
}

// cycleRegion paints the region all-black then all-white the given number of
// times, committing each paint, to reset residual pixel state. With no cycles
// configured the region is cleared to white once.
func cycleRegion(s display.Surface, x, y, w, h, cycles int) error {
	if cycles <= 0 {
		s.FillRect(x, y, w, h, display.White)
		return s.Flush()
	}
	for i := 0; i < cycles; i++ {
		s.FillRect(x, y, w, h, display.Black)
		if err := s.Flush(); err != nil {
			return err
		}
		s.FillRect(x, y, w, h, display.White)
		if err := s.Flush(); err != nil {
			return err
		}
	}
	return nil
}
