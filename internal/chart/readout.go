package chart

import (
	"fmt"
	"image"
	"math"

	"github.com/sweeney/solar-monitor/internal/display"
)

// absentText is drawn for a channel with no reading in the latest sample.
const absentText = "  -"

// staleText is drawn for both channels when the feed has stopped.
const staleText = "???"

// Icons are the channel glyphs drawn on the readout's full repaints.
// Either may be nil, leaving the label area blank.
type Icons struct {
	Solar image.Image
	Usage image.Image
}

// Readout renders the latest instantaneous reading as text across the top of
// the panel. Redraws are suppressed while both channels stay within the
// configured epsilon of the values already on screen, and the region keeps
// its own forced-refresh counter, decoupled from the chart's.
type Readout struct {
	cfg     Config
	surface display.Surface
	planner Planner
	icons   Icons

	lastSolar *float64 // last drawn channel means; nil = drawn as absent
	lastUsage *float64
	drawn     bool
	stale     bool
}

// NewReadout creates a readout renderer drawing onto the given surface.
func NewReadout(cfg Config, surface display.Surface, icons Icons) *Readout {
	return &Readout{
		cfg:     cfg,
		surface: surface,
		planner: Planner{Threshold: cfg.ReadoutRefreshUpdates},
		icons:   icons,
	}
}

// Init paints the region chrome (separator line and channel icons) once at
// startup.
func (r *Readout) Init() error {
	return r.redrawChrome(1)
}

// Update renders the reading carried by the latest sample and returns the
// action taken. Suppressed updates perform no display writes at all.
func (r *Readout) Update(s Sample) (Action, error) {
	solar := channelMean(s.Solar)
	usage := channelMean(s.Usage)

	if r.drawn && !r.stale &&
		withinEpsilon(r.lastSolar, solar, r.cfg.EpsilonWatts) &&
		withinEpsilon(r.lastUsage, usage, r.cfg.EpsilonWatts) {
		return ActionNone, nil
	}

	action := r.planner.Plan(true, false)
	if action == ActionFull {
		if err := r.redrawChrome(r.cfg.RefreshCycles); err != nil {
			return action, err
		}
	}
	if err := r.draw(readingText(solar), readingText(usage)); err != nil {
		return action, err
	}
	r.lastSolar = solar
	r.lastUsage = usage
	r.drawn = true
	r.stale = false
	return action, nil
}

// MarkStale replaces both readings with a placeholder when the feed has
// stopped delivering samples. Repeat calls while already stale are no-ops.
func (r *Readout) MarkStale() error {
	if r.stale {
		return nil
	}
	if err := r.draw(staleText, staleText); err != nil {
		return err
	}
	r.stale = true
	r.lastSolar = nil
	r.lastUsage = nil
	return nil
}

// redrawChrome cycles the readout region and repaints the separator line and
// the channel icons.
func (r *Readout) redrawChrome(cycles int) error {
	geo := r.cfg.Geom
	if err := cycleRegion(r.surface, 0, 0, geo.Width, geo.DividerY, cycles); err != nil {
		return fmt.Errorf("cycle readout region: %w", err)
	}
	r.surface.DrawLine(0, geo.DividerY, geo.Width-1, geo.DividerY, display.Black)
	if r.icons.Solar != nil {
		r.surface.DrawImage(r.solarIconX(), 0, r.icons.Solar)
	}
	if r.icons.Usage != nil {
		r.surface.DrawImage(r.usageIconX(), 0, r.icons.Usage)
	}
	if err := r.surface.Flush(); err != nil {
		return fmt.Errorf("flush readout chrome: %w", err)
	}
	return nil
}

func (r *Readout) draw(solarText, usageText string) error {
	geo := r.cfg.Geom
	textY := 4
	textH := geo.DividerY - 5
	solarX := r.solarIconX() + iconTextInset
	usageX := r.usageIconX() + iconTextInset

	r.surface.FillRect(solarX, textY, r.usageIconX()-solarX, textH, display.White)
	r.surface.FillRect(usageX, textY, geo.Width-usageX, textH, display.White)
	r.surface.DrawText(solarX, textY, solarText, display.FontLarge, display.Black)
	r.surface.DrawText(usageX, textY, usageText, display.FontLarge, display.Black)
	if err := r.surface.Flush(); err != nil {
		return fmt.Errorf("flush readout: %w", err)
	}
	return nil
}

// iconTextInset is the horizontal distance from an icon's left edge to its
// reading text.
const iconTextInset = 36

func (r *Readout) solarIconX() int { return 0 }

func (r *Readout) usageIconX() int { return r.cfg.Geom.Width/2 - 18 }

func channelMean(rg *Range) *float64 {
	if rg == nil {
		return nil
	}
	m := rg.Mean()
	return &m
}

func readingText(v *float64) string {
	if v == nil {
		return absentText
	}
	return fmt.Sprintf("%.1fW", *v)
}

// withinEpsilon reports whether the new reading is close enough to the drawn
// one that redrawing it would not visibly change the panel.
func withinEpsilon(drawn, next *float64, epsilon float64) bool {
	if drawn == nil || next == nil {
		return drawn == nil && next == nil
	}
	return math.Abs(*drawn-*next) <= epsilon
}
