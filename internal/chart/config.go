package chart

// Config carries the tunables for the chart core. The forced-refresh
// thresholds and cycle count combat residual ghosting; they are operating
// parameters to tune per panel.
type Config struct {
	WindowSeconds int64   // visible time span
	ScrollQuantum int64   // origin shift granularity, a fraction of the window
	StepWatts     float64 // Y ceiling rounding step

	ChartRefreshUpdates   int // graph draws between forced full repaints
	ReadoutRefreshUpdates int // readout draws between forced full repaints
	RefreshCycles         int // black/white cycles per forced full repaint

	EpsilonWatts float64 // readout redraw suppression threshold
	Geom         Geometry
}

// DefaultConfig returns the stock configuration: a one hour window scrolling
// in quarter-window steps.
func DefaultConfig() Config {
	return Config{
		WindowSeconds:         3600,
		ScrollQuantum:         900,
		StepWatts:             500,
		ChartRefreshUpdates:   5,
		ReadoutRefreshUpdates: 50,
		RefreshCycles:         2,
		EpsilonWatts:          0.2,
		Geom:                  DefaultGeometry(),
	}
}

func (c Config) scaler() Scaler {
	return Scaler{
		WindowSeconds: c.WindowSeconds,
		ScrollQuantum: c.ScrollQuantum,
		StepWatts:     c.StepWatts,
	}
}
