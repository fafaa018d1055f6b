package chart

// Action is the redraw strategy chosen for one update cycle.
type Action int

const (
	// ActionNone means nothing new to draw; the surface is untouched.
	ActionNone Action = iota
	// ActionIncremental draws only the newly arrived samples onto the
	// existing image.
	ActionIncremental
	// ActionFull clears the region, cycles the pixels and repaints from
	// retained data.
	ActionFull
)

// String returns the action name for logs.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionIncremental:
		return "incremental"
	case ActionFull:
		return "full"
	default:
		return "unknown"
	}
}

// Planner decides between a full repaint and an incremental draw for one
// display region. E-paper accumulates ghosting from partial refreshes, so
// after Threshold drawing updates a full repaint is forced even when nothing
// else requires one. Each region keeps its own Planner with its own
// threshold.
type Planner struct {
	Threshold int // forced full repaint after this many draws; <= 0 disables
	count     int
}

// Plan returns the action for this update cycle, in priority order: no work
// wins over everything, an axis rescale forces a full repaint, then the
// forced-refresh counter. Updates with no work never advance the counter, and
// any full repaint resets it: the pixels get cycled regardless of what
// triggered the repaint.
func (p *Planner) Plan(hasWork, rescale bool) Action {
	if !hasWork {
		return ActionNone
	}
	p.count++
	if rescale {
		p.count = 0
		return ActionFull
	}
	if p.Threshold > 0 && p.count >= p.Threshold {
		p.count = 0
		return ActionFull
	}
	return ActionIncremental
}

// Reset clears the forced-refresh counter.
func (p *Planner) Reset() {
	p.count = 0
}
