// Package redraw defines the screen-update decision every callback, timer
// and completed task reports back to the frame loop.
package redraw

// Decision tells the rendering layer whether the screen must be repainted.
type Decision uint8

const (
	// DontRedraw leaves the last rendered frame on screen.
	DontRedraw Decision = iota
	// Redraw schedules a repaint.
	Redraw
)

// String returns "redraw" or "dont-redraw".
func (d Decision) String() string {
	if d == Redraw {
		return "redraw"
	}
	return "dont-redraw"
}

// Or returns Redraw if either decision is Redraw.
func (d Decision) Or(other Decision) Decision {
	if d == Redraw || other == Redraw {
		return Redraw
	}
	return DontRedraw
}

// Any folds decisions together. An empty list is DontRedraw.
func Any(ds ...Decision) Decision {
	out := DontRedraw
	for _, d := range ds {
		out = out.Or(d)
	}
	return out
}

// If converts a boolean into a Decision.
func If(b bool) Decision {
	if b {
		return Redraw
	}
	return DontRedraw
}
