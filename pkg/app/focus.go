package app

import (
	"gitlab.com/tinyland/lab/framekit/pkg/dispatch"
	"gitlab.com/tinyland/lab/framekit/pkg/redraw"
)

// SetFocusOrder sets the nodes Tab navigation cycles through. If the
// focused node is no longer in the order, focus is cleared silently.
func (a *App[T]) SetFocusOrder(nodes ...dispatch.NodeID) {
	a.focusOrder = append(a.focusOrder[:0], nodes...)
	w := &a.state.window
	if w.HasFocus && a.focusedIndex() < 0 {
		w.Focused, w.HasFocus = 0, false
	}
}

// Focus moves focus to node, dispatching FocusLost to the old node and
// FocusReceived to the new one. Focusing the focused node is a no-op.
func (a *App[T]) Focus(node dispatch.NodeID) redraw.Decision {
	w := &a.state.window
	if w.HasFocus && w.Focused == node {
		return redraw.DontRedraw
	}
	d := a.Blur()
	w.Focused, w.HasFocus = node, true
	return d.Or(a.dispatchFocus(dispatch.FocusReceived))
}

// Blur clears focus, dispatching FocusLost to the node that had it.
func (a *App[T]) Blur() redraw.Decision {
	w := &a.state.window
	if !w.HasFocus {
		return redraw.DontRedraw
	}
	d := a.dispatchFocus(dispatch.FocusLost)
	w.Focused, w.HasFocus = 0, false
	return d
}

// FocusNext moves focus to the next node in the focus order, wrapping
// around after the last.
func (a *App[T]) FocusNext() redraw.Decision {
	if len(a.focusOrder) == 0 {
		return redraw.DontRedraw
	}
	idx := a.focusedIndex() + 1
	return a.Focus(a.focusOrder[idx%len(a.focusOrder)])
}

// FocusPrev moves focus to the previous node, wrapping around before the
// first.
func (a *App[T]) FocusPrev() redraw.Decision {
	n := len(a.focusOrder)
	if n == 0 {
		return redraw.DontRedraw
	}
	idx := a.focusedIndex()
	if idx < 0 {
		idx = 0
	}
	return a.Focus(a.focusOrder[(idx-1+n)%n])
}

// focusedIndex returns the focused node's position in the focus order,
// or -1.
func (a *App[T]) focusedIndex() int {
	w := a.state.window
	if !w.HasFocus {
		return -1
	}
	for i, n := range a.focusOrder {
		if n == w.Focused {
			return i
		}
	}
	return -1
}

func (a *App[T]) dispatchFocus(ev dispatch.EventKind) redraw.Decision {
	w := a.state.window
	hit := dispatch.HitState{
		Hovered:   w.Hovered,
		Focused:   w.Focused,
		HasFocus:  w.HasFocus,
		Cursor:    w.Cursor,
		HasCursor: w.HasCursor,
	}
	return a.dispatcher.Dispatch([]dispatch.EventKind{ev}, hit, a.state)
}
