package dispatch

import "fmt"

// NodeID is a node's position in tree (document) order.
type NodeID int

// EventKind is a platform input event after translation.
type EventKind uint8

const (
	MouseOver EventKind = iota + 1
	MouseDown
	LeftMouseDown
	RightMouseDown
	MouseUp
	LeftMouseUp
	RightMouseUp
	MouseEnter
	MouseLeave
	Scroll
	TextInput
	VirtualKeyDown
	VirtualKeyUp
	FocusReceived
	FocusLost
	HoveredFile
	DroppedFile
)

var eventNames = map[EventKind]string{
	MouseOver:      "mouse-over",
	MouseDown:      "mouse-down",
	LeftMouseDown:  "left-mouse-down",
	RightMouseDown: "right-mouse-down",
	MouseUp:        "mouse-up",
	LeftMouseUp:    "left-mouse-up",
	RightMouseUp:   "right-mouse-up",
	MouseEnter:     "mouse-enter",
	MouseLeave:     "mouse-leave",
	Scroll:         "scroll",
	TextInput:      "text-input",
	VirtualKeyDown: "virtual-key-down",
	VirtualKeyUp:   "virtual-key-up",
	FocusReceived:  "focus-received",
	FocusLost:      "focus-lost",
	HoveredFile:    "hovered-file",
	DroppedFile:    "dropped-file",
}

func (k EventKind) String() string {
	if s, ok := eventNames[k]; ok {
		return s
	}
	return fmt.Sprintf("event(%d)", uint8(k))
}

// Scope says which nodes an EventFilter applies to.
type Scope uint8

const (
	// ScopeHover matches on the node under the cursor.
	ScopeHover Scope = iota + 1
	// ScopeNot matches on every node that is not under the cursor.
	ScopeNot
	// ScopeFocus matches on the focused node.
	ScopeFocus
	// ScopeWindow matches regardless of position or focus.
	ScopeWindow
)

func (s Scope) String() string {
	switch s {
	case ScopeHover:
		return "hover"
	case ScopeNot:
		return "not"
	case ScopeFocus:
		return "focus"
	case ScopeWindow:
		return "window"
	}
	return fmt.Sprintf("scope(%d)", uint8(s))
}

// EventFilter pairs an event kind with the scope it must occur in.
type EventFilter struct {
	Scope Scope
	Event EventKind
}

// Hover matches k on a hovered node.
func Hover(k EventKind) EventFilter { return EventFilter{Scope: ScopeHover, Event: k} }

// On is shorthand for Hover.
func On(k EventKind) EventFilter { return Hover(k) }

// Not matches k on nodes that are not hovered, e.g. "click outside".
func Not(k EventKind) EventFilter { return EventFilter{Scope: ScopeNot, Event: k} }

// Focus matches k on the focused node.
func Focus(k EventKind) EventFilter { return EventFilter{Scope: ScopeFocus, Event: k} }

// Window matches k anywhere.
func Window(k EventKind) EventFilter { return EventFilter{Scope: ScopeWindow, Event: k} }

func (f EventFilter) String() string {
	return f.Scope.String() + ":" + f.Event.String()
}

// negated filters run after every specific filter for the same event.
func (f EventFilter) negated() bool { return f.Scope == ScopeNot }

// Point is a cursor position in cells or logical pixels.
type Point struct {
	X, Y int
}

// HitState is the per-event snapshot of pointer and focus state that
// filters are evaluated against.
type HitState struct {
	// Hovered are the nodes under the cursor now; PrevHovered before
	// this event. The difference drives MouseEnter/MouseLeave.
	Hovered     []NodeID
	PrevHovered []NodeID

	Focused  NodeID
	HasFocus bool

	Cursor    Point
	HasCursor bool

	// Key is the key or text of a keyboard event.
	Key string
}

// IsHovered reports whether n is under the cursor.
func (h HitState) IsHovered(n NodeID) bool {
	return contains(h.Hovered, n)
}

// Entered returns nodes hovered now but not before.
func (h HitState) Entered() []NodeID {
	return diff(h.Hovered, h.PrevHovered)
}

// Left returns nodes hovered before but not now.
func (h HitState) Left() []NodeID {
	return diff(h.PrevHovered, h.Hovered)
}

// Transitions returns MouseEnter and/or MouseLeave if the hover set
// changed.
func (h HitState) Transitions() []EventKind {
	var out []EventKind
	if len(h.Entered()) > 0 {
		out = append(out, MouseEnter)
	}
	if len(h.Left()) > 0 {
		out = append(out, MouseLeave)
	}
	return out
}

func contains(ns []NodeID, n NodeID) bool {
	for _, x := range ns {
		if x == n {
			return true
		}
	}
	return false
}

func diff(a, b []NodeID) []NodeID {
	var out []NodeID
	for _, n := range a {
		if !contains(b, n) {
			out = append(out, n)
		}
	}
	return out
}
