// Package dispatch matches translated input events against the event
// filters bound to nodes and runs the matching callbacks.
//
// Match order for one event is fixed: every Hover, Focus and Window match
// first, then every Not match. Within each group callbacks run in tree
// order (ascending NodeID) and, for one node, in bind order. A specific
// handler can therefore call StopPropagation to keep the general
// "click outside" handlers from running.
package dispatch

import (
	"sort"

	"gitlab.com/tinyland/lab/framekit/pkg/redraw"
)

// CallbackInfo is what a callback learns about the event it handles.
// The hit state is read-only.
type CallbackInfo struct {
	Event  EventKind
	Node   NodeID
	Filter EventFilter
	Hit    HitState

	stopped bool
}

// StopPropagation skips every callback still waiting for this event.
func (i *CallbackInfo) StopPropagation() {
	i.stopped = true
}

// Callback handles one matched event.
type Callback[S any] func(state S, info *CallbackInfo) redraw.Decision

// Match is one binding selected for an event.
type Match struct {
	Node   NodeID
	Filter EventFilter
	Event  EventKind
}

type binding[S any] struct {
	node   NodeID
	filter EventFilter
	cb     Callback[S]
	seq    int
}

// Dispatcher owns the filter to callback bindings. It is not safe for
// concurrent use.
type Dispatcher[S any] struct {
	bindings []binding[S]
	seq      int
}

// New creates an empty dispatcher.
func New[S any]() *Dispatcher[S] {
	return &Dispatcher[S]{}
}

// Bind attaches cb to node for events passing filter.
func (d *Dispatcher[S]) Bind(node NodeID, filter EventFilter, cb Callback[S]) {
	d.seq++
	d.bindings = append(d.bindings, binding[S]{node: node, filter: filter, cb: cb, seq: d.seq})
}

// Unbind removes every binding on node and returns how many there were.
func (d *Dispatcher[S]) Unbind(node NodeID) int {
	kept := d.bindings[:0]
	for _, b := range d.bindings {
		if b.node != node {
			kept = append(kept, b)
		}
	}
	n := len(d.bindings) - len(kept)
	for i := len(kept); i < len(d.bindings); i++ {
		d.bindings[i] = binding[S]{}
	}
	d.bindings = kept
	return n
}

// Reset drops every binding, e.g. before a new document is bound.
func (d *Dispatcher[S]) Reset() {
	d.bindings = nil
}

// Len returns the number of bindings.
func (d *Dispatcher[S]) Len() int {
	return len(d.bindings)
}

// Matches returns the bindings that would run for events, in invocation
// order, without running them.
func (d *Dispatcher[S]) Matches(events []EventKind, hit HitState) []Match {
	var out []Match
	for _, ev := range events {
		for _, b := range d.matching(ev, hit) {
			out = append(out, Match{Node: b.node, Filter: b.filter, Event: ev})
		}
	}
	return out
}

// Dispatch runs every matching callback for each event in turn and
// returns Redraw if any of them asked for it.
func (d *Dispatcher[S]) Dispatch(events []EventKind, hit HitState, state S) redraw.Decision {
	out := redraw.DontRedraw
	for _, ev := range events {
		for _, b := range d.matching(ev, hit) {
			info := &CallbackInfo{Event: ev, Node: b.node, Filter: b.filter, Hit: hit}
			out = out.Or(b.cb(state, info))
			if info.stopped {
				break
			}
		}
	}
	return out
}

func (d *Dispatcher[S]) matching(ev EventKind, hit HitState) []binding[S] {
	var out []binding[S]
	for _, b := range d.bindings {
		if b.filter.Event == ev && matches(b.node, b.filter, hit) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.filter.negated() != b.filter.negated() {
			return !a.filter.negated()
		}
		if a.node != b.node {
			return a.node < b.node
		}
		return a.seq < b.seq
	})
	return out
}

// matches evaluates one filter for node against the snapshot. The event
// kind has already been checked.
func matches(node NodeID, f EventFilter, hit HitState) bool {
	switch f.Scope {
	case ScopeWindow:
		return true
	case ScopeFocus:
		return hit.HasFocus && hit.Focused == node
	case ScopeHover:
		switch f.Event {
		case MouseEnter:
			return contains(hit.Entered(), node)
		case MouseLeave:
			return contains(hit.Left(), node)
		}
		return hit.IsHovered(node)
	case ScopeNot:
		return !hit.IsHovered(node)
	}
	return false
}
