// Package timer keeps the recurring timers of an application and fires
// them once per frame tick. Callbacks run on the goroutine that calls Tick
// and receive the application state directly, so a Registry must only be
// used from that goroutine.
package timer

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"gitlab.com/tinyland/lab/framekit/pkg/handle"
	"gitlab.com/tinyland/lab/framekit/pkg/redraw"
)

// Decision is what a timer callback asks the registry to do next.
type Decision uint8

const (
	// Continue keeps the timer and does not request a repaint.
	Continue Decision = iota
	// ContinueAndRedraw keeps the timer and requests a repaint.
	ContinueAndRedraw
	// Terminate removes the timer.
	Terminate
)

func (d Decision) String() string {
	switch d {
	case Continue:
		return "continue"
	case ContinueAndRedraw:
		return "continue-redraw"
	case Terminate:
		return "terminate"
	}
	return fmt.Sprintf("decision(%d)", uint8(d))
}

// Callback is invoked when a timer is due. elapsed is the time since the
// timer was added.
type Callback[T any] func(state T, elapsed time.Duration) Decision

// Timer is a recurring callback. The zero Interval fires on every tick.
type Timer[T any] struct {
	Callback Callback[T]
	Interval time.Duration
	// Delay postpones the first fire to Started+Delay.
	Delay time.Duration
	// Timeout removes the timer once Started+Timeout is reached. Zero
	// means no timeout.
	Timeout time.Duration

	// Started is set by AddTimer when zero.
	Started time.Time
	// LastFired is set to Started by AddTimer when zero.
	LastFired time.Time
	Paused    bool

	fired bool
}

// Every builds a timer firing cb each interval.
func Every[T any](interval time.Duration, cb Callback[T]) Timer[T] {
	return Timer[T]{Interval: interval, Callback: cb}
}

// WithDelay returns a copy of t whose first fire waits d.
func (t Timer[T]) WithDelay(d time.Duration) Timer[T] {
	t.Delay = d
	return t
}

// WithTimeout returns a copy of t that expires after d.
func (t Timer[T]) WithTimeout(d time.Duration) Timer[T] {
	t.Timeout = d
	return t
}

// Fired reports whether the timer has fired at least once.
func (t Timer[T]) Fired() bool { return t.fired }

// due reports whether t should fire at now.
func (t *Timer[T]) due(now time.Time) bool {
	if t.Paused {
		return false
	}
	if !t.fired && t.Delay > 0 {
		return !now.Before(t.Started.Add(t.Delay))
	}
	return now.Sub(t.LastFired) >= t.Interval
}

func (t *Timer[T]) expired(now time.Time) bool {
	return t.Timeout > 0 && !now.Before(t.Started.Add(t.Timeout))
}

// Option configures a Registry.
type Option func(*options)

type options struct {
	clock  func() time.Time
	logger *slog.Logger
}

// WithClock sets the clock AddTimer uses to stamp new timers.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLogger sets the logger for timer diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// API is the timer surface exposed on application state wrappers.
type API[T any] interface {
	AddTimer(id handle.TimerID, t Timer[T])
	HasTimer(id handle.TimerID) bool
	Timer(id handle.TimerID) (Timer[T], bool)
	DeleteTimer(id handle.TimerID) (Timer[T], bool)
}

var _ API[struct{}] = (*Registry[struct{}])(nil)

// Registry owns the active timers, keyed by TimerID.
type Registry[T any] struct {
	opts   options
	timers map[handle.TimerID]*Timer[T]
	fired  uint64
}

// NewRegistry creates an empty registry.
func NewRegistry[T any](opts ...Option) *Registry[T] {
	o := options{clock: time.Now, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	return &Registry[T]{opts: o, timers: make(map[handle.TimerID]*Timer[T])}
}

// AddTimer inserts t under id, replacing any timer already there.
func (r *Registry[T]) AddTimer(id handle.TimerID, t Timer[T]) {
	if t.Started.IsZero() {
		t.Started = r.opts.clock()
	}
	if t.LastFired.IsZero() {
		t.LastFired = t.Started
	}
	r.timers[id] = &t
}

// HasTimer reports whether id is registered.
func (r *Registry[T]) HasTimer(id handle.TimerID) bool {
	_, ok := r.timers[id]
	return ok
}

// Timer returns a copy of the timer under id. Changes to the copy are
// not seen by the registry until passed back to AddTimer.
func (r *Registry[T]) Timer(id handle.TimerID) (Timer[T], bool) {
	t, ok := r.timers[id]
	if !ok {
		return Timer[T]{}, false
	}
	return *t, true
}

// DeleteTimer removes id and returns the timer that was registered.
func (r *Registry[T]) DeleteTimer(id handle.TimerID) (Timer[T], bool) {
	t, ok := r.timers[id]
	if !ok {
		return Timer[T]{}, false
	}
	delete(r.timers, id)
	return *t, true
}

// Pause stops id from firing until Resume. It reports whether id exists.
func (r *Registry[T]) Pause(id handle.TimerID) bool {
	t, ok := r.timers[id]
	if ok {
		t.Paused = true
	}
	return ok
}

// Resume lets a paused timer fire again.
func (r *Registry[T]) Resume(id handle.TimerID) bool {
	t, ok := r.timers[id]
	if ok {
		t.Paused = false
	}
	return ok
}

// TimerIDs returns the registered ids in firing order.
func (r *Registry[T]) TimerIDs() []handle.TimerID {
	ids := make([]handle.TimerID, 0, len(r.timers))
	for id := range r.timers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of registered timers.
func (r *Registry[T]) Len() int {
	return len(r.timers)
}

// FiredCount returns the total number of callback invocations.
func (r *Registry[T]) FiredCount() uint64 {
	return r.fired
}

// Tick fires every due timer once, in ascending id order. Each callback
// runs to completion before the next starts, so later timers see the
// state earlier ones left behind. Timers added or replaced during the
// tick wait for the next one.
func (r *Registry[T]) Tick(now time.Time, state T) redraw.Decision {
	ids := r.TimerIDs()
	snap := make([]*Timer[T], len(ids))
	for i, id := range ids {
		snap[i] = r.timers[id]
	}

	out := redraw.DontRedraw
	for i, id := range ids {
		t := snap[i]
		if cur, ok := r.timers[id]; !ok || cur != t {
			// deleted or replaced by an earlier callback in this tick
			continue
		}
		if t.expired(now) {
			delete(r.timers, id)
			r.opts.logger.Debug("timer expired", "timer", id)
			continue
		}
		if !t.due(now) || t.Callback == nil {
			continue
		}

		d := r.fire(id, t, now, state)
		r.fired++
		if d == ContinueAndRedraw {
			out = redraw.Redraw
		}

		cur, ok := r.timers[id]
		if !ok {
			continue
		}
		if cur != t {
			// The callback saved a copy of itself. The copy still
			// carries the old LastFired; this fire counts for it.
			if d != Terminate && !cur.LastFired.After(t.LastFired) {
				cur.LastFired = now
				cur.fired = true
			}
			continue
		}
		if d == Terminate {
			delete(r.timers, id)
			continue
		}
		t.LastFired = now
		t.fired = true
	}
	return out
}

// fire runs one callback. A panic terminates the timer instead of the
// frame loop.
func (r *Registry[T]) fire(id handle.TimerID, t *Timer[T], now time.Time, state T) (d Decision) {
	defer func() {
		if p := recover(); p != nil {
			r.opts.logger.Error("timer callback panicked", "timer", id, "panic", p)
			d = Terminate
		}
	}()
	return t.Callback(state, now.Sub(t.Started))
}
