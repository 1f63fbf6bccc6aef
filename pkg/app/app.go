// Package app ties the resource cache, timer registry, task queue and
// callback dispatcher into one application container.
//
// Everything here runs on the UI goroutine. Background work reaches the
// application only through task.Shared values and is noticed by Frame.
package app

import (
	"fmt"
	"log/slog"
	"time"

	"gitlab.com/tinyland/lab/framekit/pkg/clipboard"
	"gitlab.com/tinyland/lab/framekit/pkg/config"
	"gitlab.com/tinyland/lab/framekit/pkg/dispatch"
	"gitlab.com/tinyland/lab/framekit/pkg/redraw"
	"gitlab.com/tinyland/lab/framekit/pkg/resource"
	"gitlab.com/tinyland/lab/framekit/pkg/task"
	"gitlab.com/tinyland/lab/framekit/pkg/timer"
)

// Window is the read-only window and input snapshot callbacks see.
type Window struct {
	Width, Height int

	Cursor    dispatch.Point
	HasCursor bool

	Hovered  []dispatch.NodeID
	Focused  dispatch.NodeID
	HasFocus bool
}

// State is handed to every callback, timer and view. The embedded
// services make their methods available directly on the state, e.g.
// state.AddImage or state.AddTimer.
type State[T any] struct {
	Data T

	*resource.Cache
	*timer.Registry[*State[T]]
	*task.Queue

	window Window
	clip   clipboard.Clipboard
}

// ClipboardString returns the clipboard text.
func (s *State[T]) ClipboardString() (string, error) {
	return s.clip.ReadString()
}

// SetClipboardString replaces the clipboard text.
func (s *State[T]) SetClipboardString(text string) error {
	return s.clip.WriteString(text)
}

// Window returns the current window snapshot.
func (s *State[T]) Window() Window {
	w := s.window
	w.Hovered = append([]dispatch.NodeID(nil), s.window.Hovered...)
	return w
}

// Callback is a dispatch callback over the application state.
type Callback[T any] = dispatch.Callback[*State[T]]

// TimerCallback is a timer callback over the application state.
type TimerCallback[T any] = timer.Callback[*State[T]]

// Option configures an App.
type Option func(*options)

type options struct {
	logger *slog.Logger
	clock  func() time.Time
	notify func()
	clip   clipboard.Clipboard
}

// WithLogger sets the logger shared by every service.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock sets the clock used to stamp new timers.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithNotify is called from a worker goroutine after each finished task.
func WithNotify(fn func()) Option {
	return func(o *options) { o.notify = fn }
}

// WithClipboard sets the clipboard behind State.ClipboardString. The
// default is a process-local clipboard.
func WithClipboard(c clipboard.Clipboard) Option {
	return func(o *options) {
		if c != nil {
			o.clip = c
		}
	}
}

// App owns the state and the dispatcher.
type App[T any] struct {
	state      *State[T]
	dispatcher *dispatch.Dispatcher[*State[T]]
	focusOrder []dispatch.NodeID
	logger     *slog.Logger
	frames     uint64
}

// New builds an App around data. A nil cfg means config.DefaultConfig().
func New[T any](data T, cfg *config.Config, opts ...Option) (*App[T], error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	o := options{
		logger: slog.New(slog.DiscardHandler),
		clock:  time.Now,
		clip:   &clipboard.Memory{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	s := &State[T]{
		Data: data,
		clip: o.clip,
		Cache: resource.New(
			resource.WithLogger(o.logger.With("component", "resource")),
			resource.WithBaseDir(cfg.Assets.BaseDir),
			resource.WithMaxFileSize(cfg.MaxFileSize()),
		),
		Registry: timer.NewRegistry[*State[T]](
			timer.WithLogger(o.logger.With("component", "timer")),
			timer.WithClock(o.clock),
		),
		Queue: task.NewQueue(
			task.WithWorkers(cfg.Tasks.Workers),
			task.WithLogger(o.logger.With("component", "task")),
			task.WithNotify(o.notify),
		),
	}
	return &App[T]{
		state:      s,
		dispatcher: dispatch.New[*State[T]](),
		logger:     o.logger,
	}, nil
}

// State returns the application state.
func (a *App[T]) State() *State[T] {
	return a.state
}

// Bind attaches cb to node for events passing filter.
func (a *App[T]) Bind(node dispatch.NodeID, filter dispatch.EventFilter, cb Callback[T]) {
	a.dispatcher.Bind(node, filter, cb)
}

// Unbind removes every callback bound to node.
func (a *App[T]) Unbind(node dispatch.NodeID) int {
	return a.dispatcher.Unbind(node)
}

// Resize records new window dimensions. A resize always needs a redraw.
func (a *App[T]) Resize(width, height int) redraw.Decision {
	a.state.window.Width = width
	a.state.window.Height = height
	return redraw.Redraw
}

// HandleEvent dispatches one batch of translated events. The window
// snapshot is updated from hit before any callback runs. Focus in hit is
// ignored; focus is owned by the App (see Focus).
func (a *App[T]) HandleEvent(events []dispatch.EventKind, hit dispatch.HitState) redraw.Decision {
	w := &a.state.window
	w.Cursor, w.HasCursor = hit.Cursor, hit.HasCursor
	w.Hovered = append(w.Hovered[:0], hit.Hovered...)

	hit.Focused, hit.HasFocus = w.Focused, w.HasFocus
	d := a.dispatcher.Dispatch(events, hit, a.state)
	if d == redraw.Redraw {
		a.logger.Debug("event requested redraw", "events", len(events))
	}
	return d
}

// Frame advances timers to now and collects finished tasks. It returns
// Redraw if any timer asked for one or any task finished since the
// previous frame.
func (a *App[T]) Frame(now time.Time) redraw.Decision {
	a.frames++
	timers := a.state.Registry.Tick(now, a.state)
	done := a.state.Queue.Collect()
	if done > 0 {
		a.logger.Debug("tasks finished", "count", done, "frame", a.frames)
	}
	return timers.Or(redraw.If(done > 0))
}

// Frames returns how many times Frame has run.
func (a *App[T]) Frames() uint64 {
	return a.frames
}

// Close waits for queued tasks and releases cached assets. Timers are
// dropped without firing.
func (a *App[T]) Close() {
	a.state.Queue.Close()
	a.state.Queue.Collect()
	for _, id := range a.state.Registry.TimerIDs() {
		a.state.Registry.DeleteTimer(id)
	}
	a.state.Cache.Close()
	a.logger.Debug("app closed", "frames", a.frames)
}
