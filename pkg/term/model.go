package term

import (
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"gitlab.com/tinyland/lab/framekit/pkg/app"
	"gitlab.com/tinyland/lab/framekit/pkg/dispatch"
	"gitlab.com/tinyland/lab/framekit/pkg/redraw"
)

const defaultTick = 16 * time.Millisecond

// ViewFunc renders the application state. Interactive regions are
// wrapped with m.Mark so mouse events can be routed to their node.
type ViewFunc[T any] func(s *app.State[T], m Marker) string

// Option configures a Model.
type Option func(*options)

type options struct {
	tick     time.Duration
	hits     HitTester
	logger   *slog.Logger
	clock    func() time.Time
	title    string
	quitKeys []string
}

// WithTickInterval sets the frame period.
func WithTickInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.tick = d
		}
	}
}

// WithHitTester replaces the bubblezone hit tester.
func WithHitTester(h HitTester) Option {
	return func(o *options) { o.hits = h }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock sets the clock used when a frame runs outside the ticker.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithTitle sets the title shown by the placeholder view.
func WithTitle(s string) Option {
	return func(o *options) { o.title = s }
}

// WithQuitKeys sets the keys that end the program. ctrl+c always quits.
func WithQuitKeys(keys ...string) Option {
	return func(o *options) { o.quitKeys = keys }
}

// Model is a tea.Model driving an app.App.
type Model[T any] struct {
	app    *app.App[T]
	view   ViewFunc[T]
	opts   options
	logger *slog.Logger

	prevHovered []dispatch.NodeID
	cursor      dispatch.Point
	hasCursor   bool

	frame    string
	dirty    bool
	renders  int
	quitting bool
}

// New wraps a. A nil view renders a placeholder.
func New[T any](a *app.App[T], view ViewFunc[T], opts ...Option) *Model[T] {
	o := options{
		tick:   defaultTick,
		logger: slog.New(slog.DiscardHandler),
		clock:  time.Now,
		title:  "framekit",
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.hits == nil {
		o.hits = NewZones()
	}
	return &Model[T]{app: a, view: view, opts: o, logger: o.logger, dirty: true}
}

// Init starts the frame ticker.
func (m *Model[T]) Init() tea.Cmd {
	return TickCmd(m.opts.tick)
}

// Update handles one bubbletea message.
func (m *Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FrameMsg:
		m.apply(m.app.Frame(msg.Time))
		return m, TickCmd(m.opts.tick)

	case TaskDoneMsg:
		m.apply(m.app.Frame(m.opts.clock()))
		return m, nil

	case tea.WindowSizeMsg:
		m.logger.Debug("window resized", "width", msg.Width, "height", msg.Height)
		m.apply(m.app.Resize(msg.Width, msg.Height))
		return m, nil

	case tea.MouseMsg:
		m.apply(m.handleMouse(msg))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model[T]) handleMouse(msg tea.MouseMsg) redraw.Decision {
	hovered := m.opts.hits.Hit(msg)
	m.cursor, m.hasCursor = dispatch.Point{X: msg.X, Y: msg.Y}, true
	hit := dispatch.HitState{
		Hovered:     hovered,
		PrevHovered: m.prevHovered,
		Cursor:      m.cursor,
		HasCursor:   true,
	}
	events := append(hit.Transitions(), mouseEvents(msg)...)
	m.prevHovered = hovered
	return m.app.HandleEvent(events, hit)
}

func (m *Model[T]) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" || m.isQuitKey(key) {
		m.quitting = true
		return m, tea.Quit
	}
	switch msg.Type {
	case tea.KeyTab:
		m.apply(m.app.FocusNext())
		return m, nil
	case tea.KeyShiftTab:
		m.apply(m.app.FocusPrev())
		return m, nil
	}
	events, text := keyEvents(msg)
	hit := dispatch.HitState{
		Hovered:   m.prevHovered,
		Cursor:    m.cursor,
		HasCursor: m.hasCursor,
		Key:       text,
	}
	m.apply(m.app.HandleEvent(events, hit))
	return m, nil
}

func (m *Model[T]) isQuitKey(key string) bool {
	for _, k := range m.opts.quitKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (m *Model[T]) apply(d redraw.Decision) {
	if d == redraw.Redraw {
		m.dirty = true
	}
}

// View returns the last rendered frame, re-rendering only after a
// Redraw decision.
func (m *Model[T]) View() string {
	if m.quitting {
		return ""
	}
	if m.dirty {
		m.frame = m.render()
		m.dirty = false
		m.renders++
	}
	return m.frame
}

func (m *Model[T]) render() string {
	w := m.app.State().Window()
	var body string
	if m.view != nil {
		body = m.view(m.app.State(), m.opts.hits)
	} else {
		body = placeholderView(m.opts.title, w.Width, w.Height)
	}
	if w.Width > 0 {
		lines := strings.Split(body, "\n")
		for i, l := range lines {
			lines[i] = ansi.Truncate(l, w.Width, "")
		}
		if w.Height > 0 && len(lines) > w.Height {
			lines = lines[:w.Height]
		}
		body = strings.Join(lines, "\n")
	}
	return m.opts.hits.Scan(body)
}

// Renders returns how many times the view was rebuilt.
func (m *Model[T]) Renders() int {
	return m.renders
}

// Quitting reports whether a quit key was pressed.
func (m *Model[T]) Quitting() bool {
	return m.quitting
}

// Close releases the hit tester.
func (m *Model[T]) Close() {
	m.opts.hits.Close()
}
