package term

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/framekit/pkg/app"
	"gitlab.com/tinyland/lab/framekit/pkg/dispatch"
	"gitlab.com/tinyland/lab/framekit/pkg/handle"
	"gitlab.com/tinyland/lab/framekit/pkg/redraw"
	"gitlab.com/tinyland/lab/framekit/pkg/timer"
)

// fakeHits maps a mouse column to the nodes under it.
type fakeHits struct {
	columns map[int][]dispatch.NodeID
	scans   int
	closed  bool
}

func (f *fakeHits) Mark(_ dispatch.NodeID, s string) string { return s }
func (f *fakeHits) Scan(frame string) string              { f.scans++; return frame }
func (f *fakeHits) Hit(msg tea.MouseMsg) []dispatch.NodeID { return f.columns[msg.X] }
func (f *fakeHits) Close()                                 { f.closed = true }

type demo struct {
	clicks int
	text   string
	label  string
}

func newTestModel(t *testing.T, hits *fakeHits, opts ...Option) (*Model[*demo], *app.App[*demo]) {
	t.Helper()
	a, err := app.New(&demo{label: "hello"}, nil)
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	t.Cleanup(a.Close)
	view := func(s *app.State[*demo], mk Marker) string {
		return mk.Mark(1, s.Data.label)
	}
	opts = append([]Option{WithHitTester(hits)}, opts...)
	return New(a, view, opts...), a
}

// update sends msg through Update and returns the command.
func update[T any](m *Model[T], msg tea.Msg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func TestInitReturnsTickCmd(t *testing.T) {
	m, _ := newTestModel(t, &fakeHits{})
	if m.Init() == nil {
		t.Fatal("Init() returned nil, expected a tick command")
	}
}

func TestViewCachedUntilRedraw(t *testing.T) {
	hits := &fakeHits{}
	m, a := newTestModel(t, hits)

	if got := m.View(); got != "hello" {
		t.Fatalf("first View = %q", got)
	}
	if m.Renders() != 1 {
		t.Fatalf("renders = %d", m.Renders())
	}

	// A frame with nothing to do keeps the cached frame.
	a.State().Data.label = "changed"
	if cmd := update(m, FrameMsg{Time: time.Now()}); cmd == nil {
		t.Error("FrameMsg should re-arm the ticker")
	}
	if got := m.View(); got != "hello" {
		t.Errorf("View after idle frame = %q, want cached", got)
	}
	if m.Renders() != 1 || hits.scans != 1 {
		t.Errorf("renders = %d, scans = %d", m.Renders(), hits.scans)
	}

	// A timer that asks for a redraw refreshes it.
	a.State().AddTimer(handle.NewTimerID(), timer.Every(time.Millisecond, func(*app.State[*demo], time.Duration) timer.Decision {
		return timer.ContinueAndRedraw
	}))
	update(m, FrameMsg{Time: time.Now().Add(time.Second)})
	if got := m.View(); got != "changed" {
		t.Errorf("View after redraw = %q", got)
	}
	if m.Renders() != 2 {
		t.Errorf("renders = %d, want 2", m.Renders())
	}
}

func TestMouseRoutesToHoveredNode(t *testing.T) {
	hits := &fakeHits{columns: map[int][]dispatch.NodeID{5: {1}}}
	m, a := newTestModel(t, hits)

	var seen []dispatch.EventKind
	a.Bind(1, dispatch.On(dispatch.LeftMouseDown), func(s *app.State[*demo], info *dispatch.CallbackInfo) redraw.Decision {
		s.Data.clicks++
		return redraw.Redraw
	})
	a.Bind(1, dispatch.On(dispatch.MouseEnter), func(s *app.State[*demo], info *dispatch.CallbackInfo) redraw.Decision {
		seen = append(seen, info.Event)
		return redraw.DontRedraw
	})
	a.Bind(1, dispatch.On(dispatch.MouseLeave), func(s *app.State[*demo], info *dispatch.CallbackInfo) redraw.Decision {
		seen = append(seen, info.Event)
		return redraw.DontRedraw
	})
	m.View()

	update(m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if a.State().Data.clicks != 0 {
		t.Fatal("click outside the node reached it")
	}

	update(m, tea.MouseMsg{X: 5, Y: 0, Action: tea.MouseActionMotion})
	update(m, tea.MouseMsg{X: 5, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	update(m, tea.MouseMsg{X: 9, Y: 0, Action: tea.MouseActionMotion})

	if a.State().Data.clicks != 1 {
		t.Errorf("clicks = %d, want 1", a.State().Data.clicks)
	}
	if !reflect.DeepEqual(seen, []dispatch.EventKind{dispatch.MouseEnter, dispatch.MouseLeave}) {
		t.Errorf("transitions = %v", seen)
	}
	if w := a.State().Window(); w.Cursor != (dispatch.Point{X: 9}) || !w.HasCursor {
		t.Errorf("cursor = %+v", w.Cursor)
	}
	m.View()
	if m.Renders() != 2 {
		t.Errorf("renders = %d, want 2 after the click redraw", m.Renders())
	}
}

func TestKeyInput(t *testing.T) {
	m, a := newTestModel(t, &fakeHits{})
	a.Bind(0, dispatch.Window(dispatch.TextInput), func(s *app.State[*demo], info *dispatch.CallbackInfo) redraw.Decision {
		s.Data.text += info.Hit.Key
		return redraw.Redraw
	})
	var keys []string
	a.Bind(0, dispatch.Window(dispatch.VirtualKeyDown), func(s *app.State[*demo], info *dispatch.CallbackInfo) redraw.Decision {
		keys = append(keys, info.Hit.Key)
		return redraw.DontRedraw
	})

	update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab")})
	update(m, tea.KeyMsg{Type: tea.KeyEnter})

	if a.State().Data.text != "ab" {
		t.Errorf("text = %q", a.State().Data.text)
	}
	if !reflect.DeepEqual(keys, []string{"ab", "enter"}) {
		t.Errorf("keys = %v", keys)
	}
}

func TestTabMovesFocus(t *testing.T) {
	m, a := newTestModel(t, &fakeHits{})
	a.SetFocusOrder(1, 2)

	update(m, tea.KeyMsg{Type: tea.KeyTab})
	if w := a.State().Window(); !w.HasFocus || w.Focused != 1 {
		t.Fatalf("after Tab focused = %d", w.Focused)
	}
	update(m, tea.KeyMsg{Type: tea.KeyTab})
	update(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if w := a.State().Window(); w.Focused != 1 {
		t.Errorf("after Tab, Shift+Tab focused = %d", w.Focused)
	}
}

func TestQuitKeys(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		opts []Option
		quit bool
	}{
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, nil, true},
		{"q not configured", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, nil, false},
		{"q configured", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, []Option{WithQuitKeys("q")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t, &fakeHits{}, tt.opts...)
			cmd := update(m, tt.msg)
			if m.Quitting() != tt.quit {
				t.Errorf("Quitting = %v, want %v", m.Quitting(), tt.quit)
			}
			if tt.quit && (cmd == nil || m.View() != "") {
				t.Error("expected quit command and empty view")
			}
		})
	}
}

func TestResizeTruncatesView(t *testing.T) {
	m, a := newTestModel(t, &fakeHits{})
	a.State().Data.label = "a long line\nsecond\nthird"
	update(m, tea.WindowSizeMsg{Width: 4, Height: 2})

	if got := m.View(); got != "a lo\nseco" {
		t.Errorf("View = %q", got)
	}
}

func TestPlaceholderView(t *testing.T) {
	a, err := app.New(0, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	hits := &fakeHits{}
	m := New(a, nil, WithHitTester(hits), WithTitle("demo"))
	update(m, tea.WindowSizeMsg{Width: 20, Height: 6})

	v := m.View()
	if !strings.Contains(v, "demo") || !strings.Contains(v, "20x6") {
		t.Errorf("placeholder = %q", v)
	}
	m.Close()
	if !hits.closed {
		t.Error("Close did not close the hit tester")
	}
}

func TestHeadless(t *testing.T) {
	a, err := app.New(&demo{label: "tick"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	fired := 0
	a.State().AddTimer(handle.NewTimerID(), timer.Every(time.Nanosecond, func(s *app.State[*demo], _ time.Duration) timer.Decision {
		fired++
		if fired == 2 {
			return timer.Terminate
		}
		return timer.ContinueAndRedraw
	}))

	var buf bytes.Buffer
	view := func(s *app.State[*demo], _ Marker) string { return s.Data.label }
	if err := Headless(context.Background(), a, view, &buf, time.Millisecond, 4); err != nil {
		t.Fatalf("Headless: %v", err)
	}
	// Initial frame plus the one redraw; Terminate does not redraw.
	if got := strings.Count(buf.String(), "tick\n"); got != 2 {
		t.Errorf("frames written = %d, output %q", got, buf.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Headless(ctx, a, view, &buf, time.Millisecond, 0); err != context.Canceled {
		t.Errorf("cancelled Headless = %v", err)
	}
}

func TestZonesStripMarkers(t *testing.T) {
	z := NewZones()
	defer z.Close()
	marked := z.Mark(3, "button")
	if marked == "button" {
		t.Fatal("Mark did not add a marker")
	}
	if got := z.Scan("[" + marked + "]"); got != "[button]" {
		t.Errorf("Scan = %q", got)
	}
	if got := z.Hit(tea.MouseMsg{X: 100, Y: 100}); len(got) != 0 {
		t.Errorf("Hit far away = %v", got)
	}
}
