package app

import (
	"sync"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/framekit/pkg/clipboard"
	"gitlab.com/tinyland/lab/framekit/pkg/config"
	"gitlab.com/tinyland/lab/framekit/pkg/dispatch"
	"gitlab.com/tinyland/lab/framekit/pkg/handle"
	"gitlab.com/tinyland/lab/framekit/pkg/redraw"
	"gitlab.com/tinyland/lab/framekit/pkg/task"
	"gitlab.com/tinyland/lab/framekit/pkg/timer"
)

type counter struct {
	clicks int
	ticks  int
	shared *task.Shared[int]
}

// newTestApp returns an app whose timer clock is pinned to t0.
func newTestApp(t *testing.T, t0 time.Time) *App[*counter] {
	t.Helper()
	a, err := New(&counter{shared: task.NewShared(0)}, nil, WithClock(func() time.Time { return t0 }))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Tasks.Workers = 0
	if _, err := New(0, cfg); err == nil {
		t.Fatal("expected error for zero workers")
	}
}

func TestEmptyFrameDoesNotRedraw(t *testing.T) {
	a := newTestApp(t, time.Unix(0, 0))
	if d := a.Frame(time.Unix(1, 0)); d != redraw.DontRedraw {
		t.Errorf("empty frame = %v, want DontRedraw", d)
	}
	if d := a.HandleEvent([]dispatch.EventKind{dispatch.MouseDown}, dispatch.HitState{}); d != redraw.DontRedraw {
		t.Errorf("event with no callbacks = %v", d)
	}
	if a.Frames() != 1 {
		t.Errorf("Frames = %d", a.Frames())
	}
}

func TestHandleEventRunsCallbacks(t *testing.T) {
	a := newTestApp(t, time.Unix(0, 0))
	a.Bind(1, dispatch.On(dispatch.LeftMouseDown), func(s *State[*counter], info *dispatch.CallbackInfo) redraw.Decision {
		s.Data.clicks++
		if got := s.Window().Cursor; got != (dispatch.Point{X: 3, Y: 4}) {
			t.Errorf("cursor in callback = %v", got)
		}
		return redraw.Redraw
	})

	hit := dispatch.HitState{Hovered: []dispatch.NodeID{0, 1}, Cursor: dispatch.Point{X: 3, Y: 4}, HasCursor: true}
	if d := a.HandleEvent([]dispatch.EventKind{dispatch.LeftMouseDown}, hit); d != redraw.Redraw {
		t.Errorf("decision = %v", d)
	}
	if a.State().Data.clicks != 1 {
		t.Errorf("clicks = %d", a.State().Data.clicks)
	}

	// Not hovered: no callback.
	a.HandleEvent([]dispatch.EventKind{dispatch.LeftMouseDown}, dispatch.HitState{Hovered: []dispatch.NodeID{2}})
	if a.State().Data.clicks != 1 {
		t.Errorf("clicks = %d after click elsewhere", a.State().Data.clicks)
	}
}

func TestFrameFiresTimersThroughState(t *testing.T) {
	t0 := time.Unix(1000, 0)
	a := newTestApp(t, t0)
	s := a.State()

	id := handle.NewTimerID()
	s.AddTimer(id, timer.Every(100*time.Millisecond, func(s *State[*counter], _ time.Duration) timer.Decision {
		s.Data.ticks++
		return timer.ContinueAndRedraw
	}))

	if d := a.Frame(t0.Add(50 * time.Millisecond)); d != redraw.DontRedraw {
		t.Errorf("+50ms = %v", d)
	}
	if d := a.Frame(t0.Add(120 * time.Millisecond)); d != redraw.Redraw {
		t.Errorf("+120ms = %v", d)
	}
	if s.Data.ticks != 1 {
		t.Errorf("ticks = %d, want 1", s.Data.ticks)
	}
	if !s.HasTimer(id) {
		t.Error("timer should still be registered")
	}
}

func TestFrameCollectsTasks(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	a, err := New(&counter{shared: task.NewShared(0)}, nil, WithNotify(wg.Done))
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	s := a.State()
	err = s.AddTask(task.New(s.Data.shared, func(sh *task.Shared[int]) error {
		return sh.Modify(func(v *int) { *v += 7 })
	}))
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	wg.Wait()

	if d := a.Frame(time.Now()); d != redraw.Redraw {
		t.Errorf("frame after task = %v, want Redraw", d)
	}
	if got := s.Data.shared.Get(); got != 7 {
		t.Errorf("shared = %d, want 7", got)
	}
	if d := a.Frame(time.Now()); d != redraw.DontRedraw {
		t.Errorf("second frame = %v, want DontRedraw", d)
	}
}

func TestCallbacksReachCache(t *testing.T) {
	a := newTestApp(t, time.Unix(0, 0))
	var id handle.TextID
	a.Bind(0, dispatch.Window(dispatch.TextInput), func(s *State[*counter], info *dispatch.CallbackInfo) redraw.Decision {
		id = s.AddText(info.Hit.Key)
		return redraw.Redraw
	})
	a.HandleEvent([]dispatch.EventKind{dispatch.TextInput}, dispatch.HitState{Key: "hi"})

	got, ok := a.State().Text(id)
	if !ok || got != "hi" {
		t.Errorf("Text = %q, %v", got, ok)
	}
}

func TestResize(t *testing.T) {
	a := newTestApp(t, time.Unix(0, 0))
	if d := a.Resize(80, 24); d != redraw.Redraw {
		t.Errorf("Resize = %v", d)
	}
	w := a.State().Window()
	if w.Width != 80 || w.Height != 24 {
		t.Errorf("window = %dx%d", w.Width, w.Height)
	}
}

func TestFocusCycling(t *testing.T) {
	a := newTestApp(t, time.Unix(0, 0))
	var log []string
	for _, n := range []dispatch.NodeID{1, 2, 3} {
		n := n
		a.Bind(n, dispatch.Focus(dispatch.FocusReceived), func(s *State[*counter], info *dispatch.CallbackInfo) redraw.Decision {
			log = append(log, "in:"+string(rune('0'+n)))
			return redraw.Redraw
		})
		a.Bind(n, dispatch.Focus(dispatch.FocusLost), func(s *State[*counter], info *dispatch.CallbackInfo) redraw.Decision {
			log = append(log, "out:"+string(rune('0'+n)))
			return redraw.DontRedraw
		})
	}
	a.SetFocusOrder(1, 2, 3)

	steps := []struct {
		move func() redraw.Decision
		want dispatch.NodeID
	}{
		{a.FocusNext, 1},
		{a.FocusNext, 2},
		{a.FocusNext, 3},
		{a.FocusNext, 1},
		{a.FocusPrev, 3},
	}
	for i, st := range steps {
		if d := st.move(); d != redraw.Redraw {
			t.Errorf("step %d: decision = %v", i, d)
		}
		if w := a.State().Window(); !w.HasFocus || w.Focused != st.want {
			t.Errorf("step %d: focused = %d (%v), want %d", i, w.Focused, w.HasFocus, st.want)
		}
	}

	want := []string{"in:1", "out:1", "in:2", "out:2", "in:3", "out:3", "in:1", "out:1", "in:3"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("log[%d] = %q, want %q", i, log[i], want[i])
		}
	}

	if d := a.Focus(3); d != redraw.DontRedraw {
		t.Errorf("refocus = %v", d)
	}
	a.Blur()
	if a.State().Window().HasFocus {
		t.Error("Blur left focus set")
	}
}

func TestFocusOrderEmpty(t *testing.T) {
	a := newTestApp(t, time.Unix(0, 0))
	if d := a.FocusNext(); d != redraw.DontRedraw {
		t.Errorf("FocusNext with no order = %v", d)
	}
	a.Focus(9)
	a.SetFocusOrder(1)
	if a.State().Window().HasFocus {
		t.Error("focus on node outside order should be cleared")
	}
}

func TestCloseDropsTimers(t *testing.T) {
	a, err := New(0, nil)
	if err != nil {
		t.Fatal(err)
	}
	a.State().AddTimer(handle.NewTimerID(), timer.Every(time.Second, func(*State[int], time.Duration) timer.Decision {
		t.Error("timer fired after Close")
		return timer.Continue
	}))
	a.Close()
	if a.State().Registry.Len() != 0 {
		t.Errorf("timers left: %d", a.State().Registry.Len())
	}
}

func TestClipboardThroughState(t *testing.T) {
	a := newTestApp(t, time.Unix(0, 0))
	a.Bind(0, dispatch.Window(dispatch.TextInput), func(s *State[*counter], info *dispatch.CallbackInfo) redraw.Decision {
		if err := s.SetClipboardString(info.Hit.Key); err != nil {
			t.Errorf("SetClipboardString: %v", err)
		}
		return redraw.DontRedraw
	})
	a.HandleEvent([]dispatch.EventKind{dispatch.TextInput}, dispatch.HitState{Key: "paste me"})

	got, err := a.State().ClipboardString()
	if err != nil || got != "paste me" {
		t.Errorf("ClipboardString = %q, %v", got, err)
	}
}

func TestWithClipboard(t *testing.T) {
	clip := &clipboard.Memory{}
	if err := clip.WriteString("preset"); err != nil {
		t.Fatal(err)
	}
	a, err := New(0, nil, WithClipboard(clip))
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	if got, _ := a.State().ClipboardString(); got != "preset" {
		t.Errorf("ClipboardString = %q, want preset", got)
	}
}
