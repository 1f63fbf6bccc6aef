package main

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/framekit/pkg/app"
	"gitlab.com/tinyland/lab/framekit/pkg/dispatch"
	"gitlab.com/tinyland/lab/framekit/pkg/redraw"
)

func newTestDemo(t *testing.T) *app.App[*demo] {
	t.Helper()
	a, err := app.New(newDemo(), nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(a.Close)
	setupDemo(a, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return a
}

func press(a *app.App[*demo], x int, hovered ...dispatch.NodeID) redraw.Decision {
	return a.HandleEvent(
		[]dispatch.EventKind{dispatch.MouseDown, dispatch.LeftMouseDown},
		dispatch.HitState{Hovered: hovered, Cursor: dispatch.Point{X: x}, HasCursor: true},
	)
}

func TestDemoLoadsFont(t *testing.T) {
	a := newTestDemo(t)
	if got := a.State().Data.fontName; got != "Go" {
		t.Errorf("font family = %q, want Go", got)
	}
	if id, ok := a.State().CSSFontID("ui"); !ok || id != a.State().Data.font {
		t.Errorf("css font binding = %v, %v", id, ok)
	}
}

func TestDemoSliderDrag(t *testing.T) {
	a := newTestDemo(t)
	d := a.State().Data

	if press(a, 0, nodeSlider) != redraw.Redraw || !d.dragging || d.value != 0 {
		t.Fatalf("press: dragging=%v value=%v", d.dragging, d.value)
	}
	a.HandleEvent([]dispatch.EventKind{dispatch.MouseOver}, dispatch.HitState{Cursor: dispatch.Point{X: 100}, HasCursor: true})
	if d.value != 1 {
		t.Errorf("value after drag past the end = %v", d.value)
	}
	if a.HandleEvent([]dispatch.EventKind{dispatch.MouseUp}, dispatch.HitState{}) != redraw.Redraw || d.dragging {
		t.Error("release should end the drag")
	}
	if a.HandleEvent([]dispatch.EventKind{dispatch.MouseOver}, dispatch.HitState{Cursor: dispatch.Point{X: 0}}) != redraw.DontRedraw {
		t.Error("motion without drag should not redraw")
	}
}

func TestDemoKeyboard(t *testing.T) {
	a := newTestDemo(t)
	d := a.State().Data

	a.FocusNext() // slider
	a.HandleEvent([]dispatch.EventKind{dispatch.VirtualKeyDown}, dispatch.HitState{Key: "right"})
	if d.value != 0.5+sliderStep {
		t.Errorf("value = %v", d.value)
	}
	a.FocusNext() // counter
	a.HandleEvent([]dispatch.EventKind{dispatch.VirtualKeyDown}, dispatch.HitState{Key: "enter"})
	if d.clicks != 1 {
		t.Errorf("clicks = %d", d.clicks)
	}
}

func TestDemoCounterResetOutside(t *testing.T) {
	a := newTestDemo(t)
	d := a.State().Data
	press(a, 0, nodeCounter)
	press(a, 0, nodeCounter)
	if d.clicks != 2 {
		t.Fatalf("clicks = %d", d.clicks)
	}
	a.HandleEvent([]dispatch.EventKind{dispatch.MouseDown, dispatch.RightMouseDown}, dispatch.HitState{Hovered: []dispatch.NodeID{nodeWork}})
	if d.clicks != 0 {
		t.Errorf("clicks after right click elsewhere = %d", d.clicks)
	}
}

func TestDemoBackgroundWork(t *testing.T) {
	a := newTestDemo(t)
	d := a.State().Data
	if press(a, 0, nodeWork) != redraw.Redraw {
		t.Fatal("starting work should redraw")
	}
	a.State().Queue.Close()
	if a.Frame(time.Now()) != redraw.Redraw {
		t.Error("frame after finished work should redraw")
	}
	if j := d.jobs.Get(); j.started != 1 || j.finished != 1 {
		t.Errorf("jobs = %+v", j)
	}
	if !strings.Contains(renderPlain(a.State(), nil), "jobs=1/1") {
		t.Errorf("plain view = %q", renderPlain(a.State(), nil))
	}
}

func TestDemoCopiesCount(t *testing.T) {
	a := newTestDemo(t)
	press(a, 0, nodeCounter)
	a.SetFocusOrder(nodeCounter)
	a.FocusNext()
	a.HandleEvent([]dispatch.EventKind{dispatch.VirtualKeyDown}, dispatch.HitState{Key: "y"})

	got, err := a.State().ClipboardString()
	if err != nil || got != "clicked 1 times" {
		t.Errorf("clipboard = %q, %v", got, err)
	}
}

func TestDemoWorkAfterPanickedModify(t *testing.T) {
	a := newTestDemo(t)
	d := a.State().Data
	if err := d.jobs.Modify(func(*jobs) { panic("poisoned") }); err == nil {
		t.Fatal("Modify should report the panic")
	}
	// The lock is released, so starting work still counts.
	if startWork(a.State(), slog.New(slog.NewTextHandler(io.Discard, nil))) != redraw.Redraw {
		t.Fatal("startWork should redraw")
	}
	a.State().Queue.Close()
	if j := d.jobs.Get(); j.started != 1 || j.finished != 1 {
		t.Errorf("jobs = %+v", j)
	}
}
