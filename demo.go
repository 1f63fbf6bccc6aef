package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/font/gofont/goregular"

	"gitlab.com/tinyland/lab/framekit/pkg/app"
	"gitlab.com/tinyland/lab/framekit/pkg/dispatch"
	"gitlab.com/tinyland/lab/framekit/pkg/handle"
	"gitlab.com/tinyland/lab/framekit/pkg/redraw"
	"gitlab.com/tinyland/lab/framekit/pkg/resource"
	"gitlab.com/tinyland/lab/framekit/pkg/task"
	"gitlab.com/tinyland/lab/framekit/pkg/term"
	"gitlab.com/tinyland/lab/framekit/pkg/timer"
)

// Node IDs in document order.
const (
	nodeRoot dispatch.NodeID = iota
	nodeSlider
	nodeCounter
	nodeWork
)

const (
	sliderWidth = 40
	sliderStep  = 0.05
	workTime    = 750 * time.Millisecond
)

type jobs struct {
	started  int
	finished int
}

type demo struct {
	value    float64
	dragging bool
	clicks   int
	uptime   time.Duration
	jobs     *task.Shared[jobs]
	bar      progress.Model
	font     handle.FontID
	title    handle.TextID
	fontName string
}

func newDemo() *demo {
	return &demo{
		value: 0.5,
		jobs:  task.NewShared(jobs{}),
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(sliderWidth), progress.WithoutPercentage()),
	}
}

type state = app.State[*demo]

// setupDemo registers assets, callbacks and timers.
func setupDemo(a *app.App[*demo], logger *slog.Logger) {
	s := a.State()
	d := s.Data

	d.font = s.AddCSSFontID("ui")
	s.AddFont(d.font, resource.FontBytes(goregular.TTF, 0))
	if _, info, ok, err := s.FontBytes(d.font); ok && err == nil {
		d.fontName = info.Family
	} else if err != nil {
		logger.Warn("ui font unavailable", "error", err)
	}
	d.title = s.AddText("framekit demo")

	a.Bind(nodeSlider, dispatch.On(dispatch.LeftMouseDown), func(s *state, info *dispatch.CallbackInfo) redraw.Decision {
		s.Data.dragging = true
		s.Data.setFromCursor(info.Hit.Cursor)
		info.StopPropagation()
		return redraw.Redraw
	})
	a.Bind(nodeSlider, dispatch.Window(dispatch.MouseOver), func(s *state, info *dispatch.CallbackInfo) redraw.Decision {
		if !s.Data.dragging {
			return redraw.DontRedraw
		}
		s.Data.setFromCursor(info.Hit.Cursor)
		return redraw.Redraw
	})
	a.Bind(nodeSlider, dispatch.Window(dispatch.MouseUp), func(s *state, _ *dispatch.CallbackInfo) redraw.Decision {
		wasDragging := s.Data.dragging
		s.Data.dragging = false
		return redraw.If(wasDragging)
	})
	a.Bind(nodeSlider, dispatch.Focus(dispatch.VirtualKeyDown), func(s *state, info *dispatch.CallbackInfo) redraw.Decision {
		switch info.Hit.Key {
		case "left", "h":
			return s.Data.nudge(-sliderStep)
		case "right", "l":
			return s.Data.nudge(sliderStep)
		}
		return redraw.DontRedraw
	})

	a.Bind(nodeCounter, dispatch.On(dispatch.LeftMouseDown), func(s *state, _ *dispatch.CallbackInfo) redraw.Decision {
		s.Data.clicks++
		return redraw.Redraw
	})
	a.Bind(nodeCounter, dispatch.Focus(dispatch.VirtualKeyDown), func(s *state, info *dispatch.CallbackInfo) redraw.Decision {
		switch info.Hit.Key {
		case "enter":
			s.Data.clicks++
			return redraw.Redraw
		case "y":
			if err := s.SetClipboardString(fmt.Sprintf("clicked %d times", s.Data.clicks)); err != nil {
				logger.Warn("copy failed", "error", err)
			}
		}
		return redraw.DontRedraw
	})
	// Right-clicking anywhere else resets the counter.
	a.Bind(nodeCounter, dispatch.Not(dispatch.RightMouseDown), func(s *state, _ *dispatch.CallbackInfo) redraw.Decision {
		if s.Data.clicks == 0 {
			return redraw.DontRedraw
		}
		s.Data.clicks = 0
		return redraw.Redraw
	})

	a.Bind(nodeWork, dispatch.On(dispatch.LeftMouseDown), func(s *state, _ *dispatch.CallbackInfo) redraw.Decision {
		return startWork(s, logger)
	})
	a.Bind(nodeWork, dispatch.Focus(dispatch.VirtualKeyDown), func(s *state, info *dispatch.CallbackInfo) redraw.Decision {
		if info.Hit.Key != "enter" {
			return redraw.DontRedraw
		}
		return startWork(s, logger)
	})

	for _, n := range []dispatch.NodeID{nodeSlider, nodeCounter, nodeWork} {
		a.Bind(n, dispatch.Focus(dispatch.FocusReceived), focusChanged)
		a.Bind(n, dispatch.Focus(dispatch.FocusLost), focusChanged)
	}
	a.SetFocusOrder(nodeSlider, nodeCounter, nodeWork)

	s.AddTimer(handle.NewTimerID(), timer.Every(time.Second, func(s *state, elapsed time.Duration) timer.Decision {
		s.Data.uptime = elapsed.Truncate(time.Second)
		return timer.ContinueAndRedraw
	}))
}

func focusChanged(*state, *dispatch.CallbackInfo) redraw.Decision {
	return redraw.Redraw
}

func startWork(s *state, logger *slog.Logger) redraw.Decision {
	if err := s.Data.jobs.Modify(func(j *jobs) { j.started++ }); err != nil {
		logger.Warn("work not counted", "error", err)
		return redraw.DontRedraw
	}
	t := task.New(s.Data.jobs, func(sh *task.Shared[jobs]) error {
		time.Sleep(workTime)
		return sh.Modify(func(j *jobs) { j.finished++ })
	}).Named("demo-work")
	if err := s.AddTask(t); err != nil {
		logger.Warn("work not queued", "error", err)
		return redraw.DontRedraw
	}
	return redraw.Redraw
}

func (d *demo) setFromCursor(p dispatch.Point) {
	d.value = clamp(float64(p.X) / float64(sliderWidth-1))
}

func (d *demo) nudge(delta float64) redraw.Decision {
	old := d.value
	d.value = clamp(d.value + delta)
	return redraw.If(d.value != old)
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#7D56F4")).Padding(0, 1)
	buttonStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#3C3C3C")).Padding(0, 1)
	focusedStyle = buttonStyle.Background(lipgloss.Color("#7D56F4"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

func styleFor(s *state, n dispatch.NodeID) lipgloss.Style {
	if w := s.Window(); w.HasFocus && w.Focused == n {
		return focusedStyle
	}
	return buttonStyle
}

// renderDemo draws the interactive view. The slider is the first line so
// its cursor column maps directly to a value.
func renderDemo(s *state, m term.Marker) string {
	d := s.Data
	title, _ := s.Text(d.title)
	j := d.jobs.Get()

	var b strings.Builder
	b.WriteString(m.Mark(nodeSlider, d.bar.ViewAs(d.value)))
	b.WriteString(fmt.Sprintf(" %3.0f%%\n\n", d.value*100))
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.Mark(nodeCounter, styleFor(s, nodeCounter).Render(fmt.Sprintf("clicked %d times", d.clicks))))
	b.WriteString("  ")
	b.WriteString(m.Mark(nodeWork, styleFor(s, nodeWork).Render("run background job")))
	b.WriteString(fmt.Sprintf("  %d/%d done\n\n", j.finished, j.started))
	b.WriteString(helpStyle.Render(fmt.Sprintf("up %s  font %s  tab: focus  y: copy count  q: quit", d.uptime, d.fontName)))
	return b.String()
}

// renderPlain is the headless view: one status line per redraw.
func renderPlain(s *state, _ term.Marker) string {
	d := s.Data
	j := d.jobs.Get()
	return fmt.Sprintf("up=%s value=%.2f clicks=%d jobs=%d/%d", d.uptime, d.value, d.clicks, j.finished, j.started)
}
