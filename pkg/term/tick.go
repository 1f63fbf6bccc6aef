package term

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickCmd returns a bubbletea Cmd that sends a FrameMsg after d.
func TickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return FrameMsg{Time: t}
	})
}

// Notifier forwards task completions into a running program. The app is
// built before the program exists, so the program is attached later.
type Notifier struct {
	mu sync.Mutex
	p  *tea.Program
}

// Attach sets the program notifications are sent to.
func (n *Notifier) Attach(p *tea.Program) {
	n.mu.Lock()
	n.p = p
	n.mu.Unlock()
}

// Notify sends a TaskDoneMsg without blocking the caller. It is a no-op
// until a program is attached.
func (n *Notifier) Notify() {
	n.mu.Lock()
	p := n.p
	n.mu.Unlock()
	if p != nil {
		go p.Send(TaskDoneMsg{})
	}
}
