// Package clipboard provides the text clipboard exposed on the
// application state.
package clipboard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// ErrUnavailable is returned when no platform clipboard tool is present.
var ErrUnavailable = errors.New("clipboard: unavailable")

// Clipboard reads and writes clipboard text.
type Clipboard interface {
	ReadString() (string, error)
	WriteString(s string) error
}

// Available reports whether the platform clipboard can be used.
func Available() bool {
	return !clipboard.Unsupported
}

// System is the platform clipboard (pbcopy, xclip/xsel, wl-clipboard or
// the Windows API).
type System struct{}

func (System) ReadString() (string, error) {
	if !Available() {
		return "", ErrUnavailable
	}
	s, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("clipboard: read: %w", err)
	}
	return s, nil
}

func (System) WriteString(s string) error {
	if !Available() {
		return ErrUnavailable
	}
	if err := clipboard.WriteAll(s); err != nil {
		return fmt.Errorf("clipboard: write: %w", err)
	}
	return nil
}

// OSC52 sets the clipboard of the terminal w is attached to, which also
// works over ssh. Terminals rarely answer clipboard queries, so reads
// return the last string written.
type OSC52 struct {
	mu   sync.Mutex
	w    io.Writer
	tmux bool
	last string
}

// NewOSC52 writes sequences to w, wrapped for tmux when running inside it.
func NewOSC52(w io.Writer) *OSC52 {
	return &OSC52{w: w, tmux: os.Getenv("TMUX") != ""}
}

func (c *OSC52) ReadString() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last, nil
}

func (c *OSC52) WriteString(s string) error {
	seq := osc52.New(s)
	if c.tmux {
		seq = seq.Tmux()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := seq.WriteTo(c.w); err != nil {
		return fmt.Errorf("clipboard: osc52: %w", err)
	}
	c.last = s
	return nil
}

// Memory is a process-local clipboard, used when nothing else is
// configured.
type Memory struct {
	mu sync.Mutex
	s  string
}

func (m *Memory) ReadString() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s, nil
}

func (m *Memory) WriteString(s string) error {
	m.mu.Lock()
	m.s = s
	m.mu.Unlock()
	return nil
}

// Detect returns the platform clipboard when one is available and an
// OSC52 clipboard writing to w otherwise.
func Detect(w io.Writer) Clipboard {
	if Available() {
		return System{}
	}
	return NewOSC52(w)
}
