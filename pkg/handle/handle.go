// Package handle issues the opaque identities used as cache and registry
// keys. Each kind has its own counter; values only ever grow and zero is
// never issued, so a zero handle always means "unset".
package handle

import (
	"fmt"
	"sync/atomic"
)

// ImageID identifies an image in the resource cache.
type ImageID uint64

// FontID identifies a font in the resource cache.
type FontID uint64

// TextID identifies a string in the text cache.
type TextID uint64

// TimerID identifies a timer in a timer registry.
type TimerID uint64

func (id ImageID) String() string { return fmt.Sprintf("image#%d", uint64(id)) }
func (id FontID) String() string  { return fmt.Sprintf("font#%d", uint64(id)) }
func (id TextID) String() string  { return fmt.Sprintf("text#%d", uint64(id)) }
func (id TimerID) String() string { return fmt.Sprintf("timer#%d", uint64(id)) }

// Kind is the set of handle types an Allocator can issue.
type Kind interface {
	~uint64
}

// Allocator hands out strictly increasing handles of one kind.
// It is safe for concurrent use.
type Allocator[H Kind] struct {
	last atomic.Uint64
}

// Next returns a handle greater than every handle this allocator has
// issued before.
func (a *Allocator[H]) Next() H {
	return H(a.last.Add(1))
}

// Last returns the most recently issued handle, or zero if none.
func (a *Allocator[H]) Last() H {
	return H(a.last.Load())
}

var (
	images Allocator[ImageID]
	fonts  Allocator[FontID]
	texts  Allocator[TextID]
	timers Allocator[TimerID]
)

// NewImageID allocates a process-unique ImageID.
func NewImageID() ImageID { return images.Next() }

// NewFontID allocates a process-unique FontID.
func NewFontID() FontID { return fonts.Next() }

// NewTextID allocates a process-unique TextID.
func NewTextID() TextID { return texts.Next() }

// NewTimerID allocates a process-unique TimerID.
func NewTimerID() TimerID { return timers.Next() }
