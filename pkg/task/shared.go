package task

import (
	"fmt"
	"sync"
)

// Shared is the only sanctioned channel between background tasks and the
// UI goroutine: a value that is read or replaced under a mutex. Hold the
// lock as briefly as possible and never across blocking I/O.
type Shared[U any] struct {
	mu sync.Mutex
	v  U
}

// NewShared wraps v.
func NewShared[U any](v U) *Shared[U] {
	return &Shared[U]{v: v}
}

// Modify runs fn with exclusive access to the value. The lock is released
// on every exit path; a panic in fn is recovered and returned as an error
// so the value stays usable.
func (s *Shared[U]) Modify(fn func(*U)) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("task: shared modify panicked: %v", p)
		}
	}()
	fn(&s.v)
	return nil
}

// Get returns a copy of the value.
func (s *Shared[U]) Get() U {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v
}

// Set replaces the value.
func (s *Shared[U]) Set(v U) {
	s.mu.Lock()
	s.v = v
	s.mu.Unlock()
}
