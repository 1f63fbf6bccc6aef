// Package task runs deferred work off the UI goroutine. Each task carries
// a Shared value, the only piece of application state it may touch; the
// rest of the state (resource cache, timers) stays with the UI goroutine.
package task

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// defaultWorkers is the number of goroutines executing tasks. One worker
// keeps completion order identical to enqueue order.
const defaultWorkers = 1

// ErrClosed is returned by AddTask after Close.
var ErrClosed = errors.New("task: queue closed")

// Task is one unit of deferred work. Build it with New.
type Task struct {
	name string
	run  func() error
}

// New creates a task that runs fn against shared on a worker goroutine.
func New[U any](shared *Shared[U], fn func(*Shared[U]) error) Task {
	return Task{run: func() error { return fn(shared) }}
}

// Named returns a copy of t labelled for logs.
func (t Task) Named(name string) Task {
	t.name = name
	return t
}

// Stats is a snapshot of queue counters.
type Stats struct {
	Enqueued  uint64
	Completed uint64
	Failed    uint64 // returned an error or panicked
	Pending   int
	Running   int
}

// Option configures a Queue.
type Option func(*Queue)

// WithWorkers sets the number of worker goroutines.
func WithWorkers(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.workers = n
		}
	}
}

// WithLogger sets the logger for task failures.
func WithLogger(l *slog.Logger) Option {
	return func(q *Queue) {
		if l != nil {
			q.logger = l
		}
	}
}

// WithNotify registers fn to be called from the worker goroutine after
// every completed task. The frame loop uses it to wake up; fn must not
// block.
func WithNotify(fn func()) Option {
	return func(q *Queue) { q.notify = fn }
}

// Queue is a FIFO of tasks drained by a fixed worker pool. Tasks start in
// the order they were added; there is no priority and no cancellation.
type Queue struct {
	workers int
	logger  *slog.Logger
	notify  func()

	mu        sync.Mutex
	cond      *sync.Cond
	pending   []Task
	running   int
	closed    bool
	enqueued  uint64
	completed uint64
	failed    uint64
	collected uint64

	wg        sync.WaitGroup
	startOnce sync.Once
	closeOnce sync.Once
}

// NewQueue creates a queue. Workers start with the first AddTask.
func NewQueue(opts ...Option) *Queue {
	q := &Queue{
		workers: defaultWorkers,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(q)
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// AddTask appends t to the tail of the queue.
func (q *Queue) AddTask(t Task) error {
	if t.run == nil {
		return fmt.Errorf("task: nil task %q", t.name)
	}
	q.startOnce.Do(q.start)

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.pending = append(q.pending, t)
	q.enqueued++
	q.cond.Signal()
	return nil
}

// Collect returns how many tasks finished since the previous call. The
// frame loop calls it once per frame; a non-zero result means task
// results may have changed shared state.
func (q *Queue) Collect() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := q.completed - q.collected
	q.collected = q.completed
	return int(n)
}

// Pending returns the number of tasks waiting for a worker.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Running returns the number of tasks currently executing.
func (q *Queue) Running() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.running
}

// Stats returns current counters.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Stats{
		Enqueued:  q.enqueued,
		Completed: q.completed,
		Failed:    q.failed,
		Pending:   len(q.pending),
		Running:   q.running,
	}
}

// Close stops accepting tasks and waits for every queued task to finish.
// It is safe to call Close multiple times.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		q.mu.Lock()
		q.closed = true
		q.cond.Broadcast()
		q.mu.Unlock()
	})
	q.wg.Wait()
}

func (q *Queue) start() {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
}

// worker pops tasks from the head until the queue is closed and empty.
func (q *Queue) worker() {
	defer q.wg.Done()
	for {
		q.mu.Lock()
		for len(q.pending) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.pending) == 0 {
			q.mu.Unlock()
			return
		}
		t := q.pending[0]
		q.pending[0] = Task{}
		q.pending = q.pending[1:]
		q.running++
		q.mu.Unlock()

		err := q.exec(t)

		q.mu.Lock()
		q.running--
		q.completed++
		if err != nil {
			q.failed++
		}
		notify := q.notify
		q.mu.Unlock()

		if notify != nil {
			notify()
		}
	}
}

// exec runs one task, turning a panic into an error.
func (q *Queue) exec(t Task) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("task: panic: %v", p)
		}
		if err != nil {
			q.logger.Warn("task failed", "task", t.name, "error", err)
		}
	}()
	return t.run()
}
