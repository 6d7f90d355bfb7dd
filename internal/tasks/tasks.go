// Package tasks schedules deferred callbacks with explicit handles so that
// in-flight work can be cancelled at teardown. Simulated OCR latency and
// stage transitions run through here instead of bare timers.
package tasks

import (
	"sync"
	"time"
)

// Task is a handle to one scheduled callback.
type Task struct {
	timer *time.Timer
	done  chan struct{}

	mu        sync.Mutex
	cancelled bool
	fired     bool
}

// Cancel stops the task if it has not fired yet. It reports whether the
// callback was prevented from running.
func (t *Task) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.fired || t.cancelled {
		return false
	}
	if t.timer.Stop() {
		t.cancelled = true
		close(t.done)
		return true
	}
	return false
}

// Done returns a channel closed when the task has either run to completion
// or been cancelled.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Fired reports whether the callback actually ran (as opposed to being
// cancelled). Only meaningful once Done is closed.
func (t *Task) Fired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fired
}

// Scheduler owns a set of pending tasks and cancels them all on Shutdown.
type Scheduler struct {
	mu      sync.Mutex
	pending map[*Task]struct{}
	closed  bool
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{pending: make(map[*Task]struct{})}
}

// After runs fn once after d elapses and returns a handle to it. After a
// Shutdown, fn is never scheduled and the returned task reads as done.
func (s *Scheduler) After(d time.Duration, fn func()) *Task {
	t := &Task{done: make(chan struct{})}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		t.cancelled = true
		close(t.done)
		return t
	}

	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		if t.cancelled {
			t.mu.Unlock()
			return
		}
		t.fired = true
		t.mu.Unlock()

		fn()

		s.forget(t)
		close(t.done)
	})
	s.pending[t] = struct{}{}
	s.mu.Unlock()

	return t
}

// Pending returns the number of tasks that have not yet fired or been
// cancelled.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Shutdown cancels every pending task and rejects new ones.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	s.closed = true
	pending := make([]*Task, 0, len(s.pending))
	for t := range s.pending {
		pending = append(pending, t)
	}
	s.pending = make(map[*Task]struct{})
	s.mu.Unlock()

	for _, t := range pending {
		t.Cancel()
	}
}

func (s *Scheduler) forget(t *Task) {
	s.mu.Lock()
	delete(s.pending, t)
	s.mu.Unlock()
}
