package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Task is a repeating deadline with explicit reset and stop handles. It does
// not run anything by itself; callers poll Fire from their own loop (a UI
// tick, or Run below).
type Task struct {
	clock    clock.Clock
	interval time.Duration

	mu      sync.Mutex
	next    time.Time
	stopped bool
}

// NewTask creates a task whose first deadline is one interval from now.
func NewTask(c clock.Clock, interval time.Duration) *Task {
	if c == nil {
		c = clock.New()
	}
	return &Task{
		clock:    c,
		interval: interval,
		next:     c.Now().Add(interval),
	}
}

// Interval returns the period of the task.
func (t *Task) Interval() time.Duration {
	return t.interval
}

// Due reports whether the deadline has passed and the task is running.
func (t *Task) Due() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.stopped && !t.clock.Now().Before(t.next)
}

// Fire consumes the deadline if it is due and schedules the next one a full
// interval from now. Missed periods are not replayed.
func (t *Task) Fire() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	if t.stopped || now.Before(t.next) {
		return false
	}
	t.next = now.Add(t.interval)
	return true
}

// Reset pushes the deadline a full interval from now.
func (t *Task) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next = t.clock.Now().Add(t.interval)
}

// Stop disarms the task until Resume.
func (t *Task) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

// Resume re-arms a stopped task with a fresh deadline.
func (t *Task) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = false
	t.next = t.clock.Now().Add(t.interval)
}

// Stopped reports whether the task is disarmed.
func (t *Task) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Remaining is the time left until the next deadline (zero when due or stopped).
func (t *Task) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return 0
	}
	if d := t.next.Sub(t.clock.Now()); d > 0 {
		return d
	}
	return 0
}

// Run polls task every resolution and calls fn each time it fires, until ctx
// is done.
func Run(ctx context.Context, c clock.Clock, resolution time.Duration, task *Task, fn func(context.Context)) {
	if c == nil {
		c = clock.New()
	}
	ticker := c.Ticker(resolution)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if task.Fire() {
				fn(ctx)
			}
		}
	}
}
