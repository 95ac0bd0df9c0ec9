package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/reshetovitsme/news-panel/internal/modules/carousel/domain"
	newsDomain "github.com/reshetovitsme/news-panel/internal/modules/news/domain"
	"github.com/reshetovitsme/news-panel/internal/shared/errors"
	"github.com/reshetovitsme/news-panel/internal/shared/schedule"
	"github.com/samber/oops"
)

// Controller owns the carousel state shared by every shell
type Controller struct {
	snapshot atomic.Pointer[newsDomain.Snapshot]
	auto     *schedule.Task

	mu      sync.RWMutex
	index   int
	loading bool
	lastErr error
}

// NewController creates an empty carousel that auto-advances every
// slideInterval on clock c.
func NewController(c clock.Clock, slideInterval time.Duration) *Controller {
	return &Controller{
		auto: schedule.NewTask(c, slideInterval),
	}
}

// LoadSnapshot replaces the displayed snapshot and rewinds to the first item.
func (c *Controller) LoadSnapshot(s *newsDomain.Snapshot) {
	c.mu.Lock()
	c.snapshot.Store(s)
	c.index = 0
	c.mu.Unlock()

	c.auto.Reset()
}

// Snapshot returns the displayed snapshot, possibly nil.
func (c *Controller) Snapshot() *newsDomain.Snapshot {
	return c.snapshot.Load()
}

// State is Showing whenever the loaded snapshot has items.
func (c *Controller) State() domain.State {
	if c.snapshot.Load().Len() == 0 {
		return domain.StateEmpty
	}
	return domain.StateShowing
}

// Advance moves to the next item, wrapping around. No-op when empty.
func (c *Controller) Advance() bool {
	return c.step(1)
}

// Retreat moves to the previous item, wrapping around. No-op when empty.
func (c *Controller) Retreat() bool {
	return c.step(-1)
}

func (c *Controller) step(delta int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.snapshot.Load().Len()
	if n == 0 {
		return false
	}
	c.index = ((c.index+delta)%n + n) % n
	return true
}

// Swipe handles a user gesture. It restarts the auto-advance countdown so the
// gesture is never followed by an immediate timer step.
func (c *Controller) Swipe(direction domain.Direction) (bool, error) {
	var moved bool
	switch direction {
	case domain.DirectionNext:
		moved = c.Advance()
	case domain.DirectionPrevious:
		moved = c.Retreat()
	default:
		return false, oops.In("carousel").With("direction", direction).Wrap(domain.ErrInvalidDirection)
	}
	c.auto.Reset()
	return moved, nil
}

// Tick advances when the auto-advance interval has elapsed. Shells call it
// from their own clock loop.
func (c *Controller) Tick() bool {
	if !c.auto.Fire() {
		return false
	}
	return c.Advance()
}

// Run auto-advances on its own until ctx is done, for shells without a
// clock loop of their own.
func (c *Controller) Run(ctx context.Context, clk clock.Clock, resolution time.Duration) {
	schedule.Run(ctx, clk, resolution, c.auto, func(context.Context) {
		c.Advance()
	})
}

// Current returns the displayed item.
func (c *Controller) Current() (*newsDomain.Item, int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item := c.snapshot.Load().At(c.index)
	if item == nil {
		return nil, 0, false
	}
	return item, c.index, true
}

// Item returns the item at index of the displayed snapshot.
func (c *Controller) Item(index int) (*newsDomain.Item, bool) {
	item := c.snapshot.Load().At(index)
	return item, item != nil
}

// View returns a consistent copy of everything a shell draws.
func (c *Controller) View() domain.View {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := c.snapshot.Load()
	v := domain.View{
		State:   domain.StateEmpty,
		Loading: c.loading,
		NextIn:  c.auto.Remaining(),
	}
	if s != nil {
		v.FetchedAt = s.FetchedAt
		v.FeedTitle = s.FeedTitle
	}
	if item := s.At(c.index); item != nil {
		v.State = domain.StateShowing
		v.Index = c.index
		v.Total = s.Len()
		v.Item = item
	}
	if c.lastErr != nil {
		v.LastError = c.lastErr.Error()
		v.ErrorKind = errors.Kind(c.lastErr)
	}
	return v
}

// SetLoading toggles the loading overlay.
func (c *Controller) SetLoading(loading bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = loading
}

// SetLastError records the outcome of the last refresh; nil clears it.
func (c *Controller) SetLastError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
}

// PauseAutoAdvance stops the timer until ResumeAutoAdvance.
func (c *Controller) PauseAutoAdvance() {
	c.auto.Stop()
}

func (c *Controller) ResumeAutoAdvance() {
	c.auto.Resume()
}

// AutoAdvancePaused reports whether the timer is stopped.
func (c *Controller) AutoAdvancePaused() bool {
	return c.auto.Stopped()
}
