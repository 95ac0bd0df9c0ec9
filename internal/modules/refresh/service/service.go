package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	feedDomain "github.com/reshetovitsme/news-panel/internal/modules/feed/domain"
	newsDomain "github.com/reshetovitsme/news-panel/internal/modules/news/domain"
	"github.com/reshetovitsme/news-panel/internal/shared/errors"
	"github.com/reshetovitsme/news-panel/internal/shared/schedule"
	"github.com/samber/oops"
)

// Fetcher downloads the raw feed
type Fetcher interface {
	Fetch(ctx context.Context) ([]feedDomain.Entry, feedDomain.Meta, error)
}

// Builder turns raw entries into a snapshot
type Builder interface {
	Build(ctx context.Context, entries []feedDomain.Entry, meta feedDomain.Meta) *newsDomain.Snapshot
}

// Carousel receives new snapshots and the loading/error overlay
type Carousel interface {
	LoadSnapshot(s *newsDomain.Snapshot)
	SetLoading(loading bool)
	SetLastError(err error)
}

// Status describes the refresh loop for status displays
type Status struct {
	Refreshing  bool
	LastAttempt time.Time
	LastSuccess time.Time
	LastError   error
	Items       int
	NextIn      time.Duration
}

// Service periodically refreshes the carousel from the feed
type Service struct {
	fetcher  Fetcher
	builder  Builder
	carousel Carousel
	clock    clock.Clock
	task     *schedule.Task
	trigger  chan struct{}
	inFlight atomic.Bool

	mu     sync.RWMutex
	status Status

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new refresh service
func New(fetcher Fetcher, builder Builder, carousel Carousel, c clock.Clock, interval time.Duration) *Service {
	if c == nil {
		c = clock.New()
	}
	return &Service{
		fetcher:  fetcher,
		builder:  builder,
		carousel: carousel,
		clock:    c,
		task:     schedule.NewTask(c, interval),
		trigger:  make(chan struct{}, 1),
	}
}

// Start runs the first refresh right away, then one every interval
func (s *Service) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.refreshLoop(ctx)
}

// Stop stops the loop and waits for a running refresh to finish
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// Trigger requests an out-of-band refresh. Requests made while one is
// pending are merged.
func (s *Service) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Status returns the current loop status
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.status
	st.Refreshing = s.inFlight.Load()
	st.NextIn = s.task.Remaining()
	return st
}

// Refresh performs one cycle. A failed fetch keeps the current snapshot on
// screen; a cycle started while another runs is skipped with ErrRefreshBusy.
func (s *Service) Refresh(ctx context.Context) error {
	if !s.inFlight.CompareAndSwap(false, true) {
		return oops.In("refresh").Wrap(errors.ErrRefreshBusy)
	}
	defer s.inFlight.Store(false)

	started := s.clock.Now()
	s.carousel.SetLoading(true)
	defer s.carousel.SetLoading(false)

	entries, meta, err := s.fetcher.Fetch(ctx)
	if err != nil {
		slog.Error("Feed refresh failed", "kind", errors.Kind(err), "error", err)
		s.carousel.SetLastError(err)
		s.record(started, err, -1)
		return err
	}

	snapshot := s.builder.Build(ctx, entries, meta)
	s.carousel.LoadSnapshot(snapshot)
	s.carousel.SetLastError(nil)
	s.record(started, nil, snapshot.Len())

	slog.Info("Feed refreshed", "items", snapshot.Len(), "took", s.clock.Since(started))
	return nil
}

func (s *Service) record(at time.Time, err error, items int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.LastAttempt = at
	s.status.LastError = err
	if err == nil {
		s.status.LastSuccess = at
		s.status.Items = items
	}
}

func (s *Service) refreshLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := s.clock.Ticker(pollResolution(s.task.Interval()))
	defer ticker.Stop()

	// Initial refresh
	s.run(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.trigger:
			s.run(ctx)
		case <-ticker.C:
			if s.task.Fire() {
				s.run(ctx)
			}
		}
	}
}

func (s *Service) run(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
		slog.Debug("Refresh cycle ended with error", "error", err)
	}
	s.task.Reset()
}

func pollResolution(interval time.Duration) time.Duration {
	res := interval / 4
	if res > time.Second {
		res = time.Second
	}
	if res < time.Millisecond {
		res = time.Millisecond
	}
	return res
}
