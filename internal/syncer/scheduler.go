// Package syncer decides when to re-fetch pull-request data and recompute
// the stats rollups. It runs a fixed evaluation tick and fires a sync when
// the elapsed time since the last successful sync exceeds the current
// cadence, with a faster cadence during weekday business hours.
package syncer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/codeberry/pulldash/internal/constants"
	"github.com/codeberry/pulldash/internal/history"
	"github.com/codeberry/pulldash/internal/log"
	"github.com/codeberry/pulldash/internal/model"
	"github.com/codeberry/pulldash/internal/stats"
)

// Fetcher is the external data source. A failed fetch is logged and the
// next tick is the retry mechanism; the scheduler never retries on its own.
type Fetcher interface {
	FetchPullRequests(ctx context.Context) ([]model.PullRequest, error)
}

// Scheduler drives the periodic refresh-and-recompute cycle. At most one
// sync is in flight at any time; a trigger arriving while syncing is a
// no-op.
type Scheduler struct {
	store   *stats.Store
	fetcher Fetcher
	history *history.Store

	interval     time.Duration
	tickInterval time.Duration
	loc          *time.Location
	startHour    int
	endHour      int

	isSyncing atomic.Bool

	mu       sync.Mutex
	lastSync time.Time

	clock func() time.Time
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithInterval sets the user-configured cadence used outside business hours.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithTickInterval sets how often the sync condition is evaluated.
func WithTickInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.tickInterval = d
		}
	}
}

// WithBusinessHours sets the reference time zone and hour range for the
// accelerated cadence window.
func WithBusinessHours(loc *time.Location, startHour, endHour int) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.loc = loc
		}
		s.startHour = startHour
		s.endHour = endHour
	}
}

// WithHistory records a summary line after every successful sync.
func WithHistory(h *history.Store) Option {
	return func(s *Scheduler) {
		s.history = h
	}
}

// WithClock injects the time source (for tests).
func WithClock(clock func() time.Time) Option {
	return func(s *Scheduler) {
		s.clock = clock
	}
}

// New creates a Scheduler with the default cadence and UTC business hours.
func New(store *stats.Store, fetcher Fetcher, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:        store,
		fetcher:      fetcher,
		interval:     constants.DefaultCadence,
		tickInterval: constants.SyncTickInterval,
		loc:          time.UTC,
		startHour:    constants.BusinessHoursStart,
		endHour:      constants.BusinessHoursEnd,
		clock:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run evaluates the sync condition on a fixed tick until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// OnAuthenticated schedules an initial sync after a short settle delay when
// no prior sync exists or the last one is stale.
func (s *Scheduler) OnAuthenticated(ctx context.Context) {
	last := s.LastSync()
	if !last.IsZero() && s.clock().Sub(last) < constants.StaleSyncThreshold {
		log.Debug("skipping initial sync, last sync is fresh", "lastSync", last)
		return
	}

	go func() {
		timer := time.NewTimer(constants.InitialSyncDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		s.Sync(ctx, "initial")
	}()
}

// Sync runs one fetch-and-recompute cycle. It returns false without doing
// anything if a sync is already in flight, or if the fetch fails. The
// in-flight flag is cleared on every exit path.
func (s *Scheduler) Sync(ctx context.Context, reason string) bool {
	if !s.isSyncing.CompareAndSwap(false, true) {
		log.Debug("sync already in flight", "reason", reason)
		return false
	}
	defer s.isSyncing.Store(false)

	started := s.clock()
	sinceLast := time.Duration(0)
	if last := s.LastSync(); !last.IsZero() {
		sinceLast = started.Sub(last)
	}
	log.Info("sync started", "reason", reason, "sinceLast", sinceLast)

	prs, err := s.fetcher.FetchPullRequests(ctx)
	if err != nil {
		// lastSync stays unchanged so the next tick retries.
		log.Warn("sync failed", "reason", reason, "error", err)
		return false
	}

	s.store.SetRecords(prs)
	finished := s.clock()
	s.setLastSync(finished)

	if s.history != nil {
		rec := history.NewRecord(prs, s.store.Snapshot(), finished)
		if err := s.history.Append(rec); err != nil {
			log.Debug("failed to record sync history", "error", err)
		}
	}

	log.Info("sync complete", "reason", reason, "records", len(prs), "took", finished.Sub(started))
	return true
}

// Syncing reports whether a sync is currently in flight.
func (s *Scheduler) Syncing() bool {
	return s.isSyncing.Load()
}

// LastSync returns the completion time of the last successful sync, or the
// zero time if none has completed.
func (s *Scheduler) LastSync() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSync
}

func (s *Scheduler) setLastSync(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSync = t
}

// tick fires a sync when the elapsed time since the last sync has reached
// the current cadence, or when no sync has completed yet.
func (s *Scheduler) tick(ctx context.Context) {
	now := s.clock()
	last := s.LastSync()
	if last.IsZero() {
		s.Sync(ctx, "no prior sync")
		return
	}

	cadence := s.cadence(now)
	elapsed := now.Sub(last)
	if elapsed < cadence {
		log.Trace("sync not due", "elapsed", elapsed, "cadence", cadence)
		return
	}
	s.Sync(ctx, "cadence elapsed")
}

// cadence returns the required interval between syncs at the given time.
func (s *Scheduler) cadence(now time.Time) time.Duration {
	if IsAcceleratedWindow(now, s.loc, s.startHour, s.endHour) {
		return constants.AcceleratedCadence
	}
	return s.interval
}

// IsAcceleratedWindow reports whether t, converted to the reference time
// zone, falls on a weekday within [startHour, endHour).
func IsAcceleratedWindow(t time.Time, loc *time.Location, startHour, endHour int) bool {
	local := t.In(loc)
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	h := local.Hour()
	return h >= startHour && h < endHour
}
