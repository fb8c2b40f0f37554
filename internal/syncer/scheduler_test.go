package syncer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeberry/pulldash/internal/constants"
	"github.com/codeberry/pulldash/internal/model"
	"github.com/codeberry/pulldash/internal/stats"
)

var schedNow = time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC) // a Wednesday

// fakeFetcher counts invocations and can block until released, or fail.
type fakeFetcher struct {
	calls   atomic.Int32
	block   chan struct{} // when set, FetchPullRequests waits on it
	err     error
	records []model.PullRequest
}

func (f *fakeFetcher) FetchPullRequests(ctx context.Context) ([]model.PullRequest, error) {
	f.calls.Add(1)
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func newTestScheduler(f Fetcher, clock func() time.Time) (*Scheduler, *stats.Store) {
	store := stats.NewStore(stats.WithClock(clock))
	s := New(store, f, WithClock(clock))
	return s, store
}

func TestSyncStoresRecords(t *testing.T) {
	fetcher := &fakeFetcher{
		records: []model.PullRequest{{
			Owner:     "acme",
			Repo:      "widget",
			Number:    1,
			Author:    "alice",
			State:     model.StateOpen,
			CreatedAt: schedNow.Add(-24 * time.Hour),
		}},
	}
	s, store := newTestScheduler(fetcher, func() time.Time { return schedNow })

	ok := s.Sync(context.Background(), "test")

	require.True(t, ok)
	assert.Equal(t, 1, store.RecordCount())
	assert.Equal(t, schedNow, s.LastSync())
	assert.False(t, s.Syncing())
}

func TestSyncReentrancy(t *testing.T) {
	fetcher := &fakeFetcher{block: make(chan struct{})}
	s, _ := newTestScheduler(fetcher, func() time.Time { return schedNow })

	var wg sync.WaitGroup
	wg.Add(1)
	started := make(chan struct{})
	go func() {
		defer wg.Done()
		close(started)
		s.Sync(context.Background(), "first")
	}()

	<-started
	// Wait until the first sync is actually in flight.
	require.Eventually(t, s.Syncing, time.Second, time.Millisecond)

	// A second trigger while syncing must not start a second fetch.
	ok := s.Sync(context.Background(), "second")
	assert.False(t, ok)

	close(fetcher.block)
	wg.Wait()

	assert.Equal(t, int32(1), fetcher.calls.Load(), "fetch must be invoked exactly once")
}

func TestSyncFailureLeavesLastSyncUnchanged(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("boom")}
	s, _ := newTestScheduler(fetcher, func() time.Time { return schedNow })

	ok := s.Sync(context.Background(), "test")

	assert.False(t, ok)
	assert.True(t, s.LastSync().IsZero())
	assert.False(t, s.Syncing(), "in-flight flag must clear on failure")
}

func TestTickCadence(t *testing.T) {
	// Sunday noon: outside the accelerated window, default interval 5m.
	sunday := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		lastAge  time.Duration
		wantSync bool
	}{
		{"4 minutes old must not fire", 4 * time.Minute, false},
		{"5 minutes old must fire", 5 * time.Minute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{}
			s, _ := newTestScheduler(fetcher, func() time.Time { return sunday })
			s.setLastSync(sunday.Add(-tt.lastAge))

			s.tick(context.Background())

			if tt.wantSync {
				assert.Equal(t, int32(1), fetcher.calls.Load())
			} else {
				assert.Zero(t, fetcher.calls.Load())
			}
		})
	}
}

func TestTickFiresWhenNeverSynced(t *testing.T) {
	fetcher := &fakeFetcher{}
	s, _ := newTestScheduler(fetcher, func() time.Time { return schedNow })

	s.tick(context.Background())

	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestTickAcceleratedCadence(t *testing.T) {
	fetcher := &fakeFetcher{}
	store := stats.NewStore()
	// A 30m configured interval, but Wednesday noon sits inside business
	// hours, so the 5m accelerated cadence wins.
	s := New(store, fetcher,
		WithClock(func() time.Time { return schedNow }),
		WithInterval(30*time.Minute),
	)
	s.setLastSync(schedNow.Add(-10 * time.Minute))

	s.tick(context.Background())

	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestIsAcceleratedWindow(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name string
		t    time.Time
		loc  *time.Location
		want bool
	}{
		{"weekday noon UTC", time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC), time.UTC, true},
		{"weekday start hour inclusive", time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC), time.UTC, true},
		{"weekday end hour exclusive", time.Date(2026, 8, 26, 18, 0, 0, 0, time.UTC), time.UTC, false},
		{"weekday before hours", time.Date(2026, 8, 26, 8, 59, 0, 0, time.UTC), time.UTC, false},
		{"saturday noon", time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC), time.UTC, false},
		{"sunday noon", time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC), time.UTC, false},
		// 14:00 UTC is 10:00 in New York during daylight saving.
		{"utc afternoon maps into ny morning", time.Date(2026, 8, 26, 14, 0, 0, 0, time.UTC), ny, true},
		// 23:00 UTC Wednesday is 19:00 in New York, outside the window.
		{"utc evening maps outside ny hours", time.Date(2026, 8, 26, 23, 0, 0, 0, time.UTC), ny, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsAcceleratedWindow(tt.t, tt.loc, constants.BusinessHoursStart, constants.BusinessHoursEnd)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOnAuthenticatedSkipsFreshSync(t *testing.T) {
	fetcher := &fakeFetcher{}
	s, _ := newTestScheduler(fetcher, func() time.Time { return schedNow })
	s.setLastSync(schedNow.Add(-time.Minute))

	s.OnAuthenticated(context.Background())

	// The settle-delay goroutine is only spawned when a sync is due; give
	// any stray one a moment to run.
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, fetcher.calls.Load())
}

func TestWithTickInterval(t *testing.T) {
	fetcher := &fakeFetcher{}

	s, _ := newTestScheduler(fetcher, func() time.Time { return schedNow })
	assert.Equal(t, constants.SyncTickInterval, s.tickInterval)

	store := stats.NewStore()
	s = New(store, fetcher, WithTickInterval(10*time.Second))
	assert.Equal(t, 10*time.Second, s.tickInterval)

	s = New(store, fetcher, WithTickInterval(0))
	assert.Equal(t, constants.SyncTickInterval, s.tickInterval)
}

func TestRunHonorsTickInterval(t *testing.T) {
	fetcher := &fakeFetcher{}
	store := stats.NewStore()
	s := New(store, fetcher, WithTickInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return fetcher.calls.Load() > 0
	}, time.Second, time.Millisecond, "expected a sync within the tick interval")

	cancel()
	<-done
}
