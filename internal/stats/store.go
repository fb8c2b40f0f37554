package stats

import (
	"sort"
	"sync"
	"time"

	"github.com/codeberry/pulldash/internal/model"
)

// FilteredStats is the read model handed to the presentation layer. Repos
// are filtered by the repository selection and sorted; people and reviewers
// always cover every repository within the time window.
type FilteredStats struct {
	Repos     []*RepoStats
	People    []*PersonStats
	Reviewers []*ReviewerStats
}

// Store owns the record collection, the active filters, and every derived
// rollup. All mutation replaces whole tables under a single lock; readers
// never observe a partially updated rollup.
type Store struct {
	mu sync.RWMutex

	records  []model.PullRequest
	filters  Filters
	rollups  *Rollups
	snapshot *Snapshot
	activity []ActivityPeriod

	now func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock injects the time source used for window cutoffs (for tests).
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// WithFilters sets the initial filter state.
func WithFilters(f Filters) StoreOption {
	return func(s *Store) {
		s.filters = f
	}
}

// NewStore creates an empty store with default filters.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		filters: DefaultFilters(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.recompute()
	return s
}

// SetRecords replaces the record collection and recomputes all derived
// state.
func (s *Store) SetRecords(prs []model.PullRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = prs
	s.recompute()
}

// SetTimeRange changes the trailing window and recomputes the rollups.
func (s *Store) SetTimeRange(r TimeRange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.TimeRange = r
	s.rollups = ComputeRollups(s.records, s.filters, s.now())
}

// SetSelectedRepos changes the repository selection. The rollups are not
// recomputed: the selection only applies when reading.
func (s *Store) SetSelectedRepos(repos []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.SelectedRepos = repos
}

// ClearFilters resets the filters to their defaults and recomputes.
func (s *Store) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = DefaultFilters()
	s.rollups = ComputeRollups(s.records, s.filters, s.now())
}

// Filters returns the active filter state.
func (s *Store) Filters() Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// FilteredStats reads the current rollup tables, applying the repository
// selection to the repo table only.
func (s *Store) FilteredStats() FilteredStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var selected map[string]bool
	if len(s.filters.SelectedRepos) > 0 {
		selected = make(map[string]bool, len(s.filters.SelectedRepos))
		for _, r := range s.filters.SelectedRepos {
			selected[r] = true
		}
	}

	out := FilteredStats{}
	for key, r := range s.rollups.Repos {
		if selected != nil && !selected[key] {
			continue
		}
		out.Repos = append(out.Repos, r)
	}
	for _, p := range s.rollups.People {
		out.People = append(out.People, p)
	}
	for _, r := range s.rollups.Reviewers {
		out.Reviewers = append(out.Reviewers, r)
	}

	sort.Slice(out.Repos, func(i, j int) bool {
		return out.Repos[i].FullName() < out.Repos[j].FullName()
	})
	sort.Slice(out.People, func(i, j int) bool {
		if out.People[i].TotalPRs != out.People[j].TotalPRs {
			return out.People[i].TotalPRs > out.People[j].TotalPRs
		}
		return out.People[i].Name < out.People[j].Name
	})
	sort.Slice(out.Reviewers, func(i, j int) bool {
		ri, rj := out.Reviewers[i], out.Reviewers[j]
		ti := ri.Approved + ri.ChangesReq + ri.PendingReviews
		tj := rj.Approved + rj.ChangesReq + rj.PendingReviews
		if ti != tj {
			return ti > tj
		}
		return ri.Name < rj.Name
	})

	return out
}

// Snapshot returns the current unfiltered snapshot.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Activity returns the current trailing activity periods.
func (s *Store) Activity() []ActivityPeriod {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activity
}

// RecordCount returns the number of tracked records.
func (s *Store) RecordCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// recompute rebuilds every derived structure. Callers must hold mu.
func (s *Store) recompute() {
	now := s.now()
	s.rollups = ComputeRollups(s.records, s.filters, now)
	s.snapshot = BuildSnapshot(s.records, now)
	s.activity = BuildActivity(s.records, now)
}
