package stats

import (
	"time"

	"github.com/codeberry/pulldash/internal/log"
	"github.com/codeberry/pulldash/internal/model"
)

// TimeRange selects the trailing window applied to filtered rollups.
type TimeRange string

const (
	RangeWeek    TimeRange = "week"
	RangeMonth   TimeRange = "month"
	RangeQuarter TimeRange = "quarter"
	RangeAll     TimeRange = "all"
)

// AllTimeRanges contains all valid time ranges.
var AllTimeRanges = []TimeRange{RangeWeek, RangeMonth, RangeQuarter, RangeAll}

// Filters holds the user-controlled stats filters. The zero value means
// "month, all repositories".
type Filters struct {
	TimeRange     TimeRange
	SelectedRepos []string
}

// DefaultFilters returns the initial filter state.
func DefaultFilters() Filters {
	return Filters{TimeRange: RangeMonth}
}

// RepoStats holds mutually exclusive status counts for one repository.
type RepoStats struct {
	Owner    string `json:"owner"`
	Name     string `json:"name"`
	Open     int    `json:"open"`
	Draft    int    `json:"draft"`
	InReview int    `json:"inReview"`
	Approved int    `json:"approved"`
	Closed   int    `json:"closed"`
	Merged   int    `json:"merged"`
	TotalPRs int    `json:"totalPRs"`
}

// FullName returns "owner/name".
func (r *RepoStats) FullName() string {
	return r.Owner + "/" + r.Name
}

// PersonStats holds mutually exclusive status counts for one author.
type PersonStats struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Open      int    `json:"open"`
	Merged    int    `json:"merged"`
	Closed    int    `json:"closed"`
	Draft     int    `json:"draft"`
	TotalPRs  int    `json:"totalPRs"`
}

// ReviewerStats holds cumulative occurrence counters for one reviewer.
// Unlike RepoStats and PersonStats the counters are independent: the same
// reviewer can contribute to several counters across pull requests.
type ReviewerStats struct {
	Name           string `json:"name"`
	AvatarURL      string `json:"avatarUrl,omitempty"`
	PendingReviews int    `json:"pendingReviews"`
	Approved       int    `json:"approved"`
	ChangesReq     int    `json:"changesRequested"`
	// Dismissed has no producer in the current review signals and stays at
	// zero. It is kept so downstream consumers see a stable shape.
	Dismissed int `json:"dismissed"`
}

// Rollups is the full output of one aggregation pass. Each run produces a
// fresh set of tables; nothing from a previous run survives unless it is
// re-derived from the current input.
type Rollups struct {
	Repos     map[string]*RepoStats     `json:"repos"`     // keyed by owner/name
	People    map[string]*PersonStats   `json:"people"`    // keyed by author login
	Reviewers map[string]*ReviewerStats `json:"reviewers"` // keyed by reviewer login
}

// Cutoff returns the inclusion cutoff for a time range relative to now.
// Month and quarter subtract calendar months (with Go's date normalization
// near month ends), not a fixed number of days.
func Cutoff(r TimeRange, now time.Time) time.Time {
	switch r {
	case RangeWeek:
		return now.AddDate(0, 0, -7)
	case RangeMonth:
		return now.AddDate(0, -1, 0)
	case RangeQuarter:
		return now.AddDate(0, -3, 0)
	default:
		return time.Time{}
	}
}

// ComputeRollups performs a single aggregation pass over the record
// collection. The repository-selection filter is intentionally not applied
// here; aggregation always covers all repositories within the time window,
// and SelectedRepos is applied at read time.
func ComputeRollups(prs []model.PullRequest, f Filters, now time.Time) *Rollups {
	cutoff := Cutoff(f.TimeRange, now)

	r := &Rollups{
		Repos:     make(map[string]*RepoStats),
		People:    make(map[string]*PersonStats),
		Reviewers: make(map[string]*ReviewerStats),
	}

	for i := range prs {
		pr := &prs[i]
		if !pr.Valid() {
			log.Debug("skipping malformed record", "key", pr.Key())
			continue
		}
		if pr.CreatedAt.Before(cutoff) {
			continue
		}

		repo := r.repo(pr)
		switch Classify(pr) {
		case StatusMerged:
			repo.Merged++
		case StatusClosed:
			repo.Closed++
		case StatusDraft:
			repo.Draft++
		case StatusApproved:
			repo.Approved++
		case StatusInReview:
			repo.InReview++
		case StatusOpen:
			repo.Open++
		}
		repo.TotalPRs++

		person := r.person(pr)
		switch ClassifyAuthor(pr) {
		case StatusMerged:
			person.Merged++
		case StatusClosed:
			person.Closed++
		case StatusDraft:
			person.Draft++
		case StatusOpen:
			person.Open++
		}
		person.TotalPRs++

		for _, a := range pr.Approvals {
			r.reviewer(a.Login, a.AvatarURL).Approved++
		}
		for _, a := range pr.ChangesRequested {
			r.reviewer(a.Login, a.AvatarURL).ChangesReq++
		}
		for _, rr := range pr.ReviewRequests {
			r.reviewer(rr.Login, rr.AvatarURL).PendingReviews++
		}
	}

	return r
}

// repo returns the accumulator for the record's repository, creating it on
// first reference.
func (r *Rollups) repo(pr *model.PullRequest) *RepoStats {
	key := pr.RepoFullName()
	s, ok := r.Repos[key]
	if !ok {
		s = &RepoStats{Owner: pr.Owner, Name: pr.Repo}
		r.Repos[key] = s
	}
	return s
}

func (r *Rollups) person(pr *model.PullRequest) *PersonStats {
	s, ok := r.People[pr.Author]
	if !ok {
		s = &PersonStats{Name: pr.Author, AvatarURL: pr.AuthorAvatarURL}
		r.People[pr.Author] = s
	}
	if s.AvatarURL == "" && pr.AuthorAvatarURL != "" {
		s.AvatarURL = pr.AuthorAvatarURL
	}
	return s
}

func (r *Rollups) reviewer(login, avatarURL string) *ReviewerStats {
	s, ok := r.Reviewers[login]
	if !ok {
		s = &ReviewerStats{Name: login, AvatarURL: avatarURL}
		r.Reviewers[login] = s
	}
	if s.AvatarURL == "" && avatarURL != "" {
		s.AvatarURL = avatarURL
	}
	return s
}
