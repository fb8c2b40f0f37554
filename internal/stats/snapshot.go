package stats

import (
	"time"

	mstats "github.com/montanaflynn/stats"

	"github.com/codeberry/pulldash/internal/model"
)

// PersonSnapshot is the per-person slice of the current-state snapshot.
// Open and Draft count the person's own records; AssignedForReview counts
// open records on which the person is a pending requested reviewer.
type PersonSnapshot struct {
	AvatarURL         string `json:"avatarUrl,omitempty"`
	Open              int    `json:"open"`
	Draft             int    `json:"draft"`
	AssignedForReview int    `json:"assignedForReview"`
}

// ReviewerSnapshot counts total approvals attributed to a reviewer across
// all tracked records.
type ReviewerSnapshot struct {
	AvatarURL   string `json:"avatarUrl,omitempty"`
	ReviewCount int    `json:"reviewCount"`
}

// Snapshot is a point-in-time view of the live record collection. It is
// independent of the time-range filter.
type Snapshot struct {
	ReadyToShip        int                          `json:"readyToShip"`
	Open               int                          `json:"open"`
	NeedsReview        int                          `json:"needsReview"`
	MedianOpenAgeHours float64                      `json:"medianOpenAgeHours"`
	People             map[string]*PersonSnapshot   `json:"people"`
	Reviewers          map[string]*ReviewerSnapshot `json:"reviewers"`
}

// BuildSnapshot derives the current-state snapshot from all tracked records.
// No time-window filter applies; now is only used to measure open-PR age.
func BuildSnapshot(prs []model.PullRequest, now time.Time) *Snapshot {
	snap := &Snapshot{
		People:    make(map[string]*PersonSnapshot),
		Reviewers: make(map[string]*ReviewerSnapshot),
	}

	var openAges []float64

	for i := range prs {
		pr := &prs[i]
		if !pr.Valid() {
			continue
		}

		status := Classify(pr)
		switch status {
		case StatusApproved:
			snap.ReadyToShip++
		case StatusOpen:
			snap.Open++
		case StatusInReview:
			snap.NeedsReview++
		}

		switch status {
		case StatusOpen, StatusDraft, StatusApproved, StatusInReview:
			openAges = append(openAges, now.Sub(pr.CreatedAt).Hours())
		}

		switch status {
		case StatusOpen, StatusApproved, StatusInReview:
			p := snap.person(pr.Author, pr.AuthorAvatarURL)
			p.Open++
		case StatusDraft:
			p := snap.person(pr.Author, pr.AuthorAvatarURL)
			p.Draft++
		}

		// Pending review requests on any open record count against the
		// requested person in their reviewer role.
		if status != StatusMerged && status != StatusClosed {
			for _, rr := range pr.ReviewRequests {
				snap.person(rr.Login, rr.AvatarURL).AssignedForReview++
			}
		}

		for _, a := range pr.Approvals {
			rs, ok := snap.Reviewers[a.Login]
			if !ok {
				rs = &ReviewerSnapshot{AvatarURL: a.AvatarURL}
				snap.Reviewers[a.Login] = rs
			}
			rs.ReviewCount++
		}
	}

	if len(openAges) > 0 {
		// Median is well-defined for non-empty input; error is impossible here.
		if med, err := mstats.Median(openAges); err == nil {
			snap.MedianOpenAgeHours = med
		}
	}

	return snap
}

func (s *Snapshot) person(name, avatarURL string) *PersonSnapshot {
	p, ok := s.People[name]
	if !ok {
		p = &PersonSnapshot{AvatarURL: avatarURL}
		s.People[name] = p
	}
	if p.AvatarURL == "" && avatarURL != "" {
		p.AvatarURL = avatarURL
	}
	return p
}

// PersonActivity is one person's contribution count within an activity
// window, with the avatar from their most recent in-window action.
type PersonActivity struct {
	Count     int    `json:"count"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// ActivityPeriod reports merged and reviewed counts per person for one
// fixed trailing window.
type ActivityPeriod struct {
	Days     int                       `json:"days"`
	Merged   map[string]PersonActivity `json:"merged"`
	Reviewed map[string]PersonActivity `json:"reviewed"`
}

// ActivityWindows are the trailing window sizes, in days, reported by
// BuildActivity.
var ActivityWindows = []int{1, 7, 30}

// BuildActivity derives the trailing activity windows ending at now.
func BuildActivity(prs []model.PullRequest, now time.Time) []ActivityPeriod {
	periods := make([]ActivityPeriod, 0, len(ActivityWindows))

	for _, days := range ActivityWindows {
		start := now.AddDate(0, 0, -days)
		p := ActivityPeriod{
			Days:     days,
			Merged:   make(map[string]PersonActivity),
			Reviewed: make(map[string]PersonActivity),
		}

		// latest* track the timestamp behind each carried avatar so the
		// result does not depend on record iteration order.
		latestMerge := make(map[string]time.Time)
		latestReview := make(map[string]time.Time)

		for i := range prs {
			pr := &prs[i]
			if !pr.Valid() {
				continue
			}

			if pr.MergedAt != nil && inWindow(*pr.MergedAt, start, now) {
				bump(p.Merged, latestMerge, pr.Author, pr.AuthorAvatarURL, *pr.MergedAt)
			}

			for _, a := range pr.Approvals {
				if inWindow(a.SubmittedAt, start, now) {
					bump(p.Reviewed, latestReview, a.Login, a.AvatarURL, a.SubmittedAt)
				}
			}
			for _, a := range pr.ChangesRequested {
				if inWindow(a.SubmittedAt, start, now) {
					bump(p.Reviewed, latestReview, a.Login, a.AvatarURL, a.SubmittedAt)
				}
			}
		}

		periods = append(periods, p)
	}

	return periods
}

func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

func bump(m map[string]PersonActivity, latest map[string]time.Time, name, avatarURL string, at time.Time) {
	entry := m[name]
	entry.Count++
	// Carry the avatar of the most recent action that has one, independent
	// of record iteration order.
	if avatarURL != "" {
		if last, ok := latest[name]; !ok || at.After(last) {
			latest[name] = at
			entry.AvatarURL = avatarURL
		}
	}
	m[name] = entry
}
