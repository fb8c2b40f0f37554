// Package stats turns a raw collection of pull-request records into
// per-repository, per-author, and per-reviewer rollups, plus an unfiltered
// snapshot of current state and trailing activity windows.
package stats

import "github.com/codeberry/pulldash/internal/model"

// Status is a mutually exclusive pull-request bucket.
type Status string

const (
	StatusMerged   Status = "merged"
	StatusClosed   Status = "closed"
	StatusDraft    Status = "draft"
	StatusApproved Status = "approved"
	StatusInReview Status = "inReview"
	StatusOpen     Status = "open"
)

// Classify maps a pull request to exactly one status bucket, evaluated in
// priority order: merged, closed, draft, approved, inReview, open.
func Classify(pr *model.PullRequest) Status {
	switch {
	case pr.Merged():
		return StatusMerged
	case pr.State == model.StateClosed:
		return StatusClosed
	case pr.Draft:
		return StatusDraft
	case len(pr.Approvals) > 0:
		return StatusApproved
	case len(pr.ReviewRequests) > 0:
		return StatusInReview
	default:
		return StatusOpen
	}
}

// ClassifyAuthor maps a pull request to the bucket used for per-author
// rollups. Author classification deliberately ignores review state: an
// approved or in-review PR still counts as open for its author.
func ClassifyAuthor(pr *model.PullRequest) Status {
	switch {
	case pr.Merged():
		return StatusMerged
	case pr.State == model.StateClosed:
		return StatusClosed
	case pr.Draft:
		return StatusDraft
	default:
		return StatusOpen
	}
}
