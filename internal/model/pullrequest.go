// Package model contains domain types for the pulldash application.
// These types are independent of any external GitHub library.
package model

import (
	"fmt"
	"time"
)

// State values for a pull request.
const (
	StateOpen   = "open"
	StateClosed = "closed"
)

// Reviewer identifies a person in a reviewer role.
type Reviewer struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// ReviewAction is a submitted review (approval or changes-requested)
// attributed to a reviewer at a point in time.
type ReviewAction struct {
	Login       string    `json:"login"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// PullRequest is a single tracked pull request with its review signals.
// Records are supplied by the fetch layer and treated as immutable by the
// stats engine.
type PullRequest struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Number int    `json:"number"`
	Title  string `json:"title,omitempty"`
	URL    string `json:"htmlUrl,omitempty"`

	Author          string `json:"author"`
	AuthorAvatarURL string `json:"authorAvatarUrl,omitempty"`

	State     string     `json:"state"` // open, closed
	Draft     bool       `json:"draft,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	MergedAt  *time.Time `json:"mergedAt,omitempty"` // set iff merged
	ClosedAt  *time.Time `json:"closedAt,omitempty"`

	Approvals        []ReviewAction `json:"approvals,omitempty"`
	ChangesRequested []ReviewAction `json:"changesRequested,omitempty"`
	ReviewRequests   []Reviewer     `json:"reviewRequests,omitempty"`
}

// Key returns the stable identity of a pull request: "owner/repo#number".
func (pr *PullRequest) Key() string {
	return fmt.Sprintf("%s/%s#%d", pr.Owner, pr.Repo, pr.Number)
}

// RepoFullName returns "owner/repo".
func (pr *PullRequest) RepoFullName() string {
	return pr.Owner + "/" + pr.Repo
}

// Merged reports whether the pull request has been merged.
func (pr *PullRequest) Merged() bool {
	return pr.MergedAt != nil
}

// Valid reports whether the record carries the fields the stats engine
// requires. Invalid records are skipped during aggregation.
func (pr *PullRequest) Valid() bool {
	return pr.Author != "" && !pr.CreatedAt.IsZero()
}
