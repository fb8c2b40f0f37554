package ghclient

import (
	"sort"

	gh "github.com/google/go-github/v57/github"

	"github.com/codeberry/pulldash/internal/model"
)

// GitHub review states.
const (
	reviewApproved         = "APPROVED"
	reviewChangesRequested = "CHANGES_REQUESTED"
	reviewDismissed        = "DISMISSED"
)

// convertPullRequest maps a go-github pull request plus its submitted
// reviews onto the domain model.
func convertPullRequest(owner, name string, pr *gh.PullRequest, reviews []*gh.PullRequestReview) model.PullRequest {
	out := model.PullRequest{
		Owner:           owner,
		Repo:            name,
		Number:          pr.GetNumber(),
		Title:           pr.GetTitle(),
		URL:             pr.GetHTMLURL(),
		Author:          pr.GetUser().GetLogin(),
		AuthorAvatarURL: pr.GetUser().GetAvatarURL(),
		State:           pr.GetState(),
		Draft:           pr.GetDraft(),
		CreatedAt:       pr.GetCreatedAt().Time,
	}

	if pr.MergedAt != nil {
		t := pr.MergedAt.Time
		out.MergedAt = &t
	}
	if pr.ClosedAt != nil {
		t := pr.ClosedAt.Time
		out.ClosedAt = &t
	}

	for _, u := range pr.RequestedReviewers {
		out.ReviewRequests = append(out.ReviewRequests, model.Reviewer{
			Login:     u.GetLogin(),
			AvatarURL: u.GetAvatarURL(),
		})
	}

	approvals, changes := latestReviewStates(reviews)
	out.Approvals = approvals
	out.ChangesRequested = changes

	return out
}

// latestReviewStates reduces the review timeline to the current per-reviewer
// state: the most recent APPROVED or CHANGES_REQUESTED review wins, and a
// DISMISSED review clears the reviewer from both sets. Comment-only reviews
// carry no state and are ignored.
func latestReviewStates(reviews []*gh.PullRequestReview) (approvals, changes []model.ReviewAction) {
	type reviewState struct {
		state  string
		action model.ReviewAction
	}
	latest := make(map[string]reviewState)

	for _, rv := range reviews {
		login := rv.GetUser().GetLogin()
		if login == "" {
			continue
		}

		state := rv.GetState()
		switch state {
		case reviewApproved, reviewChangesRequested, reviewDismissed:
		default:
			continue
		}

		submitted := rv.GetSubmittedAt().Time
		if prev, ok := latest[login]; ok && !submitted.After(prev.action.SubmittedAt) {
			continue
		}
		latest[login] = reviewState{
			state: state,
			action: model.ReviewAction{
				Login:       login,
				AvatarURL:   rv.GetUser().GetAvatarURL(),
				SubmittedAt: submitted,
			},
		}
	}

	for _, rs := range latest {
		switch rs.state {
		case reviewApproved:
			approvals = append(approvals, rs.action)
		case reviewChangesRequested:
			changes = append(changes, rs.action)
		}
	}

	// Stable output regardless of map iteration order.
	sortActions(approvals)
	sortActions(changes)
	return approvals, changes
}

func sortActions(actions []model.ReviewAction) {
	sort.Slice(actions, func(i, j int) bool {
		return actions[i].Login < actions[j].Login
	})
}
