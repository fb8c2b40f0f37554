package ghclient

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	gh "github.com/google/go-github/v57/github"
	"golang.org/x/sync/errgroup"

	"github.com/codeberry/pulldash/internal/constants"
	"github.com/codeberry/pulldash/internal/log"
	"github.com/codeberry/pulldash/internal/model"
	"github.com/codeberry/pulldash/internal/syncer"
)

// Ensure Client satisfies the scheduler's collaborator contract.
var _ syncer.Fetcher = (*Client)(nil)

// FetchPullRequests fetches the tracked pull requests for all configured
// repositories. Repositories are fetched in parallel; a failure on any one
// of them fails the whole fetch so the scheduler can retry on its next tick.
func (c *Client) FetchPullRequests(ctx context.Context) ([]model.PullRequest, error) {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(constants.FetchWorkers)

	var mu sync.Mutex
	var all []model.PullRequest

	for _, repo := range c.repos {
		repo := repo
		eg.Go(func() error {
			prs, err := c.fetchRepo(egCtx, repo)
			if err != nil {
				return fmt.Errorf("%s: %w", repo, err)
			}
			mu.Lock()
			all = append(all, prs...)
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	log.Info("fetched pull requests", "repos", len(c.repos), "records", len(all))
	return all, nil
}

// fetchRepo fetches one repository's PR list, from cache when fresh.
func (c *Client) fetchRepo(ctx context.Context, repoFullName string) ([]model.PullRequest, error) {
	if c.cache != nil {
		if prs, ok := c.cache.Get(repoFullName); ok {
			log.Debug("cache hit", "repo", repoFullName, "records", len(prs))
			return prs, nil
		}
	}

	owner, name, ok := splitRepo(repoFullName)
	if !ok {
		return nil, fmt.Errorf("invalid repository %q, want owner/name", repoFullName)
	}

	raw, err := c.listPullRequests(ctx, owner, name)
	if err != nil {
		return nil, err
	}

	prs, err := c.enrichReviews(ctx, owner, name, raw)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(repoFullName, prs); err != nil {
			log.Debug("failed to cache PR list", "repo", repoFullName, "error", err)
		}
	}

	return prs, nil
}

// listPullRequests lists every open PR plus closed PRs young enough for a
// rollup window to include them. Open PRs stay tracked regardless of age, so
// the open listing pages to exhaustion; only the closed listing early-stops.
func (c *Client) listPullRequests(ctx context.Context, owner, name string) ([]*gh.PullRequest, error) {
	open, err := c.listOpen(ctx, owner, name)
	if err != nil {
		return nil, err
	}

	closed, err := c.listRecentlyClosed(ctx, owner, name)
	if err != nil {
		return nil, err
	}

	// A PR can close between the two listings; keep the closed record.
	seen := make(map[int]bool, len(closed))
	for _, pr := range closed {
		seen[pr.GetNumber()] = true
	}

	out := make([]*gh.PullRequest, 0, len(open)+len(closed))
	out = append(out, closed...)
	for _, pr := range open {
		if seen[pr.GetNumber()] {
			continue
		}
		out = append(out, pr)
	}
	return out, nil
}

func (c *Client) listOpen(ctx context.Context, owner, name string) ([]*gh.PullRequest, error) {
	opts := &gh.PullRequestListOptions{
		State:     "open",
		Sort:      "created",
		Direction: "desc",
		ListOptions: gh.ListOptions{
			PerPage: 100,
		},
	}

	var out []*gh.PullRequest
	for {
		page, resp, err := c.client.PullRequests.List(ctx, owner, name, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list open pull requests: %w", err)
		}
		out = append(out, page...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return out, nil
}

// listRecentlyClosed pages through closed PRs, newest first, stopping once
// records are old enough that no rollup window can include them.
func (c *Client) listRecentlyClosed(ctx context.Context, owner, name string) ([]*gh.PullRequest, error) {
	cutoff := time.Now().Add(-constants.ClosedPRLookback)

	opts := &gh.PullRequestListOptions{
		State:     "closed",
		Sort:      "created",
		Direction: "desc",
		ListOptions: gh.ListOptions{
			PerPage: 100,
		},
	}

	var out []*gh.PullRequest
	for {
		page, resp, err := c.client.PullRequests.List(ctx, owner, name, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list closed pull requests: %w", err)
		}

		done := false
		for _, pr := range page {
			if pr.GetCreatedAt().Time.Before(cutoff) {
				done = true
				continue
			}
			out = append(out, pr)
		}

		if done || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return out, nil
}

// enrichReviews attaches submitted reviews to each PR and converts to the
// domain model. Review listing is bounded to avoid bursts against the API.
func (c *Client) enrichReviews(ctx context.Context, owner, name string, raw []*gh.PullRequest) ([]model.PullRequest, error) {
	prs := make([]model.PullRequest, len(raw))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(constants.FetchWorkers)

	for i, pr := range raw {
		i, pr := i, pr
		eg.Go(func() error {
			reviews, err := c.listReviews(egCtx, owner, name, pr.GetNumber())
			if err != nil {
				return err
			}
			prs[i] = convertPullRequest(owner, name, pr, reviews)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return prs, nil
}

func (c *Client) listReviews(ctx context.Context, owner, name string, number int) ([]*gh.PullRequestReview, error) {
	opts := &gh.ListOptions{PerPage: 100}

	var out []*gh.PullRequestReview
	for {
		page, resp, err := c.client.PullRequests.ListReviews(ctx, owner, name, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list reviews for #%d: %w", number, err)
		}
		out = append(out, page...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return out, nil
}

// splitRepo extracts owner and name from a full repo name.
func splitRepo(fullName string) (owner, name string, ok bool) {
	parts := strings.Split(fullName, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
