package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/codeberry/pulldash/internal/ghclient"
)

// NewCmdRateLimit creates the ratelimit command.
func NewCmdRateLimit() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "ratelimit",
		Short: "Check GitHub API rate limit status",
		Long:  `Display current GitHub API rate limit status including remaining quota and reset time.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRateLimitStatus(cmd, token)
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "GitHub token (defaults to GITHUB_TOKEN)")
	return cmd
}

func runRateLimitStatus(cmd *cobra.Command, token string) error {
	ctx := cmd.Context()

	client, err := ghclient.NewClient(ctx, token, nil)
	if err != nil {
		return err
	}

	limits, err := client.RateLimits(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch rate limits: %w", err)
	}

	core := limits.GetCore()
	fmt.Printf("GitHub API rate limit (core):\n")
	fmt.Printf("  Remaining: %d / %d\n", core.Remaining, core.Limit)
	fmt.Printf("  Resets:    %s (in %s)\n",
		core.Reset.Time.Format(time.RFC1123),
		time.Until(core.Reset.Time).Round(time.Second))

	if ghclient.IsRateLimited() {
		_, _, resetAt, _ := ghclient.GetRateLimitStatus()
		fmt.Printf("  Status:    limited until %s\n", resetAt.Format(time.RFC1123))
	}
	return nil
}
