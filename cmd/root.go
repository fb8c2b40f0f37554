package cmd

import (
	"github.com/spf13/cobra"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := NewOptions()

	rootCmd := &cobra.Command{
		Use:   "pulldash",
		Short: "Pull request dashboard for your team's repositories",
		Long: `A terminal dashboard that tracks pull requests across a set of
repositories: per-repo status rollups, per-author and per-reviewer
stats, and recent merge/review activity, refreshed in the background.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, opts)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Add watch flags to the root command so `pulldash` and `pulldash watch`
	// work identically
	addWatchFlags(rootCmd, opts)

	// Register subcommands
	rootCmd.AddCommand(NewCmdWatch(opts))
	rootCmd.AddCommand(NewCmdStats(opts))
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdCache())
	rootCmd.AddCommand(NewCmdRateLimit())
	rootCmd.AddCommand(NewCmdVersion())

	return rootCmd
}
