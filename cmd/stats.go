package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/codeberry/pulldash/internal/output"
	"github.com/codeberry/pulldash/internal/stats"
)

// NewCmdStats creates the stats command.
func NewCmdStats(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Fetch once and print pull request stats",
		Long: `Fetches pull requests for the tracked repositories, computes the
status rollups for the selected time range, and prints them in the
requested format. Suitable for scripts and CI.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStats(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Output format (table, json, markdown)")
	cmd.Flags().StringVarP(&opts.TimeRange, "range", "r", "", "Time range (week, month, quarter, all)")
	addCommonFlags(cmd, opts)

	return cmd
}

// addCommonFlags adds the flags shared by stats and watch.
func addCommonFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringSliceVar(&opts.Repos, "repo", nil, "Repository to track as owner/name (repeatable, overrides config)")
	cmd.Flags().StringVar(&opts.Token, "token", "", "GitHub token (defaults to GITHUB_TOKEN)")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "Bypass the on-disk PR list cache")

	// Profiling flags
	cmd.Flags().StringVar(&opts.CPUProfile, "cpuprofile", "", "Write CPU profile to file")
	cmd.Flags().StringVar(&opts.MemProfile, "memprofile", "", "Write memory profile to file")
	cmd.Flags().StringVar(&opts.Trace, "trace", "", "Write execution trace to file")
}

func runStats(cmd *cobra.Command, opts *Options) error {
	ctx := cmd.Context()

	profiler := NewProfiler(opts.CPUProfile, opts.MemProfile, opts.Trace)
	if err := profiler.Start(); err != nil {
		return err
	}
	defer profiler.Stop()

	rt, err := setupRuntime(ctx, opts)
	if err != nil {
		return err
	}

	timeRange, err := resolveTimeRange(opts, rt.cfg)
	if err != nil {
		return err
	}

	formatName := opts.Format
	if formatName == "" {
		formatName = rt.cfg.DefaultFormat
	}
	formatKind, err := output.ParseFormat(formatName)
	if err != nil {
		return err
	}

	prs, err := rt.client.FetchPullRequests(ctx)
	if err != nil {
		return err
	}

	st := stats.NewStore(stats.WithFilters(stats.Filters{TimeRange: timeRange}))
	st.SetRecords(prs)

	report := output.BuildReport(st, time.Now())
	return output.NewFormatter(formatKind).Format(report, os.Stdout)
}
