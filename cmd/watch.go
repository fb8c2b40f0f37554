package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/codeberry/pulldash/internal/history"
	"github.com/codeberry/pulldash/internal/log"
	"github.com/codeberry/pulldash/internal/stats"
	"github.com/codeberry/pulldash/internal/syncer"
	"github.com/codeberry/pulldash/internal/tui"
)

// NewCmdWatch creates the watch command (same as bare pulldash).
func NewCmdWatch(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the live dashboard with background refresh",
		Long: `Opens the dashboard and keeps it fresh: a background scheduler
re-fetches pull requests periodically, more often during weekday
business hours in the configured time zone.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, opts)
		},
	}

	addWatchFlags(cmd, opts)
	return cmd
}

// addWatchFlags adds the watch-specific flags to a command.
func addWatchFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.TimeRange, "range", "r", "", "Initial time range (week, month, quarter, all)")
	cmd.Flags().Var(newTUIFlag(opts), "tui", "Enable/disable the dashboard TUI (default: auto-detect)")
	addCommonFlags(cmd, opts)
}

func runWatch(cmd *cobra.Command, opts *Options) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

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

	settings, err := rt.cfg.GetSyncSettings()
	if err != nil {
		return err
	}

	hist, err := history.NewStore()
	if err != nil {
		log.Warn("sync history unavailable", "error", err)
		hist = nil
	}

	st := stats.NewStore(stats.WithFilters(stats.Filters{TimeRange: timeRange}))

	refresh, err := rt.cfg.GetRefreshInterval()
	if err != nil {
		return err
	}

	schedOpts := []syncer.Option{
		syncer.WithInterval(settings.Cadence),
		syncer.WithTickInterval(refresh),
		syncer.WithBusinessHours(settings.Location, settings.BusinessHoursStart, settings.BusinessHoursEnd),
	}
	if hist != nil {
		schedOpts = append(schedOpts, syncer.WithHistory(hist))
	}
	sched := syncer.New(st, rt.client, schedOpts...)

	user, err := rt.client.AuthenticatedUser(ctx)
	if err != nil {
		return err
	}
	log.Info("authenticated", "user", user, "repos", len(rt.repos))

	go sched.Run(ctx)
	sched.OnAuthenticated(ctx)

	if shouldUseTUI(opts) {
		err := tui.Run(st, sched, hist)
		cancel()
		return err
	}

	return runHeadless(ctx, sched)
}

// runHeadless blocks until interrupted, leaving the scheduler to log its
// sync cycles. Used when stdout is not a terminal or the TUI is disabled.
func runHeadless(ctx context.Context, sched *syncer.Scheduler) error {
	log.Info("running without TUI, press Ctrl+C to stop")
	<-ctx.Done()
	if sched.Syncing() {
		log.Debug("interrupted during sync")
	}
	return nil
}
