package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/codeberry/pulldash/config"
	"github.com/codeberry/pulldash/internal/cache"
	"github.com/codeberry/pulldash/internal/ghclient"
	"github.com/codeberry/pulldash/internal/log"
	"github.com/codeberry/pulldash/internal/stats"
)

// runtime bundles the pieces shared by the stats and watch commands.
type runtime struct {
	cfg    *config.Config
	client *ghclient.Client
	repos  []string
}

// setupRuntime initializes logging, loads config, and builds the GitHub
// client for the tracked repositories. Flags win over config values.
func setupRuntime(ctx context.Context, opts *Options) (*runtime, error) {
	log.Initialize(opts.Verbosity, os.Stderr)

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	repos := opts.Repos
	if len(repos) == 0 {
		repos = cfg.Repos
	}
	if len(repos) == 0 {
		return nil, fmt.Errorf("no repositories configured: pass --repo owner/name or set repos in %s", config.ConfigPath())
	}

	var clientOpts []ghclient.ClientOption
	if !opts.NoCache {
		c, err := cache.New()
		if err != nil {
			log.Warn("pr list cache unavailable", "error", err)
		} else {
			clientOpts = append(clientOpts, ghclient.WithCache(c))
		}
	}

	client, err := ghclient.NewClient(ctx, opts.Token, repos, clientOpts...)
	if err != nil {
		return nil, err
	}

	return &runtime{cfg: cfg, client: client, repos: repos}, nil
}

// resolveTimeRange picks the stats window from the flag, falling back to
// config, and validates it.
func resolveTimeRange(opts *Options, cfg *config.Config) (stats.TimeRange, error) {
	name := opts.TimeRange
	if name == "" {
		name = cfg.DefaultTimeRange
	}
	if name == "" {
		return stats.RangeMonth, nil
	}

	r := stats.TimeRange(name)
	for _, valid := range stats.AllTimeRanges {
		if r == valid {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown time range %q (want week, month, quarter or all)", name)
}
