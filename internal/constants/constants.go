// Package constants provides a centralized location for configuration
// values and magic numbers used throughout the pulldash application.
package constants

import "time"

// Sync scheduler constants
const (
	// SyncTickInterval is how often the scheduler re-evaluates whether a
	// sync is due.
	SyncTickInterval = 60 * time.Second

	// AcceleratedCadence is the minimum interval between syncs during the
	// business-hours window.
	AcceleratedCadence = 5 * time.Minute

	// DefaultCadence is the minimum interval between syncs outside the
	// business-hours window when the user has not configured one.
	DefaultCadence = 5 * time.Minute

	// StaleSyncThreshold is the last-sync age beyond which authentication
	// triggers an immediate initial sync.
	StaleSyncThreshold = 5 * time.Minute

	// InitialSyncDelay is the settle delay before the post-authentication
	// sync.
	InitialSyncDelay = 2 * time.Second
)

// Business-hours window defaults, applied in the configured time zone.
const (
	// BusinessHoursStart is the first accelerated hour of a weekday (inclusive).
	BusinessHoursStart = 9

	// BusinessHoursEnd is the hour at which acceleration stops (exclusive).
	BusinessHoursEnd = 18
)

// DefaultTimezone is the reference time zone for the business-hours window
// when the config does not name one.
const DefaultTimezone = "UTC"

// Cache constants
const (
	// PRListCacheTTL is the TTL for cached per-repository PR lists. It is
	// kept at the accelerated cadence so a tick inside the business-hours
	// window can be served from cache.
	PRListCacheTTL = 5 * time.Minute
)

// History constants
const (
	// HistoryMaxRecords is the maximum number of sync summaries retained
	// in the history store.
	HistoryMaxRecords = 1000
)

// Fetch constants
const (
	// FetchWorkers bounds the number of repositories fetched concurrently.
	FetchWorkers = 4

	// ClosedPRLookback is how far back closed PRs are fetched; anything
	// older cannot contribute to the widest activity window or rollup view.
	ClosedPRLookback = 120 * 24 * time.Hour
)
