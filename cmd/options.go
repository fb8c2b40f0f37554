package cmd

// Options holds the shared command-line options for the pulldash CLI.
type Options struct {
	Format    string
	Repos     []string
	TimeRange string
	Token     string
	Verbosity int
	NoCache   bool
	TUI       *bool // nil = auto-detect, true = force TUI, false = disable TUI

	// Profiling options
	CPUProfile string // Write CPU profile to file
	MemProfile string // Write memory profile to file
	Trace      string // Write execution trace to file
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// NewOptions creates a new Options with defaults and applies any provided options.
func NewOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithFormat sets the output format (table, json, markdown).
func WithFormat(format string) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithRepos sets the repositories to track (owner/name).
func WithRepos(repos []string) Option {
	return func(o *Options) {
		o.Repos = repos
	}
}

// WithTimeRange sets the stats time range (week, month, quarter, all).
func WithTimeRange(r string) Option {
	return func(o *Options) {
		o.TimeRange = r
	}
}

// WithToken sets the GitHub token (otherwise GITHUB_TOKEN is used).
func WithToken(token string) Option {
	return func(o *Options) {
		o.Token = token
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		o.Verbosity = v
	}
}

// WithNoCache disables the on-disk PR list cache.
func WithNoCache(noCache bool) Option {
	return func(o *Options) {
		o.NoCache = noCache
	}
}

// WithTUI controls TUI mode (nil = auto-detect, true = force, false = disable).
func WithTUI(tui *bool) Option {
	return func(o *Options) {
		o.TUI = tui
	}
}
