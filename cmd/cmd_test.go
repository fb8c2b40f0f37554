package cmd

import (
	"testing"
)

func TestNew(t *testing.T) {
	cmd := New()
	if cmd == nil {
		t.Fatal("New() returned nil")
	}
	if cmd.Use != "pulldash" {
		t.Errorf("expected Use to be 'pulldash', got %q", cmd.Use)
	}

	for _, sub := range []string{"watch", "stats", "config", "cache", "ratelimit", "version"} {
		found := false
		for _, c := range cmd.Commands() {
			if c.Name() == sub {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", sub)
		}
	}
}

func TestNewCmdStats(t *testing.T) {
	opts := NewOptions()
	cmd := NewCmdStats(opts)
	if cmd.Use != "stats" {
		t.Errorf("expected Use to be 'stats', got %q", cmd.Use)
	}
	if cmd.Flags().Lookup("output") == nil {
		t.Error("stats command missing --output flag")
	}
	if cmd.Flags().Lookup("range") == nil {
		t.Error("stats command missing --range flag")
	}
}

func TestNewCmdWatch(t *testing.T) {
	opts := NewOptions()
	cmd := NewCmdWatch(opts)
	if cmd.Use != "watch" {
		t.Errorf("expected Use to be 'watch', got %q", cmd.Use)
	}
	if cmd.Flags().Lookup("tui") == nil {
		t.Error("watch command missing --tui flag")
	}
}

func TestSetVersionInfo(t *testing.T) {
	SetVersionInfo("1.0.0", "abc123", "2024-01-01")
	if version != "1.0.0" || commit != "abc123" || date != "2024-01-01" {
		t.Errorf("SetVersionInfo not applied: %s %s %s", version, commit, date)
	}

	// Empty values leave existing ones in place
	SetVersionInfo("", "", "")
	if version != "1.0.0" {
		t.Errorf("empty version overwrote existing value: %s", version)
	}
}

func TestTUIFlag(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"true", "true", false},
		{"1", "true", false},
		{"false", "false", false},
		{"no", "false", false},
		{"auto", "auto", false},
		{"maybe", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			opts := NewOptions()
			f := newTUIFlag(opts)
			err := f.Set(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Set(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Set(%q) error: %v", tt.input, err)
			}
			if f.String() != tt.want {
				t.Errorf("after Set(%q), String() = %q, want %q", tt.input, f.String(), tt.want)
			}
		})
	}
}

func TestNewOptions(t *testing.T) {
	opts := NewOptions(
		WithFormat("json"),
		WithRepos([]string{"acme/widget"}),
		WithTimeRange("week"),
		WithVerbosity(2),
		WithNoCache(true),
	)

	if opts.Format != "json" {
		t.Errorf("Format = %q, want json", opts.Format)
	}
	if len(opts.Repos) != 1 || opts.Repos[0] != "acme/widget" {
		t.Errorf("Repos = %v", opts.Repos)
	}
	if opts.TimeRange != "week" {
		t.Errorf("TimeRange = %q, want week", opts.TimeRange)
	}
	if opts.Verbosity != 2 {
		t.Errorf("Verbosity = %d, want 2", opts.Verbosity)
	}
	if !opts.NoCache {
		t.Error("NoCache not set")
	}
}
