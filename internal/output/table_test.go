package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/codeberry/pulldash/internal/stats"
)

func testReport() Report {
	return Report{
		GeneratedAt: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
		TimeRange:   stats.RangeMonth,
		Repos: []*stats.RepoStats{
			{Owner: "acme", Name: "widget", Open: 2, InReview: 1, Merged: 4, TotalPRs: 7},
		},
		People: []*stats.PersonStats{
			{Name: "alice", Open: 2, Merged: 4, TotalPRs: 6},
		},
		Reviewers: []*stats.ReviewerStats{
			{Name: "carol", PendingReviews: 1, Approved: 3},
		},
		Snapshot: &stats.Snapshot{
			ReadyToShip:        1,
			Open:               3,
			NeedsReview:        2,
			MedianOpenAgeHours: 20,
		},
		Activity: []stats.ActivityPeriod{
			{
				Days:     7,
				Merged:   map[string]stats.PersonActivity{"alice": {Count: 2}},
				Reviewed: map[string]stats.PersonActivity{"carol": {Count: 3}},
			},
		},
	}
}

func TestTableFormat(t *testing.T) {
	// Deterministic plain output
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	var buf bytes.Buffer
	f := &TableFormatter{}
	if err := f.Format(testReport(), &buf); err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Pull requests (month)",
		"1 ready to ship · 3 open · 2 needing review · median open age 20h",
		"acme/widget",
		"alice",
		"carol",
		"Activity (merged / reviewed)",
		"alice:2",
		"carol:3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q\n%s", want, out)
		}
	}
}

func TestTableFormatEmpty(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	report := Report{
		TimeRange: stats.RangeWeek,
		Snapshot:  &stats.Snapshot{},
	}

	var buf bytes.Buffer
	f := &TableFormatter{}
	if err := f.Format(report, &buf); err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	if !strings.Contains(buf.String(), "No pull requests in the selected window.") {
		t.Errorf("empty report output = %q, want empty notice", buf.String())
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	f := &JSONFormatter{}
	if err := f.Format(testReport(), &buf); err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["timeRange"] != "month" {
		t.Errorf("timeRange = %v, want month", decoded["timeRange"])
	}
	snap, ok := decoded["snapshot"].(map[string]any)
	if !ok {
		t.Fatalf("snapshot missing from JSON output")
	}
	if snap["readyToShip"] != float64(1) {
		t.Errorf("readyToShip = %v, want 1", snap["readyToShip"])
	}
}

func TestMarkdownFormat(t *testing.T) {
	var buf bytes.Buffer
	f := &MarkdownFormatter{}
	if err := f.Format(testReport(), &buf); err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Pull request stats (month)",
		"## Repositories",
		"| acme/widget | 2 | 0 | 1 | 0 | 4 | 0 | 7 |",
		"## Authors",
		"| alice | 2 | 0 | 4 | 0 | 6 |",
		"## Reviewers",
		"| carol | 1 | 3 | 0 |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q\n%s", want, out)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "table", want: FormatTable},
		{in: "json", want: FormatJSON},
		{in: "markdown", want: FormatMarkdown},
		{in: "", want: FormatTable},
		{in: "yaml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseFormat(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormat(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
