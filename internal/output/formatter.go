package output

import (
	"fmt"
	"io"
	"time"

	"github.com/codeberry/pulldash/internal/stats"
)

// Format represents the output format
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a format name from flags or config.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatJSON, FormatMarkdown:
		return Format(s), nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json or markdown)", s)
	}
}

// Report bundles everything a formatter renders for one stats run.
type Report struct {
	GeneratedAt time.Time              `json:"generatedAt"`
	TimeRange   stats.TimeRange        `json:"timeRange"`
	Repos       []*stats.RepoStats     `json:"repos"`
	People      []*stats.PersonStats   `json:"people"`
	Reviewers   []*stats.ReviewerStats `json:"reviewers"`
	Snapshot    *stats.Snapshot        `json:"snapshot"`
	Activity    []stats.ActivityPeriod `json:"activity"`
}

// BuildReport assembles a report from the store's current filtered view.
func BuildReport(st *stats.Store, now time.Time) Report {
	filtered := st.FilteredStats()
	return Report{
		GeneratedAt: now,
		TimeRange:   st.Filters().TimeRange,
		Repos:       filtered.Repos,
		People:      filtered.People,
		Reviewers:   filtered.Reviewers,
		Snapshot:    st.Snapshot(),
		Activity:    st.Activity(),
	}
}

// Formatter defines the interface for output formatters
type Formatter interface {
	Format(report Report, w io.Writer) error
}

// NewFormatter creates a formatter for the specified format
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	default:
		return &TableFormatter{}
	}
}
