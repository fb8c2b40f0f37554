package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/codeberry/pulldash/internal/format"
	"github.com/codeberry/pulldash/internal/stats"
)

// TableFormatter formats the report as terminal tables
type TableFormatter struct{}

// Column widths
const (
	colRepo     = 30
	colName     = 20
	colCount    = 6
	colReviewer = 20
)

var (
	headerColor  = color.New(color.Bold)
	sectionColor = color.New(color.FgCyan, color.Bold)
	dimColor     = color.New(color.Faint)
)

// Format outputs the report as a sequence of tables: current snapshot,
// per-repository counts, per-author counts, per-reviewer counters, and the
// trailing activity windows.
func (f *TableFormatter) Format(report Report, w io.Writer) error {
	f.writeSummary(report, w)

	if len(report.Repos) == 0 && len(report.People) == 0 {
		fmt.Fprintln(w, "No pull requests in the selected window.")
		return nil
	}

	f.writeRepos(report.Repos, w)
	f.writePeople(report.People, w)
	f.writeReviewers(report.Reviewers, w)
	f.writeActivity(report.Activity, w)

	return nil
}

func (f *TableFormatter) writeSummary(report Report, w io.Writer) {
	snap := report.Snapshot
	if snap == nil {
		return
	}

	fmt.Fprintf(w, "%s  %s\n",
		sectionColor.Sprintf("Pull requests (%s)", report.TimeRange),
		dimColor.Sprintf("generated %s", report.GeneratedAt.Format("2006-01-02 15:04 MST")))
	fmt.Fprintf(w, "%s ready to ship · %d open · %d needing review · median open age %s\n\n",
		color.GreenString("%d", snap.ReadyToShip),
		snap.Open,
		snap.NeedsReview,
		format.FormatHours(snap.MedianOpenAgeHours))
}

func (f *TableFormatter) writeRepos(repos []*stats.RepoStats, w io.Writer) {
	if len(repos) == 0 {
		return
	}

	fmt.Fprintln(w, headerColor.Sprintf("%-*s  %*s  %*s  %*s  %*s  %*s  %*s  %*s",
		colRepo, "Repository",
		colCount, "Open", colCount, "Draft", colCount, "Review",
		colCount, "Appr", colCount, "Merged", colCount, "Closed",
		colCount, "Total"))
	fmt.Fprintln(w, strings.Repeat("-", colRepo+7*(colCount+2)))

	for _, r := range repos {
		fmt.Fprintf(w, "%-*s  %*d  %*d  %*d  %*d  %*d  %*d  %*d\n",
			colRepo, format.Truncate(r.FullName(), colRepo),
			colCount, r.Open, colCount, r.Draft, colCount, r.InReview,
			colCount, r.Approved, colCount, r.Merged, colCount, r.Closed,
			colCount, r.TotalPRs)
	}
	fmt.Fprintln(w)
}

func (f *TableFormatter) writePeople(people []*stats.PersonStats, w io.Writer) {
	if len(people) == 0 {
		return
	}

	fmt.Fprintln(w, headerColor.Sprintf("%-*s  %*s  %*s  %*s  %*s  %*s",
		colName, "Author",
		colCount, "Open", colCount, "Draft", colCount, "Merged",
		colCount, "Closed", colCount, "Total"))
	fmt.Fprintln(w, strings.Repeat("-", colName+5*(colCount+2)))

	for _, p := range people {
		fmt.Fprintf(w, "%-*s  %*d  %*d  %*d  %*d  %*d\n",
			colName, format.Truncate(p.Name, colName),
			colCount, p.Open, colCount, p.Draft, colCount, p.Merged,
			colCount, p.Closed, colCount, p.TotalPRs)
	}
	fmt.Fprintln(w)
}

func (f *TableFormatter) writeReviewers(reviewers []*stats.ReviewerStats, w io.Writer) {
	if len(reviewers) == 0 {
		return
	}

	fmt.Fprintln(w, headerColor.Sprintf("%-*s  %*s  %*s  %*s",
		colReviewer, "Reviewer",
		colCount+2, "Pending", colCount+2, "Approved", colCount+2, "Changes"))
	fmt.Fprintln(w, strings.Repeat("-", colReviewer+3*(colCount+4)))

	for _, r := range reviewers {
		fmt.Fprintf(w, "%-*s  %*d  %*d  %*d\n",
			colReviewer, format.Truncate(r.Name, colReviewer),
			colCount+2, r.PendingReviews, colCount+2, r.Approved, colCount+2, r.ChangesReq)
	}
	fmt.Fprintln(w)
}

func (f *TableFormatter) writeActivity(activity []stats.ActivityPeriod, w io.Writer) {
	if len(activity) == 0 {
		return
	}

	fmt.Fprintln(w, headerColor.Sprint("Activity (merged / reviewed)"))
	for _, period := range activity {
		merged := topContributors(period.Merged, 5)
		reviewed := topContributors(period.Reviewed, 5)
		if merged == "" && reviewed == "" {
			continue
		}
		label := fmt.Sprintf("%dd", period.Days)
		fmt.Fprintf(w, "  %-4s %s / %s\n", label, orDash(merged), orDash(reviewed))
	}
}

// topContributors renders up to limit people as "name:count", most active
// first, names breaking count ties.
func topContributors(m map[string]stats.PersonActivity, limit int) string {
	type entry struct {
		name  string
		count int
	}
	entries := make([]entry, 0, len(m))
	for name, a := range m {
		entries = append(entries, entry{name, a.Count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}

	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf("%s:%d", e.name, e.count))
	}
	return strings.Join(parts, " ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
