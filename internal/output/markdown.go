package output

import (
	"fmt"
	"io"

	"github.com/codeberry/pulldash/internal/format"
	"github.com/codeberry/pulldash/internal/stats"
)

// MarkdownFormatter formats the report as GitHub-flavored markdown,
// suitable for pasting into issues or status updates.
type MarkdownFormatter struct{}

// Format outputs the report as markdown sections with tables
func (f *MarkdownFormatter) Format(report Report, w io.Writer) error {
	fmt.Fprintf(w, "# Pull request stats (%s)\n\n", report.TimeRange)
	fmt.Fprintf(w, "_Generated %s_\n\n", report.GeneratedAt.Format("2006-01-02 15:04 MST"))

	if snap := report.Snapshot; snap != nil {
		fmt.Fprintf(w, "**%d** ready to ship · **%d** open · **%d** needing review · median open age %s\n\n",
			snap.ReadyToShip, snap.Open, snap.NeedsReview,
			format.FormatHours(snap.MedianOpenAgeHours))
	}

	f.writeRepos(report.Repos, w)
	f.writePeople(report.People, w)
	f.writeReviewers(report.Reviewers, w)

	return nil
}

func (f *MarkdownFormatter) writeRepos(repos []*stats.RepoStats, w io.Writer) {
	if len(repos) == 0 {
		return
	}

	fmt.Fprintln(w, "## Repositories")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Repository | Open | Draft | In review | Approved | Merged | Closed | Total |")
	fmt.Fprintln(w, "|---|---:|---:|---:|---:|---:|---:|---:|")
	for _, r := range repos {
		fmt.Fprintf(w, "| %s | %d | %d | %d | %d | %d | %d | %d |\n",
			r.FullName(), r.Open, r.Draft, r.InReview, r.Approved, r.Merged, r.Closed, r.TotalPRs)
	}
	fmt.Fprintln(w)
}

func (f *MarkdownFormatter) writePeople(people []*stats.PersonStats, w io.Writer) {
	if len(people) == 0 {
		return
	}

	fmt.Fprintln(w, "## Authors")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Author | Open | Draft | Merged | Closed | Total |")
	fmt.Fprintln(w, "|---|---:|---:|---:|---:|---:|")
	for _, p := range people {
		fmt.Fprintf(w, "| %s | %d | %d | %d | %d | %d |\n",
			p.Name, p.Open, p.Draft, p.Merged, p.Closed, p.TotalPRs)
	}
	fmt.Fprintln(w)
}

func (f *MarkdownFormatter) writeReviewers(reviewers []*stats.ReviewerStats, w io.Writer) {
	if len(reviewers) == 0 {
		return
	}

	fmt.Fprintln(w, "## Reviewers")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Reviewer | Pending | Approved | Changes requested |")
	fmt.Fprintln(w, "|---|---:|---:|---:|")
	for _, r := range reviewers {
		fmt.Fprintf(w, "| %s | %d | %d | %d |\n",
			r.Name, r.PendingReviews, r.Approved, r.ChangesReq)
	}
	fmt.Fprintln(w)
}
