package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/codeberry/pulldash/internal/format"
	"github.com/codeberry/pulldash/internal/stats"
)

// barEntry represents a single segment of a horizontal bar chart.
type barEntry struct {
	Label string
	Count int
	Style lipgloss.Style
}

// sparkline characters from lowest to highest.
var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Partial block characters for sub-character resolution (1/8 to 8/8).
var partialBlocks = []string{"▏", "▎", "▍", "▌", "▋", "▊", "▉", "█"}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	filtered := m.store.FilteredStats()
	switch m.activeTab {
	case TabAuthors:
		b.WriteString(m.renderAuthors(filtered.People))
	case TabReviewers:
		b.WriteString(m.renderReviewers(filtered.Reviewers))
	case TabActivity:
		b.WriteString(m.renderActivity())
	default:
		b.WriteString(m.renderRepos(filtered.Repos))
	}

	b.WriteString(m.renderFooter())

	return b.String()
}

func (m Model) renderHeader() string {
	now := m.clock()
	parts := []string{
		titleStyle.Render("pulldash"),
		dimStyle.Render(string(m.store.Filters().TimeRange)),
	}

	if snap := m.store.Snapshot(); snap != nil {
		parts = append(parts, fmt.Sprintf("%d open · %d ready · %d need review",
			snap.Open, snap.ReadyToShip, snap.NeedsReview))
	}

	if m.sync != nil {
		if m.sync.Syncing() {
			parts = append(parts, m.spinner.View()+statusStyle.Render("syncing"))
		} else {
			parts = append(parts, dimStyle.Render("synced "+format.FormatSince(m.sync.LastSync(), now)))
		}
	}

	return strings.Join(parts, "  ")
}

func (m Model) renderTabs() string {
	var rendered []string
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if Tab(i) == m.activeTab {
			rendered = append(rendered, activeTabStyle.Render(label))
		} else {
			rendered = append(rendered, tabStyle.Render(label))
		}
	}
	return strings.Join(rendered, " ")
}

func (m Model) renderRepos(repos []*stats.RepoStats) string {
	if len(repos) == 0 {
		return dimStyle.Render("  No pull requests in the selected window.\n")
	}

	var b strings.Builder
	for _, r := range repos {
		b.WriteString(headerStyle.Render("  " + r.FullName()))
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %d total", r.TotalPRs)))
		b.WriteString("\n")

		entries := filterZero([]barEntry{
			{"Merged", r.Merged, mergedStyle},
			{"Open", r.Open, openStyle},
			{"In review", r.InReview, inReviewStyle},
			{"Approved", r.Approved, approvedStyle},
			{"Draft", r.Draft, draftStyle},
			{"Closed", r.Closed, closedStyle},
		})
		for _, line := range renderBars(entries, m.barWidth()) {
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderAuthors(people []*stats.PersonStats) string {
	if len(people) == 0 {
		return dimStyle.Render("  No authors in the selected window.\n")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-20s %6s %6s %6s %6s %6s",
		"Author", "Open", "Draft", "Merged", "Closed", "Total")))
	b.WriteString("\n")
	for _, p := range people {
		b.WriteString(fmt.Sprintf("  %-20s %6d %6d %6d %6d %6d\n",
			format.Truncate(p.Name, 20), p.Open, p.Draft, p.Merged, p.Closed, p.TotalPRs))
	}
	return b.String()
}

func (m Model) renderReviewers(reviewers []*stats.ReviewerStats) string {
	if len(reviewers) == 0 {
		return dimStyle.Render("  No review activity in the selected window.\n")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-20s %8s %8s %8s",
		"Reviewer", "Pending", "Approved", "Changes")))
	b.WriteString("\n")
	for _, r := range reviewers {
		b.WriteString(fmt.Sprintf("  %-20s %8d %8d %8d\n",
			format.Truncate(r.Name, 20), r.PendingReviews, r.Approved, r.ChangesReq))
	}
	return b.String()
}

func (m Model) renderActivity() string {
	var b strings.Builder

	for _, period := range m.store.Activity() {
		b.WriteString(headerStyle.Render(fmt.Sprintf("  Last %dd", period.Days)))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("    merged   "))
		b.WriteString(activitySummary(period.Merged))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("    reviewed "))
		b.WriteString(activitySummary(period.Reviewed))
		b.WriteString("\n\n")
	}

	if spark := m.renderHistorySparkline(); spark != "" {
		b.WriteString(headerStyle.Render("  Open PRs over time"))
		b.WriteString("\n    ")
		b.WriteString(spark)
		b.WriteString("\n")
	}

	return b.String()
}

// renderHistorySparkline charts the open-PR count from the sync history.
func (m Model) renderHistorySparkline() string {
	if m.history == nil {
		return ""
	}
	records := m.history.Recent(120)
	if len(records) < 2 {
		return ""
	}
	values := make([]float64, len(records))
	for i, rec := range records {
		values[i] = float64(rec.Open)
	}
	return renderSparkline(values, m.barWidth())
}

func (m Model) renderFooter() string {
	hint := "1-4 tabs · w/m/u/a range · r refresh · c clear · q quit"
	if status := m.statusLine(); status != "" {
		hint = status + "  ·  " + hint
	}
	return footerStyle.Render("  " + hint)
}

func (m Model) barWidth() int {
	w := m.windowWidth - 30
	w = min(w, maxBarChars)
	w = max(w, 10)
	return w
}

// activitySummary renders up to five contributors as "name:count", most
// active first.
func activitySummary(people map[string]stats.PersonActivity) string {
	if len(people) == 0 {
		return dimStyle.Render("─")
	}

	type entry struct {
		name  string
		count int
	}
	entries := make([]entry, 0, len(people))
	for name, a := range people {
		entries = append(entries, entry{name, a.Count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})
	if len(entries) > 5 {
		entries = entries[:5]
	}

	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf("%s:%d", e.name, e.count))
	}
	return strings.Join(parts, "  ")
}

// filterZero removes entries with zero count.
func filterZero(entries []barEntry) []barEntry {
	var result []barEntry
	for _, e := range entries {
		if e.Count > 0 {
			result = append(result, e)
		}
	}
	return result
}

// maxBarChars is the maximum character width for bar segments.
// Capped to prevent bars from stretching across wide terminals.
const maxBarChars = 40

// renderBars renders a vertical list of bars (one entry per line), each
// scaled proportionally to the max count in the group so all bars start at
// the same column.
func renderBars(entries []barEntry, barWidth int) []string {
	if len(entries) == 0 {
		return []string{dimStyle.Render("    ─")}
	}

	maxCount := 0
	maxLabel := 0
	for _, e := range entries {
		if e.Count > maxCount {
			maxCount = e.Count
		}
		if len(e.Label) > maxLabel {
			maxLabel = len(e.Label)
		}
	}
	if maxCount == 0 {
		return []string{dimStyle.Render("    ─")}
	}

	bw := barWidth
	bw = min(bw, maxBarChars)
	bw = max(bw, 4)

	var lines []string
	for _, e := range entries {
		fracWidth := float64(e.Count) / float64(maxCount) * float64(bw)
		fullBlocks := int(fracWidth)
		remainder := fracWidth - float64(fullBlocks)

		bar := strings.Repeat("█", fullBlocks)
		if remainder >= 0.125 {
			idx := int(remainder * 8)
			idx = min(idx, 7)
			bar += partialBlocks[idx]
		}
		if bar == "" {
			bar = partialBlocks[0]
		}

		label := fmt.Sprintf("%-*s", maxLabel, e.Label)
		lines = append(lines, fmt.Sprintf("    %s  %s  %d", label, e.Style.Render(bar), e.Count))
	}

	return lines
}

// renderSparkline renders a sparkline from a series of float64 values,
// resampling to fit width.
func renderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	minVal, maxVal := values[0], values[0]
	for _, v := range values {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	resampled := resampleValues(values, width)

	valRange := maxVal - minVal
	if valRange == 0 {
		// All values are the same, show a flat middle line
		return strings.Repeat(string(sparkBlocks[3]), len(resampled))
	}

	var b strings.Builder
	for _, v := range resampled {
		normalized := (v - minVal) / valRange
		idx := int(normalized * float64(len(sparkBlocks)-1))
		if idx >= len(sparkBlocks) {
			idx = len(sparkBlocks) - 1
		}
		b.WriteRune(sparkBlocks[idx])
	}

	return b.String()
}

// resampleValues resamples a slice of float64 to the target width using averaging.
func resampleValues(values []float64, width int) []float64 {
	if len(values) <= width {
		return values
	}

	result := make([]float64, width)
	step := float64(len(values)) / float64(width)

	for i := 0; i < width; i++ {
		start := int(float64(i) * step)
		end := int(float64(i+1) * step)
		if end > len(values) {
			end = len(values)
		}
		if start >= end {
			if start < len(values) {
				result[i] = values[start]
			}
			continue
		}
		sum := 0.0
		for j := start; j < end; j++ {
			sum += values[j]
		}
		result[i] = sum / float64(end-start)
	}

	return result
}
