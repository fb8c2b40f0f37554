package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/codeberry/pulldash/internal/model"
	"github.com/codeberry/pulldash/internal/stats"
)

func testNow() time.Time {
	return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
}

func testStore() *stats.Store {
	st := stats.NewStore(stats.WithClock(testNow))
	created := testNow().Add(-48 * time.Hour)
	merged := testNow().Add(-24 * time.Hour)
	st.SetRecords([]model.PullRequest{
		{
			Owner: "acme", Repo: "widget", Number: 1, Author: "alice",
			State: model.StateOpen, CreatedAt: created,
		},
		{
			Owner: "acme", Repo: "widget", Number: 2, Author: "bob",
			State: model.StateClosed, CreatedAt: created, MergedAt: &merged,
		},
	})
	return st
}

func keyMsg(s string) tea.KeyMsg {
	if s == "tab" {
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTabSwitching(t *testing.T) {
	m := NewModel(testStore(), nil, nil, WithTUIClock(testNow))

	tests := []struct {
		key  string
		want Tab
	}{
		{"2", TabAuthors},
		{"3", TabReviewers},
		{"4", TabActivity},
		{"1", TabRepos},
		{"tab", TabAuthors},
	}

	for _, tt := range tests {
		updated, _ := m.Update(keyMsg(tt.key))
		m = updated.(Model)
		if m.activeTab != tt.want {
			t.Errorf("after key %q activeTab = %v, want %v", tt.key, m.activeTab, tt.want)
		}
	}
}

func TestTimeRangeKeys(t *testing.T) {
	tests := []struct {
		key  string
		want stats.TimeRange
	}{
		{"w", stats.RangeWeek},
		{"m", stats.RangeMonth},
		{"u", stats.RangeQuarter},
		{"a", stats.RangeAll},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			st := testStore()
			m := NewModel(st, nil, nil, WithTUIClock(testNow))
			m.Update(keyMsg(tt.key))
			if got := st.Filters().TimeRange; got != tt.want {
				t.Errorf("after key %q time range = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestQuitKey(t *testing.T) {
	m := NewModel(testStore(), nil, nil, WithTUIClock(testNow))
	updated, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if !updated.(Model).quitting {
		t.Error("quitting flag not set")
	}
}

func TestViewShowsStoreContents(t *testing.T) {
	m := NewModel(testStore(), nil, nil, WithTUIClock(testNow))

	view := m.View()
	if !strings.Contains(view, "acme/widget") {
		t.Errorf("repos view missing repository name:\n%s", view)
	}

	updated, _ := m.Update(keyMsg("2"))
	view = updated.(Model).View()
	if !strings.Contains(view, "alice") || !strings.Contains(view, "bob") {
		t.Errorf("authors view missing author rows:\n%s", view)
	}
}

func TestStatusLineExpires(t *testing.T) {
	now := testNow()
	clock := func() time.Time { return now }
	m := NewModel(testStore(), nil, nil, WithTUIClock(clock))

	m.setStatus("refreshing")
	if got := m.statusLine(); got != "refreshing" {
		t.Errorf("statusLine() = %q, want refreshing", got)
	}

	now = now.Add(5 * time.Second)
	if got := m.statusLine(); got != "" {
		t.Errorf("statusLine() after expiry = %q, want empty", got)
	}
}

func TestRenderBars(t *testing.T) {
	entries := []barEntry{
		{Label: "Merged", Count: 10, Style: mergedStyle},
		{Label: "Open", Count: 5, Style: openStyle},
	}

	lines := renderBars(entries, 20)
	if len(lines) != 2 {
		t.Fatalf("renderBars returned %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "Merged") || !strings.Contains(lines[0], "10") {
		t.Errorf("first line missing label or count: %q", lines[0])
	}
	// The max-count bar should render strictly more block characters
	if strings.Count(lines[0], "█") <= strings.Count(lines[1], "█") {
		t.Errorf("bar scaling wrong:\n%q\n%q", lines[0], lines[1])
	}
}

func TestRenderBarsEmpty(t *testing.T) {
	lines := renderBars(nil, 20)
	if len(lines) != 1 {
		t.Fatalf("renderBars(nil) returned %d lines, want 1 placeholder", len(lines))
	}
}

func TestRenderSparkline(t *testing.T) {
	t.Run("flat series", func(t *testing.T) {
		got := renderSparkline([]float64{3, 3, 3}, 10)
		if got != strings.Repeat(string(sparkBlocks[3]), 3) {
			t.Errorf("flat sparkline = %q", got)
		}
	})

	t.Run("rising series spans range", func(t *testing.T) {
		got := []rune(renderSparkline([]float64{0, 1, 2, 3}, 10))
		if len(got) != 4 {
			t.Fatalf("sparkline length = %d, want 4", len(got))
		}
		if got[0] != sparkBlocks[0] || got[3] != sparkBlocks[len(sparkBlocks)-1] {
			t.Errorf("sparkline ends = %c %c, want lowest and highest", got[0], got[3])
		}
	})

	t.Run("resamples to width", func(t *testing.T) {
		values := make([]float64, 100)
		for i := range values {
			values[i] = float64(i)
		}
		got := renderSparkline(values, 20)
		if len([]rune(got)) != 20 {
			t.Errorf("sparkline length = %d, want 20", len([]rune(got)))
		}
	})

	t.Run("empty", func(t *testing.T) {
		if got := renderSparkline(nil, 10); got != "" {
			t.Errorf("renderSparkline(nil) = %q, want empty", got)
		}
	})
}

func TestActivitySummary(t *testing.T) {
	people := map[string]stats.PersonActivity{
		"alice": {Count: 3},
		"bob":   {Count: 5},
		"carol": {Count: 3},
	}

	got := activitySummary(people)
	want := "bob:5  alice:3  carol:3"
	if got != want {
		t.Errorf("activitySummary() = %q, want %q", got, want)
	}
}
