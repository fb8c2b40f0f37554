package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/codeberry/pulldash/internal/history"
	"github.com/codeberry/pulldash/internal/stats"
)

// SyncController is the scheduler surface the dashboard needs: trigger a
// manual refresh and report the in-flight / last-sync state.
type SyncController interface {
	Sync(ctx context.Context, reason string) bool
	Syncing() bool
	LastSync() time.Time
}

// Tab identifies one dashboard view.
type Tab int

const (
	TabRepos Tab = iota
	TabAuthors
	TabReviewers
	TabActivity
)

var tabNames = []string{"Repos", "Authors", "Reviewers", "Activity"}

// Model is the Bubble Tea model for the stats dashboard. It owns no data;
// every render reads the current state from the stats store and the sync
// controller, and a one-second tick keeps the view fresh while the
// scheduler works in the background.
type Model struct {
	store   *stats.Store
	sync    SyncController
	history *history.Store

	spinner      spinner.Model
	activeTab    Tab
	windowWidth  int
	windowHeight int
	statusMsg    string
	statusTime   time.Time
	quitting     bool

	clock func() time.Time
}

// tickMsg drives the periodic re-render.
type tickMsg time.Time

// ModelOption is a functional option for configuring a Model.
type ModelOption func(*Model)

// WithTUIClock injects the time source (for tests).
func WithTUIClock(clock func() time.Time) ModelOption {
	return func(m *Model) {
		m.clock = clock
	}
}

// NewModel creates a new dashboard model.
func NewModel(store *stats.Store, sync SyncController, hist *history.Store, opts ...ModelOption) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	m := Model{
		store:       store,
		sync:        sync,
		history:     hist,
		spinner:     s,
		activeTab:   TabRepos,
		windowWidth: 80,
		clock:       time.Now,
	}

	for _, opt := range opts {
		opt(&m)
	}

	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		return m, tick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "1":
		m.activeTab = TabRepos
	case "2":
		m.activeTab = TabAuthors
	case "3":
		m.activeTab = TabReviewers
	case "4":
		m.activeTab = TabActivity
	case "tab":
		m.activeTab = Tab((int(m.activeTab) + 1) % len(tabNames))
	case "shift+tab":
		m.activeTab = Tab((int(m.activeTab) + len(tabNames) - 1) % len(tabNames))

	case "w":
		m.store.SetTimeRange(stats.RangeWeek)
		m.setStatus("time range: week")
	case "m":
		m.store.SetTimeRange(stats.RangeMonth)
		m.setStatus("time range: month")
	case "u":
		m.store.SetTimeRange(stats.RangeQuarter)
		m.setStatus("time range: quarter")
	case "a":
		m.store.SetTimeRange(stats.RangeAll)
		m.setStatus("time range: all")
	case "c":
		m.store.ClearFilters()
		m.setStatus("filters cleared")

	case "r":
		if m.sync != nil && !m.sync.Syncing() {
			go m.sync.Sync(context.Background(), "manual")
			m.setStatus("refreshing")
		}
	}

	return m, nil
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusTime = m.clock()
}

// statusLine returns the transient status message, expiring after a few
// seconds so the footer does not accumulate stale hints.
func (m Model) statusLine() string {
	if m.statusMsg == "" || m.clock().Sub(m.statusTime) > 4*time.Second {
		return ""
	}
	return m.statusMsg
}
