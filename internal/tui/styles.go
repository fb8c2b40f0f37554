package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	// Bar chart segment styles
	mergedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("135"))
	openStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	draftStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	inReviewStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	approvedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	closedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)
