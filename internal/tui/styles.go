package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			MarginBottom(1)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	faintStyle = lipgloss.NewStyle().Faint(true)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	totalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	stageDoneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	stageCurrentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	stagePendingStyle = lipgloss.NewStyle().Faint(true)

	terminalBannerStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("231")).
				Background(lipgloss.Color("124")).
				Padding(0, 1)

	helpStyle = lipgloss.NewStyle().Faint(true).MarginTop(1)
)
