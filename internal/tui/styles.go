package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#7aa2f7")
	colorOK     = lipgloss.Color("#5fff87")
	colorBad    = lipgloss.Color("#ff5f5f")
	colorMuted  = lipgloss.Color("#6c7086")

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	focusedPanelStyle = panelStyle.BorderForeground(colorAccent)

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	labelStyle  = lipgloss.NewStyle().Faint(true)
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(colorOK)
	errorStyle  = lipgloss.NewStyle().Foreground(colorBad)
	okStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorOK)
	badStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorBad)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
)
