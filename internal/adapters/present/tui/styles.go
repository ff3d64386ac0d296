package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	frame     lipgloss.Style
	title     lipgloss.Style
	station   lipgloss.Style
	prompt    lipgloss.Style
	credits   lipgloss.Style
	remaining lipgloss.Style
	status    lipgloss.Style
	warning   lipgloss.Style
	overlay   lipgloss.Style
}

func newStyles() styles {
	return styles{
		frame:     lipgloss.NewStyle().Padding(1, 4),
		title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		station:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		prompt:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")).MarginTop(1),
		credits:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("159")),
		remaining: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		status:    lipgloss.NewStyle().Faint(true).MarginTop(1),
		warning:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		overlay:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("69")).Padding(0, 2),
	}
}
