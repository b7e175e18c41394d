package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	header   lipgloss.Style
	module   lipgloss.Style
	name     lipgloss.Style
	value    lipgloss.Style
	selected lipgloss.Style
	dim      lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#d75fd7")),
		module: lipgloss.NewStyle().Foreground(lipgloss.Color("#87afd7")),
		name:   lipgloss.NewStyle().Width(18),
		value:  lipgloss.NewStyle().Foreground(lipgloss.Color("#e4e4e4")),
		selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1c1c1c")).
			Background(lipgloss.Color("#ffaf5f")).
			Padding(0, 1),
		dim: lipgloss.NewStyle().Foreground(lipgloss.Color("#6c6c6c")),
	}
}
