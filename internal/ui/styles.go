package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/tasks-go/internal/theme"
)

type styles struct {
	title      lipgloss.Style
	themeBadge lipgloss.Style
	label      lipgloss.Style
	faint      lipgloss.Style
	errBanner  lipgloss.Style

	tab       lipgloss.Style
	activeTab lipgloss.Style

	row      lipgloss.Style
	selected lipgloss.Style
	done     lipgloss.Style
	date     lipgloss.Style

	panel     lipgloss.Style
	statValue map[string]lipgloss.Style

	help lipgloss.Style
}

func newStyles(p theme.Palette) styles {
	value := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Bold(true).Foreground(c)
	}
	return styles{
		title:      lipgloss.NewStyle().Bold(true).Foreground(p.HeaderForeground),
		themeBadge: lipgloss.NewStyle().Foreground(p.Accent),
		label:      lipgloss.NewStyle().Foreground(p.NormalText),
		faint:      lipgloss.NewStyle().Foreground(p.FaintText),
		errBanner: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.ErrorForeground).
			Background(p.ErrorBackground).
			Padding(0, 1),

		tab: lipgloss.NewStyle().Foreground(p.FaintText).Padding(0, 1),
		activeTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.SelectedForeground).
			Background(p.Accent).
			Padding(0, 1),

		row: lipgloss.NewStyle().Foreground(p.NormalText),
		selected: lipgloss.NewStyle().
			Foreground(p.SelectedForeground).
			Background(p.SelectedBackground),
		done: lipgloss.NewStyle().Foreground(p.DoneText).Strikethrough(true),
		date: lipgloss.NewStyle().Foreground(p.FaintText),

		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.BorderColor).
			Padding(0, 1),
		statValue: map[string]lipgloss.Style{
			"total":     value(p.StatTotal),
			"completed": value(p.StatCompleted),
			"active":    value(p.StatActive),
			"rate":      value(p.StatRate),
			"other":     value(p.NormalText),
		},

		help: lipgloss.NewStyle().Foreground(p.HelpText),
	}
}
