package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var (
	gold   = lipgloss.Color("#C8AA6E")
	muted  = lipgloss.Color("#9A8F7A")
	orange = lipgloss.Color("#E0B35F")
	red    = lipgloss.Color("#E07A5F")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(gold)
	labelStyle   = lipgloss.NewStyle().Bold(true)
	counterStyle = lipgloss.NewStyle().Foreground(muted)
	statusStyle  = lipgloss.NewStyle().Foreground(muted)
	warningStyle = lipgloss.NewStyle().Foreground(orange)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(red)
	missingStyle = lipgloss.NewStyle().Foreground(muted)
	helpStyle    = lipgloss.NewStyle().Foreground(muted).Italic(true)
)

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true).
		Foreground(gold)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#16130F")).
		Background(gold).
		Bold(false)
	return s
}
