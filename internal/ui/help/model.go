// Package help renders the key reference shown over the switcher.
package help

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/modelswitch/internal/keys"
	"github.com/nhle/modelswitch/internal/theme"
)

// Title heads the help panel.
const Title = "Keyboard Shortcuts"

// filterNote explains how typing interacts with the help key.
const filterNote = "Typing filters the list. ? opens this panel only while the filter is empty."

// Model is the help panel. It has no input of its own; the host toggles it.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	screen string
	width  int
}

// New creates a help panel for km.
func New(km *keys.KeyMap, width int) Model {
	h := help.New()
	h.ShowAll = true
	m := Model{keys: km, help: h}
	m.SetWidth(width)
	return m
}

// SetScreen names the switcher screen the panel was opened from.
func (m *Model) SetScreen(name string) {
	m.screen = name
}

// View renders the panel.
func (m Model) View() string {
	lines := []string{theme.TitleStyle.Render(Title)}
	if m.screen != "" {
		lines = append(lines, theme.DimmedStyle.Render("on "+m.screen))
	}
	lines = append(lines,
		"",
		m.help.View(m.keys),
		"",
		theme.HelpStyle.Render(filterNote),
	)

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// SetWidth resizes the panel.
func (m *Model) SetWidth(width int) {
	m.width = width
	m.help.Width = width - 8
}
