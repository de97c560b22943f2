package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/modelswitch/internal/theme"
)

// Layout manages the framed terminal layout: a one-line header, the
// overlay area and a one-line status bar.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the overlay area,
// accounting for the header and status bar.
func (l Layout) ContentHeight() int {
	h := l.Height - l.HeaderHeight - l.StatusBarHeight
	if h < 0 {
		return 0
	}
	return h
}

// RenderHeader renders the top bar with a title on the left and session
// info on the right.
func (l Layout) RenderHeader(title string, info string) string {
	titleRendered := theme.HeaderStyle.Render(title)
	infoRendered := theme.HeaderStyle.Align(lipgloss.Right).Render(info)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		l.filler(theme.HeaderStyle, lipgloss.Width(titleRendered)+lipgloss.Width(infoRendered)),
		infoRendered,
	)
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.Render(hints)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		rendered,
		l.filler(theme.StatusBarStyle, lipgloss.Width(rendered)),
	)
}

// filler pads a bar to the full width with the bar's background.
func (l Layout) filler(style lipgloss.Style, used int) string {
	gap := l.Width - used
	if gap < 0 {
		gap = 0
	}
	return lipgloss.NewStyle().
		Width(gap).
		Background(style.GetBackground()).
		Render("")
}

// PlaceContent centers content horizontally at the top of the content area.
func (l Layout) PlaceContent(content string) string {
	return lipgloss.Place(
		l.ContentWidth(),
		l.ContentHeight(),
		lipgloss.Center,
		lipgloss.Top,
		content,
	)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, and status bar.
func (l Layout) RenderWithFrame(
	header string,
	content string,
	statusBar string,
) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}
