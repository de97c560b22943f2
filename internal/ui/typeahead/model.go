// Package typeahead is a filterable single-choice list. It renders a title,
// a description, a query input and the matching items; enter commits the
// highlighted item and esc cancels.
package typeahead

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/nhle/modelswitch/internal/keys"
	"github.com/nhle/modelswitch/internal/theme"
)

// Item is one selectable row.
type Item struct {
	Label string
	Value string
}

// Options configure a typeahead list.
type Options struct {
	Title        string
	Description  string
	Items        []Item
	CurrentValue string

	// OnSelect receives the value of the committed item.
	OnSelect func(value string)

	// OnExit is called when the user cancels.
	OnExit func()

	Keys *keys.KeyMap
}

// labels adapts a slice of items to fuzzy.Source.
type labels []Item

func (l labels) String(i int) string { return l[i].Label }
func (l labels) Len() int            { return len(l) }

// Model is the Bubble Tea model for the typeahead list.
type Model struct {
	opts     Options
	input    textinput.Model
	filtered []Item
	cursor   int
	offset   int
	width    int
	height   int
}

// New creates a typeahead list with the cursor on the current value.
func New(opts Options, width, height int) Model {
	if opts.Keys == nil {
		opts.Keys = keys.DefaultKeyMap()
	}

	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "> "
	ti.CharLimit = 64
	ti.Focus()
	ti.Width = width - 6

	m := Model{
		opts:   opts,
		input:  ti,
		width:  width,
		height: height,
	}
	m.refilter()
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the typeahead list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	k := m.opts.Keys
	switch {
	case key.Matches(keyMsg, k.Cancel):
		if m.opts.OnExit != nil {
			m.opts.OnExit()
		}
		return m, nil

	case key.Matches(keyMsg, k.Confirm):
		if item, ok := m.Highlighted(); ok && m.opts.OnSelect != nil {
			m.opts.OnSelect(item.Value)
		}
		return m, nil

	case key.Matches(keyMsg, k.Up):
		m.move(-1)
		return m, nil

	case key.Matches(keyMsg, k.Down):
		m.move(1)
		return m, nil

	case key.Matches(keyMsg, k.Top):
		m.move(-len(m.filtered))
		return m, nil

	case key.Matches(keyMsg, k.End):
		m.move(len(m.filtered))
		return m, nil

	case key.Matches(keyMsg, k.ClearFilter):
		m.input.SetValue("")
		m.refilter()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.refilter()
	}
	return m, cmd
}

// SetItems replaces the items, keeping the query.
func (m *Model) SetItems(items []Item) {
	m.opts.Items = items
	m.refilter()
}

// SetDescription replaces the description line.
func (m *Model) SetDescription(desc string) {
	m.opts.Description = desc
}

// Items returns all items regardless of the query.
func (m Model) Items() []Item {
	return m.opts.Items
}

// Visible returns the items matching the current query, best match first.
func (m Model) Visible() []Item {
	return m.filtered
}

// Highlighted returns the item under the cursor.
func (m Model) Highlighted() (Item, bool) {
	if len(m.filtered) == 0 {
		return Item{}, false
	}
	return m.filtered[m.cursor], true
}

// Query returns the current filter text.
func (m Model) Query() string {
	return m.input.Value()
}

// refilter recomputes the visible items. Without a query the cursor rests
// on the current value; with one it starts at the best match.
func (m *Model) refilter() {
	query := strings.TrimSpace(m.input.Value())
	m.offset = 0
	m.cursor = 0

	if query == "" {
		m.filtered = m.opts.Items
		for i, it := range m.filtered {
			if it.Value == m.opts.CurrentValue {
				m.cursor = i
				break
			}
		}
		m.scrollToCursor()
		return
	}

	matches := fuzzy.FindFrom(query, labels(m.opts.Items))
	m.filtered = make([]Item, 0, len(matches))
	for _, match := range matches {
		m.filtered = append(m.filtered, m.opts.Items[match.Index])
	}
}

// move shifts the cursor by delta, clamped to the visible items.
func (m *Model) move(delta int) {
	if len(m.filtered) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}
	m.scrollToCursor()
}

// visibleRows is how many list rows fit below the header lines.
func (m Model) visibleRows() int {
	rows := m.height - 7 // title, description, input, footer, borders
	if rows < 3 {
		rows = 3
	}
	return rows
}

func (m *Model) scrollToCursor() {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

// View renders the typeahead list.
func (m Model) View() string {
	lines := []string{
		theme.TitleStyle.Render(m.opts.Title),
		m.opts.Description,
		m.input.View(),
	}

	if len(m.filtered) == 0 {
		lines = append(lines, theme.DimmedStyle.Render("  no matches"))
	}

	end := m.offset + m.visibleRows()
	if end > len(m.filtered) {
		end = len(m.filtered)
	}
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderItem(i))
	}

	footer := "↑/↓ move · enter select · esc back"
	if len(m.filtered) > end-m.offset {
		footer = fmt.Sprintf("%d/%d · %s", m.cursor+1, len(m.filtered), footer)
	}
	lines = append(lines, theme.HelpStyle.Render(footer))

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) renderItem(i int) string {
	it := m.filtered[i]
	label := it.Label
	if it.Value == m.opts.CurrentValue {
		label += theme.CurrentMarkStyle.Render(" ✓")
	}
	if i == m.cursor {
		return theme.SelectedItemStyle.Render(label)
	}
	return theme.ListItemStyle.Render(label)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
	m.scrollToCursor()
}
