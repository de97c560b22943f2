// Package modelswitch is the Bubble Tea overlay for changing the model of
// a chat session. It renders the picker state machine: the model list, the
// effort list for reasoning models, or a notice when the session is locked.
package modelswitch

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nhle/modelswitch/internal/catalog"
	"github.com/nhle/modelswitch/internal/keys"
	"github.com/nhle/modelswitch/internal/picker"
	"github.com/nhle/modelswitch/internal/theme"
	"github.com/nhle/modelswitch/internal/ui/typeahead"
)

// Visible text of the overlay.
const (
	LockedTitle  = "Unable to switch model"
	LockedBody   = "You can only pick a model before the assistant sends its first response. To use a different model please start a new chat."
	LockedFooter = "press esc or enter to close"
	ModelTitle   = "Switch model"
	EffortTitle  = "Select model effort"
	LoadFailed   = "could not load models"
)

const defaultFetchTimeout = 10 * time.Second

// SelectedMsg is emitted once when the user finalizes a choice.
type SelectedMsg struct {
	Selection picker.Selection
}

// ExitMsg is emitted once when the user leaves without choosing.
type ExitMsg struct{}

// modelsLoadedMsg carries the catalog fetch result for one mount.
type modelsLoadedMsg struct {
	mountID string
	ids     []string
	err     error
}

// outcome holds the message produced by the machine callbacks until Update
// hands it to the runtime.
type outcome struct {
	msg       tea.Msg
	delivered bool
}

// Params configure one overlay mount.
type Params struct {
	Session picker.Session
	Catalog catalog.Catalog
	Keys    *keys.KeyMap

	// Reasoning overrides the reasoning-family predicate.
	Reasoning picker.ReasoningFamily

	// FetchTimeout bounds the catalog fetch. Zero uses 10s.
	FetchTimeout time.Duration
}

// Model is the Bubble Tea model of the model switch overlay.
type Model struct {
	mountID      string
	machine      *picker.Machine
	catalog      catalog.Catalog
	keys         *keys.KeyMap
	fetchTimeout time.Duration
	modelList    typeahead.Model
	effortList   typeahead.Model
	effortFor    string
	picked       string
	out          *outcome
	loaded       bool
	loadErr      error
	width        int
	height       int
}

// New mounts the overlay for a session. The lock is decided here from
// Session.HasPriorResponse and never re-evaluated.
func New(p Params, width, height int) (Model, error) {
	if p.Catalog == nil {
		return Model{}, errors.New("modelswitch: catalog is required")
	}
	if p.Keys == nil {
		p.Keys = keys.DefaultKeyMap()
	}
	if p.FetchTimeout <= 0 {
		p.FetchTimeout = defaultFetchTimeout
	}

	out := &outcome{}
	var opts []picker.Option
	if p.Reasoning != nil {
		opts = append(opts, picker.WithReasoningFamily(p.Reasoning))
	}
	machine, err := picker.New(
		p.Session,
		func(sel picker.Selection) { out.msg = SelectedMsg{Selection: sel} },
		func() { out.msg = ExitMsg{} },
		opts...,
	)
	if err != nil {
		return Model{}, err
	}

	m := Model{
		mountID:      uuid.New().String(),
		machine:      machine,
		catalog:      p.Catalog,
		keys:         p.Keys,
		fetchTimeout: p.FetchTimeout,
		out:          out,
		width:        width,
		height:       height,
	}
	m.modelList = typeahead.New(typeahead.Options{
		Title:        ModelTitle,
		CurrentValue: p.Session.CurrentModel,
		OnSelect:     machine.CommitModel,
		OnExit:       machine.Cancel,
		Keys:         p.Keys,
	}, width, height)
	m.modelList.SetDescription(m.modelDescription())

	return m, nil
}

// Init starts the catalog fetch unless the session is locked.
func (m Model) Init() tea.Cmd {
	if _, locked := m.machine.State().(picker.Locked); locked {
		return nil
	}
	return tea.Batch(m.modelList.Init(), m.fetchModels())
}

// fetchModels asks the catalog for the available models off the event
// loop. The result is tagged with this mount's ID.
func (m Model) fetchModels() tea.Cmd {
	cat := m.catalog
	mountID := m.mountID
	timeout := m.fetchTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		ids, err := cat.AvailableModels(ctx)
		return modelsLoadedMsg{mountID: mountID, ids: ids, err: err}
	}
}

// Update handles messages for the overlay.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case modelsLoadedMsg:
		return m.handleModelsLoaded(msg), nil

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if m.machine.Done() {
			return m, nil
		}
		return m.handleKey(msg)
	}

	if m.machine.Done() {
		return m, nil
	}
	var cmd tea.Cmd
	switch m.machine.State().(type) {
	case picker.ModelList:
		m.modelList, cmd = m.modelList.Update(msg)
	case picker.EffortList:
		m.effortList, cmd = m.effortList.Update(msg)
	case picker.Locked:
	}
	return m, cmd
}

// handleModelsLoaded applies a catalog result if it belongs to this mount
// and the overlay is still live.
func (m Model) handleModelsLoaded(msg modelsLoadedMsg) Model {
	if msg.mountID != m.mountID || m.machine.Done() {
		log.Debug().Str("mount", msg.mountID).Msg("dropping stale catalog result")
		return m
	}

	m.loaded = true
	if msg.err != nil {
		log.Warn().Err(msg.err).Msg("loading available models")
		m.loadErr = msg.err
	}

	items := picker.BuildModelItems(msg.ids, m.catalog.Recommended())
	if m.machine.SetModels(items) {
		m.modelList.SetItems(toTypeahead(items))
		m.modelList.SetDescription(m.modelDescription())
	}
	return m
}

// handleKey routes a key press to the active screen.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.machine.State().(type) {
	case picker.Locked:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.machine.Cancel()
		case key.Matches(msg, m.keys.Confirm):
			m.machine.Dismiss()
		}

	case picker.ModelList:
		m.modelList, cmd = m.modelList.Update(msg)

	case picker.EffortList:
		m.effortList, cmd = m.effortList.Update(msg)
	}

	m.syncEffortList()
	if _, ok := m.machine.State().(picker.ModelList); ok {
		m.modelList.SetDescription(m.modelDescription())
	}
	if done := m.deliver(); done != nil {
		return m, done
	}
	return m, cmd
}

// syncEffortList builds the effort screen when the machine just entered it
// for a new pending model.
func (m *Model) syncEffortList() {
	state, ok := m.machine.State().(picker.EffortList)
	if !ok {
		m.effortFor = ""
		return
	}
	if m.effortFor == state.Pending {
		return
	}
	m.effortFor = state.Pending
	m.picked = state.Pending
	m.effortList = typeahead.New(typeahead.Options{
		Title:        EffortTitle,
		Description:  "Current effort: " + theme.ValueStyle.Render(string(state.Current)),
		Items:        toTypeahead(state.Items[:]),
		CurrentValue: string(state.Current),
		OnSelect:     m.machine.CommitEffort,
		OnExit:       m.machine.Cancel,
		Keys:         m.keys,
	}, m.width, m.height)
}

// deliver turns a pending outcome into a command, once.
func (m *Model) deliver() tea.Cmd {
	if m.out.msg == nil || m.out.delivered {
		return nil
	}
	m.out.delivered = true
	msg := m.out.msg
	return func() tea.Msg { return msg }
}

// modelDescription renders the current model line of the model screen. The
// effort suffix follows the last model taken to the effort screen, or the
// session model before any.
func (m Model) modelDescription() string {
	sess := m.machine.Session()
	picked := sess.CurrentModel
	if m.picked != "" {
		picked = m.picked
	}

	desc := "Current model: " + theme.ValueStyle.Render(sess.CurrentModel)
	if sess.CurrentEffort != "" && m.machine.IsReasoning(picked) {
		desc += " (Effort: " + theme.ValueStyle.Render(string(sess.CurrentEffort)) + ")"
	}

	switch {
	case m.loadErr != nil:
		desc += "\n" + theme.WarningStyle.Render(LoadFailed)
	case !m.loaded:
		desc += "\n" + theme.DimmedStyle.Render("loading models...")
	}
	return desc
}

// View renders the active screen.
func (m Model) View() string {
	switch m.machine.State().(type) {
	case picker.Locked:
		return m.renderLocked()
	case picker.EffortList:
		return m.effortList.View()
	case picker.ModelList:
		return m.modelList.View()
	default:
		return ""
	}
}

func (m Model) renderLocked() string {
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		theme.ErrorTitleStyle.Render(LockedTitle),
		LockedBody,
		theme.DimmedStyle.Render(LockedFooter),
	)
	return theme.PanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the overlay dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.modelList.SetSize(width, height)
	m.effortList.SetSize(width, height)
}

// State returns the active screen of the underlying machine.
func (m Model) State() picker.State {
	return m.machine.State()
}

// Done reports whether the overlay has delivered its outcome.
func (m Model) Done() bool {
	return m.machine.Done()
}

// Query returns the filter text of the active list, empty on the locked
// screen.
func (m Model) Query() string {
	switch m.machine.State().(type) {
	case picker.ModelList:
		return m.modelList.Query()
	case picker.EffortList:
		return m.effortList.Query()
	default:
		return ""
	}
}

// Hints returns the status bar hints for the active screen.
func (m Model) Hints() string {
	switch m.machine.State().(type) {
	case picker.Locked:
		return LockedFooter
	case picker.EffortList:
		return "enter select effort | esc back to models | ? help"
	default:
		return "type to filter | enter select | esc cancel | ? help"
	}
}

func toTypeahead(items []picker.Item) []typeahead.Item {
	out := make([]typeahead.Item, len(items))
	for i, it := range items {
		out[i] = typeahead.Item{Label: it.Label, Value: it.Value}
	}
	return out
}
