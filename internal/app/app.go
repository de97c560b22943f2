package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/nhle/modelswitch/internal/catalog"
	"github.com/nhle/modelswitch/internal/keys"
	"github.com/nhle/modelswitch/internal/picker"
	"github.com/nhle/modelswitch/internal/store"
	"github.com/nhle/modelswitch/internal/ui"
	helpview "github.com/nhle/modelswitch/internal/ui/help"
	"github.com/nhle/modelswitch/internal/ui/modelswitch"
)

const headerTitle = "Model Switch"

// persistedMsg reports the outcome of saving a selection.
type persistedMsg struct {
	err error
}

// Result is what the overlay produced once the program has quit.
type Result struct {
	// Selection is set when Selected is true.
	Selection picker.Selection
	Selected  bool

	// Err is set when the selection could not be saved.
	Err error
}

// Options configure the root model.
type Options struct {
	Session picker.Session
	Catalog catalog.Catalog

	// Store and SessionID, when both set, receive the final selection.
	Store     store.Store
	SessionID string

	Reasoning picker.ReasoningFamily
	Width     int

	// FetchTimeout bounds the catalog fetch of the overlay.
	FetchTimeout time.Duration
}

// Model is the root Bubble Tea model. It frames the overlay with a header
// and a status bar and owns the help view.
type Model struct {
	layout    ui.Layout
	keys      *keys.KeyMap
	overlay   modelswitch.Model
	helpView  helpview.Model
	showHelp  bool
	store     store.Store
	sessionID string
	session   picker.Session
	result    Result
	ready     bool
}

// New creates the root model for one overlay run.
func New(opts Options) (Model, error) {
	width := opts.Width
	if width <= 0 {
		width = 80
	}
	km := keys.DefaultKeyMap()
	layout := ui.NewLayout(width, 24)

	overlay, err := modelswitch.New(modelswitch.Params{
		Session:      opts.Session,
		Catalog:      opts.Catalog,
		Keys:         km,
		Reasoning:    opts.Reasoning,
		FetchTimeout: opts.FetchTimeout,
	}, layout.ContentWidth(), layout.ContentHeight())
	if err != nil {
		return Model{}, fmt.Errorf("creating overlay: %w", err)
	}

	return Model{
		layout:    layout,
		keys:      km,
		overlay:   overlay,
		helpView:  helpview.New(km, layout.ContentWidth()),
		store:     opts.Store,
		sessionID: opts.SessionID,
		session:   opts.Session,
	}, nil
}

// Init starts the overlay.
func (m Model) Init() tea.Cmd {
	return m.overlay.Init()
}

// Update handles messages and dispatches to the overlay.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		m.overlay.SetSize(m.layout.ContentWidth(), m.layout.ContentHeight())
		m.helpView.SetWidth(m.layout.ContentWidth())
		return m, nil

	case modelswitch.SelectedMsg:
		m.result.Selection = msg.Selection
		m.result.Selected = true
		log.Info().Str("selection", msg.Selection.String()).Msg("model selected")
		if m.store == nil || m.sessionID == "" {
			return m, tea.Quit
		}
		return m, m.persist(msg.Selection)

	case modelswitch.ExitMsg:
		log.Debug().Msg("model switch dismissed")
		return m, tea.Quit

	case persistedMsg:
		if msg.err != nil {
			log.Error().Err(msg.err).Str("session", m.sessionID).Msg("saving model selection")
			m.result.Err = msg.err
		}
		return m, tea.Quit

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help) && (m.showHelp || m.overlay.Query() == ""):
			m.showHelp = !m.showHelp
			m.helpView.SetScreen(screenName(m.overlay.State()))
			return m, nil
		}

		if m.showHelp {
			if key.Matches(msg, m.keys.Cancel) {
				m.showHelp = false
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.overlay, cmd = m.overlay.Update(msg)
	return m, cmd
}

// screenName labels the overlay screen in the help panel.
func screenName(s picker.State) string {
	switch s.(type) {
	case picker.Locked:
		return "Locked session"
	case picker.EffortList:
		return "Effort list"
	case picker.ModelList:
		return "Model list"
	default:
		return ""
	}
}

// persist saves the selection for the hosted session.
func (m Model) persist(sel picker.Selection) tea.Cmd {
	s := m.store
	id := m.sessionID
	return func() tea.Msg {
		err := s.UpdateSessionModel(context.Background(), id, sel.Model, sel.Effort)
		return persistedMsg{err: err}
	}
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(headerTitle, m.sessionInfo())
	content := m.overlay.View()
	hints := m.overlay.Hints()
	if m.showHelp {
		content = m.helpView.View()
		hints = "? close help | esc back"
	}
	statusBar := m.layout.RenderStatusBar(hints)

	return m.layout.RenderWithFrame(header, m.layout.PlaceContent(content), statusBar)
}

// sessionInfo returns the right-hand side of the header.
func (m Model) sessionInfo() string {
	info := m.session.CurrentModel
	if m.session.CurrentEffort != "" {
		info += " " + string(m.session.CurrentEffort)
	}
	if m.sessionID != "" {
		id := m.sessionID
		if len(id) > 8 {
			id = id[:8]
		}
		info = id + " · " + info
	}
	return info
}

// Result returns the outcome of the run.
func (m Model) Result() Result {
	return m.result
}

// ErrLocked reports whether a persisted selection was refused because the
// session already has a response.
func (r Result) ErrLocked() bool {
	return errors.Is(r.Err, store.ErrSessionLocked)
}
