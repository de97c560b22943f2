package picker

import (
	"errors"
	"strings"

	"github.com/nhle/modelswitch/internal/model"
)

// State is the active screen of the switcher. It is one of Locked,
// ModelList or EffortList.
type State interface {
	isState()
}

// Locked means the session already has a response and the model is frozen.
type Locked struct{}

// ModelList is the model selection screen.
type ModelList struct {
	Items   []Item
	Current string
}

// EffortList is the effort selection screen for a reasoning-family model.
type EffortList struct {
	Items   [3]Item
	Current model.Effort
	Pending string
}

func (Locked) isState()     {}
func (ModelList) isState()  {}
func (EffortList) isState() {}

// Session is the caller's view of the chat session, read once at New.
type Session struct {
	CurrentModel     string
	CurrentEffort    model.Effort
	HasPriorResponse bool
}

// Selection is the finalized choice. Effort is empty unless Model belongs
// to the reasoning family.
type Selection struct {
	Model  string
	Effort model.Effort
}

// String renders the selection as "model" or "model effort".
func (s Selection) String() string {
	if s.Effort == "" {
		return s.Model
	}
	return s.Model + " " + string(s.Effort)
}

// Option customizes a Machine.
type Option func(*Machine)

// WithReasoningFamily replaces the predicate deciding which models need an
// effort level.
func WithReasoningFamily(fn ReasoningFamily) Option {
	return func(m *Machine) {
		if fn != nil {
			m.reasoning = fn
		}
	}
}

// IsLocked is the gating policy: a session that has produced a response can
// no longer switch models.
func IsLocked(hasPriorResponse bool) bool {
	return hasPriorResponse
}

// Machine drives one switcher lifecycle from mount to a single outcome.
// It is not safe for concurrent use; events are expected from one loop.
type Machine struct {
	session   Session
	state     State
	models    ModelList
	reasoning ReasoningFamily
	onSelect  func(Selection)
	onExit    func()
	done      bool
}

// New creates a machine for the given session. The gate is evaluated here
// and never again. Both callbacks are required.
func New(
	session Session,
	onSelect func(Selection),
	onExit func(),
	opts ...Option,
) (*Machine, error) {
	if onSelect == nil || onExit == nil {
		return nil, errors.New("picker: onSelect and onExit callbacks are required")
	}
	if strings.TrimSpace(session.CurrentModel) == "" {
		return nil, errors.New("picker: current model is required")
	}

	m := &Machine{
		session:   session,
		models:    ModelList{Current: session.CurrentModel},
		reasoning: IsReasoningFamily,
		onSelect:  onSelect,
		onExit:    onExit,
	}
	for _, opt := range opts {
		opt(m)
	}

	if IsLocked(session.HasPriorResponse) {
		m.state = Locked{}
	} else {
		m.state = m.models
	}
	return m, nil
}

// State returns the active screen.
func (m *Machine) State() State {
	return m.state
}

// Session returns the session the machine was mounted with.
func (m *Machine) Session() Session {
	return m.session
}

// Done reports whether an outcome has already been delivered.
func (m *Machine) Done() bool {
	return m.done
}

// IsReasoning applies the machine's reasoning-family predicate.
func (m *Machine) IsReasoning(id string) bool {
	return m.reasoning(id)
}

// SetModels replaces the model list items, typically once the catalog
// fetch resolves. It reports whether the update was applied; finished or
// locked machines ignore it. The list is updated even while the effort
// screen is showing so that going back reveals the fresh items.
func (m *Machine) SetModels(items []Item) bool {
	if m.done {
		return false
	}
	switch m.state.(type) {
	case Locked:
		return false
	case ModelList:
		m.models.Items = items
		m.state = m.models
	case EffortList:
		m.models.Items = items
	}
	return true
}

// CommitModel handles the user picking model id on the model screen.
// Reasoning-family models move to the effort screen; others finish.
func (m *Machine) CommitModel(id string) {
	if m.done {
		return
	}
	switch m.state.(type) {
	case ModelList:
		if !m.reasoning(id) {
			m.finish(func() { m.onSelect(Selection{Model: id}) })
			return
		}
		current := m.session.CurrentEffort
		if current == "" {
			current = model.DefaultEffort
		}
		m.state = EffortList{
			Items:   effortItems,
			Current: current,
			Pending: id,
		}
	case Locked, EffortList:
	}
}

// CommitEffort handles the user picking an effort on the effort screen.
// Values outside low/medium/high are ignored.
func (m *Machine) CommitEffort(value string) {
	if m.done {
		return
	}
	switch s := m.state.(type) {
	case EffortList:
		effort := model.Effort(value)
		if !effort.Valid() {
			return
		}
		m.finish(func() {
			m.onSelect(Selection{Model: s.Pending, Effort: effort})
		})
	case Locked, ModelList:
	}
}

// Cancel handles the cancel key. From the model screen it exits, from the
// effort screen it returns to the untouched model screen, and on the locked
// screen it dismisses.
func (m *Machine) Cancel() {
	if m.done {
		return
	}
	switch m.state.(type) {
	case Locked, ModelList:
		m.finish(m.onExit)
	case EffortList:
		m.state = m.models
	}
}

// Dismiss closes the locked screen; it is a no-op on the other screens
// where confirm is handled by the list.
func (m *Machine) Dismiss() {
	if m.done {
		return
	}
	switch m.state.(type) {
	case Locked:
		m.finish(m.onExit)
	case ModelList, EffortList:
	}
}

// finish marks the machine done before invoking the outcome so that any
// event arriving from inside the callback is ignored.
func (m *Machine) finish(outcome func()) {
	m.done = true
	outcome()
}
