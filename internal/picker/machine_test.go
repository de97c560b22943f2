package picker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/modelswitch/internal/model"
)

// recorder captures callback invocations.
type recorder struct {
	selections []Selection
	exits      int
}

func (r *recorder) onSelect(s Selection) { r.selections = append(r.selections, s) }
func (r *recorder) onExit()              { r.exits++ }

func newMachine(t *testing.T, sess Session, opts ...Option) (*Machine, *recorder) {
	t.Helper()
	rec := &recorder{}
	m, err := New(sess, rec.onSelect, rec.onExit, opts...)
	require.NoError(t, err)
	return m, rec
}

func TestBuildModelItems(t *testing.T) {
	got := BuildModelItems(
		[]string{"gpt-4", "o1", "o1-mini"},
		[]string{"o1"},
	)
	assert.Equal(t, []Item{
		{Label: "⭐ o1", Value: "o1"},
		{Label: "gpt-4", Value: "gpt-4"},
		{Label: "o1-mini", Value: "o1-mini"},
	}, got)
}

func TestBuildModelItems_Ordering(t *testing.T) {
	tests := []struct {
		name        string
		available   []string
		recommended []string
		want        []string
	}{
		{
			name:        "recommended keep their own order",
			available:   []string{"a", "o3", "o4-mini", "z"},
			recommended: []string{"o4-mini", "o3"},
			want:        []string{"o4-mini", "o3", "a", "z"},
		},
		{
			name:        "unavailable recommendations are skipped",
			available:   []string{"gpt-4"},
			recommended: []string{"o3"},
			want:        []string{"gpt-4"},
		},
		{
			name:        "duplicates collapse",
			available:   []string{"o3", "gpt-4", "o3", "gpt-4"},
			recommended: []string{"o3", "o3"},
			want:        []string{"o3", "gpt-4"},
		},
		{
			name:      "nothing available",
			available: nil,
			want:      []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := BuildModelItems(tt.available, tt.recommended)
			values := make([]string, 0, len(items))
			for _, it := range items {
				values = append(values, it.Value)
			}
			assert.Equal(t, tt.want, values)
		})
	}
}

func TestBuildModelItems_MarkerOnlyOnRecommended(t *testing.T) {
	items := BuildModelItems([]string{"o3", "gpt-4", "o1"}, []string{"o3"})
	for _, it := range items {
		if it.Value == "o3" {
			assert.Equal(t, RecommendedMarker+"o3", it.Label)
		} else {
			assert.Equal(t, it.Value, it.Label)
		}
	}
}

func TestNew_RequiresCallbacksAndModel(t *testing.T) {
	_, err := New(Session{CurrentModel: "gpt-4"}, nil, func() {})
	assert.Error(t, err)

	_, err = New(Session{CurrentModel: "gpt-4"}, func(Selection) {}, nil)
	assert.Error(t, err)

	_, err = New(Session{CurrentModel: "  "}, func(Selection) {}, func() {})
	assert.Error(t, err)
}

func TestLocked(t *testing.T) {
	t.Run("cancel exits once", func(t *testing.T) {
		m, rec := newMachine(t, Session{CurrentModel: "gpt-4", HasPriorResponse: true})
		assert.IsType(t, Locked{}, m.State())

		m.Cancel()
		m.Cancel()
		assert.Equal(t, 1, rec.exits)
		assert.Empty(t, rec.selections)
	})

	t.Run("confirm exits once", func(t *testing.T) {
		m, rec := newMachine(t, Session{CurrentModel: "gpt-4", HasPriorResponse: true})

		m.Dismiss()
		m.Dismiss()
		assert.Equal(t, 1, rec.exits)
		assert.Empty(t, rec.selections)
	})

	t.Run("ignores commits and catalog results", func(t *testing.T) {
		m, rec := newMachine(t, Session{CurrentModel: "gpt-4", HasPriorResponse: true})

		assert.False(t, m.SetModels([]Item{{Label: "gpt-4", Value: "gpt-4"}}))
		m.CommitModel("gpt-4")
		m.CommitEffort("high")
		assert.IsType(t, Locked{}, m.State())
		assert.Zero(t, rec.exits)
		assert.Empty(t, rec.selections)
	})
}

func TestCommitNonReasoningModel(t *testing.T) {
	m, rec := newMachine(t, Session{
		CurrentModel:  "o1",
		CurrentEffort: model.EffortHigh,
	})

	m.CommitModel("gpt-4")

	require.Len(t, rec.selections, 1)
	assert.Equal(t, Selection{Model: "gpt-4"}, rec.selections[0])
	assert.Empty(t, rec.selections[0].Effort, "stale effort must not carry over")
	assert.True(t, m.Done())
	assert.Zero(t, rec.exits)
}

func TestCommitReasoningModel(t *testing.T) {
	m, rec := newMachine(t, Session{CurrentModel: "gpt-4"})

	m.CommitModel("o1")
	assert.Empty(t, rec.selections)

	state, ok := m.State().(EffortList)
	require.True(t, ok)
	assert.Equal(t, "o1", state.Pending)
	assert.Equal(t, model.EffortMedium, state.Current)
	assert.Equal(t, [3]Item{
		{Label: "Low Effort", Value: "low"},
		{Label: "Medium Effort", Value: "medium"},
		{Label: "High Effort", Value: "high"},
	}, state.Items)

	m.CommitEffort("high")
	require.Len(t, rec.selections, 1)
	assert.Equal(t, Selection{Model: "o1", Effort: model.EffortHigh}, rec.selections[0])

	m.CommitEffort("low")
	assert.Len(t, rec.selections, 1)
}

func TestEffortDefaultsToSessionEffort(t *testing.T) {
	m, _ := newMachine(t, Session{CurrentModel: "o3", CurrentEffort: model.EffortLow})

	m.CommitModel("o4-mini")

	state, ok := m.State().(EffortList)
	require.True(t, ok)
	assert.Equal(t, model.EffortLow, state.Current)
}

func TestCommitEffort_IgnoresUnknownValue(t *testing.T) {
	m, rec := newMachine(t, Session{CurrentModel: "gpt-4"})
	m.CommitModel("o1")

	m.CommitEffort("extreme")
	assert.Empty(t, rec.selections)
	assert.IsType(t, EffortList{}, m.State())
}

func TestCancelEffortReturnsToModelList(t *testing.T) {
	m, rec := newMachine(t, Session{CurrentModel: "gpt-4"})
	items := BuildModelItems([]string{"gpt-4", "o1"}, []string{"o1"})
	require.True(t, m.SetModels(items))

	before := m.State()
	m.CommitModel("o1")
	m.Cancel()

	assert.Equal(t, before, m.State())
	assert.Zero(t, rec.exits)
	assert.Empty(t, rec.selections)

	m.CommitModel("gpt-4")
	require.Len(t, rec.selections, 1)
	assert.Equal(t, "gpt-4", rec.selections[0].Model)
}

func TestCancelModelListExits(t *testing.T) {
	m, rec := newMachine(t, Session{CurrentModel: "gpt-4"})

	m.Cancel()
	m.Cancel()
	m.CommitModel("gpt-4")

	assert.Equal(t, 1, rec.exits)
	assert.Empty(t, rec.selections)
}

func TestSetModels(t *testing.T) {
	t.Run("applies on model list", func(t *testing.T) {
		m, _ := newMachine(t, Session{CurrentModel: "gpt-4"})
		items := []Item{{Label: "gpt-4", Value: "gpt-4"}}

		assert.True(t, m.SetModels(items))
		state := m.State().(ModelList)
		assert.Equal(t, items, state.Items)
		assert.Equal(t, "gpt-4", state.Current)
	})

	t.Run("updates hidden list during effort", func(t *testing.T) {
		m, _ := newMachine(t, Session{CurrentModel: "gpt-4"})
		m.CommitModel("o1")

		items := []Item{{Label: "o1", Value: "o1"}}
		assert.True(t, m.SetModels(items))
		assert.IsType(t, EffortList{}, m.State())

		m.Cancel()
		assert.Equal(t, items, m.State().(ModelList).Items)
	})

	t.Run("ignored after finish", func(t *testing.T) {
		m, _ := newMachine(t, Session{CurrentModel: "gpt-4"})
		m.Cancel()
		assert.False(t, m.SetModels([]Item{{Label: "x", Value: "x"}}))
	})
}

func TestDismissIgnoredOutsideLocked(t *testing.T) {
	m, rec := newMachine(t, Session{CurrentModel: "gpt-4"})
	m.Dismiss()
	assert.False(t, m.Done())
	assert.Zero(t, rec.exits)
}

func TestWithReasoningFamily(t *testing.T) {
	m, rec := newMachine(t,
		Session{CurrentModel: "gpt-4"},
		WithReasoningFamily(func(id string) bool { return id == "deep-think" }),
	)

	m.CommitModel("o1")
	require.Len(t, rec.selections, 1)
	assert.Equal(t, Selection{Model: "o1"}, rec.selections[0])

	m2, rec2 := newMachine(t,
		Session{CurrentModel: "gpt-4"},
		WithReasoningFamily(func(id string) bool { return id == "deep-think" }),
	)
	m2.CommitModel("deep-think")
	assert.Empty(t, rec2.selections)
	assert.IsType(t, EffortList{}, m2.State())
}

func TestCallbackReentryIgnored(t *testing.T) {
	var m *Machine
	selects := 0
	m, err := New(
		Session{CurrentModel: "gpt-4"},
		func(Selection) {
			selects++
			m.CommitModel("gpt-4")
		},
		func() {},
	)
	require.NoError(t, err)

	m.CommitModel("gpt-4")
	assert.Equal(t, 1, selects)
}

func TestSelectionString(t *testing.T) {
	assert.Equal(t, "gpt-4", Selection{Model: "gpt-4"}.String())
	assert.Equal(t, "o1 high", Selection{Model: "o1", Effort: model.EffortHigh}.String())
}

func TestIsReasoningFamily(t *testing.T) {
	assert.True(t, IsReasoningFamily("o1"))
	assert.True(t, IsReasoningFamily("o4-mini"))
	assert.False(t, IsReasoningFamily("gpt-4"))
	assert.False(t, IsReasoningFamily(""))
}
