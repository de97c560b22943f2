package picker

import (
	"sort"
	"strings"

	"github.com/nhle/modelswitch/internal/model"
)

// RecommendedMarker prefixes the label of recommended models.
const RecommendedMarker = "⭐ "

// Item is one selectable row: what the user sees and the value committed.
type Item struct {
	Label string
	Value string
}

// ReasoningFamily decides whether a model identifier needs an effort level.
type ReasoningFamily func(id string) bool

// IsReasoningFamily is the default reasoning-family test: identifiers
// starting with "o" (o1, o3, o4-mini, ...).
func IsReasoningFamily(id string) bool {
	return strings.HasPrefix(id, "o")
}

// BuildModelItems orders the available models for display. Models that are
// also recommended come first, in recommendation order, with a marker on
// their label; the rest follow sorted lexicographically. Every available
// model appears exactly once.
func BuildModelItems(available, recommended []string) []Item {
	avail := make(map[string]bool, len(available))
	for _, id := range available {
		avail[id] = true
	}

	items := make([]Item, 0, len(avail))
	pinned := make(map[string]bool, len(recommended))
	for _, id := range recommended {
		if !avail[id] || pinned[id] {
			continue
		}
		pinned[id] = true
		items = append(items, Item{Label: RecommendedMarker + id, Value: id})
	}

	others := make([]string, 0, len(avail)-len(pinned))
	for id := range avail {
		if !pinned[id] {
			others = append(others, id)
		}
	}
	sort.Strings(others)

	for _, id := range others {
		items = append(items, Item{Label: id, Value: id})
	}
	return items
}

// effortItems is the fixed effort menu.
var effortItems = [3]Item{
	{Label: "Low Effort", Value: string(model.EffortLow)},
	{Label: "Medium Effort", Value: string(model.EffortMedium)},
	{Label: "High Effort", Value: string(model.EffortHigh)},
}

// EffortItems returns the fixed low/medium/high menu.
func EffortItems() [3]Item {
	return effortItems
}
