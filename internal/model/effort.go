package model

import "fmt"

// Effort is the reasoning-intensity setting for reasoning-family models.
type Effort string

const (
	EffortLow    Effort = "low"
	EffortMedium Effort = "medium"
	EffortHigh   Effort = "high"
)

// DefaultEffort is offered when the session has no effort yet.
const DefaultEffort = EffortMedium

// Valid reports whether e is one of the known effort levels.
func (e Effort) Valid() bool {
	switch e {
	case EffortLow, EffortMedium, EffortHigh:
		return true
	default:
		return false
	}
}

// ParseEffort converts a user-supplied string into an Effort. An empty
// string yields the empty Effort, meaning "not set".
func ParseEffort(s string) (Effort, error) {
	if s == "" {
		return "", nil
	}
	e := Effort(s)
	if !e.Valid() {
		return "", fmt.Errorf("invalid effort %q (want low, medium or high)", s)
	}
	return e, nil
}
