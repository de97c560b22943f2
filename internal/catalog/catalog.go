// Package catalog provides the list of models a user can switch to: the
// models currently available from a provider and a fixed, ordered list of
// recommended ones.
package catalog

import (
	"context"
)

// Catalog is the model catalog consumed by the switcher.
type Catalog interface {
	// AvailableModels returns the identifiers currently available.
	AvailableModels(ctx context.Context) ([]string, error)

	// Recommended returns the fixed recommendation order.
	Recommended() []string
}

// Static is a catalog backed by fixed lists, typically from config.
type Static struct {
	Models []string
	Pinned []string
}

// NewStatic creates a catalog that always returns models.
func NewStatic(models, recommended []string) *Static {
	return &Static{Models: models, Pinned: recommended}
}

// AvailableModels returns a copy of the configured models.
func (s *Static) AvailableModels(_ context.Context) ([]string, error) {
	return append([]string(nil), s.Models...), nil
}

// Recommended returns the configured recommendation order.
func (s *Static) Recommended() []string {
	return s.Pinned
}
