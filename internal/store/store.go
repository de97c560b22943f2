package store

import (
	"context"
	"errors"
	"time"

	"github.com/nhle/modelswitch/internal/model"
)

var (
	// ErrSessionNotFound is returned when a session ID does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionLocked is returned when changing the model of a session
	// that already has a response.
	ErrSessionLocked = errors.New("session already has a response")
)

// Store defines the persistence interface for sessions and the cached
// model catalog.
type Store interface {
	// === Sessions ===

	CreateSession(ctx context.Context, sess model.Session) (*model.Session, error)
	GetSession(ctx context.Context, id string) (*model.Session, error)
	GetLatestSession(ctx context.Context) (*model.Session, error)
	ListSessions(ctx context.Context, limit int) ([]model.Session, error)
	UpdateSessionModel(ctx context.Context, id string, modelID string, effort model.Effort) error
	RecordResponse(ctx context.Context, id string) (*model.Session, error)

	// === Catalog cache ===

	ReplaceCatalog(ctx context.Context, ids []string, fetchedAt time.Time) error
	GetCatalog(ctx context.Context) (ids []string, fetchedAt time.Time, err error)
}
