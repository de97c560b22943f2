// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/nhle/modelswitch/internal/model"
	"github.com/nhle/modelswitch/internal/store"
)

// NewTestStore opens an in-memory session store with every migration
// applied. It is closed when the test ends.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("opening in-memory session store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing session store: %v", err)
		}
	})
	return s
}

// NewTestSession stores a session on modelID that has already seen the
// given number of assistant responses. Any positive count locks it.
func NewTestSession(t *testing.T, s store.Store, modelID string, responses int) *model.Session {
	t.Helper()
	ctx := context.Background()

	sess, err := s.CreateSession(ctx, model.Session{Model: modelID})
	if err != nil {
		t.Fatalf("creating session on %s: %v", modelID, err)
	}
	for i := 0; i < responses; i++ {
		if sess, err = s.RecordResponse(ctx, sess.ID); err != nil {
			t.Fatalf("recording response %d for %s: %v", i+1, sess.ID, err)
		}
	}
	return sess
}
