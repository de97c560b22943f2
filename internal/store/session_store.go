package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/modelswitch/internal/model"
)

// sessionRow mirrors the sessions table for sqlx scanning.
type sessionRow struct {
	ID            string    `db:"id"`
	Model         string    `db:"model"`
	Effort        string    `db:"effort"`
	ResponseCount int       `db:"response_count"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r sessionRow) toModel() model.Session {
	return model.Session{
		ID:            r.ID,
		Model:         r.Model,
		Effort:        model.Effort(r.Effort),
		ResponseCount: r.ResponseCount,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

const sessionColumns = "id, model, effort, response_count, created_at, updated_at"

// CreateSession inserts a new session. If the session has no ID, a new
// UUID is generated. The stored session is returned.
func (s *SQLiteStore) CreateSession(
	ctx context.Context,
	sess model.Session,
) (*model.Session, error) {
	if strings.TrimSpace(sess.Model) == "" {
		return nil, fmt.Errorf("session model must not be empty")
	}
	if sess.ID == "" {
		sess.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	sess.CreatedAt = now
	sess.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.Model, string(sess.Effort), sess.ResponseCount,
		sess.CreatedAt, sess.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	return &sess, nil
}

// GetSession retrieves a single session by its ID.
func (s *SQLiteStore) GetSession(
	ctx context.Context,
	id string,
) (*model.Session, error) {
	var row sessionRow
	err := s.db.GetContext(ctx, &row,
		"SELECT "+sessionColumns+" FROM sessions WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("getting session %s: %w", id, ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting session %s: %w", id, err)
	}

	sess := row.toModel()
	return &sess, nil
}

// GetLatestSession returns the most recently created session.
func (s *SQLiteStore) GetLatestSession(ctx context.Context) (*model.Session, error) {
	var row sessionRow
	err := s.db.GetContext(ctx, &row,
		"SELECT "+sessionColumns+" FROM sessions ORDER BY created_at DESC, rowid DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("getting latest session: %w", ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting latest session: %w", err)
	}

	sess := row.toModel()
	return &sess, nil
}

// ListSessions returns sessions newest first. A non-positive limit returns
// all of them.
func (s *SQLiteStore) ListSessions(
	ctx context.Context,
	limit int,
) ([]model.Session, error) {
	query := "SELECT " + sessionColumns + " FROM sessions ORDER BY created_at DESC, rowid DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []sessionRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}

	sessions := make([]model.Session, 0, len(rows))
	for _, r := range rows {
		sessions = append(sessions, r.toModel())
	}
	return sessions, nil
}

// UpdateSessionModel records a new model selection. Sessions that already
// have a response are refused with ErrSessionLocked.
func (s *SQLiteStore) UpdateSessionModel(
	ctx context.Context,
	id string,
	modelID string,
	effort model.Effort,
) error {
	if strings.TrimSpace(modelID) == "" {
		return fmt.Errorf("session model must not be empty")
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET model = ?, effort = ?, updated_at = ?
		WHERE id = ? AND response_count = 0`,
		modelID, string(effort), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating session %s: %w", id, err)
	}

	rows, _ := result.RowsAffected()
	if rows > 0 {
		return nil
	}

	// Distinguish a missing session from a locked one.
	if _, err := s.GetSession(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("updating session %s: %w", id, ErrSessionLocked)
}

// RecordResponse increments the response count of a session, which locks
// its model selection.
func (s *SQLiteStore) RecordResponse(
	ctx context.Context,
	id string,
) (*model.Session, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET response_count = response_count + 1, updated_at = ?
		WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("recording response for session %s: %w", id, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, fmt.Errorf("recording response for session %s: %w", id, ErrSessionNotFound)
	}

	return s.GetSession(ctx, id)
}
