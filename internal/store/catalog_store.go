package store

import (
	"context"
	"fmt"
	"time"
)

// ReplaceCatalog swaps the cached model list for ids in one transaction.
func (s *SQLiteStore) ReplaceCatalog(
	ctx context.Context,
	ids []string,
	fetchedAt time.Time,
) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM catalog_models"); err != nil {
		return fmt.Errorf("clearing catalog cache: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx,
		"INSERT OR REPLACE INTO catalog_models (id, fetched_at) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("preparing catalog insert: %w", err)
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.ExecContext(ctx, id, fetchedAt.UTC()); err != nil {
			return fmt.Errorf("caching model %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing catalog cache: %w", err)
	}
	return nil
}

// GetCatalog returns the cached model IDs sorted by ID, and the time they
// were fetched. An empty cache yields a nil slice and a zero time.
func (s *SQLiteStore) GetCatalog(ctx context.Context) ([]string, time.Time, error) {
	var rows []struct {
		ID        string    `db:"id"`
		FetchedAt time.Time `db:"fetched_at"`
	}
	err := s.db.SelectContext(ctx, &rows,
		"SELECT id, fetched_at FROM catalog_models ORDER BY id")
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("querying catalog cache: %w", err)
	}
	if len(rows) == 0 {
		return nil, time.Time{}, nil
	}

	ids := make([]string, 0, len(rows))
	fetchedAt := rows[0].FetchedAt
	for _, r := range rows {
		ids = append(ids, r.ID)
		if r.FetchedAt.Before(fetchedAt) {
			fetchedAt = r.FetchedAt
		}
	}
	return ids, fetchedAt, nil
}
