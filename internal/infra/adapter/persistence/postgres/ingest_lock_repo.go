package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ultra-news/internal/repository"
)

type IngestLockRepo struct {
	db *sql.DB
}

func NewIngestLockRepo(db *sql.DB) repository.IngestLockRepository {
	return &IngestLockRepo{db: db}
}

// Acquire takes the single-row lock when it is free or when the current
// holder has been sitting on it longer than staleAfter. The row is
// created by the migration, so zero rows affected means another live
// owner holds the lock.
func (repo *IngestLockRepo) Acquire(ctx context.Context, owner string, staleAfter time.Duration) (bool, error) {
	const query = `
UPDATE ingest_lock
SET locked = TRUE, locked_by = $1, locked_at = now()
WHERE id = 1
  AND (locked = FALSE OR locked_at < now() - $2::interval)`

	res, err := repo.db.ExecContext(ctx, query, owner, staleAfter.String())
	if err != nil {
		return false, fmt.Errorf("Acquire: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("Acquire: %w", err)
	}
	return n > 0, nil
}

// Release frees the lock only if owner still holds it, so a stale
// holder cannot release a lock that was taken over.
func (repo *IngestLockRepo) Release(ctx context.Context, owner string) error {
	const query = `
UPDATE ingest_lock
SET locked = FALSE, locked_by = NULL, locked_at = NULL
WHERE id = 1 AND locked_by = $1`

	if _, err := repo.db.ExecContext(ctx, query, owner); err != nil {
		return fmt.Errorf("Release: %w", err)
	}
	return nil
}
