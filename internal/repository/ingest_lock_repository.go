package repository

import (
	"context"
	"time"
)

// IngestLockRepository guards ingestion runs across processes using a
// single-row database lock. The in-process runner holds its own guard;
// this lock prevents the API trigger and the cron worker from running
// the pipeline at the same time.
type IngestLockRepository interface {
	// Acquire attempts to take the lock for owner. A lock held longer
	// than staleAfter is treated as abandoned and taken over.
	// Returns false when another live owner holds the lock.
	Acquire(ctx context.Context, owner string, staleAfter time.Duration) (bool, error)
	// Release frees the lock if it is still held by owner.
	Release(ctx context.Context, owner string) error
}
