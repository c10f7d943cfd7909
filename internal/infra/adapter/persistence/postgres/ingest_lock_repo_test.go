package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestLockAcquire_Free(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	repo := NewIngestLockRepo(db)

	mock.ExpectExec(`UPDATE ingest_lock`).
		WithArgs("worker-1", "30m0s").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.Acquire(context.Background(), "worker-1", 30*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIngestLockAcquire_Held(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	repo := NewIngestLockRepo(db)

	mock.ExpectExec(`UPDATE ingest_lock`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Acquire(context.Background(), "worker-2", 30*time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIngestLockRelease(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	repo := NewIngestLockRepo(db)

	mock.ExpectExec(`UPDATE ingest_lock`).
		WithArgs("worker-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Release(context.Background(), "worker-1")
	assert.NoError(t, err)
}
