package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"ultra-news/internal/observability/metrics"
	"ultra-news/internal/repository"
	"ultra-news/internal/usecase/ingest"
)

// IngestService is the single entry point the runner drives.
type IngestService interface {
	Run(ctx context.Context) (*ingest.RunStats, error)
}

// Runner guarantees at most one ingestion run is active at a time. Two
// layers enforce this: an in-process flag rejects overlapping triggers
// within one process, and a database run-lock serializes runs across
// the API and worker processes.
type Runner struct {
	svc        IngestService
	lockRepo   repository.IngestLockRepository
	logger     *slog.Logger
	owner      string
	staleAfter time.Duration
	runTimeout time.Duration
	running    atomic.Bool
}

// NewRunner creates a runner. The owner identity embeds the hostname so
// a stale lock can be traced back to the process that held it.
func NewRunner(svc IngestService, lockRepo repository.IngestLockRepository, cfg Config, logger *slog.Logger) *Runner {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return &Runner{
		svc:        svc,
		lockRepo:   lockRepo,
		logger:     logger,
		owner:      fmt.Sprintf("%s-%s", hostname, uuid.New().String()[:8]),
		staleAfter: cfg.LockStaleAfter,
		runTimeout: cfg.RunTimeout,
	}
}

// Trigger schedules an ingestion run in the background and returns
// immediately. Returns false when a run is already active in this
// process or another one holds the run-lock.
func (r *Runner) Trigger() bool {
	if !r.running.CompareAndSwap(false, true) {
		metrics.IngestRunsSkipped.Inc()
		r.logger.Info("ingestion trigger skipped, run already active")
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.runTimeout)
	acquired, err := r.lockRepo.Acquire(ctx, r.owner, r.staleAfter)
	if err != nil || !acquired {
		cancel()
		r.running.Store(false)
		if err != nil {
			r.logger.Error("failed to acquire run lock", slog.Any("error", err))
		} else {
			metrics.IngestRunsSkipped.Inc()
			r.logger.Info("ingestion trigger skipped, lock held by another process")
		}
		return false
	}

	go func() {
		defer cancel()
		defer r.running.Store(false)
		defer r.release()

		r.run(ctx)
	}()
	return true
}

// Active reports whether a run started by this process is still in
// flight. Used by shutdown to wait out a background run.
func (r *Runner) Active() bool {
	return r.running.Load()
}

// RunOnce executes one ingestion run synchronously, used by the cron
// job and the one-shot command. Returns ingest.ErrRunInProgress when
// another run is active.
func (r *Runner) RunOnce(ctx context.Context) (*ingest.RunStats, error) {
	if !r.running.CompareAndSwap(false, true) {
		metrics.IngestRunsSkipped.Inc()
		return nil, ingest.ErrRunInProgress
	}
	defer r.running.Store(false)

	acquired, err := r.lockRepo.Acquire(ctx, r.owner, r.staleAfter)
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !acquired {
		metrics.IngestRunsSkipped.Inc()
		return nil, ingest.ErrRunInProgress
	}
	defer r.release()

	return r.svc.Run(ctx)
}

// run executes the service and logs the outcome; used on the
// background trigger path where no caller receives the stats.
func (r *Runner) run(ctx context.Context) {
	stats, err := r.svc.Run(ctx)
	if err != nil {
		r.logger.Error("ingestion run failed", slog.Any("error", err))
		return
	}
	r.logger.Info("background ingestion run finished",
		slog.Int("sources", stats.Sources),
		slog.Int64("inserted", stats.Inserted),
		slog.Int64("duplicated", stats.Duplicated),
		slog.Int64("failed", stats.Failed))
}

// release frees the run-lock with a fresh context so shutdown or run
// timeouts cannot leave the lock held.
func (r *Runner) release() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.lockRepo.Release(ctx, r.owner); err != nil {
		r.logger.Error("failed to release run lock", slog.Any("error", err))
	}
}
