package admin

import (
	"context"
	"log/slog"
	"net/http"

	"ultra-news/internal/handler/http/respond"
)

// IngestTrigger starts a background ingestion run.
// Implementations must return false without blocking when a run is
// already active.
type IngestTrigger interface {
	Trigger() bool
}

// IngestHandler serves POST /admin/ingest. It schedules an ingestion
// run in the background and answers immediately with 202.
type IngestHandler struct {
	Runner IngestTrigger
	Logger *slog.Logger
}

func (h IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := "scheduled"
	if !h.Runner.Trigger() {
		status = "already_running"
	}

	h.Logger.Info("ingestion trigger received", slog.String("status", status))
	respond.JSON(w, http.StatusAccepted, map[string]string{"status": status})
}

// SeedFunc re-applies the seed data for sources and categories.
type SeedFunc func(ctx context.Context) error

// SeedHandler serves POST /admin/seed. Seeding is idempotent: rows that
// already exist are left untouched.
type SeedHandler struct {
	Seed   SeedFunc
	Logger *slog.Logger
}

func (h SeedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.Seed(r.Context()); err != nil {
		h.Logger.Error("seeding failed", slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	h.Logger.Info("seed data applied")
	respond.JSON(w, http.StatusOK, map[string]string{"status": "seeded"})
}

// Register registers the admin routes with the given mux, all guarded
// by the admin key middleware.
func Register(mux *http.ServeMux, key string, runner IngestTrigger, seed SeedFunc, logger *slog.Logger) {
	guard := RequireKey(key)
	mux.Handle("POST /admin/ingest", guard(IngestHandler{Runner: runner, Logger: logger}))
	mux.Handle("POST /admin/seed", guard(SeedHandler{Seed: seed, Logger: logger}))
}
