// Command worker runs the scheduled ingestion pipeline. It fires the
// pipeline on the cron schedule from INGEST_CRON and exposes health
// probes and Prometheus metrics on side ports.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	hhttp "ultra-news/internal/handler/http"
	"ultra-news/internal/infra/adapter/persistence/postgres"
	"ultra-news/internal/infra/db"
	"ultra-news/internal/infra/fetcher"
	"ultra-news/internal/infra/scraper"
	"ultra-news/internal/infra/worker"
	"ultra-news/internal/observability/logging"
	"ultra-news/internal/usecase/ingest"
)

func main() {
	_ = godotenv.Load()

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("worker failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg := worker.LoadConfigFromEnv(logger)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid worker configuration: %w", err)
	}

	database := db.Open()
	defer database.Close()
	if err := db.MigrateUp(database); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	pageCfg, err := fetcher.LoadPageFetchConfigFromEnv()
	if err != nil {
		return fmt.Errorf("invalid page fetch configuration: %w", err)
	}
	var extractor ingest.PageExtractor
	if pageCfg.Enabled {
		extractor = fetcher.NewReadabilityExtractor(pageCfg)
	}

	svc := ingest.NewService(
		postgres.NewSourceRepo(database),
		postgres.NewArticleRepo(database),
		postgres.NewCategoryRepo(database),
		scraper.NewRSSFetcher(&http.Client{Timeout: 30 * time.Second}),
		extractor,
		newCategorizer(logger),
		ingest.Config{
			Parallelism:     cfg.Parallelism,
			RunTimeout:      cfg.RunTimeout,
			MaxSlugAttempts: ingest.DefaultConfig().MaxSlugAttempts,
		},
	)
	runner := worker.NewRunner(svc, postgres.NewIngestLockRepo(database), cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	health := worker.NewHealthServer(fmt.Sprintf(":%d", cfg.HealthPort), logger)
	go func() {
		if err := health.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server exited", slog.Any("error", err))
		}
	}()
	go serveMetrics(ctx, logger)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	scheduler := cron.New(cron.WithLocation(loc))
	entryID, err := scheduler.AddFunc(cfg.CronSchedule, func() {
		if !runner.Trigger() {
			logger.Info("scheduled run skipped, previous run still active")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", cfg.CronSchedule, err)
	}

	scheduler.Start()
	health.SetReady(true)
	logger.Info("worker started",
		slog.String("schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone),
		slog.Time("next_run", scheduler.Entry(entryID).Next))

	<-ctx.Done()
	logger.Info("shutting down worker")
	health.SetReady(false)

	// Stop scheduling new runs, then wait for an in-flight run. The run
	// itself is bounded by RunTimeout, so the wait is too.
	<-scheduler.Stop().Done()
	deadline := time.Now().Add(cfg.RunTimeout + 30*time.Second)
	for runner.Active() {
		if time.Now().After(deadline) {
			logger.Warn("in-flight run did not finish, exiting anyway")
			break
		}
		time.Sleep(200 * time.Millisecond)
	}

	logger.Info("worker stopped")
	return nil
}

// serveMetrics exposes the Prometheus scrape endpoint until ctx is
// cancelled.
func serveMetrics(ctx context.Context, logger *slog.Logger) {
	addr := ":9092"
	if port := os.Getenv("WORKER_METRICS_PORT"); port != "" {
		addr = ":" + port
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", hhttp.MetricsHandler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics server starting", slog.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server failed", slog.Any("error", err))
	}
}

// newCategorizer prefers an operator supplied keyword table over the
// built-in one.
func newCategorizer(logger *slog.Logger) *ingest.Categorizer {
	path := os.Getenv("CATEGORY_KEYWORDS_FILE")
	if path == "" {
		return ingest.NewCategorizer()
	}
	c, err := ingest.NewCategorizerFromFile(path)
	if err != nil {
		logger.Warn("keyword table load failed, using built-in table",
			slog.String("path", path),
			slog.Any("error", err))
		return ingest.NewCategorizer()
	}
	logger.Info("keyword table loaded", slog.String("path", path))
	return c
}
