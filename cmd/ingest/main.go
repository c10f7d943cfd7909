// Command ingest runs one ingestion pass and exits. Intended for
// manual backfills and cron-less deployments.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

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

	logger := logging.NewTextLogger()
	slog.SetDefault(logger)

	cfg := worker.LoadConfigFromEnv(logger)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	database := db.Open()
	defer database.Close()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("migration failed", slog.Any("error", err))
		os.Exit(1)
	}

	pageCfg, err := fetcher.LoadPageFetchConfigFromEnv()
	if err != nil {
		logger.Error("invalid page fetch configuration", slog.Any("error", err))
		os.Exit(1)
	}
	var extractor ingest.PageExtractor
	if pageCfg.Enabled {
		extractor = fetcher.NewReadabilityExtractor(pageCfg)
	}

	categorizer := ingest.NewCategorizer()
	if path := os.Getenv("CATEGORY_KEYWORDS_FILE"); path != "" {
		c, err := ingest.NewCategorizerFromFile(path)
		if err != nil {
			logger.Error("keyword table load failed", slog.String("path", path), slog.Any("error", err))
			os.Exit(1)
		}
		categorizer = c
	}

	svc := ingest.NewService(
		postgres.NewSourceRepo(database),
		postgres.NewArticleRepo(database),
		postgres.NewCategoryRepo(database),
		scraper.NewRSSFetcher(&http.Client{Timeout: 30 * time.Second}),
		extractor,
		categorizer,
		ingest.Config{
			Parallelism:     cfg.Parallelism,
			RunTimeout:      cfg.RunTimeout,
			MaxSlugAttempts: ingest.DefaultConfig().MaxSlugAttempts,
		},
	)
	runner := worker.NewRunner(svc, postgres.NewIngestLockRepo(database), cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats, err := runner.RunOnce(ctx)
	if err != nil {
		if errors.Is(err, ingest.ErrRunInProgress) {
			logger.Error("another ingestion run holds the lock")
			os.Exit(2)
		}
		logger.Error("ingestion failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("ingestion finished",
		slog.Int("sources", stats.Sources),
		slog.Int("sources_skipped", stats.SourcesSkipped),
		slog.Int64("entries", stats.Entries),
		slog.Int64("inserted", stats.Inserted),
		slog.Int64("duplicated", stats.Duplicated),
		slog.Int64("failed", stats.Failed),
		slog.Int64("source_errors", stats.SourceErrors),
		slog.Duration("duration", stats.Duration))
}
