// Command api serves the public read API plus health, metrics, and
// admin endpoints.
//
// Required environment:
//
//	DATABASE_URL  Postgres connection string
//
// Optional environment:
//
//	PORT                    listen port (default 8080)
//	ADMIN_API_KEY           enables /admin endpoints when set
//	REDIS_URL               enables the shared response cache
//	RESPONSE_CACHE_TTL      response cache TTL (default 30s)
//	CATEGORY_KEYWORDS_FILE  YAML keyword table overriding the built-in one
//	RATE_LIMIT_RPM          per-IP request limit per minute (default 120)
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ultra-news/internal/common/pagination"
	hhttp "ultra-news/internal/handler/http"
	"ultra-news/internal/handler/http/admin"
	harticle "ultra-news/internal/handler/http/article"
	hcategory "ultra-news/internal/handler/http/category"
	"ultra-news/internal/handler/http/requestid"
	hsource "ultra-news/internal/handler/http/source"
	"ultra-news/internal/infra/adapter/persistence/postgres"
	"ultra-news/internal/infra/cache"
	"ultra-news/internal/infra/db"
	"ultra-news/internal/infra/fetcher"
	"ultra-news/internal/infra/scraper"
	"ultra-news/internal/infra/worker"
	"ultra-news/internal/observability/logging"
	"ultra-news/internal/observability/tracing"
	artUC "ultra-news/internal/usecase/article"
	catUC "ultra-news/internal/usecase/category"
	"ultra-news/internal/usecase/ingest"
	srcUC "ultra-news/internal/usecase/source"
)

func main() {
	// Missing .env is fine; containers pass real environment.
	_ = godotenv.Load()

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	database := initDatabase(logger)
	defer database.Close()

	version := getVersion()
	handler, cleanup := setupServer(database, version, logger)
	defer cleanup()

	runServer(logger, handler, version)
}

// initDatabase opens the pool and applies pending migrations. Both are
// fatal on failure; the API cannot serve without its schema.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("migration failed", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

func getVersion() string {
	if v := os.Getenv("VERSION"); v != "" {
		return v
	}
	return "dev"
}

// newCategorizer builds the keyword categorizer, preferring an operator
// supplied table over the built-in one.
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

// newResponseCache picks Redis when REDIS_URL is set, otherwise an
// in-process cache. Redis connection failures degrade to in-process
// rather than failing startup.
func newResponseCache(logger *slog.Logger) cache.Cache {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		logger.Info("response cache using in-process store")
		return cache.NewMemoryCache()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := cache.NewRedisCache(ctx, redisURL)
	if err != nil {
		logger.Warn("redis unavailable, falling back to in-process cache",
			slog.Any("error", err))
		return cache.NewMemoryCache()
	}
	logger.Info("response cache using redis")
	return c
}

func responseCacheTTL(logger *slog.Logger) time.Duration {
	const fallback = 30 * time.Second
	raw := os.Getenv("RESPONSE_CACHE_TTL")
	if raw == "" {
		return fallback
	}
	ttl, err := time.ParseDuration(raw)
	if err != nil || ttl <= 0 {
		logger.Warn("invalid RESPONSE_CACHE_TTL, using default",
			slog.String("value", raw),
			slog.Duration("default", fallback))
		return fallback
	}
	return ttl
}

func rateLimitRPM(logger *slog.Logger) int {
	const fallback = 120
	raw := os.Getenv("RATE_LIMIT_RPM")
	if raw == "" {
		return fallback
	}
	rpm, err := strconv.Atoi(raw)
	if err != nil || rpm < 1 {
		logger.Warn("invalid RATE_LIMIT_RPM, using default",
			slog.String("value", raw),
			slog.Int("default", fallback))
		return fallback
	}
	return rpm
}

// setupServer wires repositories, services, and routes into the final
// handler. The returned cleanup closes the response cache store.
func setupServer(database *sql.DB, version string, logger *slog.Logger) (http.Handler, func()) {
	articleRepo := postgres.NewArticleRepo(database)
	sourceRepo := postgres.NewSourceRepo(database)
	categoryRepo := postgres.NewCategoryRepo(database)
	lockRepo := postgres.NewIngestLockRepo(database)

	artSvc := &artUC.Service{Repo: articleRepo}
	srcSvc := &srcUC.Service{Repo: sourceRepo}
	catSvc := &catUC.Service{Repo: categoryRepo}

	// The admin trigger runs the same pipeline the worker runs on its
	// schedule, guarded by the same database lock.
	workerCfg := worker.LoadConfigFromEnv(logger)
	pageCfg, err := fetcher.LoadPageFetchConfigFromEnv()
	if err != nil {
		logger.Error("invalid page fetch configuration", slog.Any("error", err))
		os.Exit(1)
	}
	var extractor ingest.PageExtractor
	if pageCfg.Enabled {
		extractor = fetcher.NewReadabilityExtractor(pageCfg)
	}
	ingestSvc := ingest.NewService(
		sourceRepo,
		articleRepo,
		categoryRepo,
		scraper.NewRSSFetcher(&http.Client{Timeout: 30 * time.Second}),
		extractor,
		newCategorizer(logger),
		ingest.Config{
			Parallelism:     workerCfg.Parallelism,
			RunTimeout:      workerCfg.RunTimeout,
			MaxSlugAttempts: ingest.DefaultConfig().MaxSlugAttempts,
		},
	)
	runner := worker.NewRunner(ingestSvc, lockRepo, workerCfg, logger)

	store := newResponseCache(logger)
	responseCache := &hhttp.ResponseCache{
		Cache:  store,
		TTL:    responseCacheTTL(logger),
		Logger: logger,
	}

	// Read routes get response caching; health, metrics, and admin
	// stay uncached.
	apiMux := http.NewServeMux()
	harticle.Register(apiMux, artSvc, pagination.LoadFromEnv(), logger)
	hsource.Register(apiMux, srcSvc)
	hcategory.Register(apiMux, catSvc)
	cached := responseCache.Middleware(apiMux)

	rootMux := http.NewServeMux()
	rootMux.Handle("/articles", cached)
	rootMux.Handle("/articles/", cached)
	rootMux.Handle("/sources", cached)
	rootMux.Handle("/sources/", cached)
	rootMux.Handle("/categories", cached)

	rootMux.Handle("/healthz", &hhttp.HealthHandler{DB: database, Version: version})
	rootMux.Handle("/readyz", &hhttp.ReadyHandler{DB: database})
	rootMux.Handle("/livez", hhttp.LiveHandler{})
	rootMux.Handle("/metrics", hhttp.MetricsHandler())

	adminKey := os.Getenv("ADMIN_API_KEY")
	if adminKey == "" {
		logger.Warn("ADMIN_API_KEY not set, admin endpoints disabled")
	}
	admin.Register(rootMux, adminKey, runner, func(ctx context.Context) error {
		return db.Seed(database)
	}, logger)

	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("cache close failed", slog.Any("error", err))
		}
	}
	return applyMiddleware(logger, rootMux), cleanup
}

// applyMiddleware builds the chain, innermost first: metrics, body
// limit, rate limit, logging, recovery, tracing, request ID, CORS.
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	rateLimiter := hhttp.NewRateLimiter(rateLimitRPM(logger), time.Minute)

	corsCfg := hhttp.LoadCORSConfigFromEnv()
	if len(corsCfg.AllowedOrigins) > 0 {
		logger.Info("CORS enabled", slog.Any("allowed_origins", corsCfg.AllowedOrigins))
	}

	chain := handler
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.LimitRequestBody(1 << 20)(chain)
	chain = rateLimiter.Limit(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = tracing.Middleware(chain)
	chain = requestid.Middleware(chain)
	chain = hhttp.CORS(corsCfg)(chain)
	return chain
}

// runServer starts the HTTP server and blocks until SIGINT or SIGTERM,
// then drains in-flight requests.
func runServer(logger *slog.Logger, handler http.Handler, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", slog.Any("error", err))
		return
	}
	logger.Info("server stopped")
}
