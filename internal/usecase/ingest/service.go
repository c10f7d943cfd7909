package ingest

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	gosimple "github.com/gosimple/slug"
	"golang.org/x/sync/errgroup"

	"ultra-news/internal/domain/entity"
	"ultra-news/internal/observability/metrics"
	"ultra-news/internal/repository"
	"ultra-news/internal/utils/text"
)

// Config controls one ingestion run.
type Config struct {
	// Parallelism bounds concurrent entry processing within a source.
	Parallelism int
	// RunTimeout bounds the whole run; remaining sources are skipped
	// once it elapses and the partial stats are returned.
	RunTimeout time.Duration
	// MaxSlugAttempts caps the collision-resolution loop. With six hex
	// characters of randomness collisions beyond the first retry are
	// effectively impossible; the cap only guards against a broken
	// repository returning "exists" forever.
	MaxSlugAttempts int
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Parallelism:     8,
		RunTimeout:      10 * time.Minute,
		MaxSlugAttempts: 10,
	}
}

// Service orchestrates one ingestion pass: for every source, fetch the
// feed, enrich each new entry, categorize it, and persist it. Failures
// are isolated per source and per entry; only an unreachable store
// fails the run.
type Service struct {
	SourceRepo   repository.SourceRepository
	ArticleRepo  repository.ArticleRepository
	CategoryRepo repository.CategoryRepository
	FeedFetcher  FeedFetcher
	// PageExtractor may be nil to disable enrichment entirely.
	PageExtractor PageExtractor
	Categorizer   *Categorizer
	config        Config
}

// NewService creates an ingestion service.
func NewService(
	sourceRepo repository.SourceRepository,
	articleRepo repository.ArticleRepository,
	categoryRepo repository.CategoryRepository,
	feedFetcher FeedFetcher,
	pageExtractor PageExtractor,
	categorizer *Categorizer,
	config Config,
) *Service {
	if config.Parallelism < 1 {
		config.Parallelism = 1
	}
	if config.MaxSlugAttempts < 1 {
		config.MaxSlugAttempts = DefaultConfig().MaxSlugAttempts
	}
	return &Service{
		SourceRepo:    sourceRepo,
		ArticleRepo:   articleRepo,
		CategoryRepo:  categoryRepo,
		FeedFetcher:   feedFetcher,
		PageExtractor: pageExtractor,
		Categorizer:   categorizer,
		config:        config,
	}
}

// RunStats summarizes one ingestion run. Counts are reporting-only and
// never drive correctness decisions.
type RunStats struct {
	Sources        int
	SourcesSkipped int
	Entries        int64
	Inserted       int64
	Duplicated     int64
	Failed         int64
	SourceErrors   int64
	Duration       time.Duration
}

// Run executes one ingestion pass over all configured sources.
func (s *Service) Run(ctx context.Context) (*RunStats, error) {
	logger := slog.Default()
	start := time.Now()
	stats := &RunStats{}

	if s.config.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.RunTimeout)
		defer cancel()
	}

	sources, err := s.SourceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	stats.Sources = len(sources)
	if len(sources) == 0 {
		logger.Info("no sources configured, ingestion is a no-op")
		stats.Duration = time.Since(start)
		return stats, nil
	}

	categoryIDs, err := s.loadCategoryIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	for i, src := range sources {
		if ctx.Err() != nil {
			stats.SourcesSkipped = len(sources) - i
			logger.Warn("run deadline reached, skipping remaining sources",
				slog.Int("skipped", stats.SourcesSkipped))
			break
		}
		s.processSource(ctx, src, categoryIDs, stats)
	}

	stats.Duration = time.Since(start)
	logger.Info("ingestion run completed",
		slog.Int("sources", stats.Sources),
		slog.Int("sources_skipped", stats.SourcesSkipped),
		slog.Int64("entries", stats.Entries),
		slog.Int64("inserted", stats.Inserted),
		slog.Int64("duplicated", stats.Duplicated),
		slog.Int64("failed", stats.Failed),
		slog.Int64("source_errors", stats.SourceErrors),
		slog.Duration("duration", stats.Duration))

	if total, err := s.ArticleRepo.CountAll(context.WithoutCancel(ctx)); err == nil {
		metrics.SetArticlesTotal(total)
	}

	return stats, nil
}

// loadCategoryIDs maps category slugs to their IDs for link insertion.
func (s *Service) loadCategoryIDs(ctx context.Context) (map[string]int64, error) {
	categories, err := s.CategoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]int64, len(categories))
	for _, c := range categories {
		ids[c.Slug] = c.ID
	}
	return ids, nil
}

// processSource ingests one source. All failures are contained here:
// they are logged and counted, never propagated.
func (s *Service) processSource(ctx context.Context, src *entity.Source, categoryIDs map[string]int64, stats *RunStats) {
	logger := slog.Default()
	sourceStart := time.Now()

	entries, err := s.FeedFetcher.Fetch(ctx, src.URL)
	if err != nil {
		logger.Warn("failed to fetch feed",
			slog.Int64("source_id", src.ID),
			slog.String("source", src.Name),
			slog.String("url", src.URL),
			slog.Any("error", err))
		metrics.RecordIngestError(src.Name, "fetch_failed")
		atomic.AddInt64(&stats.SourceErrors, 1)
		return
	}
	metrics.RecordEntriesFetched(src.Name, len(entries))
	if len(entries) == 0 {
		logger.Info("feed is empty",
			slog.Int64("source_id", src.ID),
			slog.String("url", src.URL))
		return
	}

	urls := make([]string, 0, len(entries))
	for _, entry := range entries {
		urls = append(urls, entry.URL)
	}
	existsMap, err := s.ArticleRepo.ExistsByURLBatch(ctx, urls)
	if err != nil {
		logger.Warn("failed to batch check URLs",
			slog.Int64("source_id", src.ID),
			slog.Any("error", err))
		metrics.RecordIngestError(src.Name, "batch_check_failed")
		atomic.AddInt64(&stats.SourceErrors, 1)
		return
	}

	beforeInserted := atomic.LoadInt64(&stats.Inserted)
	beforeDuplicated := atomic.LoadInt64(&stats.Duplicated)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.config.Parallelism)

	for _, rawEntry := range entries {
		entry := rawEntry
		atomic.AddInt64(&stats.Entries, 1)

		if existsMap[entry.URL] {
			atomic.AddInt64(&stats.Duplicated, 1)
			metrics.RecordArticleDuplicated(src.Name)
			continue
		}

		eg.Go(func() error {
			enriched := s.enrich(egCtx, entry)
			if err := s.persist(egCtx, enriched, src, categoryIDs, stats); err != nil {
				// Only context errors escape persist.
				return err
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		logger.Warn("source processing interrupted",
			slog.Int64("source_id", src.ID),
			slog.Any("error", err))
		metrics.RecordIngestError(src.Name, "interrupted")
		atomic.AddInt64(&stats.SourceErrors, 1)
		return
	}

	sourceDuration := time.Since(sourceStart)
	metrics.RecordSourceIngest(src.Name, sourceDuration)
	logger.Info("source ingested",
		slog.Int64("source_id", src.ID),
		slog.String("source", src.Name),
		slog.Int("entries", len(entries)),
		slog.Int64("inserted", atomic.LoadInt64(&stats.Inserted)-beforeInserted),
		slog.Int64("duplicated", atomic.LoadInt64(&stats.Duplicated)-beforeDuplicated),
		slog.Duration("duration", sourceDuration))
}

// enrich resolves the final content and image for an entry. It never
// fails: any page fetch or extraction problem falls back to the feed
// summary and image hint.
func (s *Service) enrich(ctx context.Context, entry RawEntry) EnrichedEntry {
	enriched := EnrichedEntry{RawEntry: entry, Content: entry.Summary}
	if s.PageExtractor == nil || entry.URL == "" {
		return enriched
	}

	fetchStart := time.Now()
	page, err := s.PageExtractor.Extract(ctx, entry.URL)
	fetchDuration := time.Since(fetchStart)
	if err != nil {
		slog.Debug("page enrichment failed, keeping feed summary",
			slog.String("url", entry.URL),
			slog.Any("error", err))
		metrics.RecordEnrichment("failed", fetchDuration)
		return enriched
	}
	metrics.RecordEnrichment("ok", fetchDuration)

	// The extracted text wins only when it carries more actual text
	// than the summary once the summary's markup is stripped.
	extracted := strings.TrimSpace(page.Text)
	if len(extracted) > len(text.StripTags(entry.Summary)) {
		enriched.Content = text.WrapParagraphs(extracted)
	}
	if enriched.ImageURL == "" && page.ImageURL != "" {
		enriched.ImageURL = page.ImageURL
	}
	return enriched
}

// persist categorizes and writes one enriched entry. Per-entry failures
// are counted and swallowed; only context errors propagate so the
// worker pool can shut down on cancellation.
func (s *Service) persist(ctx context.Context, enriched EnrichedEntry, src *entity.Source, categoryIDs map[string]int64, stats *RunStats) error {
	logger := slog.Default()

	article := &entity.Article{
		SourceID:    src.ID,
		Title:       entity.TruncateTitle(enriched.Title),
		URL:         enriched.URL,
		Content:     enriched.Content,
		ImageURL:    enriched.ImageURL,
		PublishedAt: enriched.PublishedAt,
	}
	if err := article.Validate(); err != nil {
		logger.Warn("skipping invalid entry",
			slog.String("url", enriched.URL),
			slog.Any("error", err))
		metrics.RecordIngestError(src.Name, "invalid_entry")
		atomic.AddInt64(&stats.Failed, 1)
		return nil
	}

	slugValue, err := s.uniqueSlug(ctx, article.Title)
	if err != nil {
		if isContextErr(err) {
			return err
		}
		logger.Warn("failed to derive slug",
			slog.String("url", enriched.URL),
			slog.Any("error", err))
		metrics.RecordIngestError(src.Name, "slug_failed")
		atomic.AddInt64(&stats.Failed, 1)
		return nil
	}
	article.Slug = slugValue

	ids := s.categoryIDsFor(article.Title, article.Content, categoryIDs)

	if err := s.ArticleRepo.CreateWithCategories(ctx, article, ids); err != nil {
		if errors.Is(err, entity.ErrDuplicate) {
			// Raced with a concurrent insert; the uniqueness
			// constraint is the arbiter, so this is a skip.
			atomic.AddInt64(&stats.Duplicated, 1)
			metrics.RecordArticleDuplicated(src.Name)
			return nil
		}
		if isContextErr(err) {
			return err
		}
		logger.Warn("failed to persist article",
			slog.String("url", enriched.URL),
			slog.Any("error", err))
		metrics.RecordIngestError(src.Name, "persist_failed")
		atomic.AddInt64(&stats.Failed, 1)
		return nil
	}

	atomic.AddInt64(&stats.Inserted, 1)
	metrics.RecordArticleInserted(src.Name)
	return nil
}

// categoryIDsFor maps the categorizer's slugs to IDs, dropping slugs
// the store does not know.
func (s *Service) categoryIDsFor(title, content string, categoryIDs map[string]int64) []int64 {
	slugs := s.Categorizer.Categorize(title, content)
	ids := make([]int64, 0, len(slugs))
	for _, slug := range slugs {
		if id, ok := categoryIDs[slug]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// uniqueSlug derives a slug from the title and, on collision, appends a
// fresh random suffix and re-checks until the result is confirmed
// unique.
func (s *Service) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := gosimple.Make(title)
	if base == "" {
		base = "article"
	}

	candidate := base
	for attempt := 0; attempt < s.config.MaxSlugAttempts; attempt++ {
		exists, err := s.ArticleRepo.SlugExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("uniqueSlug: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + "-" + randomSuffix()
	}
	return "", fmt.Errorf("uniqueSlug: no unique slug for %q after %d attempts", base, s.config.MaxSlugAttempts)
}

// randomSuffix returns six hex characters of fresh randomness.
func randomSuffix() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])[:6]
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
