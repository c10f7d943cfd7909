package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"ultra-news/internal/domain/entity"
	"ultra-news/internal/repository"
)

// memArticleRepo is an in-memory ArticleRepository keyed by URL and slug.
type memArticleRepo struct {
	mu        sync.Mutex
	byURL     map[string]*entity.Article
	bySlug    map[string]*entity.Article
	linked    map[string][]int64
	nextID    int64
	createErr error
}

func newMemArticleRepo() *memArticleRepo {
	return &memArticleRepo{
		byURL:  make(map[string]*entity.Article),
		bySlug: make(map[string]*entity.Article),
		linked: make(map[string][]int64),
		nextID: 1,
	}
}

func (r *memArticleRepo) ListPaginated(ctx context.Context, filter repository.ArticleListFilter, offset, limit int) ([]repository.ArticleWithSource, error) {
	return nil, nil
}

func (r *memArticleRepo) Count(ctx context.Context, filter repository.ArticleListFilter) (int64, error) {
	return r.CountAll(ctx)
}

func (r *memArticleRepo) GetBySlug(ctx context.Context, slug string) (*repository.ArticleWithSource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.bySlug[slug]
	if !ok {
		return nil, nil
	}
	return &repository.ArticleWithSource{Article: a}, nil
}

func (r *memArticleRepo) ExistsByURLBatch(ctx context.Context, urls []string) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exists := make(map[string]bool, len(urls))
	for _, u := range urls {
		_, ok := r.byURL[u]
		exists[u] = ok
	}
	return exists, nil
}

func (r *memArticleRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.bySlug[slug]
	return ok, nil
}

func (r *memArticleRepo) CreateWithCategories(ctx context.Context, article *entity.Article, categoryIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.byURL[article.URL]; ok {
		return fmt.Errorf("CreateWithCategories: %w", entity.ErrDuplicate)
	}
	if _, ok := r.bySlug[article.Slug]; ok {
		return fmt.Errorf("CreateWithCategories: %w", entity.ErrDuplicate)
	}
	article.ID = r.nextID
	r.nextID++
	article.CreatedAt = time.Now()
	r.byURL[article.URL] = article
	r.bySlug[article.Slug] = article
	r.linked[article.Slug] = categoryIDs
	return nil
}

func (r *memArticleRepo) CountAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byURL)), nil
}

type stubSourceRepo struct {
	sources []*entity.Source
	err     error
}

func (r *stubSourceRepo) List(ctx context.Context) ([]*entity.Source, error) {
	return r.sources, r.err
}

func (r *stubSourceRepo) Get(ctx context.Context, id int64) (*entity.Source, error) {
	for _, s := range r.sources {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

type stubCategoryRepo struct {
	categories []*entity.Category
}

func (r *stubCategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	return r.categories, nil
}

func (r *stubCategoryRepo) GetBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	for _, c := range r.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, nil
}

// stubFetcher serves canned entries per feed URL.
type stubFetcher struct {
	entries map[string][]RawEntry
	errs    map[string]error
}

func (f *stubFetcher) Fetch(ctx context.Context, feedURL string) ([]RawEntry, error) {
	if err := f.errs[feedURL]; err != nil {
		return nil, err
	}
	return f.entries[feedURL], nil
}

// stubExtractor serves canned page content per article URL.
type stubExtractor struct {
	pages map[string]PageContent
	errs  map[string]error
}

func (e *stubExtractor) Extract(ctx context.Context, pageURL string) (PageContent, error) {
	if err := e.errs[pageURL]; err != nil {
		return PageContent{}, err
	}
	return e.pages[pageURL], nil
}

func testCategories() []*entity.Category {
	return []*entity.Category{
		{ID: 1, Name: "Tech", Slug: "tech"},
		{ID: 2, Name: "Business", Slug: "business"},
		{ID: 3, Name: "Science", Slug: "science"},
	}
}

func testService(t *testing.T, sources *stubSourceRepo, articles *memArticleRepo, fetcher FeedFetcher, extractor PageExtractor) *Service {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Parallelism = 2
	return NewService(sources, articles, &stubCategoryRepo{categories: testCategories()}, fetcher, extractor, NewCategorizer(), cfg)
}

func TestService_Run_InsertsNewEntries(t *testing.T) {
	src := &entity.Source{ID: 1, Name: "Daily Orbit", URL: "https://orbit.example/feed"}
	published := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	fetcher := &stubFetcher{entries: map[string][]RawEntry{
		src.URL: {
			{Title: "Rocket launch success", URL: "https://orbit.example/rocket", Summary: "A rocket reached orbit.", PublishedAt: published},
			{Title: "Stock market rally", URL: "https://orbit.example/stocks", Summary: "Markets climbed today.", PublishedAt: published},
		},
	}}
	articles := newMemArticleRepo()
	svc := testService(t, &stubSourceRepo{sources: []*entity.Source{src}}, articles, fetcher, nil)

	stats, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.Inserted != 2 {
		t.Errorf("Inserted = %d, want 2", stats.Inserted)
	}
	if stats.Failed != 0 || stats.SourceErrors != 0 {
		t.Errorf("Failed = %d, SourceErrors = %d, want 0, 0", stats.Failed, stats.SourceErrors)
	}

	got, err := articles.GetBySlug(context.Background(), "rocket-launch-success")
	if err != nil || got == nil {
		t.Fatalf("GetBySlug() = %v, %v, want stored article", got, err)
	}
	if got.Article.Content != "A rocket reached orbit." {
		t.Errorf("Content = %q, want feed summary", got.Article.Content)
	}
	if got.Article.SourceID != src.ID {
		t.Errorf("SourceID = %d, want %d", got.Article.SourceID, src.ID)
	}
	if ids := articles.linked["stock-market-rally"]; len(ids) != 1 || ids[0] != 2 {
		t.Errorf("category links = %v, want [2] (business)", ids)
	}
}

func TestService_Run_SecondRunIsIdempotent(t *testing.T) {
	src := &entity.Source{ID: 1, Name: "Daily Orbit", URL: "https://orbit.example/feed"}
	fetcher := &stubFetcher{entries: map[string][]RawEntry{
		src.URL: {
			{Title: "Rocket launch success", URL: "https://orbit.example/rocket", Summary: "Up it went.", PublishedAt: time.Now()},
		},
	}}
	articles := newMemArticleRepo()
	svc := testService(t, &stubSourceRepo{sources: []*entity.Source{src}}, articles, fetcher, nil)

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	stats, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if stats.Inserted != 0 {
		t.Errorf("second run Inserted = %d, want 0", stats.Inserted)
	}
	if stats.Duplicated != 1 {
		t.Errorf("second run Duplicated = %d, want 1", stats.Duplicated)
	}
	if n, _ := articles.CountAll(context.Background()); n != 1 {
		t.Errorf("stored articles = %d, want 1", n)
	}
}

func TestService_Run_SourceFailureIsIsolated(t *testing.T) {
	broken := &entity.Source{ID: 1, Name: "Broken", URL: "https://broken.example/feed"}
	healthy := &entity.Source{ID: 2, Name: "Healthy", URL: "https://healthy.example/feed"}
	fetcher := &stubFetcher{
		entries: map[string][]RawEntry{
			healthy.URL: {
				{Title: "Vaccine trial results", URL: "https://healthy.example/vaccine", Summary: "Strong results.", PublishedAt: time.Now()},
			},
		},
		errs: map[string]error{broken.URL: errors.New("connection refused")},
	}
	articles := newMemArticleRepo()
	svc := testService(t, &stubSourceRepo{sources: []*entity.Source{broken, healthy}}, articles, fetcher, nil)

	stats, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.SourceErrors != 1 {
		t.Errorf("SourceErrors = %d, want 1", stats.SourceErrors)
	}
	if stats.Inserted != 1 {
		t.Errorf("Inserted = %d, want 1: the healthy source must still be processed", stats.Inserted)
	}
}

func TestService_Run_EnrichmentReplacesShortSummary(t *testing.T) {
	src := &entity.Source{ID: 1, Name: "Daily Orbit", URL: "https://orbit.example/feed"}
	pageText := "The full story runs much longer than the summary.\n\nIt has a second paragraph with detail."
	fetcher := &stubFetcher{entries: map[string][]RawEntry{
		src.URL: {
			{Title: "Rocket launch success", URL: "https://orbit.example/rocket", Summary: "<p>Short.</p>", PublishedAt: time.Now()},
		},
	}}
	extractor := &stubExtractor{pages: map[string]PageContent{
		"https://orbit.example/rocket": {Text: pageText, ImageURL: "https://orbit.example/rocket.jpg"},
	}}
	articles := newMemArticleRepo()
	svc := testService(t, &stubSourceRepo{sources: []*entity.Source{src}}, articles, fetcher, extractor)

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	got, _ := articles.GetBySlug(context.Background(), "rocket-launch-success")
	if got == nil {
		t.Fatal("article not stored")
	}
	if !strings.HasPrefix(got.Article.Content, "<p>The full story") {
		t.Errorf("Content = %q, want wrapped extracted text", got.Article.Content)
	}
	if got.Article.ImageURL != "https://orbit.example/rocket.jpg" {
		t.Errorf("ImageURL = %q, want page og:image", got.Article.ImageURL)
	}
}

func TestService_Run_EnrichmentKeepsLongerSummary(t *testing.T) {
	src := &entity.Source{ID: 1, Name: "Daily Orbit", URL: "https://orbit.example/feed"}
	summary := "<p>This feed summary is deliberately long and detailed, covering the entire story in full.</p>"
	fetcher := &stubFetcher{entries: map[string][]RawEntry{
		src.URL: {
			{Title: "Rocket launch success", URL: "https://orbit.example/rocket", Summary: summary, ImageURL: "https://orbit.example/feed-hint.jpg", PublishedAt: time.Now()},
		},
	}}
	extractor := &stubExtractor{pages: map[string]PageContent{
		"https://orbit.example/rocket": {Text: "Shorter.", ImageURL: "https://orbit.example/page.jpg"},
	}}
	articles := newMemArticleRepo()
	svc := testService(t, &stubSourceRepo{sources: []*entity.Source{src}}, articles, fetcher, extractor)

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	got, _ := articles.GetBySlug(context.Background(), "rocket-launch-success")
	if got == nil {
		t.Fatal("article not stored")
	}
	if got.Article.Content != summary {
		t.Errorf("Content = %q, want untouched feed summary", got.Article.Content)
	}
	// A feed-supplied image hint wins over the page image.
	if got.Article.ImageURL != "https://orbit.example/feed-hint.jpg" {
		t.Errorf("ImageURL = %q, want feed hint", got.Article.ImageURL)
	}
}

func TestService_Run_PageFetchFailureFallsBackToSummary(t *testing.T) {
	src := &entity.Source{ID: 1, Name: "Daily Orbit", URL: "https://orbit.example/feed"}
	fetcher := &stubFetcher{entries: map[string][]RawEntry{
		src.URL: {
			{Title: "Rocket launch success", URL: "https://orbit.example/rocket", Summary: "A rocket reached orbit.", PublishedAt: time.Now()},
		},
	}}
	extractor := &stubExtractor{errs: map[string]error{
		"https://orbit.example/rocket": ErrTimeout,
	}}
	articles := newMemArticleRepo()
	svc := testService(t, &stubSourceRepo{sources: []*entity.Source{src}}, articles, fetcher, extractor)

	stats, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.Inserted != 1 {
		t.Fatalf("Inserted = %d, want 1", stats.Inserted)
	}
	got, _ := articles.GetBySlug(context.Background(), "rocket-launch-success")
	if got == nil {
		t.Fatal("article not stored")
	}
	if got.Article.Content != "A rocket reached orbit." {
		t.Errorf("Content = %q, want feed summary fallback", got.Article.Content)
	}
}

func TestService_Run_SlugCollisionGetsSuffix(t *testing.T) {
	src := &entity.Source{ID: 1, Name: "Daily Orbit", URL: "https://orbit.example/feed"}
	fetcher := &stubFetcher{entries: map[string][]RawEntry{
		src.URL: {
			{Title: "Big News!", URL: "https://orbit.example/one", Summary: "First.", PublishedAt: time.Now()},
			{Title: "Big News!", URL: "https://orbit.example/two", Summary: "Second.", PublishedAt: time.Now()},
		},
	}}
	articles := newMemArticleRepo()
	svc := testService(t, &stubSourceRepo{sources: []*entity.Source{src}}, articles, fetcher, nil)
	// Force sequential processing so the second entry sees the first
	// entry's slug.
	svc.config.Parallelism = 1

	stats, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.Inserted != 2 {
		t.Fatalf("Inserted = %d, want 2", stats.Inserted)
	}

	articles.mu.Lock()
	defer articles.mu.Unlock()
	if len(articles.bySlug) != 2 {
		t.Fatalf("stored slugs = %d, want 2 distinct", len(articles.bySlug))
	}
	for slug := range articles.bySlug {
		if slug == "" {
			t.Error("stored an empty slug")
		}
		if !strings.HasPrefix(slug, "big-news") {
			t.Errorf("slug = %q, want big-news prefix", slug)
		}
	}
}

func TestService_Run_DuplicateRaceIsSkipped(t *testing.T) {
	src := &entity.Source{ID: 1, Name: "Daily Orbit", URL: "https://orbit.example/feed"}
	fetcher := &stubFetcher{entries: map[string][]RawEntry{
		src.URL: {
			{Title: "Rocket launch success", URL: "https://orbit.example/rocket", Summary: "Up.", PublishedAt: time.Now()},
		},
	}}
	articles := newMemArticleRepo()
	// The batch check said "new", but the insert hits the unique
	// constraint because another run won the race.
	articles.createErr = fmt.Errorf("CreateWithCategories: %w", entity.ErrDuplicate)
	svc := testService(t, &stubSourceRepo{sources: []*entity.Source{src}}, articles, fetcher, nil)

	stats, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.Duplicated != 1 {
		t.Errorf("Duplicated = %d, want 1", stats.Duplicated)
	}
	if stats.Failed != 0 {
		t.Errorf("Failed = %d, want 0: a duplicate race is a skip, not a failure", stats.Failed)
	}
}

func TestService_Run_InvalidEntryIsCounted(t *testing.T) {
	src := &entity.Source{ID: 1, Name: "Daily Orbit", URL: "https://orbit.example/feed"}
	fetcher := &stubFetcher{entries: map[string][]RawEntry{
		src.URL: {
			{Title: "Missing link", URL: "not a url", Summary: "Broken.", PublishedAt: time.Now()},
			{Title: "Rocket launch success", URL: "https://orbit.example/rocket", Summary: "Up.", PublishedAt: time.Now()},
		},
	}}
	articles := newMemArticleRepo()
	svc := testService(t, &stubSourceRepo{sources: []*entity.Source{src}}, articles, fetcher, nil)

	stats, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.Failed != 1 {
		t.Errorf("Failed = %d, want 1", stats.Failed)
	}
	if stats.Inserted != 1 {
		t.Errorf("Inserted = %d, want 1", stats.Inserted)
	}
}

func TestService_Run_ListSourcesFailureIsFatal(t *testing.T) {
	svc := testService(t, &stubSourceRepo{err: errors.New("store down")}, newMemArticleRepo(), &stubFetcher{}, nil)
	if _, err := svc.Run(context.Background()); err == nil {
		t.Error("expected error when sources cannot be listed")
	}
}

func TestService_Run_NoSources(t *testing.T) {
	svc := testService(t, &stubSourceRepo{}, newMemArticleRepo(), &stubFetcher{}, nil)
	stats, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.Sources != 0 || stats.Inserted != 0 {
		t.Errorf("stats = %+v, want empty run", stats)
	}
}
