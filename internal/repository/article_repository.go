package repository

import (
	"context"

	"ultra-news/internal/domain/entity"
)

// ArticleWithSource pairs an article with the name of its source.
type ArticleWithSource struct {
	Article    *entity.Article
	SourceName string
}

// ArticleListFilter contains optional filters for article listing.
type ArticleListFilter struct {
	// Query, when non-empty, switches listing to full-text search.
	// Results are ranked by relevance and weak matches are discarded.
	Query string
	// CategorySlug, when non-empty, restricts results to articles
	// tagged with that category.
	CategorySlug string
}

type ArticleRepository interface {
	// ListPaginated retrieves articles matching the filter, with their
	// source names and categories attached.
	// Without a query, results are ordered by published_at DESC; with a
	// query they are ordered by search rank.
	ListPaginated(ctx context.Context, filter ArticleListFilter, offset, limit int) ([]ArticleWithSource, error)
	// Count returns the number of articles matching the filter.
	// Used for pagination metadata.
	Count(ctx context.Context, filter ArticleListFilter) (int64, error)
	// GetBySlug retrieves a single article by its slug, with source name
	// and categories. Returns (nil, nil) if no article has that slug.
	GetBySlug(ctx context.Context, slug string) (*ArticleWithSource, error)
	// ExistsByURLBatch checks many URLs in one query to avoid N+1 lookups
	// during ingestion. The returned map has an entry for every input URL.
	ExistsByURLBatch(ctx context.Context, urls []string) (map[string]bool, error)
	// SlugExists reports whether any article already uses the given slug.
	SlugExists(ctx context.Context, slug string) (bool, error)
	// CreateWithCategories inserts the article and its category links in
	// one transaction, populating article.ID and article.CreatedAt.
	// Returns entity.ErrDuplicate when the URL or slug is already taken.
	CreateWithCategories(ctx context.Context, article *entity.Article, categoryIDs []int64) error
	// CountAll returns the total number of stored articles.
	CountAll(ctx context.Context) (int64, error)
}
