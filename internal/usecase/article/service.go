package article

import (
	"context"
	"fmt"
	"strings"

	"ultra-news/internal/common/pagination"
	"ultra-news/internal/repository"
)

// maxSlugLength bounds by-slug lookups; stored slugs never exceed it
// because titles are capped, so anything longer is rejected up front.
const maxSlugLength = 600

// ListInput carries the listing parameters parsed from the request.
type ListInput struct {
	Params pagination.Params
	// Query, when non-empty, switches the listing to ranked full-text
	// search over titles and content.
	Query string
	// CategorySlug, when non-empty, restricts results to one category.
	CategorySlug string
}

// Service provides article read use cases.
// It delegates all data access to the repository and adds pagination
// metadata on top.
type Service struct {
	Repo repository.ArticleRepository
}

// PaginatedResult represents the result of a paginated query.
// It contains both the data and pagination metadata.
type PaginatedResult struct {
	Data       []repository.ArticleWithSource
	Pagination pagination.Metadata
}

// List retrieves one page of articles matching the input filters.
// Without a query the page is ordered newest-first; with a query it is
// ordered by search relevance.
func (s *Service) List(ctx context.Context, in ListInput) (*PaginatedResult, error) {
	filter := repository.ArticleListFilter{
		Query:        strings.TrimSpace(in.Query),
		CategorySlug: strings.TrimSpace(in.CategorySlug),
	}
	offset := pagination.CalculateOffset(in.Params.Page, in.Params.Limit)

	total, err := s.Repo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}

	articles, err := s.Repo.ListPaginated(ctx, filter, offset, in.Params.Limit)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	return &PaginatedResult{
		Data: articles,
		Pagination: pagination.Metadata{
			Total:      total,
			Page:       in.Params.Page,
			Limit:      in.Params.Limit,
			TotalPages: pagination.CalculateTotalPages(total, in.Params.Limit),
		},
	}, nil
}

// GetBySlug retrieves a single article with its source name and
// categories.
// Returns ErrInvalidSlug for an empty or oversized slug and
// ErrArticleNotFound when no article has the slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*repository.ArticleWithSource, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" || len(slug) > maxSlugLength {
		return nil, ErrInvalidSlug
	}

	article, err := s.Repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get article by slug: %w", err)
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}
	return article, nil
}
