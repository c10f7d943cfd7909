// Package category provides read use cases for article categories.
package category

import (
	"context"
	"errors"
	"fmt"

	"ultra-news/internal/domain/entity"
	"ultra-news/internal/repository"
)

// ErrCategoryNotFound indicates that no category has the requested slug.
var ErrCategoryNotFound = errors.New("category not found")

// Service provides category read use cases.
type Service struct {
	Repo repository.CategoryRepository
}

// List retrieves all categories ordered by name.
func (s *Service) List(ctx context.Context) ([]*entity.Category, error) {
	categories, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// GetBySlug retrieves a category by its slug.
// Returns ErrCategoryNotFound if no category has the slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	if slug == "" {
		return nil, ErrCategoryNotFound
	}

	c, err := s.Repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get category by slug: %w", err)
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}
	return c, nil
}
