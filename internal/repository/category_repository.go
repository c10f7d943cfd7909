package repository

import (
	"context"

	"ultra-news/internal/domain/entity"
)

type CategoryRepository interface {
	// List retrieves all categories ordered by name. The set is small
	// and seeded; callers may cache the result for a run.
	List(ctx context.Context) ([]*entity.Category, error)
	// GetBySlug retrieves a category by slug. Returns (nil, nil) when
	// not found.
	GetBySlug(ctx context.Context, slug string) (*entity.Category, error)
}
