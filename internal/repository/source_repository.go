package repository

import (
	"context"

	"ultra-news/internal/domain/entity"
)

type SourceRepository interface {
	// List retrieves all configured sources ordered by name.
	List(ctx context.Context) ([]*entity.Source, error)
	// Get retrieves a source by ID. Returns (nil, nil) when not found.
	Get(ctx context.Context, id int64) (*entity.Source, error)
}
