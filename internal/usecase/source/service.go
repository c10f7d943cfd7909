// Package source provides read use cases for configured feed sources.
package source

import (
	"context"
	"errors"
	"fmt"

	"ultra-news/internal/domain/entity"
	"ultra-news/internal/repository"
)

// Sentinel errors for source use case operations.
var (
	// ErrSourceNotFound indicates that the requested source was not found.
	ErrSourceNotFound = errors.New("source not found")

	// ErrInvalidSourceID indicates that the provided source ID is invalid.
	// Source IDs must be positive integers.
	ErrInvalidSourceID = errors.New("invalid source ID")
)

// Service provides source read use cases.
type Service struct {
	Repo repository.SourceRepository
}

// List retrieves all configured sources.
func (s *Service) List(ctx context.Context) ([]*entity.Source, error) {
	sources, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	return sources, nil
}

// Get retrieves a single source by its ID.
// Returns ErrInvalidSourceID if the ID is not positive.
// Returns ErrSourceNotFound if the source does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Source, error) {
	if id <= 0 {
		return nil, ErrInvalidSourceID
	}

	src, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}
	if src == nil {
		return nil, ErrSourceNotFound
	}
	return src, nil
}
