package entity

import (
	"fmt"
	"time"
)

// SourceKindRSS is the only scraper kind currently implemented.
// The column is kept open-ended so new kinds can be added without a migration.
const SourceKindRSS = "rss"

// Source represents a configured feed origin.
// The URL is unique across sources and is immutable after seeding except
// by administrator action. Removing a source cascades to its articles.
type Source struct {
	ID        int64
	Name      string
	URL       string
	Kind      string
	CreatedAt time.Time
}

// Validate validates the Source entity fields.
func (s *Source) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if err := ValidateURL(s.URL); err != nil {
		return err
	}

	// An empty kind means RSS (backward compatibility with early seed data).
	if s.Kind == "" {
		s.Kind = SourceKindRSS
	}
	if s.Kind != SourceKindRSS {
		return fmt.Errorf("%w: unsupported source kind %q", ErrInvalidInput, s.Kind)
	}
	return nil
}
