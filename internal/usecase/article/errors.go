// Package article provides read-side use cases for stored articles:
// paginated listing with optional search and category filtering, and
// lookup by slug.
package article

import "errors"

// Sentinel errors for article use case operations.
var (
	// ErrArticleNotFound indicates that no article has the requested slug.
	ErrArticleNotFound = errors.New("article not found")

	// ErrInvalidSlug indicates that the provided slug is empty or malformed.
	ErrInvalidSlug = errors.New("invalid article slug")
)
