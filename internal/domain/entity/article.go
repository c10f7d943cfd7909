// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Article, Source and Category,
// along with their validation rules and domain-specific errors.
package entity

import "time"

// maxTitleLength bounds article titles, matching the column width in the store.
const maxTitleLength = 500

// Article represents a stored news article.
// The URL field holds the canonical link of the original story and is the
// deduplication key: at most one article may exist per canonical URL.
// Slug is a unique, URL-safe identifier derived from the title.
type Article struct {
	ID          int64
	SourceID    int64
	Title       string
	Slug        string
	URL         string
	Content     string
	ImageURL    string
	PublishedAt time.Time
	CreatedAt   time.Time
	Categories  []Category
}

// Validate checks the article fields that ingestion is responsible for.
// Slug and ID are assigned by the persistence layer and are not validated here.
func (a *Article) Validate() error {
	if a.Title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if len(a.Title) > maxTitleLength {
		return &ValidationError{Field: "title", Message: "title is too long"}
	}
	if err := ValidateURL(a.URL); err != nil {
		return err
	}
	return nil
}

// TruncateTitle shortens a title to fit the stored column width, cutting
// on a rune boundary so multi-byte characters are never split.
func TruncateTitle(title string) string {
	if len(title) <= maxTitleLength {
		return title
	}
	cut := maxTitleLength
	for cut > 0 && !isRuneStart(title[cut]) {
		cut--
	}
	return title[:cut]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// CategorySlugs returns the slugs of the article's categories in assignment order.
func (a *Article) CategorySlugs() []string {
	slugs := make([]string, 0, len(a.Categories))
	for _, c := range a.Categories {
		slugs = append(slugs, c.Slug)
	}
	return slugs
}
