// Package article provides HTTP handlers for the article read
// endpoints: paginated listing with search and category filters, and
// detail lookup by slug.
package article

import (
	"time"

	"ultra-news/internal/repository"
)

// DTO represents the JSON structure for article data transfer.
type DTO struct {
	ID          int64     `json:"id" example:"1"`
	SourceID    int64     `json:"source_id" example:"1"`
	SourceName  string    `json:"source_name" example:"The Verge"`
	Title       string    `json:"title" example:"Rocket launch success"`
	Slug        string    `json:"slug" example:"rocket-launch-success"`
	URL         string    `json:"url" example:"https://example.com/article/1"`
	Content     string    `json:"content,omitempty"`
	ImageURL    string    `json:"image_url,omitempty" example:"https://example.com/a.jpg"`
	Categories  []string  `json:"categories"`
	PublishedAt time.Time `json:"published_at" example:"2026-08-20T10:00:00Z"`
	CreatedAt   time.Time `json:"created_at" example:"2026-08-20T12:00:00Z"`
}

// toDTO converts a repository row to its transfer representation.
// Listing responses omit the article body to keep pages small; the
// detail endpoint includes it.
func toDTO(item repository.ArticleWithSource, includeContent bool) DTO {
	dto := DTO{
		ID:          item.Article.ID,
		SourceID:    item.Article.SourceID,
		SourceName:  item.SourceName,
		Title:       item.Article.Title,
		Slug:        item.Article.Slug,
		URL:         item.Article.URL,
		ImageURL:    item.Article.ImageURL,
		Categories:  item.Article.CategorySlugs(),
		PublishedAt: item.Article.PublishedAt,
		CreatedAt:   item.Article.CreatedAt,
	}
	if includeContent {
		dto.Content = item.Article.Content
	}
	return dto
}
