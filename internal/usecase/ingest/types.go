// Package ingest implements the ingestion pipeline: fetch feeds, enrich
// entries with page content, categorize, deduplicate and persist.
package ingest

import (
	"context"
	"time"
)

// RawEntry is one feed entry as produced by a FeedFetcher, before
// enrichment.
type RawEntry struct {
	Title       string
	URL         string
	Summary     string
	PublishedAt time.Time
	// ImageURL is the image hint found in feed-native fields, empty
	// when the feed provides none.
	ImageURL string
}

// EnrichedEntry is a RawEntry with final content and image resolved.
type EnrichedEntry struct {
	RawEntry
	// Content is the article body as HTML paragraphs. Falls back to the
	// feed summary when page extraction fails or yields less text.
	Content string
}

// FeedFetcher retrieves and parses a syndication feed.
// A fetch failure yields an error; the orchestrator logs it and moves
// on to the next source.
type FeedFetcher interface {
	Fetch(ctx context.Context, feedURL string) ([]RawEntry, error)
}

// PageContent is the result of extracting a linked article page.
type PageContent struct {
	// Text is the readable main text, plain, line-per-paragraph.
	Text string
	// ImageURL is the page's og:image, empty when absent.
	ImageURL string
}

// PageExtractor fetches an article page and extracts its main content.
type PageExtractor interface {
	Extract(ctx context.Context, pageURL string) (PageContent, error)
}
