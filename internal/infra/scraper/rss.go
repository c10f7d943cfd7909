// Package scraper fetches and parses RSS/Atom feeds into raw entries.
// It uses the gofeed library with circuit breaker and retry wrapping.
package scraper

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
	"github.com/sony/gobreaker"

	"ultra-news/internal/resilience/circuitbreaker"
	"ultra-news/internal/resilience/retry"
	"ultra-news/internal/usecase/ingest"
)

const defaultTitle = "No Title"

// RSSFetcher implements ingest.FeedFetcher using gofeed.
type RSSFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	userAgent      string
}

// NewRSSFetcher creates an RSSFetcher with feed-tuned circuit breaker
// and retry settings.
func NewRSSFetcher(client *http.Client) *RSSFetcher {
	return &RSSFetcher{
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeedFetchConfig()),
		retryConfig:    retry.FeedFetchConfig(),
		userAgent:      "UltraNewsBot",
	}
}

// Fetch retrieves and parses a feed, returning its entries in document
// order.
func (f *RSSFetcher) Fetch(ctx context.Context, feedURL string) ([]ingest.RawEntry, error) {
	var entries []ingest.RawEntry

	retryErr := retry.WithBackoff(ctx, f.retryConfig, func() error {
		cbResult, err := f.circuitBreaker.Execute(func() (interface{}, error) {
			return f.doFetch(ctx, feedURL)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("feed fetch circuit breaker open, request rejected",
					slog.String("service", f.circuitBreaker.Name()),
					slog.String("url", feedURL))
			}
			return err
		}
		entries = cbResult.([]ingest.RawEntry)
		return nil
	})
	if retryErr != nil {
		return nil, retryErr
	}
	return entries, nil
}

func (f *RSSFetcher) doFetch(ctx context.Context, feedURL string) ([]ingest.RawEntry, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = f.userAgent
	fp.Client = f.client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]ingest.RawEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		title := item.Title
		if title == "" {
			title = defaultTitle
		}

		// Summary preferred over full content blocks.
		summary := item.Description
		if summary == "" {
			summary = item.Content
		}

		publishedAt := time.Now()
		if item.PublishedParsed != nil {
			publishedAt = *item.PublishedParsed
		}

		entries = append(entries, ingest.RawEntry{
			Title:       title,
			URL:         item.Link,
			Summary:     summary,
			PublishedAt: publishedAt,
			ImageURL:    imageHint(item),
		})
	}
	return entries, nil
}

// imageHint extracts a feed-native image URL: media:content, then
// media:thumbnail, then an enclosure with an image MIME type, then the
// item-level image.
func imageHint(item *gofeed.Item) string {
	if url := mediaExtensionURL(item, "content"); url != "" {
		return url
	}
	if url := mediaExtensionURL(item, "thumbnail"); url != "" {
		return url
	}
	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") && enc.URL != "" {
			return enc.URL
		}
	}
	if item.Image != nil {
		return item.Image.URL
	}
	return ""
}

func mediaExtensionURL(item *gofeed.Item, name string) string {
	media, ok := item.Extensions["media"]
	if !ok {
		return ""
	}
	for _, e := range media[name] {
		if url := extensionURL(e); url != "" {
			return url
		}
	}
	return ""
}

func extensionURL(e ext.Extension) string {
	if url, ok := e.Attrs["url"]; ok && url != "" {
		return url
	}
	return ""
}
