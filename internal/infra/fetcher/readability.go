package fetcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/time/rate"

	"ultra-news/internal/resilience/circuitbreaker"
	"ultra-news/internal/usecase/ingest"
)

// ReadabilityExtractor implements ingest.PageExtractor. It fetches the
// page once and extracts both the readable main text (go-readability)
// and the og:image URL (goquery) from the same body.
//
// Safe for concurrent use.
type ReadabilityExtractor struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	limiter        *rate.Limiter
	config         PageFetchConfig
}

// NewReadabilityExtractor creates an extractor with redirect validation,
// a page-fetch circuit breaker, and a shared rate limiter.
func NewReadabilityExtractor(config PageFetchConfig) *ReadabilityExtractor {
	extractor := &ReadabilityExtractor{
		circuitBreaker: circuitbreaker.New(circuitbreaker.PageFetchConfig()),
		config:         config,
	}

	if config.RatePerSecond > 0 {
		extractor.limiter = rate.NewLimiter(rate.Limit(config.RatePerSecond), config.RateBurst)
	}

	extractor.client = &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= extractor.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ingest.ErrTooManyRedirects, len(via))
			}
			if err := validateURL(req.URL.String(), extractor.config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target rejected: %w", err)
			}
			return nil
		},
	}
	return extractor
}

// Extract fetches pageURL and returns its readable text and og:image.
func (e *ReadabilityExtractor) Extract(ctx context.Context, pageURL string) (ingest.PageContent, error) {
	if err := validateURL(pageURL, e.config.DenyPrivateIPs); err != nil {
		return ingest.PageContent{}, err
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return ingest.PageContent{}, fmt.Errorf("Extract: %w", err)
		}
	}

	result, err := e.circuitBreaker.Execute(func() (interface{}, error) {
		return e.doExtract(ctx, pageURL)
	})
	if err != nil {
		return ingest.PageContent{}, err
	}
	return result.(ingest.PageContent), nil
}

func (e *ReadabilityExtractor) doExtract(ctx context.Context, pageURL string) (ingest.PageContent, error) {
	reqCtx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return ingest.PageContent{}, fmt.Errorf("%w: %v", ingest.ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", "UltraNewsBot/1.0")

	resp, err := e.client.Do(req)
	if err != nil {
		if reqCtx.Err() == context.DeadlineExceeded {
			return ingest.PageContent{}, fmt.Errorf("%w: request exceeded %v", ingest.ErrTimeout, e.config.Timeout)
		}
		if urlErr, ok := err.(*url.Error); ok && urlErr.Err != nil {
			return ingest.PageContent{}, urlErr.Err
		}
		return ingest.PageContent{}, fmt.Errorf("page request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return ingest.PageContent{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	limited := io.LimitReader(resp.Body, e.config.MaxBodySize+1)
	htmlBytes, err := io.ReadAll(limited)
	if err != nil {
		return ingest.PageContent{}, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(htmlBytes)) > e.config.MaxBodySize {
		return ingest.PageContent{}, fmt.Errorf("%w: body exceeds %d bytes", ingest.ErrBodyTooLarge, e.config.MaxBodySize)
	}

	finalURL, err := url.Parse(pageURL)
	if err != nil {
		finalURL = nil
	}
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL
	}

	article, err := readability.FromReader(bytes.NewReader(htmlBytes), finalURL)
	if err != nil {
		return ingest.PageContent{}, fmt.Errorf("%w: %v", ingest.ErrExtractFailed, err)
	}

	content := ingest.PageContent{
		Text:     article.TextContent,
		ImageURL: ogImage(htmlBytes),
	}
	if content.Text == "" && content.ImageURL == "" {
		return ingest.PageContent{}, fmt.Errorf("%w: no readable content found", ingest.ErrExtractFailed)
	}
	return content, nil
}

// ogImage returns the og:image meta content, or "" when absent or the
// document does not parse.
func ogImage(htmlBytes []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlBytes))
	if err != nil {
		return ""
	}
	if content, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok {
		return content
	}
	return ""
}
