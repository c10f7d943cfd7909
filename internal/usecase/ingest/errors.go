package ingest

import "errors"

// Page fetch errors returned by PageExtractor implementations.
// Callers use them to classify enrichment failures in logs and metrics;
// none of them aborts an entry, the feed summary is used instead.
var (
	// ErrInvalidURL indicates a malformed URL or a disallowed scheme.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrPrivateIP indicates the hostname resolves to a private or
	// loopback address and was blocked.
	ErrPrivateIP = errors.New("URL resolves to private IP")

	// ErrTimeout indicates the page fetch exceeded its deadline.
	ErrTimeout = errors.New("fetch timeout")

	// ErrBodyTooLarge indicates the response exceeded the body limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTooManyRedirects indicates the redirect chain exceeded the cap.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrExtractFailed indicates the readability extractor found no
	// usable content in the page.
	ErrExtractFailed = errors.New("content extraction failed")
)

// ErrRunInProgress is returned when an ingestion run is requested while
// another run holds the lock.
var ErrRunInProgress = errors.New("ingestion run already in progress")
