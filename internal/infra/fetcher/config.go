package fetcher

import (
	"fmt"
	"time"

	"ultra-news/internal/pkg/config"
)

// PageFetchConfig controls page fetching for article enrichment.
type PageFetchConfig struct {
	// Enabled toggles enrichment entirely. When false the pipeline
	// keeps feed summaries without any page fetches.
	Enabled bool

	// Timeout bounds a single page request.
	Timeout time.Duration

	// MaxBodySize caps the response body in bytes. Oversized pages are
	// rejected while reading, not trusted from Content-Length.
	MaxBodySize int64

	// MaxRedirects caps the redirect chain. Every redirect target goes
	// through the same URL validation as the original.
	MaxRedirects int

	// DenyPrivateIPs blocks URLs resolving to private, loopback, or
	// link-local addresses. Keep true outside of tests.
	DenyPrivateIPs bool

	// RatePerSecond throttles page fetches across goroutines. Zero
	// disables throttling.
	RatePerSecond float64

	// RateBurst is the burst size of the rate limiter.
	RateBurst int
}

// DefaultPageFetchConfig returns production defaults.
func DefaultPageFetchConfig() PageFetchConfig {
	return PageFetchConfig{
		Enabled:        true,
		Timeout:        10 * time.Second,
		MaxBodySize:    10 * 1024 * 1024,
		MaxRedirects:   5,
		DenyPrivateIPs: true,
		RatePerSecond:  5,
		RateBurst:      5,
	}
}

// Validate rejects values that would be unsafe or useless at runtime.
func (c *PageFetchConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	minBody := int64(1024)
	maxBody := int64(100 * 1024 * 1024)
	if c.MaxBodySize < minBody || c.MaxBodySize > maxBody {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBody, maxBody, c.MaxBodySize)
	}
	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}
	if c.RatePerSecond < 0 {
		return fmt.Errorf("rate per second must be non-negative, got %f", c.RatePerSecond)
	}
	return nil
}

// LoadPageFetchConfigFromEnv reads PAGE_FETCH_* environment variables,
// falling back to defaults on missing or invalid values.
func LoadPageFetchConfigFromEnv() (PageFetchConfig, error) {
	cfg := DefaultPageFetchConfig()

	enabled := config.LoadEnvBool("PAGE_FETCH_ENABLED", cfg.Enabled)
	cfg.Enabled = enabled.Value.(bool)

	timeout := config.LoadEnvDuration("PAGE_FETCH_TIMEOUT", cfg.Timeout, config.ValidatePositiveDuration)
	cfg.Timeout = timeout.Value.(time.Duration)

	bodySize := config.LoadEnvInt("PAGE_FETCH_MAX_BODY_SIZE", int(cfg.MaxBodySize), config.ValidateIntRange(1024, 100*1024*1024))
	cfg.MaxBodySize = int64(bodySize.Value.(int))

	redirects := config.LoadEnvInt("PAGE_FETCH_MAX_REDIRECTS", cfg.MaxRedirects, config.ValidateIntRange(0, 10))
	cfg.MaxRedirects = redirects.Value.(int)

	deny := config.LoadEnvBool("PAGE_FETCH_DENY_PRIVATE_IPS", cfg.DenyPrivateIPs)
	cfg.DenyPrivateIPs = deny.Value.(bool)

	rate := config.LoadEnvInt("PAGE_FETCH_RATE_PER_SECOND", int(cfg.RatePerSecond), config.ValidateIntRange(1, 100))
	cfg.RatePerSecond = float64(rate.Value.(int))

	burst := config.LoadEnvInt("PAGE_FETCH_RATE_BURST", cfg.RateBurst, config.ValidateIntRange(1, 100))
	cfg.RateBurst = burst.Value.(int)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("LoadPageFetchConfigFromEnv: %w", err)
	}
	return cfg, nil
}
