// Package pagination implements offset pagination shared by the list
// endpoints: query parsing, offset math, and the response envelope.
package pagination

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
)

// Config bounds pagination parameters accepted from clients.
type Config struct {
	DefaultPage  int
	DefaultLimit int
	// MaxLimit caps the per-page size a client may request.
	MaxLimit int
}

// DefaultConfig returns page 1, 20 per page, capped at 100.
func DefaultConfig() Config {
	return Config{DefaultPage: 1, DefaultLimit: 20, MaxLimit: 100}
}

// LoadFromEnv reads PAGINATION_DEFAULT_PAGE, PAGINATION_DEFAULT_LIMIT,
// and PAGINATION_MAX_LIMIT, falling back to defaults for unset or
// unparseable values.
func LoadFromEnv() Config {
	def := DefaultConfig()
	return Config{
		DefaultPage:  envInt("PAGINATION_DEFAULT_PAGE", def.DefaultPage),
		DefaultLimit: envInt("PAGINATION_DEFAULT_LIMIT", def.DefaultLimit),
		MaxLimit:     envInt("PAGINATION_MAX_LIMIT", def.MaxLimit),
	}
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// Params are the pagination parameters of one request. Page is 1-based.
type Params struct {
	Page  int
	Limit int
}

// ParseQueryParams reads page and limit from the query string. Missing
// parameters take the configured defaults; out-of-range or
// non-numeric ones are an error rather than silently clamped, so
// clients learn about broken requests.
func ParseQueryParams(r *http.Request, config Config) (Params, error) {
	params := Params{Page: config.DefaultPage, Limit: config.DefaultLimit}

	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return params, fmt.Errorf("invalid query parameter: page must be a positive integer")
		}
		params.Page = page
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > config.MaxLimit {
			return params, fmt.Errorf("invalid query parameter: limit must be between 1 and %d", config.MaxLimit)
		}
		params.Limit = limit
	}

	return params, nil
}

// Validate rejects params outside the configured bounds.
func (p Params) Validate(config Config) error {
	if p.Page < 1 {
		return fmt.Errorf("page must be a positive integer")
	}
	if p.Limit < 1 || p.Limit > config.MaxLimit {
		return fmt.Errorf("limit must be between 1 and %d", config.MaxLimit)
	}
	return nil
}

// WithDefaults fills zero or out-of-range values from config instead
// of erroring. Used for params built in code rather than parsed from a
// request.
func (p Params) WithDefaults(config Config) Params {
	if p.Page <= 0 {
		p.Page = config.DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = config.DefaultLimit
	}
	if p.Limit > config.MaxLimit {
		p.Limit = config.MaxLimit
	}
	return p
}

// CalculateOffset converts a 1-based page to a database OFFSET.
func CalculateOffset(page, limit int) int {
	return (page - 1) * limit
}

// CalculateTotalPages is ceil(total/limit), with a minimum of one page
// so an empty result still renders as page 1 of 1.
func CalculateTotalPages(total int64, limit int) int {
	if total == 0 {
		return 1
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
