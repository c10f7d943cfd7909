// Package admin provides the authenticated maintenance endpoints:
// triggering an ingestion run and re-seeding sources and categories.
package admin

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"ultra-news/internal/handler/http/respond"
)

// KeyHeader carries the admin API key on maintenance requests.
const KeyHeader = "X-Admin-Key"

var errUnauthorized = errors.New("invalid admin key")

// RequireKey returns middleware that checks the admin key header
// against the configured key with a constant-time comparison.
// When no key is configured the admin endpoints are disabled entirely.
func RequireKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				respond.SafeError(w, http.StatusNotFound, errors.New("not found"))
				return
			}
			got := r.Header.Get(KeyHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				respond.SafeError(w, http.StatusUnauthorized, errUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
