// Package pathutil provides URL path helpers for handlers and metrics.
package pathutil

import (
	"regexp"
	"strings"
)

// pathPattern pairs a route regex with its normalized template.
type pathPattern struct {
	pattern  *regexp.Regexp
	template string
}

// pathPatterns lists the dynamic routes of the API, most specific first.
// Pre-compiled at init so normalization stays cheap on the hot path.
var pathPatterns = []pathPattern{
	{pattern: regexp.MustCompile(`^/articles/[a-z0-9-]+$`), template: "/articles/:slug"},
	{pattern: regexp.MustCompile(`^/sources/\d+$`), template: "/sources/:id"},
	{pattern: regexp.MustCompile(`^/categories/[a-z0-9-]+$`), template: "/categories/:slug"},
}

// NormalizePath collapses dynamic URL segments to templates so metric
// labels stay low-cardinality: /articles/big-news-a1b2c3 becomes
// /articles/:slug. Static paths are returned unchanged.
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		path = "/"
	}

	for _, p := range pathPatterns {
		if p.pattern.MatchString(path) {
			return p.template
		}
	}
	return path
}
