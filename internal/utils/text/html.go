// Package text provides utilities for text processing used by the ingestion
// pipeline: HTML tag stripping for length comparison and paragraph wrapping
// for extracted article bodies.
package text

import (
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripTags removes HTML tags from s and collapses runs of whitespace.
// It is a length/comparison helper, not a sanitizer: the output is used to
// decide whether extracted text is richer than a feed summary, never
// rendered back to users as-is.
func StripTags(s string) string {
	plain := tagPattern.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(plain), " ")
}

// WrapParagraphs converts plain extracted text into simple HTML, one <p>
// element per non-blank line. Blank lines are dropped. Returns the empty
// string when the input contains no text.
func WrapParagraphs(s string) string {
	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(line)
		b.WriteString("</p>")
	}
	return b.String()
}
