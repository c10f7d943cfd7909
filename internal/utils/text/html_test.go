package text_test

import (
	"testing"

	"ultra-news/internal/utils/text"
)

func TestStripTags(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text unchanged",
			input:    "hello world",
			expected: "hello world",
		},
		{
			name:     "tags removed",
			input:    "<p>hello <b>world</b></p>",
			expected: "hello world",
		},
		{
			name:     "whitespace collapsed",
			input:    "hello\n\n  world",
			expected: "hello world",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "only tags",
			input:    "<div><br/></div>",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := text.StripTags(tt.input); got != tt.expected {
				t.Errorf("StripTags(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestWrapParagraphs(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "single line",
			input:    "one paragraph",
			expected: "<p>one paragraph</p>",
		},
		{
			name:     "multiple lines",
			input:    "first\nsecond",
			expected: "<p>first</p><p>second</p>",
		},
		{
			name:     "blank lines dropped",
			input:    "first\n\n   \nsecond\n",
			expected: "<p>first</p><p>second</p>",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := text.WrapParagraphs(tt.input); got != tt.expected {
				t.Errorf("WrapParagraphs(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
