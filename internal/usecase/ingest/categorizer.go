package ingest

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// defaultCategoryKeywords maps category slugs to the keyword lists used
// for auto-categorization. A category applies as soon as any one of its
// keywords appears as a substring of the lowercased title+content.
var defaultCategoryKeywords = map[string][]string{
	"tech": {
		"tech", "software", "hardware", "ai", "artificial intelligence",
		"computer", "startup", "google", "apple", "microsoft", "amazon",
		"meta", "coding", "programming", "developer", "app", "robot",
		"machine learning", "data", "cyber", "internet", "digital",
		"gadget", "smartphone", "iphone", "android",
	},
	"politics": {
		"politics", "government", "election", "congress", "senate",
		"president", "democrat", "republican", "vote", "policy",
		"legislation", "white house", "parliament", "minister", "law",
		"bill", "campaign",
	},
	"business": {
		"business", "economy", "market", "stock", "finance", "investment",
		"bank", "startup", "ceo", "company", "earnings", "revenue",
		"profit", "merger", "acquisition", "ipo", "wall street", "trade",
		"entrepreneur",
	},
	"entertainment": {
		"entertainment", "movie", "film", "music", "celebrity", "actor",
		"singer", "hollywood", "streaming", "netflix", "disney",
		"concert", "album", "tv show", "series", "award", "grammy",
		"oscar", "emmys",
	},
	"science": {
		"science", "research", "study", "scientist", "discovery", "space",
		"nasa", "climate", "environment", "biology", "physics",
		"chemistry", "medical", "health", "vaccine", "experiment",
		"journal",
	},
	"art": {
		"art", "artist", "museum", "gallery", "painting", "sculpture",
		"exhibition", "design", "creative", "culture", "photography",
		"architecture",
	},
}

// Categorizer assigns category slugs to articles by keyword matching.
// It is a pure function of the text: the same title and content always
// produce the same result.
type Categorizer struct {
	keywords map[string][]string
}

// NewCategorizer returns a categorizer with the built-in keyword table.
func NewCategorizer() *Categorizer {
	return &Categorizer{keywords: defaultCategoryKeywords}
}

// NewCategorizerFromFile loads a YAML keyword table of the form
//
//	tech:
//	  - software
//	  - hardware
//
// replacing the built-in table entirely.
func NewCategorizerFromFile(path string) (*Categorizer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("NewCategorizerFromFile: %w", err)
	}
	keywords := make(map[string][]string)
	if err := yaml.Unmarshal(raw, &keywords); err != nil {
		return nil, fmt.Errorf("NewCategorizerFromFile: %w", err)
	}
	if len(keywords) == 0 {
		return nil, fmt.Errorf("NewCategorizerFromFile: %s defines no categories", path)
	}
	return &Categorizer{keywords: keywords}, nil
}

// Categorize returns the sorted slugs of every category with at least
// one keyword appearing in the lowercased "title content" text. The
// empty slice means the article stays uncategorized.
func (c *Categorizer) Categorize(title, content string) []string {
	text := strings.ToLower(title + " " + content)

	matched := make([]string, 0, 2)
	for slug, words := range c.keywords {
		for _, word := range words {
			if strings.Contains(text, word) {
				matched = append(matched, slug)
				break
			}
		}
	}
	sort.Strings(matched)
	return matched
}
