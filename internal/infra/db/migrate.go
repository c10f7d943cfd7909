package db

import (
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed seeds/sources.sql
var seedSourcesSQL string

//go:embed seeds/categories.sql
var seedCategoriesSQL string

// MigrateUp creates the schema and indexes. All statements are
// idempotent so the migration can run on every startup.
func MigrateUp(db *sql.DB) error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS sources (
    id         SERIAL PRIMARY KEY,
    name       TEXT NOT NULL,
    url        TEXT NOT NULL UNIQUE,
    kind       VARCHAR(20) NOT NULL DEFAULT 'rss',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		`CREATE TABLE IF NOT EXISTS categories (
    id   SERIAL PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    slug VARCHAR(100) NOT NULL UNIQUE
)`,
		`CREATE TABLE IF NOT EXISTS articles (
    id           SERIAL PRIMARY KEY,
    source_id    INTEGER NOT NULL REFERENCES sources(id) ON DELETE CASCADE,
    title        VARCHAR(500) NOT NULL,
    slug         TEXT NOT NULL UNIQUE,
    url          TEXT NOT NULL UNIQUE,
    content      TEXT NOT NULL DEFAULT '',
    image_url    TEXT,
    published_at TIMESTAMPTZ NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		`CREATE TABLE IF NOT EXISTS article_categories (
    article_id  INTEGER NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
    category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
    PRIMARY KEY (article_id, category_id)
)`,
		`CREATE TABLE IF NOT EXISTS ingest_lock (
    id        INTEGER PRIMARY KEY CHECK (id = 1),
    locked    BOOLEAN NOT NULL DEFAULT FALSE,
    locked_by TEXT,
    locked_at TIMESTAMPTZ
)`,
	}
	for _, stmt := range tables {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("MigrateUp: %w", err)
		}
	}

	// The lock row must exist before Acquire can UPDATE it.
	if _, err := db.Exec(
		`INSERT INTO ingest_lock (id, locked) VALUES (1, FALSE) ON CONFLICT (id) DO NOTHING`); err != nil {
		return fmt.Errorf("MigrateUp: %w", err)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_articles_published_at ON articles(published_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_source_id ON articles(source_id)`,
		`CREATE INDEX IF NOT EXISTS idx_article_categories_category_id ON article_categories(category_id)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return fmt.Errorf("MigrateUp: %w", err)
		}
	}

	// Full-text search index over title and content. The expression must
	// match the one used by the search query exactly.
	if _, err := db.Exec(`
CREATE INDEX IF NOT EXISTS idx_articles_fts ON articles
    USING gin(to_tsvector('english', title || ' ' || content))`); err != nil {
		return fmt.Errorf("MigrateUp: %w", err)
	}

	// Trigram index for slug prefix lookups. Ignored when the pg_trgm
	// extension is unavailable (requires superuser to create).
	_, _ = db.Exec(`CREATE EXTENSION IF NOT EXISTS pg_trgm`)
	_, _ = db.Exec(`CREATE INDEX IF NOT EXISTS idx_articles_title_gin ON articles USING gin(title gin_trgm_ops)`)

	return nil
}

// Seed inserts the default sources and categories. Existing rows are
// left untouched, so seeding is safe to repeat.
func Seed(db *sql.DB) error {
	if _, err := db.Exec(seedSourcesSQL); err != nil {
		return fmt.Errorf("Seed: sources: %w", err)
	}
	if _, err := db.Exec(seedCategoriesSQL); err != nil {
		return fmt.Errorf("Seed: categories: %w", err)
	}
	return nil
}

// MigrateDown drops all tables in reverse dependency order.
// This deletes all data; it exists for test and local reset use.
func MigrateDown(db *sql.DB) error {
	drops := []string{
		`DROP TABLE IF EXISTS article_categories`,
		`DROP TABLE IF EXISTS articles`,
		`DROP TABLE IF EXISTS categories`,
		`DROP TABLE IF EXISTS sources`,
		`DROP TABLE IF EXISTS ingest_lock`,
	}
	for _, stmt := range drops {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("MigrateDown: %w", err)
		}
	}
	return nil
}
