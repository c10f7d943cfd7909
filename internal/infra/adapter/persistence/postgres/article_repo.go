package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"ultra-news/internal/domain/entity"
	"ultra-news/internal/repository"
)

// searchVector is the indexed expression used for full-text search.
// It must match the expression of idx_articles_fts exactly.
const searchVector = `to_tsvector('english', a.title || ' ' || a.content)`

// minSearchRank discards matches whose ts_rank falls below this value.
// plainto_tsquery matches are already conjunctive, so the threshold only
// needs to cut off marginal single-occurrence hits in long documents.
const minSearchRank = 0.01

const articleColumns = `a.id, a.source_id, a.title, a.slug, a.url, a.content, a.image_url, a.published_at, a.created_at`

const uniqueViolation = "23505"

type ArticleRepo struct {
	db *sql.DB
}

func NewArticleRepo(db *sql.DB) repository.ArticleRepository {
	return &ArticleRepo{db: db}
}

// buildFilterClauses returns WHERE conditions and args for the given
// filter. nextArg is the index of the first placeholder to use.
func buildFilterClauses(filter repository.ArticleListFilter, nextArg int) (conds []string, args []any, rankExpr string) {
	if filter.Query != "" {
		tsquery := fmt.Sprintf("plainto_tsquery('english', $%d)", nextArg)
		rankExpr = fmt.Sprintf("ts_rank(%s, %s)", searchVector, tsquery)
		conds = append(conds,
			fmt.Sprintf("%s @@ %s", searchVector, tsquery),
			fmt.Sprintf("%s >= $%d", rankExpr, nextArg+1),
		)
		args = append(args, filter.Query, minSearchRank)
		nextArg += 2
	}
	if filter.CategorySlug != "" {
		conds = append(conds, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM article_categories ac
    INNER JOIN categories c ON c.id = ac.category_id
    WHERE ac.article_id = a.id AND c.slug = $%d)`, nextArg))
		args = append(args, filter.CategorySlug)
	}
	return conds, args, rankExpr
}

func whereSQL(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	out := "WHERE " + conds[0]
	for _, c := range conds[1:] {
		out += "\n  AND " + c
	}
	return out
}

func (repo *ArticleRepo) ListPaginated(ctx context.Context, filter repository.ArticleListFilter, offset, limit int) ([]repository.ArticleWithSource, error) {
	conds, args, rankExpr := buildFilterClauses(filter, 1)

	orderBy := "a.published_at DESC"
	if rankExpr != "" {
		orderBy = rankExpr + " DESC, a.published_at DESC"
	}

	limitArg := len(args) + 1
	args = append(args, limit, offset)

	query := fmt.Sprintf(`
SELECT %s, s.name AS source_name
FROM articles a
INNER JOIN sources s ON a.source_id = s.id
%s
ORDER BY %s
LIMIT $%d OFFSET $%d`, articleColumns, whereSQL(conds), orderBy, limitArg, limitArg+1)

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListPaginated: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]repository.ArticleWithSource, 0, limit)
	for rows.Next() {
		item, err := scanArticleWithSource(rows)
		if err != nil {
			return nil, fmt.Errorf("ListPaginated: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListPaginated: %w", err)
	}

	if err := repo.attachCategories(ctx, result); err != nil {
		return nil, fmt.Errorf("ListPaginated: %w", err)
	}
	return result, nil
}

func (repo *ArticleRepo) Count(ctx context.Context, filter repository.ArticleListFilter) (int64, error) {
	conds, args, _ := buildFilterClauses(filter, 1)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM articles a %s`, whereSQL(conds))

	var count int64
	if err := repo.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}

func (repo *ArticleRepo) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("CountAll: %w", err)
	}
	return count, nil
}

func (repo *ArticleRepo) GetBySlug(ctx context.Context, slug string) (*repository.ArticleWithSource, error) {
	query := fmt.Sprintf(`
SELECT %s, s.name AS source_name
FROM articles a
INNER JOIN sources s ON a.source_id = s.id
WHERE a.slug = $1
LIMIT 1`, articleColumns)

	row := repo.db.QueryRowContext(ctx, query, slug)
	item, err := scanArticleWithSource(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetBySlug: %w", err)
	}

	page := []repository.ArticleWithSource{item}
	if err := repo.attachCategories(ctx, page); err != nil {
		return nil, fmt.Errorf("GetBySlug: %w", err)
	}
	return &page[0], nil
}

func (repo *ArticleRepo) ExistsByURLBatch(ctx context.Context, urls []string) (map[string]bool, error) {
	result := make(map[string]bool, len(urls))
	if len(urls) == 0 {
		return result, nil
	}
	for _, u := range urls {
		result[u] = false
	}

	const query = `SELECT url FROM articles WHERE url = ANY($1)`
	rows, err := repo.db.QueryContext(ctx, query, pq.Array(urls))
	if err != nil {
		return nil, fmt.Errorf("ExistsByURLBatch: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("ExistsByURLBatch: Scan: %w", err)
		}
		result[url] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ExistsByURLBatch: %w", err)
	}
	return result, nil
}

func (repo *ArticleRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM articles WHERE slug = $1)`
	var exists bool
	if err := repo.db.QueryRowContext(ctx, query, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("SlugExists: %w", err)
	}
	return exists, nil
}

func (repo *ArticleRepo) CreateWithCategories(ctx context.Context, article *entity.Article, categoryIDs []int64) error {
	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("CreateWithCategories: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const insertArticle = `
INSERT INTO articles (source_id, title, slug, url, content, image_url, published_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, created_at`

	var imageURL sql.NullString
	if article.ImageURL != "" {
		imageURL = sql.NullString{String: article.ImageURL, Valid: true}
	}

	err = tx.QueryRowContext(ctx, insertArticle,
		article.SourceID, article.Title, article.Slug, article.URL,
		article.Content, imageURL, article.PublishedAt,
	).Scan(&article.ID, &article.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("CreateWithCategories: %w", entity.ErrDuplicate)
		}
		return fmt.Errorf("CreateWithCategories: %w", err)
	}

	const insertLink = `
INSERT INTO article_categories (article_id, category_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING`
	for _, categoryID := range categoryIDs {
		if _, err := tx.ExecContext(ctx, insertLink, article.ID, categoryID); err != nil {
			return fmt.Errorf("CreateWithCategories: link: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("CreateWithCategories: %w", err)
	}
	return nil
}

// attachCategories fills in the Categories field for a page of articles
// with one query instead of one per article.
func (repo *ArticleRepo) attachCategories(ctx context.Context, page []repository.ArticleWithSource) error {
	if len(page) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(page))
	byID := make(map[int64]*entity.Article, len(page))
	for i := range page {
		ids = append(ids, page[i].Article.ID)
		byID[page[i].Article.ID] = page[i].Article
	}

	const query = `
SELECT ac.article_id, c.id, c.name, c.slug
FROM article_categories ac
INNER JOIN categories c ON c.id = ac.category_id
WHERE ac.article_id = ANY($1)
ORDER BY c.name`
	rows, err := repo.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("attachCategories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var articleID int64
		var cat entity.Category
		if err := rows.Scan(&articleID, &cat.ID, &cat.Name, &cat.Slug); err != nil {
			return fmt.Errorf("attachCategories: Scan: %w", err)
		}
		if article, ok := byID[articleID]; ok {
			article.Categories = append(article.Categories, cat)
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticleWithSource(row rowScanner) (repository.ArticleWithSource, error) {
	var article entity.Article
	var imageURL sql.NullString
	var sourceName string
	err := row.Scan(&article.ID, &article.SourceID, &article.Title, &article.Slug,
		&article.URL, &article.Content, &imageURL, &article.PublishedAt,
		&article.CreatedAt, &sourceName)
	if err != nil {
		return repository.ArticleWithSource{}, err
	}
	article.ImageURL = imageURL.String
	return repository.ArticleWithSource{Article: &article, SourceName: sourceName}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
