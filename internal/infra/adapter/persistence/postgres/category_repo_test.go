package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	repo := NewCategoryRepo(db)

	mock.ExpectQuery(`SELECT id, name, slug`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}).
			AddRow(int64(1), "Art", "art").
			AddRow(int64(2), "Business", "business").
			AddRow(int64(3), "Tech", "tech"))

	categories, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, "art", categories[0].Slug)
	assert.Equal(t, "Tech", categories[2].Name)
}

func TestCategoryGetBySlug(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	repo := NewCategoryRepo(db)

	mock.ExpectQuery(`WHERE slug = \$1`).
		WithArgs("tech").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}).
			AddRow(int64(3), "Tech", "tech"))

	category, err := repo.GetBySlug(context.Background(), "tech")
	require.NoError(t, err)
	require.NotNil(t, category)
	assert.Equal(t, int64(3), category.ID)
}

func TestCategoryGetBySlug_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	repo := NewCategoryRepo(db)

	mock.ExpectQuery(`WHERE slug = \$1`).
		WithArgs("unknown").
		WillReturnError(sql.ErrNoRows)

	category, err := repo.GetBySlug(context.Background(), "unknown")
	assert.NoError(t, err)
	assert.Nil(t, category)
}
