package category_test

import (
	"context"
	"errors"
	"testing"

	"ultra-news/internal/domain/entity"
	catUC "ultra-news/internal/usecase/category"
)

type stubRepo struct {
	categories []*entity.Category
	err        error
}

func (s *stubRepo) List(_ context.Context) ([]*entity.Category, error) {
	return s.categories, s.err
}

func (s *stubRepo) GetBySlug(_ context.Context, slug string) (*entity.Category, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, c := range s.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, nil
}

func TestList(t *testing.T) {
	repo := &stubRepo{categories: []*entity.Category{
		{ID: 1, Name: "Business", Slug: "business"},
		{ID: 2, Name: "Tech", Slug: "tech"},
	}}
	svc := &catUC.Service{Repo: repo}

	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestGetBySlug(t *testing.T) {
	repo := &stubRepo{categories: []*entity.Category{
		{ID: 2, Name: "Tech", Slug: "tech"},
	}}
	svc := &catUC.Service{Repo: repo}

	got, err := svc.GetBySlug(context.Background(), "tech")
	if err != nil {
		t.Fatalf("GetBySlug() error = %v", err)
	}
	if got.Name != "Tech" {
		t.Errorf("Name = %q, want %q", got.Name, "Tech")
	}
}

func TestGetBySlug_NotFound(t *testing.T) {
	svc := &catUC.Service{Repo: &stubRepo{}}
	for _, slug := range []string{"", "missing"} {
		if _, err := svc.GetBySlug(context.Background(), slug); !errors.Is(err, catUC.ErrCategoryNotFound) {
			t.Errorf("GetBySlug(%q) error = %v, want ErrCategoryNotFound", slug, err)
		}
	}
}
