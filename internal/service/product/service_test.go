package product

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
	productrepo "storefront/internal/repository/product"
)

type stubRepo struct {
	lastFilter productrepo.ListFilter
	total      int
	bySlug     map[string]*domain.Product
	related    []domain.Product
	relatedArg [2]string
	relatedMax int
}

func (s *stubRepo) List(_ context.Context, f productrepo.ListFilter) ([]domain.Product, int, error) {
	s.lastFilter = f
	return []domain.Product{{ID: "p1"}}, s.total, nil
}
func (s *stubRepo) GetByID(context.Context, string) (*domain.Product, error) {
	return nil, domain.ErrNotFound
}
func (s *stubRepo) GetBySlug(_ context.Context, slug string) (*domain.Product, error) {
	if p, ok := s.bySlug[slug]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}
func (s *stubRepo) GetByName(context.Context, string) (*domain.Product, error) {
	return nil, domain.ErrNotFound
}
func (s *stubRepo) Related(_ context.Context, category, excludeID string, limit int) ([]domain.Product, error) {
	s.relatedArg = [2]string{category, excludeID}
	s.relatedMax = limit
	return s.related, nil
}
func (s *stubRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	return &p, nil
}

func TestList_DefaultsAndPaging(t *testing.T) {
	repo := &stubRepo{total: 25}
	svc := New(repo)

	page, err := svc.List(context.Background(), Filter{Page: 3})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if repo.lastFilter.Sort != productrepo.SortFeatured || repo.lastFilter.Limit != DefaultPageSize || repo.lastFilter.Offset != 24 {
		t.Fatalf("unexpected repo filter %+v", repo.lastFilter)
	}
	if page.TotalPages != 3 || page.Page != 3 || page.Total != 25 {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestList_ClampsPageAndSize(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)

	page, err := svc.List(context.Background(), Filter{Page: -2, PageSize: 1000, Category: "Men's Shoes", Sort: productrepo.SortPriceDesc})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Page != 1 || repo.lastFilter.Offset != 0 || repo.lastFilter.Limit != MaxPageSize {
		t.Fatalf("unexpected paging page=%+v filter=%+v", page, repo.lastFilter)
	}
	if repo.lastFilter.Category != "Men's Shoes" {
		t.Fatalf("category not passed through")
	}
	if page.TotalPages != 0 {
		t.Fatalf("expected zero pages for empty catalog, got %d", page.TotalPages)
	}
}

func TestList_RejectsUnknownSort(t *testing.T) {
	_, err := New(&stubRepo{}).List(context.Background(), Filter{Sort: "cheapest"})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRelated_UsesCategoryAndExcludesSelf(t *testing.T) {
	repo := &stubRepo{
		bySlug:  map[string]*domain.Product{"air-max": {ID: "p1", Category: "Men's Shoes"}},
		related: []domain.Product{{ID: "p2"}},
	}
	got, err := New(repo).Related(context.Background(), "air-max")
	if err != nil {
		t.Fatalf("Related: %v", err)
	}
	if len(got) != 1 || repo.relatedArg != [2]string{"Men's Shoes", "p1"} || repo.relatedMax != RelatedLimit {
		t.Fatalf("unexpected related call %v limit=%d -> %+v", repo.relatedArg, repo.relatedMax, got)
	}
}

func TestRelated_UnknownSlug(t *testing.T) {
	_, err := New(&stubRepo{}).Related(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
