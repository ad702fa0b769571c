package product

import (
	"context"
	"fmt"

	"storefront/internal/domain"
	productrepo "storefront/internal/repository/product"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
	RelatedLimit    = 4
)

type Filter struct {
	Category string
	Sort     string
	Page     int
	PageSize int
}

type Page struct {
	Products   []domain.Product `json:"data"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
	Total      int              `json:"total"`
}

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

// List returns one page of the catalog. Page numbers start at one; an empty
// sort means featured order.
func (s *Service) List(ctx context.Context, f Filter) (*Page, error) {
	switch f.Sort {
	case "":
		f.Sort = productrepo.SortFeatured
	case productrepo.SortFeatured, productrepo.SortNewest, productrepo.SortPriceAsc, productrepo.SortPriceDesc:
	default:
		return nil, domain.Invalid("unknown sort %q", f.Sort)
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}

	products, total, err := s.repo.List(ctx, productrepo.ListFilter{
		Category: f.Category,
		Sort:     f.Sort,
		Limit:    f.PageSize,
		Offset:   (f.Page - 1) * f.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return &Page{
		Products:   products,
		Page:       f.Page,
		TotalPages: (total + f.PageSize - 1) / f.PageSize,
		Total:      total,
	}, nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	if slug == "" {
		return nil, domain.Invalid("slug is required")
	}
	return s.repo.GetBySlug(ctx, slug)
}

// Related returns up to RelatedLimit other products from the same category.
func (s *Service) Related(ctx context.Context, slug string) ([]domain.Product, error) {
	p, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.repo.Related(ctx, p.Category, p.ID, RelatedLimit)
}
