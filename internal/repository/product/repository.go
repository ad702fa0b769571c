package product

import (
	"context"

	"storefront/internal/domain"
)

// Sort orders accepted by List.
const (
	SortFeatured  = "featured"
	SortNewest    = "newest"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
)

type ListFilter struct {
	Category string
	Sort     string
	Limit    int
	Offset   int
}

type Repository interface {
	// List returns one page of products and the total number matching the filter.
	List(ctx context.Context, f ListFilter) ([]domain.Product, int, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	GetByName(ctx context.Context, name string) (*domain.Product, error)
	Related(ctx context.Context, category, excludeID string, limit int) ([]domain.Product, error)
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}
