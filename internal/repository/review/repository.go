package review

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, r domain.Review) (*domain.Review, error)
	// ListByProductName returns reviews for the named product, highest rating first.
	ListByProductName(ctx context.Context, productName string) ([]domain.Review, error)
}
