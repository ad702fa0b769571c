package order

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	GetByID(ctx context.Context, orderID string) (*domain.Order, error)
	// HasPurchased reports whether any order placed by a customer with this
	// email (case-insensitive) contains a line for the named product.
	HasPurchased(ctx context.Context, email, productName string) (bool, error)
}
