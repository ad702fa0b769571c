package customer

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	// FindByEmail matches case-insensitively.
	FindByEmail(ctx context.Context, email string) ([]domain.Customer, error)
}
