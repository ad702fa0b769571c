package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"storefront/internal/domain"
	"storefront/internal/logger"
	reviewrepo "storefront/internal/repository/review"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Rating decodes from a JSON number or a numeric string; forms post it either way.
type Rating int

func (r *Rating) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*r = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("rating %s is not a number", string(b))
	}
	if f != math.Trunc(f) {
		return fmt.Errorf("rating %s is not a whole number", string(b))
	}
	*r = Rating(int(f))
	return nil
}

func (r Rating) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(r))
}

type SubmitInput struct {
	ProductName string `json:"productName"`
	Rating      Rating `json:"rating"`
	Comment     string `json:"comment"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}

type PurchaseChecker interface {
	HasPurchased(ctx context.Context, email, productName string) (bool, error)
}

type ProductFinder interface {
	GetByName(ctx context.Context, name string) (*domain.Product, error)
}

// Service gates review writes on a prior purchase. It holds no state between calls.
type Service struct {
	orders   PurchaseChecker
	products ProductFinder
	reviews  reviewrepo.Repository
	logger   *slog.Logger
}

func New(orders PurchaseChecker, products ProductFinder, reviews reviewrepo.Repository, log *slog.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{orders: orders, products: products, reviews: reviews, logger: log}
}

// CheckPurchase reports whether an order by a customer with this email contains the named product.
func (s *Service) CheckPurchase(ctx context.Context, productName, email string) (bool, error) {
	productName, email = strings.TrimSpace(productName), strings.TrimSpace(email)
	if productName == "" || email == "" {
		return false, domain.Invalid("Missing required fields")
	}
	ok, err := s.orders.HasPurchased(ctx, email, productName)
	if err != nil {
		return false, fmt.Errorf("check purchase: %w", err)
	}
	return ok, nil
}

func (s *Service) Submit(ctx context.Context, in SubmitInput) (*domain.Review, error) {
	in.ProductName = strings.TrimSpace(in.ProductName)
	in.Comment = strings.TrimSpace(in.Comment)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)

	if in.ProductName == "" || in.Rating == 0 || in.Comment == "" || in.Phone == "" || in.Email == "" {
		return nil, domain.Invalid("Missing required fields")
	}
	if in.Rating < MinRating || in.Rating > MaxRating {
		return nil, &domain.ValidationError{
			Message: "Invalid rating",
			Fields:  map[string]string{"rating": fmt.Sprintf("Rating must be between %d and %d", MinRating, MaxRating)},
		}
	}

	purchased, err := s.CheckPurchase(ctx, in.ProductName, in.Email)
	if err != nil {
		return nil, err
	}
	if !purchased {
		s.logger.Info("review: rejected, no purchase", "product", in.ProductName)
		return nil, domain.ErrNotPurchased
	}

	p, err := s.products.GetByName(ctx, in.ProductName)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("product %q: %w", in.ProductName, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}

	created, err := s.reviews.Create(ctx, domain.Review{
		ID:        uuid.NewString(),
		ProductID: p.ID,
		Rating:    int(in.Rating),
		Comment:   in.Comment,
		Phone:     in.Phone,
		Email:     in.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return created, nil
}

// List returns the reviews of a product, highest rating first.
func (s *Service) List(ctx context.Context, productName string) ([]domain.Review, error) {
	productName = strings.TrimSpace(productName)
	if productName == "" {
		return nil, domain.Invalid("productName is required")
	}
	return s.reviews.ListByProductName(ctx, productName)
}
