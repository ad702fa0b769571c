package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"storefront/internal/docstore"
	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/logger"
)

const publishTimeout = 5 * time.Second

// CustomerData is the customer part of an order submission.
type CustomerData struct {
	Name    string         `json:"name"`
	Email   string         `json:"email"`
	Phone   string         `json:"phone"`
	PAN     string         `json:"pan"`
	Address domain.Address `json:"address"`
}

type ItemInput struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
	Image     string          `json:"image"`
}

// OrderData is the cart snapshot part of an order submission. Total is
// optional; when non-zero it must equal the recomputed total.
type OrderData struct {
	Items []ItemInput     `json:"items"`
	Total decimal.Decimal `json:"total"`
}

type ProductLookup interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type Service struct {
	products      ProductLookup
	committer     docstore.Committer
	publisher     events.Publisher
	logger        *slog.Logger
	maxConcurrent int
}

func New(products ProductLookup, committer docstore.Committer, publisher events.Publisher, log *slog.Logger, maxConcurrent int) *Service {
	if log == nil {
		log = logger.Discard()
	}
	if publisher == nil {
		publisher = events.Noop{}
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}
	return &Service{
		products:      products,
		committer:     committer,
		publisher:     publisher,
		logger:        log,
		maxConcurrent: maxConcurrent,
	}
}

// CustomerID derives the idempotency key of a customer from the trimmed,
// lower-cased email: "customer-" followed by a name-based (v5) UUID.
func CustomerID(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	return "customer-" + uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+normalized)).String()
}

// Submit places an order: the customer upsert, the order and one inventory
// decrement per line are committed in a single transaction. Precondition
// failures are validation errors and happen before anything is queued.
func (s *Service) Submit(ctx context.Context, cd *CustomerData, od *OrderData) (*domain.Order, error) {
	if err := checkPreconditions(cd, od); err != nil {
		return nil, err
	}

	products, err := s.resolveProducts(ctx, od.Items)
	if err != nil {
		return nil, err
	}

	orderID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate order id: %w", err)
	}

	cust := domain.Customer{
		ID:      CustomerID(cd.Email),
		Name:    strings.TrimSpace(cd.Name),
		Email:   strings.ToLower(strings.TrimSpace(cd.Email)),
		Phone:   strings.TrimSpace(cd.Phone),
		TaxID:   strings.TrimSpace(cd.PAN),
		Address: cd.Address,
	}

	o := domain.Order{
		OrderID:    "ORDER-" + orderID.String(),
		CustomerID: cust.ID,
		Status:     domain.OrderStatusProcessing,
		Items:      make([]domain.OrderItem, 0, len(od.Items)),
		Total:      decimal.Zero,
	}
	for i, in := range od.Items {
		p := products[i]
		name := in.Name
		if name == "" {
			name = p.Name
		}
		image := in.Image
		if image == "" {
			image = p.ImageURL
		}
		item := domain.OrderItem{
			Key:       uuid.NewString(),
			ProductID: p.ID,
			Name:      name,
			Quantity:  in.Quantity,
			UnitPrice: p.Price,
			Size:      in.Size,
			Color:     in.Color,
			Image:     image,
		}
		o.Items = append(o.Items, item)
		o.Total = o.Total.Add(item.LineTotal())
	}
	if !od.Total.IsZero() && !od.Total.Equal(o.Total) {
		return nil, domain.Invalid("order total %s does not match item total %s", od.Total.StringFixed(2), o.Total.StringFixed(2))
	}

	tx := buildTransaction(cust, o)
	res, err := s.committer.Commit(ctx, tx)
	if err != nil {
		s.logger.Error("order: commit failed", "order_id", o.OrderID, "customer_id", cust.ID, "error", err)
		return nil, fmt.Errorf("place order: %w", err)
	}

	placed := res.Order
	if placed == nil {
		placed = &o
	}
	s.logger.Info("order: placed",
		"order_id", placed.OrderID,
		"customer_id", placed.CustomerID,
		"customer_created", res.CustomerCreated,
		"items", len(placed.Items),
		"total", placed.Total.StringFixed(2),
	)
	s.publish(ctx, placed)
	return placed, nil
}

func buildTransaction(c domain.Customer, o domain.Order) *docstore.Transaction {
	tx := docstore.NewTransaction().
		CreateCustomerIfNotExists(c).
		CreateOrder(o)
	for _, it := range o.Items {
		tx.DecrementInventory(it.ProductID, it.Quantity)
	}
	return tx
}

func checkPreconditions(cd *CustomerData, od *OrderData) error {
	if cd == nil || od == nil {
		return domain.Invalid("Missing customer data or order data")
	}
	if strings.TrimSpace(cd.Email) == "" {
		return &domain.ValidationError{Message: "Missing customer email", Fields: map[string]string{"email": "Email is required"}}
	}
	if len(od.Items) == 0 {
		return domain.Invalid("Order has no items")
	}
	for i, it := range od.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			return domain.Invalid("Missing productId for item %d", i)
		}
		if it.Quantity < 1 {
			return domain.Invalid("Invalid quantity %d for product %s", it.Quantity, it.ProductID)
		}
	}
	return nil
}

// resolveProducts loads every referenced product with bounded concurrency.
// An unknown product id is a validation error.
func (s *Service) resolveProducts(ctx context.Context, items []ItemInput) ([]*domain.Product, error) {
	out := make([]*domain.Product, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx := range items {
		idx := idx
		g.Go(func() error {
			id := strings.TrimSpace(items[idx].ProductID)
			p, err := s.products.GetByID(gctx, id)
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Invalid("Product %s does not exist", id)
			}
			if err != nil {
				return fmt.Errorf("get product %s: %w", id, err)
			}
			out[idx] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) publish(ctx context.Context, o *domain.Order) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.PublishOrderPlaced(ctx, o); err != nil {
		s.logger.Warn("order: publish event failed", "order_id", o.OrderID, "error", err)
	}
}
