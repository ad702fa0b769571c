// Package events publishes order lifecycle messages for downstream consumers
// such as the warehouse.
package events

import (
	"context"

	"github.com/shopspring/decimal"
	"storefront/internal/domain"
)

// OrderPlaced is the message body written to the orders queue.
type OrderPlaced struct {
	OrderID    string          `json:"orderId"`
	CustomerID string          `json:"customerId"`
	Total      decimal.Decimal `json:"total"`
	Items      []OrderLine     `json:"items"`
}

type OrderLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type Publisher interface {
	PublishOrderPlaced(ctx context.Context, o *domain.Order) error
	Close() error
}

// NewOrderPlaced flattens an order into its queue message.
func NewOrderPlaced(o *domain.Order) OrderPlaced {
	msg := OrderPlaced{
		OrderID:    o.OrderID,
		CustomerID: o.CustomerID,
		Total:      o.Total,
		Items:      make([]OrderLine, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		msg.Items = append(msg.Items, OrderLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return msg
}

// Noop discards events. Used when no broker is configured.
type Noop struct{}

func (Noop) PublishOrderPlaced(context.Context, *domain.Order) error { return nil }
func (Noop) Close() error                                          { return nil }
