package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `json:"_id"`
	Name        string          `json:"productName"`
	Slug        string          `json:"slug"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
	Color       string          `json:"color,omitempty"`
	Status      string          `json:"status,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Inventory   int             `json:"inventory"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Category is derived from the products' category field; it has no table of its own.
type Category struct {
	Name         string `json:"name"`
	ProductCount int    `json:"productCount"`
	InStock      int    `json:"inStock"`
}
