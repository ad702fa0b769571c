package seed

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"storefront/internal/domain"
	"storefront/internal/importer"
)

type productSeed struct {
	ID          string
	Name        string
	Category    string
	Description string
	Color       string
	Status      string
	Price       string
	Inventory   int
	Tags        []string
}

var products = []productSeed{
	{
		ID:          "demo-air-max-90",
		Name:        "Nike Air Max 90",
		Category:    "Men's Shoes",
		Description: "Waffle outsole and visible Air cushioning.",
		Color:       "White/Black",
		Status:      "Just In",
		Price:       "129.99",
		Inventory:   25,
		Tags:        []string{"running", "classic"},
	},
	{
		ID:          "demo-dunk-low",
		Name:        "Nike Dunk Low",
		Category:    "Women's Shoes",
		Description: "Basketball icon, now a street staple.",
		Color:       "Panda",
		Status:      "Bestseller",
		Price:       "110",
		Inventory:   10,
		Tags:        []string{"lifestyle"},
	},
	{
		ID:          "demo-pegasus-41",
		Name:        "Nike Pegasus 41",
		Category:    "Men's Shoes",
		Description: "Responsive road running shoe.",
		Color:       "Blue",
		Price:       "140",
		Inventory:   3,
		Tags:        []string{"running"},
	},
	{
		ID:          "demo-court-vision",
		Name:        "Nike Court Vision Low",
		Category:    "Women's Shoes",
		Description: "Court style with a low-cut collar.",
		Color:       "White",
		Price:       "75",
		Inventory:   0,
		Tags:        []string{"lifestyle", "court"},
	},
}

// Apply upserts the demo catalog for manual testing. Running it twice leaves the same rows.
func Apply(ctx context.Context, repo importer.ProductWriter) (int, error) {
	for _, s := range products {
		p := domain.Product{
			ID:          s.ID,
			Name:        s.Name,
			Slug:        importer.Slugify(s.Name),
			Price:       decimal.RequireFromString(s.Price),
			Category:    s.Category,
			Description: s.Description,
			Color:       s.Color,
			Status:      s.Status,
			Inventory:   s.Inventory,
			Tags:        s.Tags,
			ImageURL:    "https://images.example.com/" + s.ID + ".png",
		}
		if _, err := repo.Upsert(ctx, p); err != nil {
			return 0, fmt.Errorf("upsert product %s: %w", s.ID, err)
		}
	}
	return len(products), nil
}
