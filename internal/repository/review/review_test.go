package review

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"storefront/internal/dbtest"
	"storefront/internal/domain"
	"storefront/internal/repository/product"
)

func TestPostgres_CreateAndList(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)

	if _, err := product.NewPostgres(pool, nil).Upsert(ctx, domain.Product{ID: "p1", Name: "Nike Dunk", Slug: "dunk", Price: decimal.NewFromInt(90)}); err != nil {
		t.Fatalf("seed product: %v", err)
	}

	repo := NewPostgres(pool, nil)
	for _, rv := range []domain.Review{
		{ID: "r1", ProductID: "p1", Rating: 3, Comment: "ok"},
		{ID: "r2", ProductID: "p1", Rating: 5, Comment: "great"},
	} {
		if _, err := repo.Create(ctx, rv); err != nil {
			t.Fatalf("Create %s: %v", rv.ID, err)
		}
	}

	list, err := repo.ListByProductName(ctx, "Nike Dunk")
	if err != nil {
		t.Fatalf("ListByProductName: %v", err)
	}
	if len(list) != 2 || list[0].ID != "r2" || list[1].ID != "r1" {
		t.Fatalf("unexpected order %+v", list)
	}

	empty, err := repo.ListByProductName(ctx, "Unknown")
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty list, got %+v %v", empty, err)
	}
}
