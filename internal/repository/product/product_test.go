package product

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"storefront/internal/dbtest"
	"storefront/internal/domain"
)

func seedProducts(ctx context.Context, t *testing.T, repo Repository) {
	t.Helper()
	for _, p := range []domain.Product{
		{ID: "p1", Name: "Nike Air Max", Slug: "nike-air-max", Price: decimal.RequireFromString("120.00"), Category: "Men's Shoes", Inventory: 5, Tags: []string{"running"}},
		{ID: "p2", Name: "Nike Dunk", Slug: "nike-dunk", Price: decimal.RequireFromString("90.00"), Category: "Men's Shoes", Inventory: 1},
		{ID: "p3", Name: "Nike Court", Slug: "nike-court", Price: decimal.RequireFromString("150.00"), Category: "Women's Shoes", Inventory: 0},
	} {
		if _, err := repo.Upsert(ctx, p); err != nil {
			t.Fatalf("Upsert %s: %v", p.ID, err)
		}
	}
}

func TestPostgres_ListFilterSortPage(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)
	repo := NewPostgres(pool, nil)
	seedProducts(ctx, t, repo)

	all, total, err := repo.List(ctx, ListFilter{Sort: SortPriceAsc})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || len(all) != 3 || all[0].ID != "p2" || all[2].ID != "p3" {
		t.Fatalf("unexpected list total=%d %+v", total, all)
	}

	men, total, err := repo.List(ctx, ListFilter{Category: "Men's Shoes", Sort: SortPriceDesc, Limit: 1})
	if err != nil {
		t.Fatalf("List category: %v", err)
	}
	if total != 2 || len(men) != 1 || men[0].ID != "p1" {
		t.Fatalf("unexpected page total=%d %+v", total, men)
	}
	if len(men[0].Tags) != 1 || men[0].Tags[0] != "running" {
		t.Fatalf("tags not round tripped: %+v", men[0].Tags)
	}
}

func TestPostgres_Lookups(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)
	repo := NewPostgres(pool, nil)
	seedProducts(ctx, t, repo)

	bySlug, err := repo.GetBySlug(ctx, "nike-dunk")
	if err != nil || bySlug.ID != "p2" {
		t.Fatalf("GetBySlug: %+v %v", bySlug, err)
	}
	byName, err := repo.GetByName(ctx, "Nike Court")
	if err != nil || byName.ID != "p3" {
		t.Fatalf("GetByName: %+v %v", byName, err)
	}
	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	related, err := repo.Related(ctx, "Men's Shoes", "p1", 4)
	if err != nil {
		t.Fatalf("Related: %v", err)
	}
	if len(related) != 1 || related[0].ID != "p2" {
		t.Fatalf("unexpected related %+v", related)
	}
}

func TestPostgres_UpsertDuplicateSlug(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)
	repo := NewPostgres(pool, nil)
	seedProducts(ctx, t, repo)

	_, err := repo.Upsert(ctx, domain.Product{ID: "p9", Name: "Copy", Slug: "nike-dunk", Price: decimal.NewFromInt(1)})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestDecrementInventory(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)
	seedProducts(ctx, t, NewPostgres(pool, nil))

	left, err := DecrementInventory(ctx, pool, "p1", 2)
	if err != nil || left != 3 {
		t.Fatalf("DecrementInventory: left=%d err=%v", left, err)
	}

	_, err = DecrementInventory(ctx, pool, "p2", 2)
	var stock *domain.InsufficientStockError
	if !errors.As(err, &stock) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stock.Available != 1 || stock.ProductName != "Nike Dunk" {
		t.Fatalf("unexpected stock error %+v", stock)
	}
	assertInventory(ctx, t, pool, "p2", 1)

	if _, err := DecrementInventory(ctx, pool, "nope", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func assertInventory(ctx context.Context, t *testing.T, pool *pgxpool.Pool, id string, want int) {
	t.Helper()
	var got int
	if err := pool.QueryRow(ctx, `SELECT inventory FROM products WHERE id = $1`, id).Scan(&got); err != nil {
		t.Fatalf("read inventory: %v", err)
	}
	if got != want {
		t.Fatalf("inventory %s = %d, want %d", id, got, want)
	}
}
