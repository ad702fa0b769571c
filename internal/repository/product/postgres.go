package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/db"
	"storefront/internal/domain"
	"storefront/internal/logger"
)

const columns = `id, product_name, slug, price, category, description, color, status, tags, inventory, image_url, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPostgres(pool *pgxpool.Pool, log *slog.Logger) Repository {
	if log == nil {
		log = logger.Discard()
	}
	return &postgresRepo{pool: pool, logger: log}
}

func orderBy(sort string) string {
	switch sort {
	case SortNewest:
		return "created_at DESC, id"
	case SortPriceAsc:
		return "price ASC, id"
	case SortPriceDesc:
		return "price DESC, id"
	default:
		return "created_at ASC, id"
	}
}

func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]domain.Product, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM products WHERE ($1 = '' OR category = $1)`, f.Category).Scan(&total); err != nil {
		r.logger.Error("product repo: count", "category", f.Category, "error", err)
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = total
	}
	q := `SELECT ` + columns + `
FROM products
WHERE ($1 = '' OR category = $1)
ORDER BY ` + orderBy(f.Sort) + `
LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, q, f.Category, limit, f.Offset)
	if err != nil {
		r.logger.Error("product repo: list", "category", f.Category, "error", err)
		return nil, 0, err
	}
	result, err := collect(rows)
	if err != nil {
		return nil, 0, err
	}
	r.logger.Debug("product repo: list", "category", f.Category, "sort", f.Sort, "count", len(result), "total", total)
	return result, total, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.getOne(ctx, "id", `SELECT `+columns+` FROM products WHERE id = $1`, id)
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return r.getOne(ctx, "slug", `SELECT `+columns+` FROM products WHERE slug = $1`, slug)
}

// GetByName matches the product name exactly; the oldest product wins if names repeat.
func (r *postgresRepo) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	return r.getOne(ctx, "name", `SELECT `+columns+` FROM products WHERE product_name = $1 ORDER BY created_at, id LIMIT 1`, name)
}

func (r *postgresRepo) Related(ctx context.Context, category, excludeID string, limit int) ([]domain.Product, error) {
	q := `SELECT ` + columns + `
FROM products
WHERE category = $1 AND id <> $2
ORDER BY created_at DESC, id
LIMIT $3`
	rows, err := r.pool.Query(ctx, q, category, excludeID, limit)
	if err != nil {
		r.logger.Error("product repo: related", "category", category, "error", err)
		return nil, err
	}
	return collect(rows)
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	tags, err := json.Marshal(nonNil(p.Tags))
	if err != nil {
		return nil, err
	}
	const q = `
INSERT INTO products (id, product_name, slug, price, category, description, color, status, tags, inventory, image_url)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (id) DO UPDATE SET
    product_name = EXCLUDED.product_name,
    slug = EXCLUDED.slug,
    price = EXCLUDED.price,
    category = EXCLUDED.category,
    description = EXCLUDED.description,
    color = EXCLUDED.color,
    status = EXCLUDED.status,
    tags = EXCLUDED.tags,
    inventory = EXCLUDED.inventory,
    image_url = EXCLUDED.image_url
RETURNING ` + columns
	out, err := scan(r.pool.QueryRow(ctx, q,
		p.ID, p.Name, p.Slug, p.Price, p.Category, p.Description, p.Color, p.Status, tags, p.Inventory, p.ImageURL,
	))
	if err != nil {
		r.logger.Error("product repo: upsert", "id", p.ID, "slug", p.Slug, "error", err)
		return nil, db.MapError(err)
	}
	r.logger.Debug("product repo: upserted", "id", out.ID, "slug", out.Slug)
	return out, nil
}

// DecrementInventory subtracts qty from the product's inventory using q, which
// may be a transaction. Stock never goes below zero: a short product yields
// *domain.InsufficientStockError and an unknown one domain.ErrNotFound.
func DecrementInventory(ctx context.Context, q db.Querier, id string, qty int) (int, error) {
	var remaining int
	err := q.QueryRow(ctx,
		`UPDATE products SET inventory = inventory - $2 WHERE id = $1 AND inventory >= $2 RETURNING inventory`,
		id, qty,
	).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("decrement inventory %s: %w", id, err)
	}

	var name string
	var available int
	err = q.QueryRow(ctx, `SELECT product_name, inventory FROM products WHERE id = $1`, id).Scan(&name, &available)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("read inventory %s: %w", id, err)
	}
	return 0, &domain.InsufficientStockError{ProductID: id, ProductName: name, Available: available, Requested: qty}
}

func (r *postgresRepo) getOne(ctx context.Context, by, q string, arg string) (*domain.Product, error) {
	p, err := scan(r.pool.QueryRow(ctx, q, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("product repo: not found", by, arg)
			return nil, domain.ErrNotFound
		}
		r.logger.Error("product repo: get", by, arg, "error", err)
		return nil, err
	}
	return p, nil
}

func collect(rows pgx.Rows) ([]domain.Product, error) {
	defer rows.Close()
	result := []domain.Product{}
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func scan(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var tags []byte
	if err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Price, &p.Category, &p.Description, &p.Color, &p.Status, &tags, &p.Inventory, &p.ImageURL, &p.CreatedAt); err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &p.Tags); err != nil {
			return nil, fmt.Errorf("decode tags for %s: %w", p.ID, err)
		}
	}
	return &p, nil
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
