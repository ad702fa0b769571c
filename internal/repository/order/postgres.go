package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/db"
	"storefront/internal/domain"
	"storefront/internal/logger"
)

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

// Create writes the order row and its lines through q, normally the
// checkout transaction. CreatedAt is filled from the database.
func Create(ctx context.Context, q db.Querier, o *domain.Order) error {
	err := q.QueryRow(ctx, `
INSERT INTO orders (order_id, customer_id, status, total)
VALUES ($1, $2, $3, $4)
RETURNING created_at
`, o.OrderID, o.CustomerID, o.Status, o.Total).Scan(&o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order %s: %w", o.OrderID, db.MapError(err))
	}

	for i, it := range o.Items {
		if _, err := q.Exec(ctx, `
INSERT INTO order_items (item_key, order_id, product_id, name, quantity, unit_price, size, color, image, position)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`, it.Key, o.OrderID, it.ProductID, it.Name, it.Quantity, it.UnitPrice, it.Size, it.Color, it.Image, i); err != nil {
			return fmt.Errorf("insert order item %s: %w", it.ProductID, db.MapError(err))
		}
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, orderID string) (*domain.Order, error) {
	var o domain.Order
	err := r.pool.QueryRow(ctx, `
SELECT order_id, customer_id, status, total, created_at
FROM orders
WHERE order_id = $1
`, orderID).Scan(&o.OrderID, &o.CustomerID, &o.Status, &o.Total, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("order repo: get", "order_id", orderID, "error", err)
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT item_key, product_id, name, quantity, unit_price, size, color, image
FROM order_items
WHERE order_id = $1
ORDER BY position
`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	o.Items = []domain.OrderItem{}
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.Key, &it.ProductID, &it.Name, &it.Quantity, &it.UnitPrice, &it.Size, &it.Color, &it.Image); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepo) HasPurchased(ctx context.Context, email, productName string) (bool, error) {
	const q = `
SELECT EXISTS (
    SELECT 1
    FROM orders o
    JOIN customers c ON c.id = o.customer_id
    JOIN order_items i ON i.order_id = o.order_id
    JOIN products p ON p.id = i.product_id
    WHERE lower(c.email) = lower($1) AND p.product_name = $2
)
`
	var ok bool
	if err := r.pool.QueryRow(ctx, q, email, productName).Scan(&ok); err != nil {
		r.logger.Error("order repo: has purchased", "product", productName, "error", err)
		return false, err
	}
	r.logger.Debug("order repo: has purchased", "product", productName, "result", ok)
	return ok, nil
}
