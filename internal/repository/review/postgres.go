package review

import (
	"context"
	"log/slog"

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

func (r *postgresRepo) Create(ctx context.Context, rv domain.Review) (*domain.Review, error) {
	const q = `
INSERT INTO reviews (id, product_id, rating, comment, phone, email)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at
`
	if err := r.pool.QueryRow(ctx, q, rv.ID, rv.ProductID, rv.Rating, rv.Comment, rv.Phone, rv.Email).Scan(&rv.CreatedAt); err != nil {
		r.logger.Error("review repo: create", "product_id", rv.ProductID, "error", err)
		return nil, db.MapError(err)
	}
	r.logger.Info("review repo: created", "id", rv.ID, "product_id", rv.ProductID)
	return &rv, nil
}

func (r *postgresRepo) ListByProductName(ctx context.Context, productName string) ([]domain.Review, error) {
	const q = `
SELECT r.id, r.product_id, r.rating, r.comment, r.phone, r.email, r.created_at
FROM reviews r
JOIN products p ON p.id = r.product_id
WHERE p.product_name = $1
ORDER BY r.rating DESC, r.created_at DESC
`
	rows, err := r.pool.Query(ctx, q, productName)
	if err != nil {
		r.logger.Error("review repo: list", "product", productName, "error", err)
		return nil, err
	}
	defer rows.Close()

	out := []domain.Review{}
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.Rating, &rv.Comment, &rv.Phone, &rv.Email, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
