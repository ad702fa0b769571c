package customer

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

const columns = `id, name, email, phone, tax_id, address, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, log *slog.Logger) Repository {
	if log == nil {
		log = logger.Discard()
	}
	return &postgresRepo{pool: pool, logger: log}
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	c, err := scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM customers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("customer repo: get", "id", id, "error", err)
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) FindByEmail(ctx context.Context, email string) ([]domain.Customer, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM customers WHERE lower(email) = lower($1) ORDER BY created_at`, email)
	if err != nil {
		r.logger.Error("customer repo: find by email", "error", err)
		return nil, err
	}
	defer rows.Close()
	out := []domain.Customer{}
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// CreateIfNotExists inserts c unless a customer with the same id exists, in
// which case the stored record is returned untouched. created reports which
// branch ran. q may be a transaction.
func CreateIfNotExists(ctx context.Context, q db.Querier, c domain.Customer) (out *domain.Customer, created bool, err error) {
	addr, err := json.Marshal(c.Address)
	if err != nil {
		return nil, false, err
	}
	const insert = `
INSERT INTO customers (id, name, email, phone, tax_id, address)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO NOTHING
RETURNING ` + columns
	out, err = scan(q.QueryRow(ctx, insert, c.ID, c.Name, c.Email, c.Phone, c.TaxID, addr))
	if err == nil {
		return out, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("insert customer %s: %w", c.ID, err)
	}

	out, err = scan(q.QueryRow(ctx, `SELECT `+columns+` FROM customers WHERE id = $1`, c.ID))
	if err != nil {
		return nil, false, fmt.Errorf("load customer %s: %w", c.ID, db.MapError(err))
	}
	return out, false, nil
}

func scan(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	var addr []byte
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.TaxID, &addr, &c.CreatedAt); err != nil {
		return nil, err
	}
	if len(addr) > 0 {
		if err := json.Unmarshal(addr, &c.Address); err != nil {
			return nil, fmt.Errorf("decode address for %s: %w", c.ID, err)
		}
	}
	return &c, nil
}
