// Package slot stores session cart and wishlist slots in Postgres.
package slot

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/localstore"
)

type postgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a localstore.Storage backed by the session_slots table.
func NewPostgres(pool *pgxpool.Pool) localstore.Storage {
	return &postgresStorage{pool: pool}
}

func (s *postgresStorage) Load(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx, `SELECT payload FROM session_slots WHERE slot_key = $1`, key).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, localstore.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *postgresStorage) Save(ctx context.Context, key string, value []byte) error {
	_, err := s.pool.Exec(ctx, `
INSERT INTO session_slots (slot_key, payload, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (slot_key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()
`, key, value)
	return err
}

func (s *postgresStorage) Delete(ctx context.Context, key string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM session_slots WHERE slot_key = $1`, key)
	return err
}
