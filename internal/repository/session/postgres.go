package session

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/db"
	"storefront/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, s Session) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO sessions (token, expires_at) VALUES ($1, $2)`, s.Token, s.ExpiresAt)
	return db.MapError(err)
}

func (r *postgresRepo) Get(ctx context.Context, token string) (*Session, error) {
	var out Session
	err := r.pool.QueryRow(ctx, `SELECT token, expires_at, created_at FROM sessions WHERE token = $1`, token).
		Scan(&out.Token, &out.ExpiresAt, &out.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

// Delete removes the session and every slot stored under it.
func (r *postgresRepo) Delete(ctx context.Context, token string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := tx.Exec(ctx, `DELETE FROM session_slots WHERE starts_with(slot_key, $1 || ':')`, token); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
