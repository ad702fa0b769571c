package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/domain"
	"storefront/internal/logger"
	"storefront/internal/repository/customer"
	"storefront/internal/repository/order"
	"storefront/internal/repository/product"
)

// ErrEmptyTransaction is returned when Commit is called with nothing queued.
var ErrEmptyTransaction = errors.New("docstore: empty transaction")

// Result describes what a committed transaction did.
type Result struct {
	Customer        *domain.Customer
	CustomerCreated bool
	Order           *domain.Order
	// Inventory holds the remaining stock per decremented product.
	Inventory map[string]int
}

type Committer interface {
	Commit(ctx context.Context, tx *Transaction) (*Result, error)
}

type postgresCommitter struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgres returns a Committer that applies a Transaction inside one pgx
// transaction. Any failing mutation rolls back all of them; nothing is retried.
func NewPostgres(pool *pgxpool.Pool, log *slog.Logger) Committer {
	if log == nil {
		log = logger.Discard()
	}
	return &postgresCommitter{pool: pool, logger: log}
}

func (c *postgresCommitter) Commit(ctx context.Context, t *Transaction) (*Result, error) {
	if t == nil || t.Len() == 0 {
		return nil, ErrEmptyTransaction
	}

	tx, err := c.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	res := &Result{Inventory: map[string]int{}}
	for i, m := range t.Mutations() {
		if err := apply(ctx, tx, m, res); err != nil {
			c.logger.Warn("docstore: mutation failed, rolling back", "index", i, "kind", m.Kind, "error", err)
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	c.logger.Info("docstore: committed", "mutations", t.Len())
	return res, nil
}

func apply(ctx context.Context, tx pgx.Tx, m Mutation, res *Result) error {
	switch m.Kind {
	case KindCreateCustomerIfNotExists:
		cust, created, err := customer.CreateIfNotExists(ctx, tx, *m.Customer)
		if err != nil {
			return err
		}
		res.Customer, res.CustomerCreated = cust, created
	case KindCreateOrder:
		o := *m.Order
		if err := order.Create(ctx, tx, &o); err != nil {
			return err
		}
		res.Order = &o
	case KindDecrementInventory:
		left, err := product.DecrementInventory(ctx, tx, m.ProductID, m.Quantity)
		if err != nil {
			return err
		}
		res.Inventory[m.ProductID] = left
	default:
		return fmt.Errorf("docstore: unknown mutation kind %q", m.Kind)
	}
	return nil
}
