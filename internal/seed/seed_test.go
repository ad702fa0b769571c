package seed

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
)

type recordingRepo struct {
	byID map[string]domain.Product
	err  error
}

func (r *recordingRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.byID[p.ID] = p
	return &p, nil
}

func TestApply_IsIdempotent(t *testing.T) {
	repo := &recordingRepo{byID: map[string]domain.Product{}}
	for i := 0; i < 2; i++ {
		n, err := Apply(context.Background(), repo)
		if err != nil {
			t.Fatalf("apply %d: %v", i, err)
		}
		if n != len(products) {
			t.Fatalf("expected %d products, got %d", len(products), n)
		}
	}
	if len(repo.byID) != len(products) {
		t.Fatalf("expected %d distinct products, got %d", len(products), len(repo.byID))
	}
	if got := repo.byID["demo-air-max-90"].Slug; got != "nike-air-max-90" {
		t.Fatalf("unexpected slug %q", got)
	}
}

func TestApply_StopsOnError(t *testing.T) {
	repo := &recordingRepo{byID: map[string]domain.Product{}, err: errors.New("db down")}
	if _, err := Apply(context.Background(), repo); err == nil {
		t.Fatalf("expected error")
	}
}
