package slot

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/dbtest"
	"storefront/internal/localstore"
)

func TestPostgres_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	storage := NewPostgres(dbtest.Pool(t))

	if _, err := storage.Load(ctx, "s:cart"); !errors.Is(err, localstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := storage.Save(ctx, "s:cart", []byte(`[1]`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := storage.Save(ctx, "s:cart", []byte(`[2]`)); err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}
	got, err := storage.Load(ctx, "s:cart")
	if err != nil || string(got) != `[2]` {
		t.Fatalf("Load = %q, %v", got, err)
	}
	if err := storage.Delete(ctx, "s:cart"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := storage.Delete(ctx, "s:cart"); err != nil {
		t.Fatalf("Delete absent: %v", err)
	}
	if _, err := storage.Load(ctx, "s:cart"); !errors.Is(err, localstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
