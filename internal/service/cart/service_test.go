package cart

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"storefront/internal/localstore"
)

const slot = "sess-1:cart"

type failingStorage struct {
	*localstore.Memory
	saveErr error
	loadErr error
}

func (f *failingStorage) Load(ctx context.Context, key string) ([]byte, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.Memory.Load(ctx, key)
}

func (f *failingStorage) Save(ctx context.Context, key string, value []byte) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.Memory.Save(ctx, key, value)
}

func shoe(id, size string, qty int) Item {
	return Item{
		ProductID: id,
		Name:      "Shoe " + id,
		Price:     decimal.RequireFromString("129.99"),
		Image:     "https://cdn.example/" + id + ".png",
		Size:      size,
		Color:     "black",
		Quantity:  qty,
	}
}

func persisted(t *testing.T, storage localstore.Storage) []Item {
	t.Helper()
	raw, err := storage.Load(context.Background(), slot)
	require.NoError(t, err)
	var items []Item
	require.NoError(t, json.Unmarshal(raw, &items))
	return items
}

func TestAdd_FirstWriteWins(t *testing.T) {
	ctx := context.Background()
	storage := localstore.NewMemory()
	store := Load(ctx, storage, slot, nil)

	require.NoError(t, store.Add(ctx, shoe("p1", "42", 1)))
	before := persisted(t, storage)

	require.NoError(t, store.Add(ctx, shoe("p1", "42", 5)))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity, "second add must not bump quantity")
	assert.Equal(t, before, persisted(t, storage))
}

func TestAdd_SameProductDifferentSizeIsSeparateLine(t *testing.T) {
	ctx := context.Background()
	store := Load(ctx, localstore.NewMemory(), slot, nil)

	require.NoError(t, store.Add(ctx, shoe("p1", "42", 1)))
	require.NoError(t, store.Add(ctx, shoe("p1", "43", 2)))

	assert.Len(t, store.Items(), 2)
	assert.Equal(t, 3, store.ItemCount())
}

func TestRemove_AbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	storage := localstore.NewMemory()
	store := Load(ctx, storage, slot, nil)
	require.NoError(t, store.Add(ctx, shoe("p1", "42", 1)))
	before := persisted(t, storage)

	require.NoError(t, store.Remove(ctx, "p1", "44"))
	require.NoError(t, store.Remove(ctx, "missing", "42"))

	assert.Len(t, store.Items(), 1)
	assert.Equal(t, before, persisted(t, storage))
}

func TestRemove_DeletesMatchingLine(t *testing.T) {
	ctx := context.Background()
	storage := localstore.NewMemory()
	store := Load(ctx, storage, slot, nil)
	require.NoError(t, store.Add(ctx, shoe("p1", "42", 1)))
	require.NoError(t, store.Add(ctx, shoe("p2", "42", 1)))

	require.NoError(t, store.Remove(ctx, "p1", "42"))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ProductID)
	assert.Len(t, persisted(t, storage), 1)
}

func TestItemCount_TracksEveryMutation(t *testing.T) {
	ctx := context.Background()
	store := Load(ctx, localstore.NewMemory(), slot, nil)

	sum := func() int {
		total := 0
		for _, it := range store.Items() {
			total += it.Quantity
		}
		return total
	}

	steps := []func() error{
		func() error { return store.Add(ctx, shoe("p1", "40", 2)) },
		func() error { return store.Add(ctx, shoe("p2", "41", 3)) },
		func() error { return store.SetQuantity(ctx, "p1", "40", 7) },
		func() error { return store.Add(ctx, shoe("p1", "40", 9)) },
		func() error { return store.Remove(ctx, "p2", "41") },
		func() error { return store.SetQuantity(ctx, "p1", "40", 1) },
	}
	for i, step := range steps {
		require.NoError(t, step(), "step %d", i)
		assert.Equal(t, sum(), store.ItemCount(), "step %d", i)
	}
	assert.Equal(t, 1, store.ItemCount())
}

func TestSetQuantity_NotClamped(t *testing.T) {
	ctx := context.Background()
	store := Load(ctx, localstore.NewMemory(), slot, nil)
	require.NoError(t, store.Add(ctx, shoe("p1", "42", 1)))

	require.NoError(t, store.SetQuantity(ctx, "p1", "42", 0))
	assert.Equal(t, 0, store.Items()[0].Quantity)
}

func TestClear_EmptiesMemoryAndSlot(t *testing.T) {
	ctx := context.Background()
	storage := localstore.NewMemory()
	store := Load(ctx, storage, slot, nil)
	require.NoError(t, store.Add(ctx, shoe("p1", "42", 2)))

	require.NoError(t, store.Clear(ctx))
	assert.Empty(t, store.Items())

	_, err := storage.Load(ctx, slot)
	assert.True(t, errors.Is(err, localstore.ErrNotFound))

	reloaded := Load(ctx, storage, slot, nil)
	assert.Empty(t, reloaded.Items())
	assert.Zero(t, reloaded.ItemCount())
}

func TestLoad_RestoresPersistedCart(t *testing.T) {
	ctx := context.Background()
	storage := localstore.NewMemory()
	store := Load(ctx, storage, slot, nil)
	require.NoError(t, store.Add(ctx, shoe("p1", "42", 2)))
	require.NoError(t, store.Add(ctx, shoe("p2", "39", 1)))

	reloaded := Load(ctx, storage, slot, nil)
	items := reloaded.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, "39", items[1].Size)
	assert.Equal(t, 3, reloaded.ItemCount())
	assert.True(t, decimal.RequireFromString("389.97").Equal(reloaded.Subtotal()))
}

func TestLoad_CorruptOrUnreadableSlotIsEmpty(t *testing.T) {
	ctx := context.Background()
	storage := localstore.NewMemory()
	require.NoError(t, storage.Save(ctx, slot, []byte("{not json")))
	assert.Empty(t, Load(ctx, storage, slot, nil).Items())

	broken := &failingStorage{Memory: localstore.NewMemory(), loadErr: errors.New("disk gone")}
	assert.Empty(t, Load(ctx, broken, slot, nil).Items())
}

func TestAdd_PersistFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	storage := &failingStorage{Memory: localstore.NewMemory()}
	store := Load(ctx, storage, slot, nil)
	require.NoError(t, store.Add(ctx, shoe("p1", "42", 1)))

	storage.saveErr = errors.New("quota exceeded")
	err := store.Add(ctx, shoe("p2", "42", 1))
	require.Error(t, err)
	assert.Len(t, store.Items(), 1)
}

func TestLoad_ReadsOriginalSlotFormat(t *testing.T) {
	ctx := context.Background()
	storage := localstore.NewMemory()
	raw := `[{"color":"red","id":"prod-9","name":"Air Max","price":99.5,"image":"a.png","size":"","quantity":3}]`
	require.NoError(t, storage.Save(ctx, slot, []byte(raw)))

	store := Load(ctx, storage, slot, nil)
	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "prod-9", items[0].ProductID)
	assert.Equal(t, 3, store.ItemCount())
	assert.True(t, decimal.RequireFromString("298.5").Equal(store.Subtotal()))
}
