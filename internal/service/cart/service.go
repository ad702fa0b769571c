package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"
	"storefront/internal/localstore"
	"storefront/internal/logger"
)

// Item is one cart line. The JSON names match the persisted slot format.
type Item struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
	Quantity  int             `json:"quantity"`
}

func (i Item) matches(productID, size string) bool {
	return i.ProductID == productID && i.Size == size
}

// Store is the cart state container. Every mutation writes the full list to
// the storage slot before it becomes visible in memory.
type Store struct {
	mu      sync.RWMutex
	storage localstore.Storage
	key     string
	items   []Item
	logger  *slog.Logger
}

// Load restores the cart stored under key. A missing or unreadable slot
// yields an empty cart; it is never an error.
func Load(ctx context.Context, storage localstore.Storage, key string, log *slog.Logger) *Store {
	if log == nil {
		log = logger.Discard()
	}
	s := &Store{storage: storage, key: key, logger: log}

	raw, err := storage.Load(ctx, key)
	switch {
	case errors.Is(err, localstore.ErrNotFound):
		return s
	case err != nil:
		log.Warn("cart: load slot failed, starting empty", "key", key, "error", err)
		return s
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Warn("cart: corrupt slot, starting empty", "key", key, "error", err)
		return s
	}
	s.items = items
	return s
}

// Add inserts item unless a line with the same product and size exists.
// An existing line is left untouched, quantity included.
func (s *Store) Add(ctx context.Context, item Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range s.items {
		if it.matches(item.ProductID, item.Size) {
			return nil
		}
	}
	next := make([]Item, len(s.items), len(s.items)+1)
	copy(next, s.items)
	next = append(next, item)
	return s.commit(ctx, next)
}

// Remove deletes the matching line. Absent lines are a no-op and nothing is written.
func (s *Store) Remove(ctx context.Context, productID, size string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Item, 0, len(s.items))
	for _, it := range s.items {
		if !it.matches(productID, size) {
			next = append(next, it)
		}
	}
	if len(next) == len(s.items) {
		return nil
	}
	return s.commit(ctx, next)
}

// SetQuantity replaces the quantity of the matching line. The value is not
// clamped; callers keep it at or above one.
func (s *Store) SetQuantity(ctx context.Context, productID, size string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Item, len(s.items))
	copy(next, s.items)
	found := false
	for i := range next {
		if next[i].matches(productID, size) {
			next[i].Quantity = qty
			found = true
		}
	}
	if !found {
		return nil
	}
	return s.commit(ctx, next)
}

// Clear empties the cart and removes its slot.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear cart slot: %w", err)
	}
	s.items = nil
	return nil
}

func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// ItemCount is the sum of quantities over all lines.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, it := range s.items {
		total += it.Quantity
	}
	return total
}

// Subtotal is the sum of price times quantity. Shipping is free, so this is also the total.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

func (s *Store) commit(ctx context.Context, next []Item) error {
	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.storage.Save(ctx, s.key, raw); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	s.items = next
	return nil
}
