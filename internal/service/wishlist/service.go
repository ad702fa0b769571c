package wishlist

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

type Item struct {
	ProductID   string          `json:"id"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Slug        string          `json:"slug"`
}

// Store holds saved-for-later products keyed by product id.
type Store struct {
	mu      sync.RWMutex
	storage localstore.Storage
	key     string
	items   []Item
	logger  *slog.Logger
}

// Load restores the wishlist under key, falling back to empty on a missing or corrupt slot.
func Load(ctx context.Context, storage localstore.Storage, key string, log *slog.Logger) *Store {
	if log == nil {
		log = logger.Discard()
	}
	s := &Store{storage: storage, key: key, logger: log}

	raw, err := storage.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, localstore.ErrNotFound) {
			log.Warn("wishlist: load slot failed, starting empty", "key", key, "error", err)
		}
		return s
	}
	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Warn("wishlist: corrupt slot, starting empty", "key", key, "error", err)
		return s
	}
	s.items = items
	return s
}

// Toggle adds item when absent and removes it when present. It reports
// whether the item is in the wishlist afterwards.
func (s *Store) Toggle(ctx context.Context, item Item) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(item.ProductID) >= 0 {
		return false, s.commit(ctx, s.without(item.ProductID))
	}
	return true, s.commit(ctx, s.with(item))
}

func (s *Store) Add(ctx context.Context, item Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(item.ProductID) >= 0 {
		return nil
	}
	return s.commit(ctx, s.with(item))
}

func (s *Store) Remove(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(productID) < 0 {
		return nil
	}
	return s.commit(ctx, s.without(productID))
}

func (s *Store) Contains(productID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(productID) >= 0
}

func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear wishlist slot: %w", err)
	}
	s.items = nil
	return nil
}

func (s *Store) indexOf(productID string) int {
	for i, it := range s.items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) with(item Item) []Item {
	next := make([]Item, len(s.items), len(s.items)+1)
	copy(next, s.items)
	return append(next, item)
}

func (s *Store) without(productID string) []Item {
	next := make([]Item, 0, len(s.items))
	for _, it := range s.items {
		if it.ProductID != productID {
			next = append(next, it)
		}
	}
	return next
}

func (s *Store) commit(ctx context.Context, next []Item) error {
	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode wishlist: %w", err)
	}
	if err := s.storage.Save(ctx, s.key, raw); err != nil {
		return fmt.Errorf("persist wishlist: %w", err)
	}
	s.items = next
	return nil
}
