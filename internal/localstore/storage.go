// Package localstore defines the persistence port used by the cart and
// wishlist containers and the adapters that back it.
package localstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when nothing is stored under the key.
var ErrNotFound = errors.New("localstore: key not found")

// Storage is a durable key/value slot store. Values are opaque bytes.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
