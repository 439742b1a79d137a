package storage

import (
	"context"
	"errors"
)

// Keys of the two snapshots kept in the durable store
const (
	KeyProducts  = "products"
	KeyCartItems = "cartItems"
)

// ErrNotFound is returned by Get when a key has never been written
var ErrNotFound = errors.New("storage: key not found")

// Store is the durable key-value port. Every Put replaces the whole value.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}
