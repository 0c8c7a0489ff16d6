package port

import (
	"context"
	"errors"
	"time"
)

var ErrKeyNotFound = errors.New("key not found")

// Keys of the shared collections.
const (
	KeyOrders   = "orders"
	KeyProducts = "products"
	KeyUsers    = "users"
)

// KeyValueStore persists whole serialized collections under fixed keys.
// Get returns ErrKeyNotFound when the key has never been written.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

type Revision struct {
	Number    int64
	Value     []byte
	CreatedAt time.Time
}

// KeyHistory is implemented by stores that keep earlier values of a key.
type KeyHistory interface {
	Revisions(ctx context.Context, key string, limit int) ([]Revision, error)
}
