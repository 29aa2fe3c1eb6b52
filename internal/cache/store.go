package cache

import (
	"context"
	"time"
)

// Store is the keyed persistence surface behind remembered filter values.
// It must tolerate absence (first run); callers fall back to registry
// defaults when a key is not found.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
