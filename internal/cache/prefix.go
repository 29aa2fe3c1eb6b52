package cache

import (
	"context"
	"time"
)

// WithPrefix namespaces every key of a Store. Used to give each user an
// isolated filter-state keyspace on a shared backend.
func WithPrefix(s Store, prefix string) Store {
	if prefix == "" {
		return s
	}
	return &prefixStore{inner: s, prefix: prefix}
}

type prefixStore struct {
	inner  Store
	prefix string
}

func (p *prefixStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return p.inner.Get(ctx, p.prefix+key)
}

func (p *prefixStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return p.inner.Set(ctx, p.prefix+key, value, ttl)
}

func (p *prefixStore) Delete(ctx context.Context, key string) error {
	return p.inner.Delete(ctx, p.prefix+key)
}
