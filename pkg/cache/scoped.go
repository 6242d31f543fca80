package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/orbitdash/pkg/observability"
)

// Namespaced wraps a Cache with a key prefix and reports hits, misses and
// writes to observability.Cache() under the namespace name.
//
// Example usage:
//
//	summaries := cache.Namespace(backend, "summary:")
//	summaries.Set(ctx, "2019 in spaceflight", data, 24*time.Hour)
//	// stored as "summary:2019 in spaceflight"
type Namespaced struct {
	inner  Cache
	prefix string
	kind   string
}

// Namespace returns a view of inner whose keys are prefixed with prefix.
// A nil inner behaves like NullCache.
func Namespace(inner Cache, prefix string) *Namespaced {
	if inner == nil {
		inner = NewNullCache()
	}
	kind := strings.TrimRight(prefix, ":")
	if kind == "" {
		kind = "default"
	}
	return &Namespaced{inner: inner, prefix: prefix, kind: kind}
}

// Get retrieves a prefixed key.
func (n *Namespaced) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := n.inner.Get(ctx, n.prefix+key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, n.kind)
		} else {
			observability.Cache().OnCacheMiss(ctx, n.kind)
		}
	}
	return data, ok, err
}

// Set stores a prefixed key.
func (n *Namespaced) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := n.inner.Set(ctx, n.prefix+key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, n.kind, len(data))
	return nil
}

// Delete removes a prefixed key.
func (n *Namespaced) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.prefix+key)
}

// Close closes the underlying cache.
func (n *Namespaced) Close() error {
	return n.inner.Close()
}

var _ Cache = (*Namespaced)(nil)
