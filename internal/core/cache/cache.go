// Package cache is the response cache for read endpoints. Keys are the
// endpoint family plus the canonically serialized query string; any mutation
// clears the whole cache. Invalidation is wholesale on purpose: correctness
// over hit-rate, and a read racing a clear simply recomputes.
package cache

import (
	"context"
	"net/url"

	"golang.org/x/sync/singleflight"
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte)
	Clear(ctx context.Context)
}

type Cache struct {
	store Store
	sf    singleflight.Group
}

func New(store Store) *Cache { return &Cache{store: store} }

// Key builds a cache key from an endpoint family and its query parameters.
// url.Values.Encode sorts by key, so equivalent requests collide.
func Key(family string, q url.Values) string {
	return family + "?" + q.Encode()
}

// GetOrLoad returns the cached payload for key, computing and storing it on a
// miss. Concurrent misses for the same key are collapsed into one load.
func (c *Cache) GetOrLoad(ctx context.Context, key string, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if b, ok := c.store.Get(ctx, key); ok {
		return b, nil
	}
	v, err, _ := c.sf.Do(key, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		c.store.Set(ctx, key, b)
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Clear drops every cached entry.
func (c *Cache) Clear(ctx context.Context) { c.store.Clear(ctx) }
