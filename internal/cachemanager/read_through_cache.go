package cachemanager

import (
	"context"
	"time"
)

// ReadThroughCache fronts a slow lookup, such as a history row query,
// with a CacheManager. A failed load leaves the cache untouched so the
// next call retries.
type ReadThroughCache[K Key, V any, I any] struct {
	cache  CacheManager[K, V]
	load   func(ctx context.Context, input I) (V, error)
	bypass bool
}

// NewReadThroughCache wraps load. With bypass set every call goes
// straight to load, which is how tests pin the storage behaviour.
func NewReadThroughCache[K Key, V any, I any](
	cache CacheManager[K, V],
	load func(ctx context.Context, input I) (V, error),
	bypass bool,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{cache: cache, load: load, bypass: bypass}
}

// Get returns the cached value for key or loads it from input.
func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	if !r.bypass {
		if value, ok := r.cache.Get(ctx, key); ok {
			return value, nil
		}
	}
	return r.fill(ctx, key, input, ttl)
}

// GetWithRefresh is Get, except that a hit also pushes the entry's expiry
// out to ttl.
func (r *ReadThroughCache[K, V, I]) GetWithRefresh(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	if !r.bypass {
		if value, ok := r.cache.GetWithRefresh(ctx, key, ttl); ok {
			return value, nil
		}
	}
	return r.fill(ctx, key, input, ttl)
}

func (r *ReadThroughCache[K, V, I]) fill(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	value, err := r.load(ctx, input)
	if err != nil || r.bypass {
		return value, err
	}
	r.cache.Set(ctx, key, value, ttl)
	return value, nil
}

// Invalidate forgets every loaded value, e.g. after the history was
// cleared by another process.
func (r *ReadThroughCache[K, V, I]) Invalidate(ctx context.Context) error {
	return r.cache.Flush(ctx)
}
