package cachemanager

import (
	"context"
	"time"
)

// Key is the set of key types a CacheManager can index by.
type Key interface {
	~string | ~int | ~int64 | ~uint64
}

type CacheManager[K Key, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
	Len() int
}
