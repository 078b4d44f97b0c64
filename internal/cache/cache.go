// Package cache provides the advisory read-through cache used by the storage
// layer. A miss or a backend failure never produces a wrong answer, only a
// database read. The store is injected at construction; there is no
// package-level instance.
package cache

import (
	"context"
	"time"
)

// Store is a TTL'd key-value store with coarse prefix invalidation
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	DeletePrefix(ctx context.Context, prefix string)
	Close() error
}

// Noop is a Store that caches nothing, used when caching is disabled
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool) { return nil, false }

func (Noop) Set(context.Context, string, []byte, time.Duration) {}

func (Noop) DeletePrefix(context.Context, string) {}

func (Noop) Close() error { return nil }
