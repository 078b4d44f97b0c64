// Package storage is the single point of truth for reading and writing
// entities. Public reads go through an advisory cache; every write
// invalidates the owning entity's key prefix. All errors leaving this
// package are apperr typed errors, logged here with operation context.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"farmland-portal/internal/cache"

	"gorm.io/gorm"
)

const maxPageSize = 50

type Storage struct {
	db    *gorm.DB
	cache cache.Store
	ttl   time.Duration
}

// New creates a Storage over an open GORM handle and an injected cache
// store. Pass cache.Noop{} to disable caching.
func New(db *gorm.DB, store cache.Store, ttl time.Duration) *Storage {
	if store == nil {
		store = cache.Noop{}
	}
	return &Storage{db: db, cache: store, ttl: ttl}
}

// cacheKey builds a deterministic key from entity, operation and parameters.
// Keys share the entity as prefix so writes can invalidate coarsely.
func cacheKey(entity, op string, params interface{}) string {
	if params == nil {
		return fmt.Sprintf("%s:%s", entity, op)
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%s", entity, op)
	}
	return fmt.Sprintf("%s:%s:%s", entity, op, raw)
}

// getCached loads and decodes a cached value into dest
func (s *Storage) getCached(ctx context.Context, key string, dest interface{}) bool {
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		log.Printf("[storage] cache decode failed key=%s: %v", key, err)
		return false
	}
	return true
}

// setCached stores a value under key; failures are logged, never returned
func (s *Storage) setCached(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("[storage] cache encode failed key=%s: %v", key, err)
		return
	}
	s.cache.Set(ctx, key, raw, s.ttl)
}

// invalidate drops every cached entry for the given entities
func (s *Storage) invalidate(ctx context.Context, entities ...string) {
	for _, entity := range entities {
		s.cache.DeletePrefix(ctx, entity+":")
	}
}

// Paginated is the envelope for offset/limit listings
type Paginated struct {
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Total  int64 `json:"total"`
}

// clampPage bounds limit/offset so no query can scan unboundedly
func clampPage(limit, offset, fallback int) (int, int) {
	if limit <= 0 {
		limit = fallback
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
