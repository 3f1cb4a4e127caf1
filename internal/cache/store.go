// Package cache memoizes dispatch results in an in-memory TTL store.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/opcalc/internal/log"
)

const (
	DefaultExpiration      = 10 * time.Minute
	DefaultCleanupInterval = 30 * time.Minute
)

// Store is a typed key/value cache with per-item TTL.
type Store[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V, ttl time.Duration)
	Delete(keys ...string)
	Flush()
	Len() int
}

// InMemoryStore is a Store backed by go-cache.
type InMemoryStore[V any] struct {
	useCase string
	cache   *gocache.Cache
}

// NewInMemoryStore creates a store; useCase labels its log lines.
func NewInMemoryStore[V any](useCase string, defaultExpiration, cleanupInterval time.Duration) *InMemoryStore[V] {
	return &InMemoryStore[V]{
		useCase: useCase,
		cache:   gocache.New(defaultExpiration, cleanupInterval),
	}
}

// Get returns the value for key. A value of the wrong type counts as a miss.
func (s *InMemoryStore[V]) Get(key string) (V, bool) {
	var zero V

	value, found := s.cache.Get(key)
	if !found {
		return zero, false
	}

	v, ok := value.(V)
	if !ok {
		log.Error(log.CatCache, "wrong type assertion when getting value", "use_case", s.useCase, "key", key)
		return zero, false
	}

	log.Debug(log.CatCache, "cache hit", "use_case", s.useCase, "key", key)
	return v, true
}

// Set stores value under key. A zero ttl uses the store default.
func (s *InMemoryStore[V]) Set(key string, value V, ttl time.Duration) {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	s.cache.Set(key, value, ttl)
}

func (s *InMemoryStore[V]) Delete(keys ...string) {
	for _, key := range keys {
		s.cache.Delete(key)
	}
}

func (s *InMemoryStore[V]) Flush() {
	s.cache.Flush()
}

// Len counts items, including expired ones not yet cleaned up.
func (s *InMemoryStore[V]) Len() int {
	return s.cache.ItemCount()
}
