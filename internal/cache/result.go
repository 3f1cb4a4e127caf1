package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/zjrosen/opcalc/internal/dispatcher"
	"github.com/zjrosen/opcalc/internal/log"
)

// ResultCache short-circuits repeated dispatches of the same operator and
// operands. Only successful results are stored; every failure reaches the
// provider again on the next request.
type ResultCache struct {
	store Store[int]
	ttl   time.Duration
}

// NewResultCache creates a ResultCache with the given item TTL.
func NewResultCache(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultExpiration
	}
	return &ResultCache{
		store: NewInMemoryStore[int]("dispatch-results", ttl, DefaultCleanupInterval),
		ttl:   ttl,
	}
}

// Key returns the cache key for a request. The request ID is not part of it.
func Key(req dispatcher.Request) string {
	return fmt.Sprintf("%c:%d:%d", req.Operator, req.Left, req.Right)
}

// Middleware returns the dispatcher middleware backed by this cache.
func (c *ResultCache) Middleware() dispatcher.Middleware {
	return func(next dispatcher.Handler) dispatcher.Handler {
		return dispatcher.HandlerFunc(func(ctx context.Context, req dispatcher.Request) (int, error) {
			key := Key(req)
			if v, ok := c.store.Get(key); ok {
				return v, nil
			}

			result, err := next.Handle(ctx, req)
			if err != nil {
				return result, err
			}
			c.store.Set(key, result, c.ttl)
			log.Debug(log.CatCache, "dispatch result cached", "request_id", req.ID, "key", key)
			return result, nil
		})
	}
}

// Len reports the number of cached results.
func (c *ResultCache) Len() int {
	return c.store.Len()
}

// Flush drops every cached result.
func (c *ResultCache) Flush() {
	c.store.Flush()
}
