// Package cache memoizes expensive catalog reads for a bounded time window.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultTTL is how long a computed value stays fresh.
const DefaultTTL = 60 * time.Second

// Observer is notified of hits and misses. Either func may be nil.
type Observer struct {
	Hit  func(key string)
	Miss func(key string)
}

// Result holds a small number of values, each fresh for ttl after it was
// computed. It is safe for concurrent use. Concurrent misses on the same key
// may each compute; the last write wins.
type Result[V any] struct {
	lru *expirable.LRU[string, V]
	ttl time.Duration
	obs Observer
}

// NewResult returns a cache holding at most size entries for ttl each.
// A non-positive ttl falls back to DefaultTTL.
func NewResult[V any](size int, ttl time.Duration, obs Observer) *Result[V] {
	if size < 1 {
		size = 1
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Result[V]{lru: expirable.NewLRU[string, V](size, nil, ttl), ttl: ttl, obs: obs}
}

// TTL returns the freshness window.
func (c *Result[V]) TTL() time.Duration { return c.ttl }

// GetOrCompute returns the fresh value under key, or calls compute and stores
// its result. A compute error is returned as is and nothing is stored.
func (c *Result[V]) GetOrCompute(key string, compute func() (V, error)) (V, error) {
	if v, ok := c.lru.Get(key); ok {
		if c.obs.Hit != nil {
			c.obs.Hit(key)
		}
		return v, nil
	}
	if c.obs.Miss != nil {
		c.obs.Miss(key)
	}
	v, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}
	c.lru.Add(key, v)
	return v, nil
}

