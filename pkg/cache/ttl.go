// Package cache holds a single computed value for a fixed time.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"
)

// LoadFunc computes a fresh value on a miss.
type LoadFunc[T any] func(ctx context.Context) (T, error)

// TTL caches the result of load for ttl. Concurrent misses share one load,
// and a failed load is never cached.
type TTL[T any] struct {
	ttl   time.Duration
	load  LoadFunc[T]
	clock clockwork.Clock
	group singleflight.Group

	mu     sync.RWMutex
	value  T
	expiry time.Time
	filled bool
}

func NewTTL[T any](ttl time.Duration, load LoadFunc[T], clock clockwork.Clock) *TTL[T] {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &TTL[T]{ttl: ttl, load: load, clock: clock}
}

func (c *TTL[T]) TTL() time.Duration {
	return c.ttl
}

// Get returns the cached value while it is fresh, otherwise reloads it.
func (c *TTL[T]) Get(ctx context.Context) (T, error) {
	if value, ok := c.fresh(); ok {
		return value, nil
	}

	v, err, _ := c.group.Do("value", func() (interface{}, error) {
		if value, ok := c.fresh(); ok {
			return value, nil
		}
		value, err := c.load(ctx)
		if err != nil {
			return value, err
		}
		c.mu.Lock()
		c.value = value
		c.expiry = c.clock.Now().Add(c.ttl)
		c.filled = true
		c.mu.Unlock()
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (c *TTL[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filled = false
}

func (c *TTL[T]) fresh() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.filled && c.clock.Now().Before(c.expiry) {
		return c.value, true
	}
	var zero T
	return zero, false
}
