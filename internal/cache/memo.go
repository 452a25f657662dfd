package cache

import (
	"fmt"

	"golang.org/x/sync/singleflight"
)

// Memo computes values on a miss and caches them. Concurrent misses for the
// same key share one computation.
type Memo[T any] struct {
	cache *LRUCache[T]
	group singleflight.Group
}

func NewMemo[T any](c *LRUCache[T]) *Memo[T] {
	return &Memo[T]{cache: c}
}

// Get returns the cached value for key or computes it with fn. Errors are
// not cached.
func (m *Memo[T]) Get(key string, fn func() (T, error)) (T, error) {
	if v, ok := m.cache.Get(key); ok {
		return v, nil
	}
	v, err, _ := m.group.Do(key, func() (any, error) {
		if v, ok := m.cache.Get(key); ok {
			return v, nil
		}
		v, err := fn()
		if err != nil {
			return nil, err
		}
		m.cache.Set(key, v)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("memo %s: unexpected value type %T", key, v)
	}
	return out, nil
}

// Cache exposes the underlying cache for registration and stats.
func (m *Memo[T]) Cache() *LRUCache[T] {
	return m.cache
}
