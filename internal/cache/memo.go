package cache

import (
	"time"

	"golang.org/x/sync/singleflight"
)

// Memo computes a value at most once per key while it is cached. Concurrent
// callers asking for the same missing key share a single computation.
type Memo[T any] struct {
	cache *LRUCache[T]
	group singleflight.Group
}

// NewMemo returns a memo keeping up to size values for ttl. A zero ttl
// disables caching; concurrent calls are still collapsed.
func NewMemo[T any](size int, ttl time.Duration) *Memo[T] {
	return &Memo[T]{cache: NewLRUCache[T](size, ttl)}
}

// Do returns the cached value for key or computes and caches it with fn.
// Errors are returned to every waiting caller and never cached.
func (m *Memo[T]) Do(key string, fn func() (T, error)) (T, error) {
	if v, ok := m.cache.Get(key); ok {
		return v, nil
	}

	v, err, _ := m.group.Do(key, func() (any, error) {
		v, err := fn()
		if err != nil {
			return v, err
		}
		if m.cache.ttl > 0 {
			m.cache.Set(key, v)
		}
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Forget drops every cached value.
func (m *Memo[T]) Forget() {
	m.cache.Purge()
}

func (m *Memo[T]) CleanExpired() int {
	return m.cache.CleanExpired()
}
