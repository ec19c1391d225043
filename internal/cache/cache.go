// Package cache holds derived dashboard results keyed by filter state.
package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize is used when a non-positive size is configured.
const DefaultSize = 128

// LRU is a threadsafe, fixed-size cache. A nil *LRU is a valid, always-empty cache.
type LRU[V any] struct {
	inner *lru.Cache[string, V]
}

// New creates a cache holding at most size entries.
func New[V any](size int) (*LRU[V], error) {
	if size <= 0 {
		size = DefaultSize
	}
	inner, err := lru.New[string, V](size)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return &LRU[V]{inner: inner}, nil
}

func (c *LRU[V]) Get(key string) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}
	return c.inner.Get(key)
}

func (c *LRU[V]) Set(key string, value V) {
	if c == nil {
		return
	}
	c.inner.Add(key, value)
}

// Purge drops every entry, e.g. after the dataset changed.
func (c *LRU[V]) Purge() {
	if c == nil {
		return
	}
	c.inner.Purge()
}

func (c *LRU[V]) Len() int {
	if c == nil {
		return 0
	}
	return c.inner.Len()
}
