package cache

import (
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Loader fills a cache on miss, collapsing concurrent loads of one key into
// a single call. Results of loads started before a Purge are not cached.
type Loader[T any] struct {
	cache Cache[T]
	group singleflight.Group
	gen   atomic.Uint64
}

func NewLoader[T any](c Cache[T]) *Loader[T] {
	return &Loader[T]{cache: c}
}

// Get returns the cached value for key or calls load. hit reports whether
// the value came from the cache.
func (l *Loader[T]) Get(key string, load func() (T, error)) (value T, hit bool, err error) {
	if v, ok := l.cache.Get(key); ok {
		return v, true, nil
	}
	gen := l.gen.Load()
	v, err, _ := l.group.Do(key+"#"+strconv.FormatUint(gen, 10), func() (any, error) {
		v, err := load()
		if err != nil {
			return v, err
		}
		if l.gen.Load() == gen {
			l.cache.Set(key, v)
		}
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return v.(T), false, nil
}

// Purge drops every cached key with the given prefix.
func (l *Loader[T]) Purge(prefix string) int {
	l.gen.Add(1)
	return l.cache.DeletePrefix(prefix)
}
