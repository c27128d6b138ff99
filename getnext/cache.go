package getnext

import (
	"context"
)

type cacheState uint8

const (
	cacheEmpty cacheState = iota
	cachePopulated
	cacheFailed
)

// Cache memoizes one expensive, possibly failing fetch.
//
// The cache is populated lazily by Result, refreshed unconditionally by
// Update and cleared by Invalidate. A failed fetch is remembered too: every
// Result call returns the same error until Update or Invalidate is called,
// so one traversal never fetches more than once.
//
// A Cache is not safe for concurrent use. When created with a Guard, every
// method asserts the guard is held.
type Cache[T any] struct {
	guard *Guard
	fetch func(context.Context) (T, error)

	state cacheState
	val   T
	err   error
}

// NewCache returns an empty cache around fetch. guard may be nil.
func NewCache[T any](guard *Guard, fetch func(context.Context) (T, error)) *Cache[T] {
	return &Cache[T]{guard: guard, fetch: fetch}
}

// Result returns the cached value, fetching it first if the cache is empty.
func (c *Cache[T]) Result(ctx context.Context) (T, error) {
	c.assert()
	switch c.state {
	case cachePopulated:
		return c.val, nil
	case cacheFailed:
		var zero T
		return zero, c.err
	}
	return c.Update(ctx)
}

// Update refetches the value, replacing whatever was cached.
func (c *Cache[T]) Update(ctx context.Context) (T, error) {
	c.assert()
	v, err := c.fetch(ctx)
	if err != nil {
		var zero T
		c.val, c.err, c.state = zero, err, cacheFailed
		return zero, err
	}
	c.val, c.err, c.state = v, nil, cachePopulated
	return v, nil
}

// Invalidate empties the cache without fetching.
func (c *Cache[T]) Invalidate() {
	c.assert()
	var zero T
	c.val, c.err, c.state = zero, nil, cacheEmpty
}

// Populated reports whether the cache holds a successfully fetched value.
func (c *Cache[T]) Populated() bool {
	return c.state == cachePopulated
}

func (c *Cache[T]) assert() {
	if c.guard != nil {
		c.guard.AssertHeld()
	}
}
