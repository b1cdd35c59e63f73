package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Clock supplies the current time; tests inject a fake to exercise expiry
// without wall-clock waits.
type Clock func() time.Time

// Entry is a single-slot expiring cache. A stale or empty slot is
// refreshed lazily by the fetch function passed to Get; concurrent
// callers share one in-flight refresh and all wait for its result, so at
// most one upstream request runs regardless of caller count.
type Entry[T any] struct {
	ttl   time.Duration
	clock Clock

	mu        sync.RWMutex
	value     T
	fetchedAt time.Time

	group singleflight.Group
}

func NewEntry[T any](ttl time.Duration, clock Clock) *Entry[T] {
	if clock == nil {
		clock = time.Now
	}
	return &Entry[T]{ttl: ttl, clock: clock}
}

// Get returns the cached value, refreshing it through fetch when the slot
// is empty or older than the TTL. A failed refresh leaves the slot
// untouched.
func (e *Entry[T]) Get(ctx context.Context, fetch func(ctx context.Context) (T, error)) (T, error) {
	e.mu.RLock()
	if !e.fetchedAt.IsZero() && e.clock().Sub(e.fetchedAt) < e.ttl {
		value := e.value
		e.mu.RUnlock()
		return value, nil
	}
	e.mu.RUnlock()

	result, err, _ := e.group.Do("refresh", func() (interface{}, error) {
		// Re-check: another caller may have refreshed while we queued.
		e.mu.RLock()
		if !e.fetchedAt.IsZero() && e.clock().Sub(e.fetchedAt) < e.ttl {
			value := e.value
			e.mu.RUnlock()
			return value, nil
		}
		e.mu.RUnlock()

		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		e.mu.Lock()
		e.value = value
		e.fetchedAt = e.clock()
		e.mu.Unlock()
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

// Peek returns the cached value without refreshing; ok is false when the
// slot is empty or stale.
func (e *Entry[T]) Peek() (T, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.fetchedAt.IsZero() || e.clock().Sub(e.fetchedAt) >= e.ttl {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set stores a value directly, stamping it with the current clock.
func (e *Entry[T]) Set(value T) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.value = value
	e.fetchedAt = e.clock()
}

// Invalidate empties the slot so the next Get refreshes.
func (e *Entry[T]) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	var zero T
	e.value = zero
	e.fetchedAt = time.Time{}
}
