package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestEntry_GetCachesWithinTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 10, 3, 8, 0, 0, 0, time.UTC)}
	entry := NewEntry[string](30*time.Minute, clock.Now)

	var calls atomic.Int32
	fetch := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "token-a", nil
	}

	got, err := entry.Get(context.Background(), fetch)
	require.NoError(t, err)
	assert.Equal(t, "token-a", got)

	clock.Advance(29 * time.Minute)
	got, err = entry.Get(context.Background(), fetch)
	require.NoError(t, err)
	assert.Equal(t, "token-a", got)
	assert.Equal(t, int32(1), calls.Load(), "second call within the TTL must not hit upstream")
}

func TestEntry_GetRefreshesAfterTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 10, 3, 8, 0, 0, 0, time.UTC)}
	entry := NewEntry[string](30*time.Minute, clock.Now)

	var calls atomic.Int32
	fetch := func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			return "token-a", nil
		}
		return "token-b", nil
	}

	_, err := entry.Get(context.Background(), fetch)
	require.NoError(t, err)

	clock.Advance(31 * time.Minute)
	got, err := entry.Get(context.Background(), fetch)
	require.NoError(t, err)
	assert.Equal(t, "token-b", got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestEntry_ConcurrentCallersShareOneFetch(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 10, 3, 8, 0, 0, 0, time.UTC)}
	entry := NewEntry[string](30*time.Minute, clock.Now)

	var calls atomic.Int32
	gate := make(chan struct{})
	fetch := func(ctx context.Context) (string, error) {
		calls.Add(1)
		<-gate
		return "token-a", nil
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := entry.Get(context.Background(), fetch)
			assert.NoError(t, err)
			results[i] = got
		}(i)
	}

	// Let the goroutines pile up on the in-flight refresh, then release.
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "concurrent callers must share one refresh")
	for _, got := range results {
		assert.Equal(t, "token-a", got)
	}
}

func TestEntry_FailedRefreshLeavesSlotEmpty(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 10, 3, 8, 0, 0, 0, time.UTC)}
	entry := NewEntry[string](time.Minute, clock.Now)

	wantErr := errors.New("upstream down")
	_, err := entry.Get(context.Background(), func(ctx context.Context) (string, error) {
		return "", wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	_, ok := entry.Peek()
	assert.False(t, ok)

	got, err := entry.Get(context.Background(), func(ctx context.Context) (string, error) {
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", got)
}

func TestEntry_Invalidate(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 10, 3, 8, 0, 0, 0, time.UTC)}
	entry := NewEntry[int](time.Hour, clock.Now)

	entry.Set(42)
	got, ok := entry.Peek()
	require.True(t, ok)
	assert.Equal(t, 42, got)

	entry.Invalidate()
	_, ok = entry.Peek()
	assert.False(t, ok)
}
