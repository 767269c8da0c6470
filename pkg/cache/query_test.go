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

func TestKey(t *testing.T) {
	a := Key("history", "ethereum:0xabc")
	b := Key("history", "ethereum:0xabc")
	c := Key("history", "ethereum:0xdef")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, "q:")
	// digested keys stay bounded no matter how long the parts are
	long := Key("history", string(make([]byte, 4096)))
	assert.Equal(t, len(a), len(long))
}

func TestGetOrCompute(t *testing.T) {
	q := NewQueryCache(NewMemoryCache(time.Minute, time.Minute))

	var calls atomic.Int64
	compute := func(ctx context.Context) (interface{}, error) {
		calls.Add(1)
		return []string{"a", "b"}, nil
	}

	var got []string
	require.NoError(t, q.GetOrCompute(context.Background(), "k1", time.Minute, compute, &got))
	assert.Equal(t, []string{"a", "b"}, got)

	// second read is served from the store
	var again []string
	require.NoError(t, q.GetOrCompute(context.Background(), "k1", time.Minute, compute, &again))
	assert.Equal(t, got, again)
	assert.Equal(t, int64(1), calls.Load())
}

func TestGetOrComputeError(t *testing.T) {
	q := NewQueryCache(NewMemoryCache(time.Minute, time.Minute))

	computeErr := errors.New("upstream unavailable")
	var target []string
	err := q.GetOrCompute(context.Background(), "k1", time.Minute, func(ctx context.Context) (interface{}, error) {
		return nil, computeErr
	}, &target)
	assert.ErrorIs(t, err, computeErr)

	// errors are not cached; the next call computes again
	var calls atomic.Int64
	require.NoError(t, q.GetOrCompute(context.Background(), "k1", time.Minute, func(ctx context.Context) (interface{}, error) {
		calls.Add(1)
		return []string{"ok"}, nil
	}, &target))
	assert.Equal(t, int64(1), calls.Load())
	assert.Equal(t, []string{"ok"}, target)
}

func TestGetOrComputeSingleFlight(t *testing.T) {
	q := NewQueryCache(NewMemoryCache(time.Minute, time.Minute))

	var calls atomic.Int64
	compute := func(ctx context.Context) (interface{}, error) {
		calls.Add(1)
		time.Sleep(50 * time.Millisecond)
		return map[string]int{"n": 1}, nil
	}

	const callers = 10
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			var target map[string]int
			assert.NoError(t, q.GetOrCompute(context.Background(), "hot", time.Minute, compute, &target))
			assert.Equal(t, 1, target["n"])
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load(), "concurrent callers share one computation")
}

func TestGetOrComputeExpiry(t *testing.T) {
	q := NewQueryCache(NewMemoryCache(time.Minute, time.Minute))

	var calls atomic.Int64
	compute := func(ctx context.Context) (interface{}, error) {
		calls.Add(1)
		return "v", nil
	}

	var target string
	require.NoError(t, q.GetOrCompute(context.Background(), "k", 20*time.Millisecond, compute, &target))

	time.Sleep(40 * time.Millisecond)

	require.NoError(t, q.GetOrCompute(context.Background(), "k", 20*time.Millisecond, compute, &target))
	assert.Equal(t, int64(2), calls.Load(), "expired entries are recomputed lazily")
}
