package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go-stockctl/internal/logs"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingLoader returns value once release is closed and counts its calls.
func blockingLoader(calls *atomic.Int32, release <-chan struct{}, value any) Loader {
	return func(ctx context.Context) (any, error) {
		calls.Add(1)
		<-release
		return value, nil
	}
}

// waitForLoad blocks until the loader has been entered.
func waitForLoad(t *testing.T, calls *atomic.Int32) {
	t.Helper()
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, time.Millisecond)
}

func TestFetchDeduplicatesConcurrentCallers(t *testing.T) {
	s := New(logs.Discard())
	var calls atomic.Int32
	release := make(chan struct{})
	load := blockingLoader(&calls, release, "rows")

	const callers = 8
	var wg, started sync.WaitGroup
	results := make([]any, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		started.Add(1)
		go func(i int) {
			defer wg.Done()
			started.Done()
			v, err := s.Fetch(context.Background(), Products, load)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	started.Wait()
	waitForLoad(t, &calls)
	// give the remaining callers time to join the pending load
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		assert.Equal(t, "rows", v)
	}
}

func TestFetchServesFreshValue(t *testing.T) {
	s := New(logs.Discard())
	var calls atomic.Int32
	load := func(context.Context) (any, error) {
		calls.Add(1)
		return int(calls.Load()), nil
	}
	ctx := context.Background()

	v, err := s.Fetch(ctx, Credit, load)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = s.Fetch(ctx, Credit, load)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	s.Invalidate(Credit)
	_, fresh := s.Peek(Credit)
	assert.False(t, fresh)

	v, err = s.Fetch(ctx, Credit, load)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, int32(2), calls.Load())
}

func TestInvalidateDuringLoadStartsNewLoad(t *testing.T) {
	s := New(logs.Discard())
	var oldCalls, newCalls atomic.Int32
	release := make(chan struct{})
	ctx := context.Background()

	oldDone := make(chan any)
	go func() {
		v, _ := s.Fetch(ctx, Products, blockingLoader(&oldCalls, release, "before"))
		oldDone <- v
	}()
	waitForLoad(t, &oldCalls)

	s.Invalidate(Products)

	v, err := s.Fetch(ctx, Products, func(context.Context) (any, error) {
		newCalls.Add(1)
		return "after", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "after", v)
	assert.Equal(t, int32(1), newCalls.Load(), "post-invalidation fetch must not join the old load")

	close(release)
	assert.Equal(t, "before", <-oldDone)

	got, fresh := s.Peek(Products)
	assert.True(t, fresh)
	assert.Equal(t, "after", got, "the pre-invalidation result must not overwrite the newer one")
}

func TestLoadOutlivingInvalidationIsNotFresh(t *testing.T) {
	s := New(logs.Discard())
	var calls atomic.Int32
	release := make(chan struct{})

	done := make(chan struct{})
	go func() {
		_, _ = s.Fetch(context.Background(), Summary, blockingLoader(&calls, release, "stale"))
		close(done)
	}()
	waitForLoad(t, &calls)

	s.Invalidate(Summary)
	close(release)
	<-done

	_, fresh := s.Peek(Summary)
	assert.False(t, fresh)
}

func TestCancelledCallerDiscardsLateResult(t *testing.T) {
	s := New(logs.Discard())
	var calls atomic.Int32
	release := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error)
	go func() {
		_, err := s.Fetch(ctx, Employees, blockingLoader(&calls, release, "late"))
		errc <- err
	}()
	waitForLoad(t, &calls)

	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)

	close(release)
	require.Eventually(t, func() bool {
		_, fresh := s.Peek(Employees)
		return fresh
	}, time.Second, time.Millisecond, "the shared load still completes for later readers")

	v, err := s.Fetch(context.Background(), Employees, nil)
	require.NoError(t, err)
	assert.Equal(t, "late", v)
	assert.Equal(t, int32(1), calls.Load())
}

func TestErrorsAreNotCached(t *testing.T) {
	s := New(logs.Discard())
	var calls atomic.Int32
	load := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("boom")
		}
		return "ok", nil
	}

	_, err := s.Fetch(context.Background(), Suppliers, load)
	require.EqualError(t, err, "boom")

	v, err := s.Fetch(context.Background(), Suppliers, load)
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestSubscribe(t *testing.T) {
	s := New(logs.Discard())
	var got []Key
	unsubscribe := s.Subscribe(Credit, func(k Key) { got = append(got, k) })

	s.Invalidate(Credit, Products)
	s.Invalidate(Products)
	assert.Equal(t, []Key{Credit}, got)

	unsubscribe()
	unsubscribe()
	s.Invalidate(Credit)
	assert.Len(t, got, 1)
}

func TestGetTyped(t *testing.T) {
	s := New(logs.Discard())
	ctx := context.Background()

	n, err := Get(ctx, s, PaymentHistory, func(context.Context) ([]int, error) { return []int{1, 2}, nil })
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, n)

	_, err = Get(ctx, s, PaymentHistory, func(context.Context) (string, error) { return "x", nil })
	assert.ErrorContains(t, err, "holds []int")
}
