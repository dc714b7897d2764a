package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasteLimiter_AcquireRelease(t *testing.T) {
	limiter := NewPasteLimiter(2, time.Second)
	ctx := context.Background()

	assert.Equal(t, 0, limiter.ActiveCount())
	assert.Equal(t, 2, limiter.Available())

	require.NoError(t, limiter.Acquire(ctx))
	require.NoError(t, limiter.Acquire(ctx))
	assert.Equal(t, 2, limiter.ActiveCount())
	assert.Equal(t, 0, limiter.Available())

	limiter.Release()
	assert.Equal(t, 1, limiter.ActiveCount())
	assert.Equal(t, 1, limiter.Available())

	limiter.Release()
	assert.Equal(t, 0, limiter.ActiveCount())
}

func TestPasteLimiter_TimesOutWhenFull(t *testing.T) {
	limiter := NewPasteLimiter(1, 50*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, limiter.Acquire(ctx))
	defer limiter.Release()

	start := time.Now()
	err := limiter.Acquire(ctx)

	assert.ErrorIs(t, err, ErrTooManyPastes)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestPasteLimiter_ConcurrentAccess(t *testing.T) {
	const maxConcurrent = 3
	limiter := NewPasteLimiter(maxConcurrent, time.Second)

	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		maxObserved int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := limiter.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire failed: %v", err)
				return
			}
			defer limiter.Release()

			mu.Lock()
			maxObserved = max(maxObserved, limiter.ActiveCount())
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, maxObserved, maxConcurrent)
	assert.Equal(t, 0, limiter.ActiveCount())
}

func TestPasteLimiter_TryAcquire(t *testing.T) {
	limiter := NewPasteLimiter(1, time.Second)

	require.True(t, limiter.TryAcquire())
	assert.False(t, limiter.TryAcquire())

	limiter.Release()
	require.True(t, limiter.TryAcquire())
	limiter.Release()
}

func TestPasteLimiter_ContextCancellation(t *testing.T) {
	limiter := NewPasteLimiter(1, 5*time.Second)
	require.NoError(t, limiter.Acquire(context.Background()))
	defer limiter.Release()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- limiter.Acquire(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Acquire did not return after context cancellation")
	}
}

func TestPasteLimiter_WaitForDrain(t *testing.T) {
	limiter := NewPasteLimiter(2, time.Second)
	require.NoError(t, limiter.Acquire(context.Background()))

	done := make(chan error, 1)
	go func() { done <- limiter.WaitForDrain(context.Background()) }()

	select {
	case <-done:
		t.Fatal("WaitForDrain returned with a paste in flight")
	case <-time.After(30 * time.Millisecond):
	}

	limiter.Release()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("WaitForDrain did not complete after release")
	}
}

func TestPasteLimiter_WaitForDrainCancelled(t *testing.T) {
	limiter := NewPasteLimiter(1, time.Second)
	require.NoError(t, limiter.Acquire(context.Background()))
	defer limiter.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, limiter.WaitForDrain(ctx), context.DeadlineExceeded)
}

func TestPasteLimiter_Status(t *testing.T) {
	limiter := NewPasteLimiter(3, time.Second)
	require.NoError(t, limiter.Acquire(context.Background()))
	defer limiter.Release()

	assert.Equal(t, LimiterStatus{Active: 1, Available: 2, MaxConcurrent: 3}, limiter.Status())
}

func TestPasteLimiter_Defaults(t *testing.T) {
	limiter := NewPasteLimiter(0, 0)
	assert.Equal(t, DefaultMaxConcurrentPastes, limiter.MaxConcurrent())
}
