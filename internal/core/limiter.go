package core

// limiter.go bounds how many pastes are processed at once.
//
// Parsing clipboard HTML and rendering tables is CPU bound, so a burst of
// large pastes is queued behind a semaphore. When all slots are occupied,
// new requests wait up to maxWait before failing with ErrTooManyPastes.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyPastes is returned when all paste slots are occupied and the
// wait timeout expires. Clients should retry after a short delay.
var ErrTooManyPastes = errors.New("too many concurrent pastes, please try again later")

// DefaultMaxConcurrentPastes is the default limit for parallel pastes.
const DefaultMaxConcurrentPastes = 16

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 5 * time.Second

// PasteLimiter controls concurrent paste processing using a semaphore.
type PasteLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// NewPasteLimiter creates a limiter that allows at most maxConcurrent
// simultaneous pastes. Non-positive arguments select the defaults.
func NewPasteLimiter(maxConcurrent int, maxWait time.Duration) *PasteLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentPastes
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}

	return &PasteLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire waits for a slot. It returns ErrTooManyPastes when maxWait
// expires and ctx.Err() when ctx ends first.
// The caller MUST call Release() when the paste completes (use defer).
func (l *PasteLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil

	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyPastes
	}
}

// TryAcquire attempts to acquire a slot without blocking.
func (l *PasteLimiter) TryAcquire() bool {
	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return true
	default:
		return false
	}
}

// Release releases a previously acquired slot.
// Must be called exactly once for each successful Acquire/TryAcquire.
func (l *PasteLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// ActiveCount returns the number of pastes currently being processed.
func (l *PasteLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// MaxConcurrent returns the maximum allowed concurrent pastes.
func (l *PasteLimiter) MaxConcurrent() int {
	return cap(l.semaphore)
}

// Available returns the number of free slots.
func (l *PasteLimiter) Available() int {
	return cap(l.semaphore) - len(l.semaphore)
}

// WaitForDrain blocks until no paste is in flight or ctx is cancelled.
// The server calls it during graceful shutdown.
func (l *PasteLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// LimiterStatus is a snapshot of the limiter's state.
type LimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state for the health endpoint.
func (l *PasteLimiter) Status() LimiterStatus {
	l.mu.RLock()
	active := l.active
	l.mu.RUnlock()

	return LimiterStatus{
		Active:        active,
		Available:     l.Available(),
		MaxConcurrent: cap(l.semaphore),
	}
}
