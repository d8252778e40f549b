package ratelimit

import (
	"context"
	"sync"
	"time"
)

// sweepInterval is how often Allow drops keys whose windows have emptied.
const sweepInterval = time.Minute

// MemoryWindow implements WindowLimiter with an in-memory sliding window per key.
type MemoryWindow struct {
	mu        sync.Mutex
	buckets   map[string]*slidingWindow
	now       func() time.Time
	lastSweep time.Time
}

type slidingWindow struct {
	timestamps []time.Time
	window     time.Duration
}

// MemoryOption configures a MemoryWindow.
type MemoryOption func(*MemoryWindow)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *MemoryWindow) { m.now = now }
}

// NewMemoryWindow creates an empty in-memory window limiter.
func NewMemoryWindow(opts ...MemoryOption) *MemoryWindow {
	m := &MemoryWindow{
		buckets: make(map[string]*slidingWindow),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var _ WindowLimiter = (*MemoryWindow)(nil)

// Allow records an event for key if fewer than limit events happened inside window.
func (m *MemoryWindow) Allow(_ context.Context, key string, limit int, window time.Duration) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.Sub(m.lastSweep) >= sweepInterval {
		m.sweep(now)
	}
	sw := m.bucket(key, window)
	sw.cleanup(now)

	if len(sw.timestamps) < limit {
		sw.timestamps = append(sw.timestamps, now)
		return Result{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit - len(sw.timestamps),
			ResetAt:   sw.timestamps[0].Add(window),
		}, nil
	}

	resetAt := now.Add(window)
	if len(sw.timestamps) > 0 {
		resetAt = sw.timestamps[0].Add(window)
	}
	return Result{
		Allowed:    false,
		Limit:      limit,
		Remaining:  0,
		RetryAfter: resetAt.Sub(now),
		ResetAt:    resetAt,
	}, nil
}

// Reset clears the history for a key.
func (m *MemoryWindow) Reset(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.buckets, key)
}

// sweep must be called while holding m.mu.
func (m *MemoryWindow) sweep(now time.Time) {
	for key, sw := range m.buckets {
		sw.cleanup(now)
		if len(sw.timestamps) == 0 {
			delete(m.buckets, key)
		}
	}
	m.lastSweep = now
}

// bucket must be called while holding m.mu.
func (m *MemoryWindow) bucket(key string, window time.Duration) *slidingWindow {
	if sw := m.buckets[key]; sw != nil {
		sw.window = window
		return sw
	}
	sw := &slidingWindow{window: window}
	m.buckets[key] = sw
	return sw
}

func (sw *slidingWindow) cleanup(now time.Time) {
	cutoff := now.Add(-sw.window)
	i := 0
	for ; i < len(sw.timestamps); i++ {
		if sw.timestamps[i].After(cutoff) {
			break
		}
	}
	sw.timestamps = sw.timestamps[i:]
}
