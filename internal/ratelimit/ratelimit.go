// Package ratelimit holds the in-process pacer used before outbound calls and the
// sliding-window limiters used for reindex and request-level quotas.
//
// The in-memory implementations are process-wide state: they are created once at
// startup, do not survive restarts and are not shared between instances. A
// multi-instance deployment should use RedisWindow for the window limits.
package ratelimit

import (
	"context"
	"time"
)

// Result describes the outcome of a window check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
	ResetAt    time.Time
}

// WindowLimiter admits at most limit events per key inside a sliding window.
type WindowLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}
