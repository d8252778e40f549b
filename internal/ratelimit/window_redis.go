package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"complyhub/internal/config"
)

// slidingWindowScript trims, counts and conditionally records one event atomically.
// Returns {allowed, remaining, retry_after_ms}.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count < limit then
  redis.call('ZADD', key, now, ARGV[4])
  redis.call('PEXPIRE', key, window)
  return {1, limit - count - 1, 0}
end
local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local retry = window
if oldest[2] then
  retry = window - (now - tonumber(oldest[2]))
end
return {0, 0, retry}
`)

// RedisWindow implements WindowLimiter on a Redis sorted set so every instance shares the count.
type RedisWindow struct {
	client redis.Scripter
	prefix string
	now    func() time.Time
}

// NewRedisWindow creates a shared window limiter. Keys are stored under prefix.
func NewRedisWindow(client redis.Scripter, prefix string) *RedisWindow {
	if prefix == "" {
		prefix = "ratelimit:"
	}
	return &RedisWindow{client: client, prefix: prefix, now: time.Now}
}

var _ WindowLimiter = (*RedisWindow)(nil)

// Allow records an event for key if fewer than limit events happened inside window.
func (r *RedisWindow) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	now := r.now()
	res, err := slidingWindowScript.Run(ctx, r.client, []string{r.prefix + key},
		now.UnixMilli(), window.Milliseconds(), limit, uuid.NewString()).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("redis sliding window: %w", err)
	}
	if len(res) != 3 {
		return Result{}, fmt.Errorf("redis sliding window: unexpected reply of %d values", len(res))
	}

	out := Result{
		Allowed:   res[0] == 1,
		Limit:     limit,
		Remaining: int(res[1]),
	}
	if out.Allowed {
		out.ResetAt = now.Add(window)
		return out, nil
	}
	out.RetryAfter = time.Duration(res[2]) * time.Millisecond
	out.ResetAt = now.Add(out.RetryAfter)
	return out, nil
}

// NewRedisClient connects to Redis. It returns nil, nil when no URL is configured.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}
