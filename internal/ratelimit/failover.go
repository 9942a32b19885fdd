package ratelimit

import (
	"context"
)

// FailoverLimiter tries the Redis-backed limiter first and falls back to
// the in-process limiter for the duration of any Redis error, logging the
// degradation once per failure.
type FailoverLimiter struct {
	primary  *RedisLimiter
	fallback *FallbackLimiter
}

// NewFailoverLimiter wraps primary with fallback.
func NewFailoverLimiter(primary *RedisLimiter, fallback *FallbackLimiter) *FailoverLimiter {
	return &FailoverLimiter{primary: primary, fallback: fallback}
}

func (l *FailoverLimiter) Allow(ctx context.Context, key string, tier Tier) (Decision, error) {
	decision, err := l.primary.Allow(ctx, key, tier)
	if err != nil {
		logger().Warnw("redis rate limiter unavailable, using in-process fallback", "err", err)
		return l.fallback.Allow(ctx, key, tier)
	}
	return decision, nil
}

// Close releases the underlying Redis connection pool.
func (l *FailoverLimiter) Close() error { return l.primary.Close() }
