// Package ratelimit implements the gateway's multi-tier sliding-window rate
// limiter: per-minute/hour/day counters backed by Redis, plus a burst
// allowance tracked with a sorted set, and an in-process fallback used
// when Redis is unreachable.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v7"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// logger resolves the sugared logger at call time rather than caching it at
// package-init, since zap.ReplaceGlobals runs later in each binary's run()
// and a var captured at init would be permanently bound to the no-op default.
func logger() *zap.SugaredLogger {
	return zap.L().Sugar().Named("ratelimit")
}

// Tier names the caller classes the default configuration table covers.
type Tier string

const (
	TierFree       Tier = "free"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
	TierIP         Tier = "ip"
	TierDefault    Tier = "default"
)

// TierLimits is one tier's window caps plus its burst allowance.
type TierLimits struct {
	PerMinute int
	PerHour   int
	PerDay    int
	Burst     int // max requests allowed within the sliding burstWindow
}

// DefaultTierLimits is the default per-tier configuration table.
var DefaultTierLimits = map[Tier]TierLimits{
	TierFree:       {PerMinute: 30, PerHour: 500, PerDay: 2000, Burst: 5},
	TierPro:        {PerMinute: 120, PerHour: 5000, PerDay: 50000, Burst: 20},
	TierEnterprise: {PerMinute: 600, PerHour: 20000, PerDay: 200000, Burst: 50},
	TierIP:         {PerMinute: 100, PerHour: 2000, PerDay: 20000, Burst: 20},
	TierDefault:    {PerMinute: 60, PerHour: 1000, PerDay: 10000, Burst: 10},
}

// burstWindow is the sliding window the burst counter tracks requests over.
const burstWindow = 60 * time.Second

// Decision is the outcome of a rate-limit check, carrying enough to set the
// gateway's X-RateLimit-* / Retry-After response headers.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAfter time.Duration
	RetryAfter time.Duration
}

// Limiter is the interface the gateway middleware depends on; both the
// Redis-backed limiter and the in-process fallback satisfy it.
type Limiter interface {
	Allow(ctx context.Context, key string, tier Tier) (Decision, error)
}

// RedisLimiter implements Limiter against a shared Redis instance: INCR+EXPIRE
// per window for the minute/hour/day counters, and a ZADD/ZREMRANGEBYSCORE/
// ZCARD sorted set for the short burst allowance.
type RedisLimiter struct {
	client *redis.Client
	limits map[Tier]TierLimits
}

// NewRedisLimiter connects to redisURL (a redis://... URL) and returns a
// limiter using limits (DefaultTierLimits if nil).
func NewRedisLimiter(redisURL string, limits map[Tier]TierLimits) (*RedisLimiter, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse REDIS_URL")
	}
	client := redis.NewClient(opt)
	if err := client.Ping().Err(); err != nil {
		return nil, errors.Wrap(err, "ping redis")
	}
	if limits == nil {
		limits = DefaultTierLimits
	}
	return &RedisLimiter{client: client, limits: limits}, nil
}

// Close releases the underlying Redis connection pool.
func (l *RedisLimiter) Close() error { return l.client.Close() }

func (l *RedisLimiter) Allow(ctx context.Context, key string, tier Tier) (Decision, error) {
	lim, ok := l.limits[tier]
	if !ok {
		lim = l.limits[TierDefault]
	}

	now := time.Now()
	minuteKey := fmt.Sprintf("ratelimit:%s:min:%d", key, now.Unix()/60)
	hourKey := fmt.Sprintf("ratelimit:%s:hour:%d", key, now.Unix()/3600)
	dayKey := fmt.Sprintf("ratelimit:%s:day:%d", key, now.Unix()/86400)

	minuteCount, err := l.incrWithExpire(minuteKey, time.Minute)
	if err != nil {
		return Decision{}, err
	}
	hourCount, err := l.incrWithExpire(hourKey, time.Hour)
	if err != nil {
		return Decision{}, err
	}
	dayCount, err := l.incrWithExpire(dayKey, 24*time.Hour)
	if err != nil {
		return Decision{}, err
	}

	burstCount, err := l.recordBurst(key, now)
	if err != nil {
		return Decision{}, err
	}

	minuteReset := time.Minute - time.Duration(now.Unix()%60)*time.Second
	switch {
	case minuteCount > int64(lim.PerMinute):
		return Decision{Allowed: false, Limit: lim.PerMinute, Remaining: 0, ResetAfter: minuteReset, RetryAfter: minuteReset}, nil
	case hourCount > int64(lim.PerHour):
		hourReset := time.Hour - time.Duration(now.Unix()%3600)*time.Second
		return Decision{Allowed: false, Limit: lim.PerHour, Remaining: 0, ResetAfter: hourReset, RetryAfter: hourReset}, nil
	case dayCount > int64(lim.PerDay):
		dayReset := 24*time.Hour - time.Duration(now.Unix()%86400)*time.Second
		return Decision{Allowed: false, Limit: lim.PerDay, Remaining: 0, ResetAfter: dayReset, RetryAfter: dayReset}, nil
	case burstCount > int64(lim.Burst):
		return Decision{Allowed: false, Limit: lim.Burst, Remaining: 0, ResetAfter: burstWindow, RetryAfter: burstWindow}, nil
	}

	remaining := int(int64(lim.PerMinute) - minuteCount)
	if r := int(int64(lim.PerHour) - hourCount); r < remaining {
		remaining = r
	}
	if r := int(int64(lim.PerDay) - dayCount); r < remaining {
		remaining = r
	}
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: true, Limit: lim.PerMinute, Remaining: remaining, ResetAfter: minuteReset}, nil
}

func (l *RedisLimiter) incrWithExpire(key string, ttl time.Duration) (int64, error) {
	pipe := l.client.TxPipeline()
	incr := pipe.Incr(key)
	pipe.Expire(key, ttl)
	if _, err := pipe.Exec(); err != nil {
		return 0, errors.Wrapf(err, "incr %s", key)
	}
	return incr.Val(), nil
}

// recordBurst tracks request timestamps in a sorted set keyed by key,
// trims anything older than burstWindow, and returns the current count.
func (l *RedisLimiter) recordBurst(key string, now time.Time) (int64, error) {
	setKey := "ratelimit:" + key + ":burst"
	member := fmt.Sprintf("%d-%d", now.UnixNano(), now.Nanosecond())
	pipe := l.client.TxPipeline()
	pipe.ZAdd(setKey, &redis.Z{Score: float64(now.UnixNano()), Member: member})
	pipe.ZRemRangeByScore(setKey, "-inf", fmt.Sprintf("%d", now.Add(-burstWindow).UnixNano()))
	card := pipe.ZCard(setKey)
	pipe.Expire(setKey, burstWindow*2)
	if _, err := pipe.Exec(); err != nil {
		return 0, errors.Wrapf(err, "record burst %s", key)
	}
	return card.Val(), nil
}
