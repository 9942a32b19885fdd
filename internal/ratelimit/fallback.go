package ratelimit

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/VictoriaMetrics/fastcache"
)

const fallbackCacheBytes = 32 * 1024 * 1024

// FallbackLimiter is the in-process limiter used when Redis is unreachable:
// minute/hour windows only, no day window, no burst allowance. Counters
// live in a fastcache.Cache keyed by "<key>:<window>:<bucket>", which ages
// old buckets out via its own eviction rather than explicit TTLs.
type FallbackLimiter struct {
	mu     sync.Mutex
	cache  *fastcache.Cache
	limits map[Tier]TierLimits
}

// NewFallbackLimiter returns a FallbackLimiter using limits
// (DefaultTierLimits if nil).
func NewFallbackLimiter(limits map[Tier]TierLimits) *FallbackLimiter {
	if limits == nil {
		limits = DefaultTierLimits
	}
	return &FallbackLimiter{
		cache:  fastcache.New(fallbackCacheBytes),
		limits: limits,
	}
}

func (l *FallbackLimiter) Allow(ctx context.Context, key string, tier Tier) (Decision, error) {
	lim, ok := l.limits[tier]
	if !ok {
		lim = l.limits[TierDefault]
	}

	now := time.Now()
	minuteKey := []byte(fmt.Sprintf("%s:min:%d", key, now.Unix()/60))
	hourKey := []byte(fmt.Sprintf("%s:hour:%d", key, now.Unix()/3600))

	l.mu.Lock()
	minuteCount := l.incr(minuteKey)
	hourCount := l.incr(hourKey)
	l.mu.Unlock()

	if minuteCount > int64(lim.PerMinute) {
		return Decision{Allowed: false, Limit: lim.PerMinute, RetryAfter: time.Minute}, nil
	}
	if hourCount > int64(lim.PerHour) {
		return Decision{Allowed: false, Limit: lim.PerHour, RetryAfter: time.Hour}, nil
	}

	remaining := int(int64(lim.PerMinute) - minuteCount)
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: true, Limit: lim.PerMinute, Remaining: remaining}, nil
}

// incr increments the 8-byte big-endian counter stored under key, creating
// it at 1 if absent. Caller must hold l.mu.
func (l *FallbackLimiter) incr(key []byte) int64 {
	buf, ok := l.cache.HasGet(nil, key)
	var n uint64
	if ok && len(buf) == 8 {
		n = binary.BigEndian.Uint64(buf)
	}
	n++
	var out [8]byte
	binary.BigEndian.PutUint64(out[:], n)
	l.cache.Set(key, out[:])
	return int64(n)
}
