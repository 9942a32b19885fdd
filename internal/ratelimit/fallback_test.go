package ratelimit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackLimiterAllowsWithinPerMinuteLimit(t *testing.T) {
	limits := map[Tier]TierLimits{
		TierFree: {PerMinute: 2, PerHour: 100},
	}
	l := NewFallbackLimiter(limits)
	ctx := context.Background()

	d1, err := l.Allow(ctx, "alice", TierFree)
	require.NoError(t, err)
	assert.True(t, d1.Allowed)

	d2, err := l.Allow(ctx, "alice", TierFree)
	require.NoError(t, err)
	assert.True(t, d2.Allowed)
}

func TestFallbackLimiterBlocksOverPerMinuteLimit(t *testing.T) {
	limits := map[Tier]TierLimits{
		TierFree: {PerMinute: 1, PerHour: 100},
	}
	l := NewFallbackLimiter(limits)
	ctx := context.Background()

	_, err := l.Allow(ctx, "bob", TierFree)
	require.NoError(t, err)

	d, err := l.Allow(ctx, "bob", TierFree)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 1, d.Limit)
}

func TestFallbackLimiterCountsKeysIndependently(t *testing.T) {
	limits := map[Tier]TierLimits{
		TierFree: {PerMinute: 1, PerHour: 100},
	}
	l := NewFallbackLimiter(limits)
	ctx := context.Background()

	_, err := l.Allow(ctx, "alice", TierFree)
	require.NoError(t, err)

	d, err := l.Allow(ctx, "carol", TierFree)
	require.NoError(t, err)
	assert.True(t, d.Allowed, "a different key must not share alice's counter")
}

func TestFallbackLimiterFallsBackToDefaultTier(t *testing.T) {
	limits := map[Tier]TierLimits{
		TierDefault: {PerMinute: 1, PerHour: 100},
	}
	l := NewFallbackLimiter(limits)
	ctx := context.Background()

	d, err := l.Allow(ctx, "dave", Tier("unknown-tier"))
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Limit)
}

func TestNewFallbackLimiterUsesDefaultTierLimitsWhenNil(t *testing.T) {
	l := NewFallbackLimiter(nil)
	assert.Equal(t, DefaultTierLimits[TierFree].PerMinute, l.limits[TierFree].PerMinute)
}
