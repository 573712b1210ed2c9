package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncecere/gateway_insights/internal/activity"
)

func newTestCache(t *testing.T) (*ActivityCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewActivityCache(client, time.Minute), mr
}

func TestActivityCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	days := []activity.DailyActivity{
		{
			Date:    "2025-06-01",
			Metrics: activity.SpendMetrics{Spend: 1.5, APIRequests: 3},
			Breakdown: activity.Breakdown{
				Models: map[string]activity.EntityActivity{
					"gpt-4": {Metrics: activity.SpendMetrics{Spend: 1.5, APIRequests: 3}},
				},
			},
		},
	}

	key := WindowKey(time.Unix(100, 0), time.Unix(200, 0), "UTC")
	cache.Set(ctx, key, days)

	got, ok := cache.Get(ctx, key)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "2025-06-01", got[0].Date)
	assert.Equal(t, int64(3), got[0].Breakdown.Models["gpt-4"].Metrics.APIRequests)
}

func TestActivityCacheMissAndExpiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	_, ok := cache.Get(ctx, "activity:missing")
	assert.False(t, ok)

	key := WindowKey(time.Unix(100, 0), time.Unix(200, 0), "UTC")
	cache.Set(ctx, key, []activity.DailyActivity{{Date: "2025-06-01"}})
	mr.FastForward(2 * time.Minute)

	_, ok = cache.Get(ctx, key)
	assert.False(t, ok)
}

func TestActivityCacheInvalidate(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	key := WindowKey(time.Unix(100, 0), time.Unix(200, 0), "UTC")
	cache.Set(ctx, key, []activity.DailyActivity{{Date: "2025-06-01"}})
	cache.Invalidate(ctx, key)

	_, ok := cache.Get(ctx, key)
	assert.False(t, ok)
}

func TestActivityCacheNilClientSafe(t *testing.T) {
	var cache *ActivityCache
	_, ok := cache.Get(context.Background(), "k")
	assert.False(t, ok)
	cache.Set(context.Background(), "k", nil)
	cache.Invalidate(context.Background(), "k")
}
