package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ncecere/gateway_insights/internal/activity"
)

// ActivityCache stores assembled daily activity windows so repeated dashboard
// loads skip the Postgres assembly. It is best-effort: a miss or Redis error
// simply falls through to the store.
type ActivityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewActivityCache(client *redis.Client, ttl time.Duration) *ActivityCache {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &ActivityCache{client: client, ttl: ttl}
}

// WindowKey identifies one cached activity window.
func WindowKey(start, end time.Time, timezone string) string {
	return fmt.Sprintf("activity:%d:%d:%s", start.Unix(), end.Unix(), timezone)
}

func (c *ActivityCache) Get(ctx context.Context, key string) ([]activity.DailyActivity, bool) {
	if c == nil || c.client == nil || key == "" {
		return nil, false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var days []activity.DailyActivity
	if err := json.Unmarshal(data, &days); err != nil {
		return nil, false
	}
	return days, true
}

func (c *ActivityCache) Set(ctx context.Context, key string, days []activity.DailyActivity) {
	if c == nil || c.client == nil || key == "" {
		return
	}
	data, err := json.Marshal(days)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, data, c.ttl)
}

// Invalidate drops a cached window, used after backfills rewrite history.
func (c *ActivityCache) Invalidate(ctx context.Context, key string) {
	if c == nil || c.client == nil || key == "" {
		return
	}
	c.client.Del(ctx, key)
}
