package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// GoodsTTL bounds staleness of cached goods projections served to anonymous
// readers.
const GoodsTTL = 30 * time.Second

// GoodsKey returns the cache key for a goods detail projection.
func GoodsKey(goodsID uint) string {
	return fmt.Sprintf("goods:%d", goodsID)
}

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// Aside tries Redis first, on miss it calls fetch (which must populate dest),
// then stores the result with ttl. Cache population is best-effort.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := GetJSON(ctx, key, dest)
	if err == nil && found {
		return nil
	}

	if err := fetch(); err != nil {
		return err
	}

	_ = SetJSON(ctx, key, dest, ttl)
	return nil
}

// Invalidate removes a key. Best-effort; a miss or an unreachable Redis is
// not an error.
func Invalidate(ctx context.Context, key string) {
	if client == nil {
		return
	}
	_ = client.Del(ctx, key).Err()
}

// InvalidateGoods drops the cached projection of a goods item.
func InvalidateGoods(ctx context.Context, goodsID uint) {
	Invalidate(ctx, GoodsKey(goodsID))
}
