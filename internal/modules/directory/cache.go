// README: Redis-backed read projections for the vendor directory and vendor menus.
package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const vendorsKey = "vendors:all"

func menuKey(vendorID string) string {
	return fmt.Sprintf("menu:%s", vendorID)
}

// RedisCache implements Cache on go-redis. Every call is bounded by the
// configured timeout so a slow cache can never stall a request.
type RedisCache struct {
	rdb     *redis.Client
	timeout time.Duration
}

func NewRedisCache(rdb *redis.Client, timeout time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, timeout: timeout}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	val, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, val []byte) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	// No TTL: explicit writes are the only invalidation mechanism.
	return c.rdb.Set(ctx, key, val, 0).Err()
}
