// README: Redis cache for the per-customer cart projection; write-through, no TTL.
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

func cartKey(customerID string) string {
	return fmt.Sprintf("cartItems:%s", customerID)
}

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
	// No TTL: the entry is always overwritten with a full snapshot after
	// every cart mutation, never expired.
	return c.rdb.Set(ctx, key, val, 0).Err()
}
