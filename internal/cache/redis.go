package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mmcdole/episodeblock/internal/domain"
	"github.com/redis/go-redis/v9"
)

const redisPrefix = "episodeblock:render:"

// RedisCache shares rendered output between host processes
type RedisCache struct {
	client *redis.Client
}

// Ensure RedisCache implements Cache
var _ Cache = (*RedisCache)(nil)

// NewRedisCache connects to addr and verifies the connection
func NewRedisCache(ctx context.Context, addr string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (domain.RenderOutput, error) {
	data, err := c.client.Get(ctx, redisPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.RenderOutput{}, ErrCacheMiss
	}
	if err != nil {
		return domain.RenderOutput{}, err
	}
	var out domain.RenderOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return domain.RenderOutput{}, err
	}
	return out, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, out domain.RenderOutput, ttl time.Duration) error {
	data, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, redisPrefix+key, data, ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
