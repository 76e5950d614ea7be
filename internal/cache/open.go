package cache

import (
	"context"
	"fmt"

	"github.com/mmcdole/episodeblock/internal/config"
)

// Open creates the cache selected by cfg. Returns nil for the none backend.
func Open(ctx context.Context, cfg config.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case config.CacheBackendNone, "":
		return nil, nil
	case config.CacheBackendMemory:
		return NewMemoryCache(cfg.TTL, 2*cfg.TTL), nil
	case config.CacheBackendRedis:
		return NewRedisCache(ctx, cfg.RedisAddr)
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.Backend)
	}
}
