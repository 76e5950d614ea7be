package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mmcdole/episodeblock/internal/domain"
	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is an in-process cache backed by patrickmn/go-cache.
// Values are stored JSON encoded so callers never share slices.
type MemoryCache struct {
	cache *gocache.Cache
}

// Ensure MemoryCache implements Cache
var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache creates a cache purging expired entries every cleanupInterval
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{cache: gocache.New(defaultTTL, cleanupInterval)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (domain.RenderOutput, error) {
	val, found := c.cache.Get(key)
	if !found {
		return domain.RenderOutput{}, ErrCacheMiss
	}
	data, ok := val.([]byte)
	if !ok {
		return domain.RenderOutput{}, ErrCacheMiss
	}
	var out domain.RenderOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return domain.RenderOutput{}, err
	}
	return out, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, out domain.RenderOutput, ttl time.Duration) error {
	data, err := json.Marshal(out)
	if err != nil {
		return err
	}
	c.cache.Set(key, data, ttl)
	return nil
}

// Count returns the number of cached entries, expired ones included until cleanup
func (c *MemoryCache) Count() int {
	return c.cache.ItemCount()
}

func (c *MemoryCache) Close() error {
	c.cache.Flush()
	return nil
}
