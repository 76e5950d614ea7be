package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/episodeblock/internal/domain"
)

// Builder produces block output for a route
type Builder interface {
	Build(ctx context.Context, route domain.RouteContext) (domain.RenderOutput, error)
}

// CachedBuilder serves a block from cache. The cache contexts a block declares
// are learned from its first render; until then every request renders.
type CachedBuilder struct {
	id     string
	inner  Builder
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger

	mu       sync.RWMutex
	contexts []string
}

// NewCachedBuilder wraps inner; blockID namespaces the cache keys
func NewCachedBuilder(blockID string, inner Builder, c Cache, ttl time.Duration, logger *slog.Logger) *CachedBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedBuilder{id: blockID, inner: inner, cache: c, ttl: ttl, logger: logger}
}

// Build returns cached output for the request's context values, rendering on a miss.
// The bool result reports a cache hit.
func (b *CachedBuilder) Build(ctx context.Context, route domain.RouteContext, values map[string]string) (domain.RenderOutput, bool, error) {
	b.mu.RLock()
	contexts := b.contexts
	b.mu.RUnlock()

	if contexts != nil {
		if key, ok := Key(b.id, contexts, values); ok {
			out, err := b.cache.Get(ctx, key)
			switch {
			case err == nil:
				return out, true, nil
			case !errors.Is(err, ErrCacheMiss):
				b.logger.Warn("render cache read failed", "key", key, "error", err)
			}
		}
	}

	out, err := b.inner.Build(ctx, route)
	if err != nil {
		return domain.RenderOutput{}, false, err
	}

	b.mu.Lock()
	b.contexts = append([]string{}, out.CacheContexts...)
	b.mu.Unlock()

	key, ok := Key(b.id, out.CacheContexts, values)
	if !ok {
		b.logger.Debug("output not cacheable for request", "block", b.id, "contexts", out.CacheContexts)
		return out, false, nil
	}
	if err := b.cache.Set(ctx, key, out, b.ttl); err != nil {
		b.logger.Warn("render cache write failed", "key", key, "error", err)
	}
	return out, false, nil
}
