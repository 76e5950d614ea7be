// Package cache stores rendered block output for the host pipeline, keyed by
// the cache contexts the output declares.
package cache

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/episodeblock/internal/domain"
)

// ErrCacheMiss is returned when a key is not in the cache
var ErrCacheMiss = errors.New("cache: key not found")

// Cache is a render output cache
type Cache interface {
	Get(ctx context.Context, key string) (domain.RenderOutput, error)
	Set(ctx context.Context, key string, out domain.RenderOutput, ttl time.Duration) error
	Close() error
}

// Key derives the cache key of a block for the given context values.
// It returns false if a context has no value, in which case the output must not be cached.
func Key(blockID string, contexts []string, values map[string]string) (string, bool) {
	sorted := append([]string(nil), contexts...)
	sort.Strings(sorted)

	parts := []string{blockID}
	for _, c := range sorted {
		v, ok := values[c]
		if !ok {
			return "", false
		}
		parts = append(parts, c+"="+v)
	}
	return strings.Join(parts, ":"), true
}
