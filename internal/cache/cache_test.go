package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/mmcdole/episodeblock/internal/cache"
	"github.com/mmcdole/episodeblock/internal/config"
	"github.com/mmcdole/episodeblock/internal/domain"
	"github.com/mmcdole/episodeblock/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOutput() domain.RenderOutput {
	return domain.NewListOutput([]domain.RenderListItem{
		{ID: "3", Title: "Return", Link: "/node/3"},
		{ID: "1", Title: "Pilot", Link: "/node/1"},
	})
}

func TestKey(t *testing.T) {
	key, ok := cache.Key("related_episodes", []string{"route"}, map[string]string{"route": "/node/{node}|1"})
	assert.True(t, ok)
	assert.Equal(t, "related_episodes:route=/node/{node}|1", key)

	// Context order does not matter
	a, _ := cache.Key("b", []string{"user", "route"}, map[string]string{"route": "r", "user": "u"})
	b, _ := cache.Key("b", []string{"route", "user"}, map[string]string{"route": "r", "user": "u"})
	assert.Equal(t, a, b)

	_, ok = cache.Key("b", []string{"route", "user"}, map[string]string{"route": "r"})
	assert.False(t, ok)

	key, ok = cache.Key("b", nil, nil)
	assert.True(t, ok)
	assert.Equal(t, "b", key)
}

func TestMemoryCache(t *testing.T) {
	c := cache.NewMemoryCache(time.Minute, time.Minute)
	defer c.Close()
	ctx := context.Background()

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", sampleOutput(), 0))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, sampleOutput(), got)
	assert.Equal(t, 1, c.Count())

	require.NoError(t, c.Close())
	assert.Equal(t, 0, c.Count())
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := cache.NewMemoryCache(time.Minute, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", sampleOutput(), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestRedisCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	ctx := context.Background()
	c, err := cache.NewRedisCache(ctx, mr.Addr())
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Get(ctx, "related_episodes:route=1")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "related_episodes:route=1", sampleOutput(), time.Minute))
	assert.True(t, mr.Exists("episodeblock:render:related_episodes:route=1"))

	got, err := c.Get(ctx, "related_episodes:route=1")
	require.NoError(t, err)
	assert.Equal(t, sampleOutput(), got)

	mr.FastForward(2 * time.Minute)
	_, err = c.Get(ctx, "related_episodes:route=1")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = cache.NewRedisCache(context.Background(), addr)
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	c, err := cache.Open(ctx, config.CacheConfig{Backend: config.CacheBackendNone})
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = cache.Open(ctx, config.CacheConfig{Backend: config.CacheBackendMemory, TTL: time.Minute})
	require.NoError(t, err)
	assert.IsType(t, &cache.MemoryCache{}, c)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	c, err = cache.Open(ctx, config.CacheConfig{Backend: config.CacheBackendRedis, RedisAddr: mr.Addr()})
	require.NoError(t, err)
	assert.IsType(t, &cache.RedisCache{}, c)
	c.Close()

	_, err = cache.Open(ctx, config.CacheConfig{Backend: "memcached"})
	assert.Error(t, err)
}

// countingBuilder counts renders and echoes the route's node parameter
type countingBuilder struct {
	calls int
	err   error
}

func (b *countingBuilder) Build(_ context.Context, route domain.RouteContext) (domain.RenderOutput, error) {
	b.calls++
	if b.err != nil {
		return domain.RenderOutput{}, b.err
	}
	id, _ := route.Parameter("node")
	return domain.NewListOutput([]domain.RenderListItem{{ID: id, Title: "Item " + id, Link: "/node/" + id}}), nil
}

type route map[string]string

func (r route) Parameter(name string) (string, bool) {
	v, ok := r[name]
	return v, ok
}

func TestCachedBuilder(t *testing.T) {
	inner := &countingBuilder{}
	b := cache.NewCachedBuilder("related_episodes", inner, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute, log.NullLogger())
	ctx := context.Background()

	out, hit, err := b.Build(ctx, route{"node": "1"}, map[string]string{"route": "1"})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "1", out.Items[0].ID)

	out, hit, err = b.Build(ctx, route{"node": "1"}, map[string]string{"route": "1"})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "1", out.Items[0].ID)
	assert.Equal(t, 1, inner.calls)

	// A different route value is a different entry
	out, hit, err = b.Build(ctx, route{"node": "2"}, map[string]string{"route": "2"})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "2", out.Items[0].ID)
	assert.Equal(t, 2, inner.calls)

	// Missing context value bypasses the cache
	_, hit, err = b.Build(ctx, route{"node": "1"}, nil)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 3, inner.calls)
}

func TestCachedBuilder_ErrorsAreNotCached(t *testing.T) {
	boom := errors.New("store down")
	inner := &countingBuilder{err: boom}
	b := cache.NewCachedBuilder("related_episodes", inner, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, hit, err := b.Build(ctx, route{"node": "1"}, map[string]string{"route": "1"})
		assert.ErrorIs(t, err, boom)
		assert.False(t, hit)
	}
	assert.Equal(t, 2, inner.calls)

	inner.err = nil
	_, hit, err := b.Build(ctx, route{"node": "1"}, map[string]string{"route": "1"})
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCachedBuilder_RedisFailureFallsBackToRender(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	ctx := context.Background()

	rc, err := cache.NewRedisCache(ctx, mr.Addr())
	require.NoError(t, err)
	defer rc.Close()

	inner := &countingBuilder{}
	b := cache.NewCachedBuilder("related_episodes", inner, rc, time.Minute, log.NullLogger())

	_, _, err = b.Build(ctx, route{"node": "1"}, map[string]string{"route": "1"})
	require.NoError(t, err)

	mr.Close()
	out, hit, err := b.Build(ctx, route{"node": "1"}, map[string]string{"route": "1"})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "1", out.Items[0].ID)
	assert.Equal(t, 2, inner.calls)
}
