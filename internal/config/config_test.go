package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_File(t *testing.T) {
	path := writeFile(t, "config.yaml", `
store:
  driver: sqlite
  path: /tmp/content.db
  seed: shows.yaml
block:
  limit: 3
  display_mode: code
server:
  addr: ":9090"
  base_url: https://tv.example
cache:
  backend: redis
  ttl: 30s
  redis_addr: redis:6379
logging:
  level: DEBUG
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, StoreDriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "/tmp/content.db", cfg.Store.Path)
	assert.Equal(t, "shows.yaml", cfg.Store.Seed)
	assert.Equal(t, 3, cfg.Block.Limit)
	assert.Equal(t, "code", cfg.Block.DisplayMode)
	assert.Equal(t, "tv_episode", cfg.Block.EntityType, "unset keys keep defaults")
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "https://tv.example", cfg.Server.BaseURL)
	assert.Equal(t, CacheBackendRedis, cfg.Cache.Backend)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "redis:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	path := writeFile(t, "config.yaml", "block:\n  limit: 3\n")
	t.Setenv("EPISODEBLOCK_BLOCK_LIMIT", "7")
	t.Setenv("EPISODEBLOCK_STORE_DRIVER", "memory")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Block.Limit)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "an explicit file must exist")

	path := writeFile(t, "bad.yaml", "block: [limit\n")
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store.Driver = StoreDriverPostgres
	cfg.Store.DSN = "postgres://localhost/episodes"
	cfg.Block.Limit = 4
	cfg.Cache.TTL = 90 * time.Second

	path, err := SaveConfig(cfg, filepath.Join(t.TempDir(), "nested", "config.yaml"))
	require.NoError(t, err)
	assert.FileExists(t, path)

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, StoreDriverBolt, cfg.Store.Driver)
	assert.Equal(t, "episodeblock.db", filepath.Base(cfg.Store.Path))
	assert.Equal(t, 5, cfg.Block.Limit)
	assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
}
