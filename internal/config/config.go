package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// StoreDriver identifies the content store backend
type StoreDriver string

const (
	StoreDriverMemory   StoreDriver = "memory"
	StoreDriverBolt     StoreDriver = "bolt"
	StoreDriverSQLite   StoreDriver = "sqlite"
	StoreDriverPostgres StoreDriver = "postgres"
)

// CacheBackend identifies the host render cache backend
type CacheBackend string

const (
	CacheBackendNone   CacheBackend = "none"
	CacheBackendMemory CacheBackend = "memory"
	CacheBackendRedis  CacheBackend = "redis"
)

// Config holds all application configuration
type Config struct {
	Store   StoreConfig   `mapstructure:"store"`
	Block   BlockConfig   `mapstructure:"block"`
	Server  ServerConfig  `mapstructure:"server"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// StoreConfig holds content store configuration
type StoreConfig struct {
	Driver StoreDriver `mapstructure:"driver"` // memory, bolt, sqlite, postgres
	Path   string      `mapstructure:"path"`   // bolt / sqlite file
	DSN    string      `mapstructure:"dsn"`    // postgres only
	Seed   string      `mapstructure:"seed"`   // optional YAML fixture loaded at startup
}

// BlockConfig holds the related episodes block settings
type BlockConfig struct {
	Limit       int    `mapstructure:"limit"`
	DisplayMode string `mapstructure:"display_mode"` // full, teaser, code
	EntityType  string `mapstructure:"entity_type"`  // content type listed by the block
}

// ServerConfig holds HTTP host configuration
type ServerConfig struct {
	Addr    string `mapstructure:"addr"`
	BaseURL string `mapstructure:"base_url"` // Prefix for generated links
}

// CacheConfig holds host render cache configuration
type CacheConfig struct {
	Backend   CacheBackend  `mapstructure:"backend"`
	TTL       time.Duration `mapstructure:"ttl"`
	RedisAddr string        `mapstructure:"redis_addr"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"` // empty = stderr
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Driver: StoreDriverBolt,
			Path:   filepath.Join(defaultDataPath(), "episodeblock.db"),
		},
		Block: BlockConfig{
			Limit:       5,
			DisplayMode: "full",
			EntityType:  "tv_episode",
		},
		Server: ServerConfig{
			Addr:    "127.0.0.1:8080",
			BaseURL: "",
		},
		Cache: CacheConfig{
			Backend:   CacheBackendMemory,
			TTL:       5 * time.Minute,
			RedisAddr: "localhost:6379",
		},
		Logging: LoggingConfig{
			File:  "",
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "episodeblock")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "episodeblock")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "episodeblock")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "episodeblock")
	}
}

// LoadConfig loads configuration from file and environment.
// An explicit file path takes precedence over the search paths.
func LoadConfig(file string) (*Config, error) {
	return load(viper.New(), file)
}

func load(v *viper.Viper, file string) (*Config, error) {
	cfg := DefaultConfig()
	setDefaults(v, cfg)

	if file != "" {
		if _, err := os.Stat(file); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides (EPISODEBLOCK_STORE_DRIVER, ...)
	v.SetEnvPrefix("EPISODEBLOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can see it during Unmarshal
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("store.driver", cfg.Store.Driver)
	v.SetDefault("store.path", cfg.Store.Path)
	v.SetDefault("store.dsn", cfg.Store.DSN)
	v.SetDefault("store.seed", cfg.Store.Seed)

	v.SetDefault("block.limit", cfg.Block.Limit)
	v.SetDefault("block.display_mode", cfg.Block.DisplayMode)
	v.SetDefault("block.entity_type", cfg.Block.EntityType)

	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.base_url", cfg.Server.BaseURL)

	v.SetDefault("cache.backend", cfg.Cache.Backend)
	v.SetDefault("cache.ttl", cfg.Cache.TTL)
	v.SetDefault("cache.redis_addr", cfg.Cache.RedisAddr)

	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// SaveConfig writes cfg to path, or to the default location when path is empty.
// Returns the file written.
func SaveConfig(cfg *Config, path string) (string, error) {
	if path == "" {
		path = filepath.Join(defaultConfigPath(), "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	// Set fields individually to ensure correct key names (snake_case)
	v.Set("store.driver", string(cfg.Store.Driver))
	v.Set("store.path", cfg.Store.Path)
	v.Set("store.dsn", cfg.Store.DSN)
	v.Set("store.seed", cfg.Store.Seed)

	v.Set("block.limit", cfg.Block.Limit)
	v.Set("block.display_mode", cfg.Block.DisplayMode)
	v.Set("block.entity_type", cfg.Block.EntityType)

	v.Set("server.addr", cfg.Server.Addr)
	v.Set("server.base_url", cfg.Server.BaseURL)

	v.Set("cache.backend", string(cfg.Cache.Backend))
	v.Set("cache.ttl", cfg.Cache.TTL.String())
	v.Set("cache.redis_addr", cfg.Cache.RedisAddr)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}
