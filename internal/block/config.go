package block

import (
	"log/slog"

	"github.com/mmcdole/episodeblock/internal/domain"
)

// ID identifies the block to hosts (cache keys, metrics labels)
const ID = "related_episodes"

// AdminLabel is the human readable block name
const AdminLabel = "Related episodes"

// Defaults
const (
	DefaultLimit          = 5
	DefaultDisplayMode    = "full"
	DefaultRouteParameter = "node"
)

// Config holds the per-instance block configuration
type Config struct {
	Limit          int    // Maximum number of items listed
	DisplayMode    string // Display mode used for the title field
	EntityType     string // Content type (bundle) listed by the block
	RouteParameter string // Route parameter carrying the current item ID
}

// DefaultConfig returns the stock configuration
func DefaultConfig() Config {
	return Config{
		Limit:          DefaultLimit,
		DisplayMode:    DefaultDisplayMode,
		EntityType:     domain.TypeEpisode,
		RouteParameter: DefaultRouteParameter,
	}
}

// normalize replaces invalid values with defaults
func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.Limit <= 0 {
		c.Limit = def.Limit
	}
	if c.DisplayMode == "" {
		c.DisplayMode = def.DisplayMode
	}
	if c.EntityType == "" {
		c.EntityType = def.EntityType
	}
	if c.RouteParameter == "" {
		c.RouteParameter = def.RouteParameter
	}
	return c
}

// Option configures a Block
type Option func(*Block)

// WithConfig overrides the block configuration
func WithConfig(cfg Config) Option {
	return func(b *Block) { b.cfg = cfg.normalize() }
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(b *Block) {
		if logger != nil {
			b.logger = logger
		}
	}
}
