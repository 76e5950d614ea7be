package store

import (
	"fmt"

	"github.com/mmcdole/episodeblock/internal/config"
	"github.com/mmcdole/episodeblock/internal/domain"
)

// Open creates the content store selected by cfg
func Open(cfg config.StoreConfig) (domain.ContentStore, error) {
	switch cfg.Driver {
	case config.StoreDriverMemory, "":
		return NewMemoryStore(), nil
	case config.StoreDriverBolt:
		return NewBoltStore(cfg.Path)
	case config.StoreDriverSQLite:
		path := cfg.Path
		if path == "" {
			path = ":memory:"
		}
		return OpenSQLite(path)
	case config.StoreDriverPostgres:
		return OpenPostgres(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Driver)
	}
}
