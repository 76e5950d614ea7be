package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmcdole/episodeblock/internal/block"
	"github.com/mmcdole/episodeblock/internal/config"
	"github.com/mmcdole/episodeblock/internal/domain"
	"github.com/mmcdole/episodeblock/internal/fixture"
	"github.com/mmcdole/episodeblock/internal/log"
	"github.com/mmcdole/episodeblock/internal/render"
	"github.com/mmcdole/episodeblock/internal/store"
	"github.com/spf13/cobra"
)

// app holds the collaborators shared by commands
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  domain.ContentStore
	block  *block.Block
}

// setup loads configuration, opens the store and builds the block
func setup(cmd *cobra.Command) (*app, error) {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	st, err := store.Open(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	if cfg.Store.Seed != "" {
		n, err := seed(cmd.Context(), st, cfg.Store.Seed)
		if err != nil {
			st.Close()
			return nil, err
		}
		logger.Info("seeded store", "file", cfg.Store.Seed, "items", n)
	}

	b := block.New(
		st,
		st,
		render.NewFieldRenderer(st),
		render.NewURIResolver(cfg.Server.BaseURL),
		block.WithConfig(block.Config{
			Limit:       cfg.Block.Limit,
			DisplayMode: cfg.Block.DisplayMode,
			EntityType:  cfg.Block.EntityType,
		}),
		block.WithLogger(logger),
	)

	return &app{cfg: cfg, logger: logger, store: st, block: b}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// seed imports a YAML fixture into st
func seed(ctx context.Context, st domain.ContentStore, path string) (int, error) {
	f, err := fixture.Load(path)
	if err != nil {
		return 0, fmt.Errorf("failed to load fixture: %w", err)
	}
	items, err := f.Items()
	if err != nil {
		return 0, err
	}
	if err := st.Save(ctx, items); err != nil {
		return 0, fmt.Errorf("failed to save fixture: %w", err)
	}
	return len(items), nil
}

// clearStore removes every item from st
func clearStore(ctx context.Context, st domain.ContentStore) (int, error) {
	items, err := st.All(ctx)
	if err != nil {
		return 0, err
	}
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	if err := st.Delete(ctx, ids...); err != nil {
		return 0, fmt.Errorf("failed to clear store: %w", err)
	}
	return len(ids), nil
}
