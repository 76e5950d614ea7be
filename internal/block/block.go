// Package block implements the related episodes block: given the content item
// bound to the current route, it lists the latest episodes of the same show.
package block

import (
	"context"
	"log/slog"

	"github.com/mmcdole/episodeblock/internal/domain"
)

// Block lists sibling episodes of the current item's show.
// It holds no state between builds and is safe for concurrent use as long as
// its collaborators are.
type Block struct {
	query  domain.QueryService
	loader domain.EntityLoader
	fields domain.FieldRenderer
	uris   domain.URIResolver
	cfg    Config
	logger *slog.Logger
}

// New creates a block from its collaborators
func New(
	query domain.QueryService,
	loader domain.EntityLoader,
	fields domain.FieldRenderer,
	uris domain.URIResolver,
	opts ...Option,
) *Block {
	b := &Block{
		query:  query,
		loader: loader,
		fields: fields,
		uris:   uris,
		cfg:    DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Config returns the effective configuration
func (b *Block) Config() Config { return b.cfg }

// Build renders the block for a route.
// A route without a content item, or an item without a show, yields an empty list.
// Query and load failures are returned as *QueryError.
func (b *Block) Build(ctx context.Context, route domain.RouteContext) (domain.RenderOutput, error) {
	currentID, ok := CurrentItemID(route, b.cfg.RouteParameter)
	if !ok {
		return domain.NewListOutput(nil), nil
	}

	ids, err := b.FindRelated(ctx, currentID)
	if err != nil {
		b.logger.Error("related items query failed", "item", currentID, "error", err)
		return domain.RenderOutput{}, err
	}

	items, err := b.Load(ctx, ids)
	if err != nil {
		b.logger.Error("related items load failed", "item", currentID, "error", err)
		return domain.RenderOutput{}, err
	}

	return b.Render(ctx, items), nil
}
