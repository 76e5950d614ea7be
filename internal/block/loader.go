package block

import (
	"context"

	"github.com/mmcdole/episodeblock/internal/domain"
)

// Load resolves ids in one batch and returns the items in the order of ids.
// The loader returns a map, so query order is restored here. Ids that no
// longer resolve are dropped.
func (b *Block) Load(ctx context.Context, ids []string) ([]*domain.ContentItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	byID, err := b.loader.LoadMultiple(ctx, domain.EntityTypeNode, ids)
	if err != nil {
		return nil, &QueryError{Op: "load", Err: err}
	}

	items := make([]*domain.ContentItem, 0, len(ids))
	for _, id := range ids {
		item, ok := byID[id]
		if !ok || item == nil {
			b.logger.Debug("related item vanished before load", "item", id)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}
