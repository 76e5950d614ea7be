package block

import (
	"context"

	"github.com/mmcdole/episodeblock/internal/domain"
)

// Render projects items into a linked list. Items whose title or link
// cannot be produced are skipped.
func (b *Block) Render(ctx context.Context, items []*domain.ContentItem) domain.RenderOutput {
	list := make([]domain.RenderListItem, 0, len(items))
	for _, item := range items {
		title, err := b.fields.RenderField(ctx, item, domain.FieldTitle, b.cfg.DisplayMode)
		if err != nil {
			b.logger.Warn("skipping item without renderable title", "item", item.ID, "error", err)
			continue
		}
		link, err := b.uris.Resolve(item)
		if err != nil {
			b.logger.Warn("skipping item without link", "item", item.ID, "error", err)
			continue
		}
		list = append(list, domain.RenderListItem{ID: item.ID, Title: title, Link: link})
	}
	return domain.NewListOutput(list)
}
