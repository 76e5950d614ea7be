package block

import (
	"context"

	"github.com/mmcdole/episodeblock/internal/domain"
)

// RelatedQuery describes the sibling lookup for the given show
func (b *Block) RelatedQuery(showID string) domain.RelatedItemQuery {
	return domain.RelatedItemQuery{
		PublishedOnly: true,
		TypeFilter:    b.cfg.EntityType,
		ShowID:        showID,
		SortKeys: []domain.SortKey{
			{Path: domain.Path(domain.FieldSeasonNumber, domain.RelSeason), Direction: domain.Desc},
			{Path: domain.Path(domain.FieldEpisodeNumber), Direction: domain.Desc},
		},
		Offset: 0,
		Limit:  b.cfg.Limit,
	}
}

// ResolveShowID returns the show the current item belongs to.
// A show resolves to itself, a season through its show reference and an
// episode through season then show. Returns "" when the chain is broken.
func (b *Block) ResolveShowID(ctx context.Context, currentID string) (string, error) {
	current, err := b.loadOne(ctx, currentID)
	if err != nil || current == nil {
		return "", err
	}

	switch {
	case current.IsShow():
		return current.ID, nil
	case current.IsSeason():
		return current.ShowID, nil
	}

	seasonID, ok := current.Reference(domain.RelSeason)
	if !ok {
		return "", nil
	}
	season, err := b.loadOne(ctx, seasonID)
	if err != nil || season == nil {
		return "", err
	}
	showID, _ := season.Reference(domain.RelShow)
	return showID, nil
}

func (b *Block) loadOne(ctx context.Context, id string) (*domain.ContentItem, error) {
	items, err := b.loader.LoadMultiple(ctx, domain.EntityTypeNode, []string{id})
	if err != nil {
		return nil, &QueryError{Op: "resolve", Err: err}
	}
	return items[id], nil
}

// FindRelated returns up to Limit episode IDs of the current item's show,
// latest season first, then latest episode first.
func (b *Block) FindRelated(ctx context.Context, currentID string) ([]string, error) {
	showID, err := b.ResolveShowID(ctx, currentID)
	if err != nil {
		return nil, err
	}
	if showID == "" {
		b.logger.Debug("current item has no show", "item", currentID)
		return nil, nil
	}

	ids, err := b.query.Execute(ctx, b.RelatedQuery(showID).EntityQuery())
	if err != nil {
		return nil, &QueryError{Op: "query", Err: err}
	}
	b.logger.Debug("related items found", "item", currentID, "show", showID, "count", len(ids))
	return ids, nil
}
