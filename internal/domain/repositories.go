package domain

import (
	"context"
)

// QueryService executes entity queries and returns matching identifiers in result order
type QueryService interface {
	// Execute runs the query. An empty result is not an error.
	Execute(ctx context.Context, q *EntityQuery) ([]string, error)
}

// EntityLoader resolves identifiers into full records
type EntityLoader interface {
	// LoadMultiple loads all ids in one batch. Ids that do not resolve are
	// absent from the returned map; no ordering is implied.
	LoadMultiple(ctx context.Context, entityType string, ids []string) (map[string]*ContentItem, error)
}

// ContentStore is a backend that can both query and load content, and be seeded
type ContentStore interface {
	QueryService
	EntityLoader

	// Save inserts or replaces items
	Save(ctx context.Context, items []*ContentItem) error

	// Delete removes items; unknown ids are ignored
	Delete(ctx context.Context, ids ...string) error

	// All returns every item in the store's natural order
	All(ctx context.Context) ([]*ContentItem, error)

	Close() error
}

// FieldRenderer formats a field of an item for a display mode
type FieldRenderer interface {
	RenderField(ctx context.Context, item *ContentItem, field, displayMode string) (string, error)
}

// URIResolver returns the canonical link target of an item
type URIResolver interface {
	Resolve(item *ContentItem) (string, error)
}

// RouteContext is the per-request binding of URL to resolved content
type RouteContext interface {
	// Parameter returns a route parameter by name
	Parameter(name string) (string, bool)
}
