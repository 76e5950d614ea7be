package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/mmcdole/episodeblock/internal/domain"
)

// MemoryStore keeps content in process. Natural order is insertion order;
// re-saving an item keeps its original position.
type MemoryStore struct {
	mu    sync.RWMutex
	order []string
	items map[string]*domain.ContentItem
}

// Ensure MemoryStore implements ContentStore
var _ domain.ContentStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(items ...*domain.ContentItem) *MemoryStore {
	s := &MemoryStore{items: make(map[string]*domain.ContentItem)}
	s.put(items)
	return s
}

func (s *MemoryStore) put(items []*domain.ContentItem) {
	for _, item := range items {
		if item == nil || item.ID == "" {
			continue
		}
		if _, exists := s.items[item.ID]; !exists {
			s.order = append(s.order, item.ID)
		}
		cp := *item
		s.items[item.ID] = &cp
	}
}

func (s *MemoryStore) Save(_ context.Context, items []*domain.ContentItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(items)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
		delete(s.items, id)
	}
	kept := s.order[:0]
	for _, id := range s.order {
		if !drop[id] {
			kept = append(kept, id)
		}
	}
	s.order = kept
	return nil
}

func (s *MemoryStore) All(_ context.Context) ([]*domain.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(), nil
}

func (s *MemoryStore) snapshot() []*domain.ContentItem {
	out := make([]*domain.ContentItem, 0, len(s.order))
	for _, id := range s.order {
		cp := *s.items[id]
		out = append(out, &cp)
	}
	return out
}

func (s *MemoryStore) Execute(ctx context.Context, q *domain.EntityQuery) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkPaths(q); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	lookup := func(id string) *domain.ContentItem { return s.items[id] }
	return evaluate(s.snapshot(), lookup, q), nil
}

func (s *MemoryStore) LoadMultiple(ctx context.Context, entityType string, ids []string) (map[string]*domain.ContentItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if entityType != domain.EntityTypeNode {
		return nil, fmt.Errorf("%w: unknown entity type %q", domain.ErrInvalidFieldPath, entityType)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]*domain.ContentItem, len(ids))
	for _, id := range ids {
		if item, ok := s.items[id]; ok {
			cp := *item
			out[id] = &cp
		}
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
