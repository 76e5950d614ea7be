package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mmcdole/episodeblock/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketItems = []byte("items")
	bucketMeta  = []byte("meta")
)

// BoltStore implements domain.ContentStore using BoltDB.
// Items are stored as JSON keyed by ID, so natural order is byte order of IDs.
type BoltStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string]*domain.ContentItem
	// gen counts invalidations. Reads only promote when it is unchanged.
	gen uint64

	afterRead func() // test hook, runs between the bolt read and promotion
}

// Ensure BoltStore implements ContentStore
var _ domain.ContentStore = (*BoltStore)(nil)

// NewBoltStore opens (or creates) the database at path
func NewBoltStore(path string) (*BoltStore, error) {
	if path == "" {
		return nil, fmt.Errorf("bolt store requires a path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open bolt db: %v", domain.ErrStoreUnavailable, err)
	}

	// Create buckets
	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketItems, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db, cache: make(map[string]*domain.ContentItem)}, nil
}

func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *BoltStore) Save(ctx context.Context, items []*domain.ContentItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketItems)
		for _, item := range items {
			if item == nil || item.ID == "" {
				continue
			}
			data, err := json.Marshal(item)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(item.ID), data); err != nil {
				return err
			}
		}
		return tx.Bucket(bucketMeta).Put([]byte("updated_at"), []byte(fmt.Sprint(time.Now().Unix())))
	})
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item != nil {
			ids = append(ids, item.ID)
		}
	}
	s.invalidate(ids)
	return nil
}

// invalidate drops stale cache entries once a write has committed
func (s *BoltStore) invalidate(ids []string) {
	s.mu.Lock()
	s.gen++
	for _, id := range ids {
		delete(s.cache, id)
	}
	s.mu.Unlock()
}

// Delete removes items from both the database and the memory cache
func (s *BoltStore) Delete(ctx context.Context, ids ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketItems)
		for _, id := range ids {
			if err := b.Delete([]byte(id)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ids)
	return nil
}

func (s *BoltStore) All(ctx context.Context) ([]*domain.ContentItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var items []*domain.ContentItem
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketItems).ForEach(func(k, v []byte) error {
			var item domain.ContentItem
			if err := json.Unmarshal(v, &item); err != nil {
				return fmt.Errorf("decode item %s: %w", k, err)
			}
			items = append(items, &item)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *BoltStore) Execute(ctx context.Context, q *domain.EntityQuery) ([]string, error) {
	if err := checkPaths(q); err != nil {
		return nil, err
	}

	items, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]*domain.ContentItem, len(items))
	for _, item := range items {
		index[item.ID] = item
	}
	lookup := func(id string) *domain.ContentItem { return index[id] }

	return evaluate(items, lookup, q), nil
}

func (s *BoltStore) LoadMultiple(ctx context.Context, entityType string, ids []string) (map[string]*domain.ContentItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if entityType != domain.EntityTypeNode {
		return nil, fmt.Errorf("%w: unknown entity type %q", domain.ErrInvalidFieldPath, entityType)
	}

	out := make(map[string]*domain.ContentItem, len(ids))
	var missing []string

	// Check memory cache first
	s.mu.RLock()
	gen := s.gen
	for _, id := range ids {
		if item, ok := s.cache[id]; ok {
			cp := *item
			out[id] = &cp
		} else {
			missing = append(missing, id)
		}
	}
	s.mu.RUnlock()

	if len(missing) == 0 {
		return out, nil
	}

	// Read the rest from BoltDB in one transaction
	loaded := make(map[string]*domain.ContentItem, len(missing))
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketItems)
		for _, id := range missing {
			v := b.Get([]byte(id))
			if v == nil {
				continue
			}
			var item domain.ContentItem
			if err := json.Unmarshal(v, &item); err != nil {
				return fmt.Errorf("decode item %s: %w", id, err)
			}
			loaded[id] = &item
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.afterRead != nil {
		s.afterRead()
	}

	// Promote to memory cache unless a write landed during the read
	s.mu.Lock()
	promote := s.gen == gen
	for id, item := range loaded {
		if promote {
			s.cache[id] = item
		}
		cp := *item
		out[id] = &cp
	}
	s.mu.Unlock()

	return out, nil
}
