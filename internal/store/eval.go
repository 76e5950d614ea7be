package store

import (
	"fmt"
	"sort"

	"github.com/mmcdole/episodeblock/internal/domain"
)

// knownFields lists the scalar fields a path may end in
var knownFields = map[string]bool{
	domain.FieldID:            true,
	domain.FieldType:          true,
	domain.FieldTitle:         true,
	domain.FieldStatus:        true,
	domain.FieldAddedAt:       true,
	domain.FieldEpisodeNumber: true,
	domain.FieldSeasonNumber:  true,
}

// knownRelations lists the reference fields a path may traverse
var knownRelations = map[string]bool{
	domain.RelSeason: true,
	domain.RelShow:   true,
}

// checkPaths rejects queries that name fields or relations no store knows about
func checkPaths(q *domain.EntityQuery) error {
	if err := q.Validate(); err != nil {
		return err
	}
	if q.EntityType != domain.EntityTypeNode {
		return fmt.Errorf("%w: unknown entity type %q", domain.ErrInvalidFieldPath, q.EntityType)
	}
	check := func(p domain.FieldPath) error {
		for _, hop := range p.Hops {
			if !knownRelations[hop] {
				return fmt.Errorf("%w: unknown relation %q in %s", domain.ErrInvalidFieldPath, hop, p)
			}
		}
		if !knownFields[p.Field] {
			return fmt.Errorf("%w: unknown field %q in %s", domain.ErrInvalidFieldPath, p.Field, p)
		}
		return nil
	}
	for _, c := range q.Conditions {
		if err := check(c.Path); err != nil {
			return err
		}
	}
	for _, s := range q.Sorts {
		if err := check(s.Path); err != nil {
			return err
		}
	}
	return nil
}

// resolve follows the path's hops from item and reads the target field.
// A broken relation yields (nil, false).
func resolve(item *domain.ContentItem, p domain.FieldPath, lookup func(string) *domain.ContentItem) (any, bool) {
	cur := item
	for _, hop := range p.Hops {
		id, ok := cur.Reference(hop)
		if !ok {
			return nil, false
		}
		cur = lookup(id)
		if cur == nil {
			return nil, false
		}
	}
	return cur.Field(p.Field)
}

// evaluate runs q over items, which must be in the store's natural order.
// Ties on all sort keys keep that order.
func evaluate(items []*domain.ContentItem, lookup func(string) *domain.ContentItem, q *domain.EntityQuery) []string {
	type row struct {
		item *domain.ContentItem
		keys []any
	}

	var rows []row
	for _, item := range items {
		if !matches(item, q.Conditions, lookup) {
			continue
		}
		keys := make([]any, len(q.Sorts))
		for i, s := range q.Sorts {
			v, _ := resolve(item, s.Path, lookup)
			keys[i] = v
		}
		rows = append(rows, row{item: item, keys: keys})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		for k, s := range q.Sorts {
			c := compare(rows[i].keys[k], rows[j].keys[k])
			if c == 0 {
				continue
			}
			if s.Direction == domain.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})

	start := q.Offset
	if start > len(rows) {
		start = len(rows)
	}
	end := len(rows)
	if q.Limit > 0 && start+q.Limit < end {
		end = start + q.Limit
	}

	ids := make([]string, 0, end-start)
	for _, r := range rows[start:end] {
		ids = append(ids, r.item.ID)
	}
	return ids
}

func matches(item *domain.ContentItem, conds []domain.Condition, lookup func(string) *domain.ContentItem) bool {
	for _, c := range conds {
		v, ok := resolve(item, c.Path, lookup)
		// Unset values never match, like SQL NULL
		if !ok {
			return false
		}
		eq := compare(v, c.Value) == 0 && sameKind(v, c.Value)
		switch c.Op {
		case domain.OpEq:
			if !eq {
				return false
			}
		case domain.OpNotEq:
			if eq {
				return false
			}
		}
	}
	return true
}

// compare orders two field values. nil sorts before everything else.
// Mixed kinds fall back to comparing their string forms.
func compare(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	if ai, ok := toInt(a); ok {
		if bi, ok := toInt(b); ok {
			switch {
			case ai < bi:
				return -1
			case ai > bi:
				return 1
			}
			return 0
		}
	}

	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	}
	return 0
}

func sameKind(a, b any) bool {
	_, aInt := toInt(a)
	_, bInt := toInt(b)
	if aInt || bInt {
		return aInt == bInt
	}
	return true
}

// toInt normalizes integer and boolean values; booleans map to 0/1 as status flags do
func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}
