package domain

import (
	"fmt"
	"strings"
)

// FieldPath addresses a field, optionally through a chain of reference fields.
// Hops are followed in order starting at the queried item, then Field is read
// on the item reached by the last hop.
//
//	FieldPath{Hops: []string{RelSeason, RelShow}, Field: FieldID}  // season.show.id
type FieldPath struct {
	Hops  []string
	Field string
}

// Path builds a FieldPath for field, reached through the given relations.
func Path(field string, via ...string) FieldPath {
	return FieldPath{Hops: via, Field: field}
}

// String returns the dotted form of the path
func (p FieldPath) String() string {
	if len(p.Hops) == 0 {
		return p.Field
	}
	return strings.Join(p.Hops, ".") + "." + p.Field
}

// Operator compares a field value against a condition value
type Operator string

const (
	OpEq    Operator = "="
	OpNotEq Operator = "<>"
)

// Condition is a single (field-path, operator, value) filter
type Condition struct {
	Path  FieldPath
	Op    Operator
	Value any
}

// Direction is a sort direction
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// SortKey orders results by a field path
type SortKey struct {
	Path      FieldPath
	Direction Direction
}

// EntityQuery is the request accepted by a QueryService.
// All conditions are ANDed. A Limit of 0 means no limit.
type EntityQuery struct {
	EntityType string
	Conditions []Condition
	Sorts      []SortKey
	Offset     int
	Limit      int
}

// NewQuery starts a query against an entity type
func NewQuery(entityType string) *EntityQuery {
	return &EntityQuery{EntityType: entityType}
}

// Condition adds a filter
func (q *EntityQuery) Condition(path FieldPath, op Operator, value any) *EntityQuery {
	q.Conditions = append(q.Conditions, Condition{Path: path, Op: op, Value: value})
	return q
}

// Sort appends a sort key; earlier keys take precedence
func (q *EntityQuery) Sort(path FieldPath, dir Direction) *EntityQuery {
	q.Sorts = append(q.Sorts, SortKey{Path: path, Direction: dir})
	return q
}

// Range restricts the result window
func (q *EntityQuery) Range(offset, limit int) *EntityQuery {
	q.Offset = offset
	q.Limit = limit
	return q
}

// Validate checks the query for malformed paths and operators
func (q *EntityQuery) Validate() error {
	if q.EntityType == "" {
		return fmt.Errorf("%w: missing entity type", ErrInvalidFieldPath)
	}
	for _, c := range q.Conditions {
		if c.Path.Field == "" {
			return fmt.Errorf("%w: condition without field", ErrInvalidFieldPath)
		}
		if c.Op != OpEq && c.Op != OpNotEq {
			return fmt.Errorf("%w: %q", ErrUnsupportedOperator, c.Op)
		}
	}
	for _, s := range q.Sorts {
		if s.Path.Field == "" {
			return fmt.Errorf("%w: sort without field", ErrInvalidFieldPath)
		}
		if s.Direction != Asc && s.Direction != Desc {
			return fmt.Errorf("%w: sort direction %q", ErrInvalidFieldPath, s.Direction)
		}
	}
	if q.Offset < 0 || q.Limit < 0 {
		return fmt.Errorf("%w: negative range", ErrInvalidFieldPath)
	}
	return nil
}

// RelatedItemQuery describes the sibling-episode lookup in domain terms.
// It is converted to an EntityQuery before it reaches a QueryService.
type RelatedItemQuery struct {
	PublishedOnly bool
	TypeFilter    string
	ShowID        string
	SortKeys      []SortKey
	Offset        int
	Limit         int
}

// ShowPath is the path from an episode to the identifier of its show
var ShowPath = Path(FieldID, RelSeason, RelShow)

// EntityQuery converts the related-item description into a generic query
func (r RelatedItemQuery) EntityQuery() *EntityQuery {
	q := NewQuery(EntityTypeNode)
	if r.PublishedOnly {
		q.Condition(Path(FieldStatus), OpEq, true)
	}
	if r.TypeFilter != "" {
		q.Condition(Path(FieldType), OpEq, r.TypeFilter)
	}
	q.Condition(ShowPath, OpEq, r.ShowID)
	for _, s := range r.SortKeys {
		q.Sort(s.Path, s.Direction)
	}
	return q.Range(r.Offset, r.Limit)
}
