package store

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/mmcdole/episodeblock/internal/domain"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"
)

const contentTable = "content_items"

// maxBindVars keeps every statement under SQLite's host parameter limit
// (999 before 3.32). Inserts bind one variable per column of each row.
const (
	maxBindVars  = 900
	rowBatchSize = maxBindVars / 10
)

// contentRow is the single-table layout of every content item.
// Relation and ordering columns are NULL where they do not apply.
type contentRow struct {
	ID            string  `gorm:"column:id;primaryKey"`
	Type          string  `gorm:"column:type;index"`
	Title         string  `gorm:"column:title"`
	Published     bool    `gorm:"column:published;index"`
	Summary       string  `gorm:"column:summary"`
	AddedAt       int64   `gorm:"column:added_at"`
	SeasonID      *string `gorm:"column:season_id;index"`
	ShowID        *string `gorm:"column:show_id;index"`
	SeasonNumber  *int    `gorm:"column:season_number"`
	EpisodeNumber *int    `gorm:"column:episode_number"`
}

func (contentRow) TableName() string { return contentTable }

// fieldColumns maps field names to columns
var fieldColumns = map[string]string{
	domain.FieldID:            "id",
	domain.FieldType:          "type",
	domain.FieldTitle:         "title",
	domain.FieldStatus:        "published",
	domain.FieldAddedAt:       "added_at",
	domain.FieldEpisodeNumber: "episode_number",
	domain.FieldSeasonNumber:  "season_number",
}

// relationColumns maps reference fields to their foreign key columns
var relationColumns = map[string]string{
	domain.RelSeason: "season_id",
	domain.RelShow:   "show_id",
}

func toRow(item *domain.ContentItem) contentRow {
	row := contentRow{
		ID:        item.ID,
		Type:      item.Type,
		Title:     item.Title,
		Published: item.Published,
		Summary:   item.Summary,
		AddedAt:   item.AddedAt,
	}
	if item.SeasonID != "" {
		id := item.SeasonID
		row.SeasonID = &id
	}
	if item.ShowID != "" {
		id := item.ShowID
		row.ShowID = &id
	}
	switch item.Type {
	case domain.TypeSeason:
		n := item.SeasonNumber
		row.SeasonNumber = &n
	case domain.TypeEpisode:
		n := item.EpisodeNumber
		row.EpisodeNumber = &n
	}
	return row
}

func (r contentRow) item() *domain.ContentItem {
	item := &domain.ContentItem{
		ID:        r.ID,
		Type:      r.Type,
		Title:     r.Title,
		Published: r.Published,
		Summary:   r.Summary,
		AddedAt:   r.AddedAt,
	}
	if r.SeasonID != nil {
		item.SeasonID = *r.SeasonID
	}
	if r.ShowID != nil {
		item.ShowID = *r.ShowID
	}
	if r.SeasonNumber != nil {
		item.SeasonNumber = *r.SeasonNumber
	}
	if r.EpisodeNumber != nil {
		item.EpisodeNumber = *r.EpisodeNumber
	}
	return item
}

// SQLStore implements domain.ContentStore on a relational database through gorm.
// Relation hops in field paths become self-joins on the content table.
// Natural order is ascending ID.
type SQLStore struct {
	db *gorm.DB
}

// Ensure SQLStore implements ContentStore
var _ domain.ContentStore = (*SQLStore)(nil)

// OpenSQLite opens a SQLite database file (or ":memory:")
func OpenSQLite(path string) (*SQLStore, error) {
	return NewSQLStore(sqlite.Open(path))
}

// OpenPostgres opens a PostgreSQL database
func OpenPostgres(dsn string) (*SQLStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres store requires a dsn")
	}
	return NewSQLStore(postgres.Open(dsn))
}

// NewSQLStore opens the dialector and migrates the content table
func NewSQLStore(dialector gorm.Dialector) (*SQLStore, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if err := db.AutoMigrate(&contentRow{}); err != nil {
		return nil, fmt.Errorf("migrate content table: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLStore) Save(ctx context.Context, items []*domain.ContentItem) error {
	rows := make([]contentRow, 0, len(items))
	for _, item := range items {
		if item == nil || item.ID == "" {
			continue
		}
		rows = append(rows, toRow(item))
	}
	if len(rows) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		CreateInBatches(&rows, rowBatchSize).Error
}

// Delete removes items by ID
func (s *SQLStore) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, chunk := range chunkIDs(ids) {
			if err := tx.Where("id IN ?", chunk).Delete(&contentRow{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// chunkIDs splits ids into slices that fit in one IN list
func chunkIDs(ids []string) [][]string {
	chunks := make([][]string, 0, len(ids)/maxBindVars+1)
	for len(ids) > maxBindVars {
		chunks = append(chunks, ids[:maxBindVars])
		ids = ids[maxBindVars:]
	}
	return append(chunks, ids)
}

func (s *SQLStore) All(ctx context.Context) ([]*domain.ContentItem, error) {
	var rows []contentRow
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]*domain.ContentItem, len(rows))
	for i, r := range rows {
		items[i] = r.item()
	}
	return items, nil
}

func (s *SQLStore) LoadMultiple(ctx context.Context, entityType string, ids []string) (map[string]*domain.ContentItem, error) {
	if entityType != domain.EntityTypeNode {
		return nil, fmt.Errorf("%w: unknown entity type %q", domain.ErrInvalidFieldPath, entityType)
	}
	out := make(map[string]*domain.ContentItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	for _, chunk := range chunkIDs(ids) {
		var rows []contentRow
		if err := s.db.WithContext(ctx).
			Model(&contentRow{}).
			Where("id IN ?", chunk).
			Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, r := range rows {
			out[r.ID] = r.item()
		}
	}
	return out, nil
}

func (s *SQLStore) Execute(ctx context.Context, q *domain.EntityQuery) ([]string, error) {
	if err := checkPaths(q); err != nil {
		return nil, err
	}

	j := newJoiner()
	tx := s.db.WithContext(ctx).Table(contentTable + " AS n")

	for _, c := range q.Conditions {
		op := "="
		if c.Op == domain.OpNotEq {
			op = "<>"
		}
		tx = tx.Where(j.column(c.Path)+" "+op+" ?", c.Value)
	}

	// Nulls sort as the smallest value, matching the in-process stores
	for _, sk := range q.Sorts {
		order := j.column(sk.Path) + " ASC NULLS FIRST"
		if sk.Direction == domain.Desc {
			order = j.column(sk.Path) + " DESC NULLS LAST"
		}
		tx = tx.Order(order)
	}
	tx = tx.Order("n.id ASC")

	for _, join := range j.joins {
		tx = tx.Joins(join)
	}

	switch {
	case q.Limit > 0:
		tx = tx.Limit(q.Limit)
	case q.Offset > 0:
		tx = tx.Limit(math.MaxInt32)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}

	var ids []string
	if err := tx.Pluck("n.id", &ids).Error; err != nil {
		return nil, fmt.Errorf("query content: %w", err)
	}
	return ids, nil
}

// joiner assigns one aliased LEFT JOIN per distinct relation prefix
type joiner struct {
	aliases map[string]string
	joins   []string
}

func newJoiner() *joiner {
	return &joiner{aliases: make(map[string]string)}
}

// column returns the qualified column for a field path, adding joins as needed.
// Paths must have been checked against the known fields and relations.
func (j *joiner) column(p domain.FieldPath) string {
	alias := "n"
	prefix := ""
	for _, hop := range p.Hops {
		prefix += hop + "."
		next, ok := j.aliases[prefix]
		if !ok {
			next = "r" + strconv.Itoa(len(j.aliases)+1)
			j.aliases[prefix] = next
			j.joins = append(j.joins, fmt.Sprintf(
				"LEFT JOIN %s AS %s ON %s.id = %s.%s",
				contentTable, next, next, alias, relationColumns[hop],
			))
		}
		alias = next
	}
	return alias + "." + fieldColumns[p.Field]
}
