package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldPathString(t *testing.T) {
	assert.Equal(t, "title", Path(FieldTitle).String())
	assert.Equal(t, "field_related_season.field_related_show.id", ShowPath.String())
}

func TestEntityQueryValidate(t *testing.T) {
	tests := []struct {
		name  string
		query *EntityQuery
		want  error
	}{
		{"valid", NewQuery(EntityTypeNode).Condition(Path(FieldStatus), OpEq, true).Sort(Path(FieldTitle), Asc).Range(0, 5), nil},
		{"missing entity type", NewQuery(""), ErrInvalidFieldPath},
		{"empty condition field", NewQuery(EntityTypeNode).Condition(FieldPath{}, OpEq, 1), ErrInvalidFieldPath},
		{"unsupported operator", NewQuery(EntityTypeNode).Condition(Path(FieldID), Operator(">"), 1), ErrUnsupportedOperator},
		{"empty sort field", NewQuery(EntityTypeNode).Sort(FieldPath{}, Asc), ErrInvalidFieldPath},
		{"bad direction", NewQuery(EntityTypeNode).Sort(Path(FieldID), Direction("up")), ErrInvalidFieldPath},
		{"negative offset", NewQuery(EntityTypeNode).Range(-1, 5), ErrInvalidFieldPath},
		{"negative limit", NewQuery(EntityTypeNode).Range(0, -5), ErrInvalidFieldPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRelatedItemQuery(t *testing.T) {
	q := RelatedItemQuery{
		PublishedOnly: true,
		TypeFilter:    TypeEpisode,
		ShowID:        "42",
		SortKeys: []SortKey{
			{Path: Path(FieldSeasonNumber, RelSeason), Direction: Desc},
			{Path: Path(FieldEpisodeNumber), Direction: Desc},
		},
		Offset: 0,
		Limit:  5,
	}.EntityQuery()

	require.NoError(t, q.Validate())
	assert.Equal(t, EntityTypeNode, q.EntityType)
	require.Len(t, q.Conditions, 3)
	assert.Equal(t, Condition{Path: Path(FieldStatus), Op: OpEq, Value: true}, q.Conditions[0])
	assert.Equal(t, Condition{Path: Path(FieldType), Op: OpEq, Value: TypeEpisode}, q.Conditions[1])
	assert.Equal(t, Condition{Path: ShowPath, Op: OpEq, Value: "42"}, q.Conditions[2])
	require.Len(t, q.Sorts, 2)
	assert.Equal(t, "field_related_season.field_season_number", q.Sorts[0].Path.String())
	assert.Equal(t, 5, q.Limit)

	t.Run("without optional filters", func(t *testing.T) {
		q := RelatedItemQuery{ShowID: "42"}.EntityQuery()
		require.Len(t, q.Conditions, 1)
		assert.Equal(t, ShowPath, q.Conditions[0].Path)
	})
}

func TestContentItemFields(t *testing.T) {
	ep := &ContentItem{ID: "7", Type: TypeEpisode, Title: "Pilot", Published: true, SeasonID: "3", EpisodeNumber: 1}
	season := &ContentItem{ID: "3", Type: TypeSeason, ShowID: "1", SeasonNumber: 0}

	v, ok := ep.Field(FieldEpisodeNumber)
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = ep.Field(FieldSeasonNumber)
	assert.False(t, ok, "episodes carry no season number")

	v, ok = season.Field(FieldSeasonNumber)
	assert.True(t, ok)
	assert.Equal(t, 0, v)

	v, ok = ep.Field(FieldStatus)
	assert.True(t, ok)
	assert.Equal(t, true, v)

	_, ok = ep.Field("field_rating")
	assert.False(t, ok)

	id, ok := ep.Reference(RelSeason)
	assert.True(t, ok)
	assert.Equal(t, "3", id)

	_, ok = ep.Reference(RelShow)
	assert.False(t, ok)

	id, ok = season.Reference(RelShow)
	assert.True(t, ok)
	assert.Equal(t, "1", id)

	assert.Equal(t, "S02E01", ep.EpisodeCode(2))
	assert.Equal(t, "", season.EpisodeCode(2))
	assert.Equal(t, "Specials", season.DisplayTitle())
	season.SeasonNumber = 3
	assert.Equal(t, "Season 3", season.DisplayTitle())
}

func TestNewListOutput(t *testing.T) {
	out := NewListOutput(nil)
	assert.Equal(t, ItemTypeList, out.ItemType)
	assert.NotNil(t, out.Items)
	assert.True(t, out.HasCacheContext(CacheContextRoute))
	assert.False(t, out.HasCacheContext("user"))

	data, err := json.Marshal(NewListOutput([]RenderListItem{{ID: "1", Title: "Pilot", Link: "/node/1"}}))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"item_type": "list",
		"items": [{"id": "1", "title": "Pilot", "link": "/node/1"}],
		"cache_contexts": ["route"]
	}`, string(data))
}
