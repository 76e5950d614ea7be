package search

import (
	"testing"

	"github.com/mmcdole/episodeblock/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items() []*domain.ContentItem {
	return []*domain.ContentItem{
		{ID: "1", Type: domain.TypeShow, Title: "Pilot Light"},
		{ID: "2", Type: domain.TypeEpisode, Title: "Pilot"},
		{ID: "3", Type: domain.TypeShow, Title: "Mr. Robot"},
		{ID: "4", Type: domain.TypeEpisode, Title: "Breakup"},
		{ID: "5", Type: domain.TypeSeason, SeasonNumber: 2},
	}
}

func TestFindByTitle(t *testing.T) {
	matches := FindByTitle("pilot", items())
	require.Len(t, matches, 2)
	assert.Equal(t, "2", matches[0].Item.ID, "exact match first")
	assert.Equal(t, "1", matches[1].Item.ID)
	assert.Less(t, matches[0].Distance, matches[1].Distance)

	matches = FindByTitle("BRKUP", items())
	require.Len(t, matches, 1)
	assert.Equal(t, "4", matches[0].Item.ID)

	// Generated season titles are searchable
	matches = FindByTitle("season 2", items())
	require.Len(t, matches, 1)
	assert.Equal(t, "5", matches[0].Item.ID)

	assert.Nil(t, FindByTitle("  ", items()))
	assert.Nil(t, FindByTitle("pilot", nil))
}

func TestResolveTitle(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		itemType string
		want     string
	}{
		{"exact", "Pilot", "", "2"},
		{"type filter", "pilot", domain.TypeShow, "1"},
		{"words in any order", "robot mr", "", "3"},
		{"subsequence", "mr rbt", "", "3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := ResolveTitle(tt.query, tt.itemType, items())
			require.NoError(t, err)
			assert.Equal(t, tt.want, item.ID)
		})
	}

	_, err := ResolveTitle("westworld", "", items())
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	_, err = ResolveTitle("breakup", domain.TypeShow, items())
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestWordsMatch(t *testing.T) {
	assert.True(t, wordsMatch("robot mr", "Mr. Robot"))
	assert.True(t, wordsMatch("lght plt", "Pilot Light"))
	assert.False(t, wordsMatch("mr mr", "Mr. Robot"), "each title word matches once")
	assert.False(t, wordsMatch("", "Mr. Robot"))
}
