package domain

import (
	"fmt"
	"strconv"
)

// Content type tags (bundles)
const (
	TypeShow    = "tv_show"
	TypeSeason  = "tv_season"
	TypeEpisode = "tv_episode"
)

// EntityTypeNode is the entity type all content items share
const EntityTypeNode = "node"

// Field names understood by FieldPath and the stores
const (
	FieldID            = "id"
	FieldType          = "type"
	FieldTitle         = "title"
	FieldStatus        = "status"
	FieldEpisodeNumber = "field_episode_number"
	FieldSeasonNumber  = "field_season_number"
	FieldAddedAt       = "created"

	// Reference fields (relations)
	RelSeason = "field_related_season" // episode -> season
	RelShow   = "field_related_show"   // season -> show
)

// ContentItem is a unit of content in the entity store: a show, a season or an episode.
// Seasons point at their show, episodes point at their season.
type ContentItem struct {
	ID        string `json:"id" yaml:"id"`               // Opaque unique identifier
	Type      string `json:"type" yaml:"type"`           // tv_show, tv_season, tv_episode
	Title     string `json:"title" yaml:"title"`         // Display title
	Published bool   `json:"published" yaml:"published"` // Status flag
	Summary   string `json:"summary,omitempty" yaml:"summary,omitempty"`
	AddedAt   int64  `json:"added_at,omitempty" yaml:"added_at,omitempty"` // Unix timestamp

	// Relations (empty when unset)
	SeasonID string `json:"season_id,omitempty" yaml:"season_id,omitempty"` // Episodes only
	ShowID   string `json:"show_id,omitempty" yaml:"show_id,omitempty"`     // Seasons only

	// Ordering fields
	SeasonNumber  int `json:"season_number,omitempty" yaml:"season_number,omitempty"`   // Seasons only (0 = specials)
	EpisodeNumber int `json:"episode_number,omitempty" yaml:"episode_number,omitempty"` // Episodes only
}

// Field returns the value of a scalar field by name.
// The second return value is false when the field is unknown or unset for this item.
func (c *ContentItem) Field(name string) (any, bool) {
	switch name {
	case FieldID:
		return c.ID, c.ID != ""
	case FieldType:
		return c.Type, true
	case FieldTitle:
		return c.Title, c.Title != ""
	case FieldStatus:
		return c.Published, true
	case FieldAddedAt:
		return c.AddedAt, true
	case FieldEpisodeNumber:
		if c.Type != TypeEpisode {
			return nil, false
		}
		return c.EpisodeNumber, true
	case FieldSeasonNumber:
		if c.Type != TypeSeason {
			return nil, false
		}
		return c.SeasonNumber, true
	default:
		return nil, false
	}
}

// Reference returns the target ID of a reference field.
func (c *ContentItem) Reference(name string) (string, bool) {
	switch name {
	case RelSeason:
		return c.SeasonID, c.SeasonID != ""
	case RelShow:
		return c.ShowID, c.ShowID != ""
	default:
		return "", false
	}
}

// IsEpisode reports whether the item is an episode
func (c *ContentItem) IsEpisode() bool { return c.Type == TypeEpisode }

// IsSeason reports whether the item is a season
func (c *ContentItem) IsSeason() bool { return c.Type == TypeSeason }

// IsShow reports whether the item is a show
func (c *ContentItem) IsShow() bool { return c.Type == TypeShow }

// EpisodeCode returns the formatted episode code (e.g., "S01E05").
// The season number has to be supplied since it lives on the season item.
func (c *ContentItem) EpisodeCode(seasonNum int) string {
	if !c.IsEpisode() {
		return ""
	}
	return fmt.Sprintf("S%02dE%02d", seasonNum, c.EpisodeNumber)
}

// DisplayTitle returns the title used in lists, falling back to a generated
// one for seasons without a custom name.
func (c *ContentItem) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	if c.IsSeason() {
		if c.SeasonNumber == 0 {
			return "Specials"
		}
		return "Season " + strconv.Itoa(c.SeasonNumber)
	}
	return ""
}
