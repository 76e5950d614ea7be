// Package fixture loads show/season/episode trees from YAML and flattens them
// into content items.
package fixture

import (
	"fmt"
	"io"
	"os"

	"github.com/mmcdole/episodeblock/internal/domain"
	"gopkg.in/yaml.v3"
)

// File is the root of a fixture document
type File struct {
	Shows []Show `yaml:"shows"`
}

// Show is a show with its seasons
type Show struct {
	ID        string   `yaml:"id"`
	Title     string   `yaml:"title"`
	Published *bool    `yaml:"published"`
	Summary   string   `yaml:"summary"`
	Seasons   []Season `yaml:"seasons"`
}

// Season is a season with its episodes
type Season struct {
	ID        string    `yaml:"id"`
	Number    int       `yaml:"number"`
	Title     string    `yaml:"title"`
	Published *bool     `yaml:"published"`
	Episodes  []Episode `yaml:"episodes"`
}

// Episode is a leaf content item
type Episode struct {
	ID        string `yaml:"id"`
	Number    int    `yaml:"number"`
	Title     string `yaml:"title"`
	Published *bool  `yaml:"published"`
	Summary   string `yaml:"summary"`
	AddedAt   int64  `yaml:"added_at"`
}

// published defaults to true when unset
func published(p *bool) bool {
	return p == nil || *p
}

// Decode parses a fixture document
func Decode(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &f, nil
}

// Load reads and parses a fixture file
func Load(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return Decode(fh)
}

// Items flattens the tree in document order: each show, then each of its
// seasons followed by that season's episodes.
func (f *File) Items() ([]*domain.ContentItem, error) {
	seen := make(map[string]bool)
	var items []*domain.ContentItem

	add := func(item *domain.ContentItem) error {
		if item.ID == "" {
			return fmt.Errorf("fixture %s %q has no id", item.Type, item.Title)
		}
		if seen[item.ID] {
			return fmt.Errorf("fixture id %q is used twice", item.ID)
		}
		seen[item.ID] = true
		items = append(items, item)
		return nil
	}

	for _, sh := range f.Shows {
		if err := add(&domain.ContentItem{
			ID:        sh.ID,
			Type:      domain.TypeShow,
			Title:     sh.Title,
			Published: published(sh.Published),
			Summary:   sh.Summary,
		}); err != nil {
			return nil, err
		}

		for _, se := range sh.Seasons {
			if err := add(&domain.ContentItem{
				ID:           se.ID,
				Type:         domain.TypeSeason,
				Title:        se.Title,
				Published:    published(se.Published),
				ShowID:       sh.ID,
				SeasonNumber: se.Number,
			}); err != nil {
				return nil, err
			}

			for _, ep := range se.Episodes {
				if err := add(&domain.ContentItem{
					ID:            ep.ID,
					Type:          domain.TypeEpisode,
					Title:         ep.Title,
					Published:     published(ep.Published),
					Summary:       ep.Summary,
					AddedAt:       ep.AddedAt,
					SeasonID:      se.ID,
					EpisodeNumber: ep.Number,
				}); err != nil {
					return nil, err
				}
			}
		}
	}
	return items, nil
}
