package search

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/episodeblock/internal/domain"
)

// Match is a content item matched by title
type Match struct {
	Item     *domain.ContentItem
	Distance int // Levenshtein distance between query and title (lower = better)
}

// FindByTitle fuzzy matches query against item titles, case-insensitively.
// Exact matches come first, then matches ordered by distance. Ties keep the
// order of items.
func FindByTitle(query string, items []*domain.ContentItem) []Match {
	query = strings.TrimSpace(query)
	if query == "" || len(items) == 0 {
		return nil
	}

	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.DisplayTitle()
	}

	ranks := fuzzy.RankFindFold(query, titles)
	sort.SliceStable(ranks, func(i, j int) bool {
		ei := strings.EqualFold(ranks[i].Target, query)
		ej := strings.EqualFold(ranks[j].Target, query)
		if ei != ej {
			return ei
		}
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})

	matches := make([]Match, len(ranks))
	for i, r := range ranks {
		matches[i] = Match{Item: items[r.OriginalIndex], Distance: r.Distance}
	}
	return matches
}

// ResolveTitle returns the best matching item of the given type ("" = any)
func ResolveTitle(query, itemType string, items []*domain.ContentItem) (*domain.ContentItem, error) {
	var candidates []*domain.ContentItem
	for _, item := range items {
		if itemType == "" || item.Type == itemType {
			candidates = append(candidates, item)
		}
	}

	if matches := FindByTitle(query, candidates); len(matches) > 0 {
		return matches[0].Item, nil
	}

	// Fall back to word matching so "robot mr" still finds "Mr. Robot".
	// The shortest matching title wins.
	var best *domain.ContentItem
	for _, item := range candidates {
		title := item.DisplayTitle()
		if !wordsMatch(query, title) {
			continue
		}
		if best == nil || len(title) < len(best.DisplayTitle()) {
			best = item
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: no title matches %q", domain.ErrItemNotFound, query)
	}
	return best, nil
}

// words splits text on anything that is not a letter or digit
func words(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// wordsMatch reports whether every query word fuzzy matches a distinct title word
func wordsMatch(query, title string) bool {
	qw := words(query)
	if len(qw) == 0 {
		return false
	}
	tw := words(title)
	used := make([]bool, len(tw))

	for _, q := range qw {
		found := false
		for i, t := range tw {
			if !used[i] && fuzzy.MatchFold(q, t) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
