package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/episodeblock/internal/domain"
)

// Display modes
const (
	ModeFull   = "full"
	ModeTeaser = "teaser"
	ModeCode   = "code"
)

const teaserLength = 40

// FieldRenderer formats item fields per display mode.
// The code mode needs the season number and looks the season up through loader.
type FieldRenderer struct {
	loader domain.EntityLoader
}

// Ensure FieldRenderer implements domain.FieldRenderer
var _ domain.FieldRenderer = (*FieldRenderer)(nil)

// NewFieldRenderer creates a renderer; loader may be nil if the code mode is not used
func NewFieldRenderer(loader domain.EntityLoader) *FieldRenderer {
	return &FieldRenderer{loader: loader}
}

func (r *FieldRenderer) RenderField(ctx context.Context, item *domain.ContentItem, field, mode string) (string, error) {
	if field != domain.FieldTitle {
		return "", fmt.Errorf("%w: cannot render field %q", domain.ErrInvalidFieldPath, field)
	}

	title := strings.TrimSpace(item.DisplayTitle())
	if title == "" {
		return "", domain.ErrMissingTitle
	}

	switch mode {
	case ModeFull, "":
		return title, nil
	case ModeTeaser:
		return truncate(title, teaserLength), nil
	case ModeCode:
		return r.withCode(ctx, item, title)
	default:
		return "", fmt.Errorf("unknown display mode %q", mode)
	}
}

func (r *FieldRenderer) withCode(ctx context.Context, item *domain.ContentItem, title string) (string, error) {
	if !item.IsEpisode() || item.SeasonID == "" || r.loader == nil {
		return title, nil
	}
	seasons, err := r.loader.LoadMultiple(ctx, domain.EntityTypeNode, []string{item.SeasonID})
	if err != nil {
		return "", err
	}
	season, ok := seasons[item.SeasonID]
	if !ok {
		return title, nil
	}
	return item.EpisodeCode(season.SeasonNumber) + " " + title, nil
}

// truncate shortens s to n runes, appending an ellipsis when cut
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n-1])) + "…"
}
