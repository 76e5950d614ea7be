package render

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mmcdole/episodeblock/internal/domain"
)

// URIResolver builds canonical /node/{id} links, optionally absolute
type URIResolver struct {
	baseURL string
}

// Ensure URIResolver implements domain.URIResolver
var _ domain.URIResolver = (*URIResolver)(nil)

// NewURIResolver creates a resolver. An empty baseURL yields root-relative links.
func NewURIResolver(baseURL string) *URIResolver {
	return &URIResolver{baseURL: strings.TrimRight(baseURL, "/")}
}

func (r *URIResolver) Resolve(item *domain.ContentItem) (string, error) {
	if item == nil || item.ID == "" {
		return "", fmt.Errorf("%w: missing id", domain.ErrItemNotFound)
	}
	return r.baseURL + "/node/" + url.PathEscape(item.ID), nil
}
