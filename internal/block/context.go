package block

import (
	"strings"

	"github.com/mmcdole/episodeblock/internal/domain"
)

// CurrentItemID extracts the current content item ID from the route.
// Returns false when the route is not bound to a content item.
func CurrentItemID(route domain.RouteContext, param string) (string, bool) {
	if route == nil {
		return "", false
	}
	id, ok := route.Parameter(param)
	if !ok {
		return "", false
	}
	id = strings.TrimSpace(id)
	return id, id != ""
}

// RouteParams is a RouteContext backed by a map
type RouteParams map[string]string

func (p RouteParams) Parameter(name string) (string, bool) {
	v, ok := p[name]
	return v, ok
}

// NodeRoute returns a route context bound to the given item
func NodeRoute(id string) RouteParams {
	return RouteParams{DefaultRouteParameter: id}
}
