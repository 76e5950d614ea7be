package domain

// CacheContextRoute marks output that varies by route
const CacheContextRoute = "route"

// ItemTypeList is the only output kind the block produces
const ItemTypeList = "list"

// RenderListItem is one entry of a rendered list
type RenderListItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Link  string `json:"link"`
}

// RenderOutput is the structured value handed to the host render pipeline
type RenderOutput struct {
	ItemType      string           `json:"item_type"`
	Items         []RenderListItem `json:"items"`
	CacheContexts []string         `json:"cache_contexts"`
}

// NewListOutput builds a list output. The route cache context is always set.
func NewListOutput(items []RenderListItem) RenderOutput {
	if items == nil {
		items = []RenderListItem{}
	}
	return RenderOutput{
		ItemType:      ItemTypeList,
		Items:         items,
		CacheContexts: []string{CacheContextRoute},
	}
}

// HasCacheContext reports whether the output declares the given cache context
func (o RenderOutput) HasCacheContext(name string) bool {
	for _, c := range o.CacheContexts {
		if c == name {
			return true
		}
	}
	return false
}
