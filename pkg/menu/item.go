package menu

// Item represents an individual entry in the navigation menu, which may contain sub-items.
type Item struct {
	// ID is an optional numeric identity. Favorite duplicates may share it
	// with the canonical item they shadow.
	ID int `json:"id,omitempty" yaml:"id,omitempty"`

	// Label is the display text of the item.
	Label string `json:"label" yaml:"label"`

	// Title marks a heading-only item. Titles are never navigable and never
	// returned by search.
	Title bool `json:"isTitle,omitempty" yaml:"isTitle,omitempty"`

	// Link is the route fragment of the item relative to the menu base path.
	// Pure container items have no link.
	Link string `json:"link,omitempty" yaml:"link,omitempty"`

	// ActiveRoutes are route patterns that also mark this item active.
	ActiveRoutes []string `json:"activeRoutes,omitempty" yaml:"activeRoutes,omitempty"`

	// Icon is an optional icon token.
	Icon string `json:"icon,omitempty" yaml:"icon,omitempty"`

	// Description is an optional description of the menu item.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Collapsed is the expand/collapse state. Only meaningful when the item has sub-items.
	Collapsed bool `json:"isCollapsed" yaml:"isCollapsed,omitempty"`

	// Favorite marks a favorites-overlay duplicate of a canonical item.
	Favorite bool `json:"isFavorite,omitempty" yaml:"isFavorite,omitempty"`

	// Favorites marks the container holding favorite duplicates.
	Favorites bool `json:"isFavorites,omitempty" yaml:"isFavorites,omitempty"`

	// RecentlyVisited marks the container holding recently visited items.
	RecentlyVisited bool `json:"isRecentlyVisited,omitempty" yaml:"isRecentlyVisited,omitempty"`

	// Items are the sub-items of this menu item.
	Items []*Item `json:"items,omitempty" yaml:"items,omitempty"`
}

// HasItems reports whether the item has sub-items.
func (i *Item) HasItems() bool {
	return i != nil && len(i.Items) > 0
}

// Container reports whether the item only groups favorite or recent entries.
func (i *Item) Container() bool {
	return i.Favorites || i.RecentlyVisited
}

// Navigable reports whether the item can be a navigation target.
func (i *Item) Navigable() bool {
	return i.Link != "" && !i.Title && !i.Container()
}

func (i *Item) String() string {
	if i == nil {
		return "<nil>"
	}
	if i.Link == "" {
		return i.Label
	}
	return i.Label + " (" + i.Link + ")"
}

// shadow returns a favorite duplicate of the item. Sub-items and active
// routes stay with the canonical item.
func (i *Item) shadow() *Item {
	return &Item{
		ID:          i.ID,
		Label:       i.Label,
		Link:        i.Link,
		Icon:        i.Icon,
		Description: i.Description,
		Favorite:    true,
	}
}
