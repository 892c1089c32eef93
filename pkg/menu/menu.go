package menu

// Menu represents the root menu structure.
type Menu struct {
	// Title is the menu
	Title string `json:"title" yaml:"title"`

	// Description of the menu
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Version of the menu
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// BasePath is prepended to every item link to form its absolute path.
	BasePath string `json:"basePath,omitempty" yaml:"basePath,omitempty"`

	// Items is the list of top-level menu items
	Items []*Item `json:"items,omitempty" yaml:"items,omitempty"`
}

// Walk visits every item in pre-order, passing the item's ancestors
// (root first). Returning false from fn stops descending into that item.
func (m *Menu) Walk(fn func(item *Item, ancestors []*Item) bool) {
	walk(m.Items, nil, fn)
}

func walk(items []*Item, ancestors []*Item, fn func(*Item, []*Item) bool) {
	for _, item := range items {
		if !fn(item, ancestors) {
			continue
		}
		if item.HasItems() {
			walk(item.Items, append(ancestors[:len(ancestors):len(ancestors)], item), fn)
		}
	}
}

// Resolve returns the absolute path of the item's link.
func (m *Menu) Resolve(item *Item) string {
	if item == nil || item.Link == "" {
		return ""
	}
	return resolve(m.BasePath, item.Link)
}

// FindByLink returns the first item, favorites included, whose resolved link equals path.
func (m *Menu) FindByLink(path string) *Item {
	return FindByLink(path, m.Items, m.BasePath)
}

// FindRegular returns the first canonical (non-favorite) item whose resolved link equals path.
func (m *Menu) FindRegular(path string) *Item {
	return FindRegular(path, m.Items, m.BasePath)
}

// FindByActiveRoute returns the first item whose active routes own path.
func (m *Menu) FindByActiveRoute(path string) *Item {
	return FindByActiveRoute(path, m.Items, m.BasePath)
}

// Expand opens every item on the chain from the root to target.
func (m *Menu) Expand(target *Item) bool {
	return Expand(target, m.Items)
}

// Toggle applies the accordion toggle for a clicked item.
func (m *Menu) Toggle(clicked *Item) bool {
	return Toggle(clicked, m.Items)
}

// CollapseAll closes every item in the menu.
func (m *Menu) CollapseAll() {
	CollapseAll(m.Items)
}

// FindByID returns the first canonical item with the given id.
func (m *Menu) FindByID(id int) *Item {
	var found *Item
	m.Walk(func(item *Item, _ []*Item) bool {
		if found != nil || item.Favorite {
			return false
		}
		if item.ID == id {
			found = item
			return false
		}
		return true
	})
	return found
}

// FavoritesContainer returns the container holding favorite duplicates, or nil.
func (m *Menu) FavoritesContainer() *Item {
	for _, item := range m.Items {
		if item.Favorites {
			return item
		}
	}
	return nil
}

// SetFavorites rebuilds the favorites container from the given links. Each
// link that resolves to a canonical item gets a favorite duplicate; links
// with no canonical item are skipped. The container is created at the top of
// the menu when missing and keeps its own collapsed state across rebuilds.
func (m *Menu) SetFavorites(links []string) {
	container := m.FavoritesContainer()
	if container == nil {
		container = &Item{Label: "Favorites", Favorites: true}
		m.Items = append([]*Item{container}, m.Items...)
	}

	container.Items = nil
	for _, link := range links {
		canonical := m.FindRegular(resolve(m.BasePath, link))
		if canonical == nil {
			continue
		}
		container.Items = append(container.Items, canonical.shadow())
	}
}
