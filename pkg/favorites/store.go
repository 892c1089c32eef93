// Package favorites persists the user's favorite menu items. Favorites are
// keyed by link, so a favorite duplicate and the canonical item it shadows
// are the same favorite, and "jobs" and "/jobs" are the same link.
package favorites

import (
	"errors"
	"strings"

	"github.com/mchmarny/navmenu/pkg/menu"
)

var (
	// ErrNotNavigable is returned when toggling an item without a link.
	ErrNotNavigable = errors.New("menu item has no link")

	// ErrOutOfRange is returned by RemoveAt for an invalid position.
	ErrOutOfRange = errors.New("favorite index out of range")
)

// Favorite is a saved shortcut to a menu item.
type Favorite struct {
	Label       string `json:"label"`
	Link        string `json:"link"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
}

// Store is the favorites persistence contract consumed by the navigation shell.
type Store interface {
	// IsFavorited reports whether the item's link is saved.
	IsFavorited(item *menu.Item) bool

	// Toggle saves the item when absent and removes it when present.
	Toggle(item *menu.Item) error

	// List returns favorites in the order they were saved.
	List() ([]Favorite, error)

	// RemoveAt removes the favorite at position i of List.
	RemoveAt(i int) error

	// Clear removes every favorite.
	Clear() error

	// Close releases resources held by the store.
	Close() error
}

// Links returns the links of the listed favorites.
func Links(s Store) ([]string, error) {
	list, err := s.List()
	if err != nil {
		return nil, err
	}
	links := make([]string, 0, len(list))
	for _, f := range list {
		links = append(links, f.Link)
	}
	return links, nil
}

func fromItem(item *menu.Item) (Favorite, error) {
	if item == nil || item.Link == "" {
		return Favorite{}, ErrNotNavigable
	}
	return Favorite{
		Label:       item.Label,
		Link:        Key(item.Link),
		Icon:        item.Icon,
		Description: item.Description,
	}, nil
}

// Key normalizes a link into the form favorites are stored and looked up by.
// A leading slash does not make a different favorite.
func Key(link string) string {
	return strings.TrimPrefix(link, "/")
}
