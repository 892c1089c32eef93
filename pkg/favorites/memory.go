package favorites

import (
	"slices"
	"sync"

	"github.com/mchmarny/navmenu/pkg/menu"
)

// Memory is an in-process Store.
type Memory struct {
	mu   sync.RWMutex
	favs []Favorite
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) index(link string) int {
	key := Key(link)
	return slices.IndexFunc(m.favs, func(f Favorite) bool { return f.Link == key })
}

// IsFavorited reports whether the item's link is saved.
func (m *Memory) IsFavorited(item *menu.Item) bool {
	if item == nil || item.Link == "" {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.index(item.Link) >= 0
}

// Toggle saves or removes the item.
func (m *Memory) Toggle(item *menu.Item) error {
	fav, err := fromItem(item)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.index(fav.Link); i >= 0 {
		m.favs = slices.Delete(m.favs, i, i+1)
		return nil
	}
	m.favs = append(m.favs, fav)
	return nil
}

// List returns a copy of the saved favorites.
func (m *Memory) List() ([]Favorite, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.favs), nil
}

// RemoveAt removes the favorite at position i.
func (m *Memory) RemoveAt(i int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.favs) {
		return ErrOutOfRange
	}
	m.favs = slices.Delete(m.favs, i, i+1)
	return nil
}

// Clear removes every favorite.
func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.favs = nil
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
