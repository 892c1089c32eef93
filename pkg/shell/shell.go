// Package shell hosts the navigation menu: it owns the tree, the favorites
// overlay, the current location and the activation orchestrator, and exposes
// them over HTTP.
package shell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mchmarny/navmenu/pkg/activation"
	"github.com/mchmarny/navmenu/pkg/favorites"
	"github.com/mchmarny/navmenu/pkg/menu"
	"github.com/mchmarny/navmenu/pkg/route"
)

// ErrItemNotFound is returned when a click or favorite request names no item.
var ErrItemNotFound = errors.New("menu item not found")

// Option configures a Shell.
type Option func(*Shell)

// WithLogger sets the shell logger. It is also handed to the orchestrator.
func WithLogger(l *slog.Logger) Option {
	return func(s *Shell) { s.log = l }
}

// WithActivation passes options through to the orchestrator.
func WithActivation(opts ...activation.Option) Option {
	return func(s *Shell) { s.activation = append(s.activation, opts...) }
}

// Shell is the navigation host. It serializes every operation: the
// orchestrator calls back into CurrentPath, Links, ScrollTo and Navigate only
// while one of the exported operations holds the lock.
type Shell struct {
	mu sync.Mutex

	menu     *menu.Menu
	store    favorites.Store
	orch     *activation.Orchestrator
	path     string
	links    []*activation.Link
	scrolled *menu.Item

	log        *slog.Logger
	activation []activation.Option
}

// New returns a shell for m with the favorites overlay built from store.
func New(m *menu.Menu, store favorites.Store, opts ...Option) (*Shell, error) {
	if m == nil {
		return nil, errors.New("menu is required")
	}
	if store == nil {
		store = favorites.NewMemory()
	}

	s := &Shell{
		menu:  m,
		store: store,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	aopts := append([]activation.Option{activation.WithLogger(s.log)}, s.activation...)
	s.orch = activation.New(m, s, s, s, aopts...)

	if err := s.rebuildFavorites(); err != nil {
		return nil, err
	}
	return s, nil
}

// Orchestrator returns the activation orchestrator driven by the shell.
func (s *Shell) Orchestrator() *activation.Orchestrator {
	return s.orch
}

// CurrentPath implements activation.Location.
func (s *Shell) CurrentPath() string {
	return s.path
}

// Links implements activation.View.
func (s *Shell) Links() []*activation.Link {
	return s.links
}

// ScrollTo implements activation.View.
func (s *Shell) ScrollTo(item *menu.Item) {
	s.scrolled = item
}

// Navigate implements activation.Navigator. Relative paths resolve against
// the menu base path. The navigation settles before Navigate returns.
func (s *Shell) Navigate(ctx context.Context, path string, relative bool) error {
	if relative {
		path = route.Join(s.menu.BasePath, path)
	}
	s.path = path
	_, err := s.orch.OnNavigationSettled(ctx)
	return err
}

// Visit moves the shell to path, as if the user typed it, and settles.
func (s *Shell) Visit(ctx context.Context, path string) (*activation.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.path = path
	return s.orch.OnNavigationSettled(ctx)
}

// ClickRequest names the clicked item by id, label or link. Favorite
// selects the duplicate in the favorites container instead of the
// canonical item.
type ClickRequest struct {
	ID       int    `json:"id,omitempty"`
	Label    string `json:"label,omitempty"`
	Link     string `json:"link,omitempty"`
	Favorite bool   `json:"favorite,omitempty"`
}

func (r ClickRequest) String() string {
	return fmt.Sprintf("id=%d label=%q link=%q favorite=%t", r.ID, r.Label, r.Link, r.Favorite)
}

// Click handles a menu click and returns the click kind along with the most
// recent activation result.
func (s *Shell) Click(ctx context.Context, req ClickRequest) (string, *activation.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.find(req)
	if item == nil {
		return activation.ClickIgnored, nil, fmt.Errorf("%w: %s", ErrItemNotFound, req)
	}

	kind, err := s.orch.OnItemClicked(ctx, item)
	if err != nil {
		return kind, nil, fmt.Errorf("failed to handle click on %s: %w", item, err)
	}
	return kind, s.orch.Last(), nil
}

func (s *Shell) find(req ClickRequest) *menu.Item {
	if req.Favorite {
		container := s.menu.FavoritesContainer()
		if container == nil {
			return nil
		}
		for _, fav := range container.Items {
			if sameLink(fav.Link, req.Link) {
				return fav
			}
		}
		return nil
	}

	if req.ID != 0 {
		return s.menu.FindByID(req.ID)
	}
	if req.Link != "" {
		return s.menu.FindRegular(route.Join(s.menu.BasePath, req.Link))
	}
	if req.Label == "" {
		return nil
	}

	var found *menu.Item
	s.menu.Walk(func(item *menu.Item, _ []*menu.Item) bool {
		if found != nil || item.Favorite {
			return false
		}
		if item.Label == req.Label {
			found = item
			return false
		}
		return true
	})
	return found
}

func sameLink(a, b string) bool {
	return strings.TrimPrefix(a, "/") == strings.TrimPrefix(b, "/")
}

// Replace swaps the menu tree, keeps the favorites overlay and settles the
// current location against the new tree.
func (s *Shell) Replace(ctx context.Context, m *menu.Menu) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.menu = m
	s.scrolled = nil
	s.orch.SetMenu(m)
	if err := s.rebuildFavorites(); err != nil {
		return err
	}

	if s.path == "" {
		return nil
	}
	_, err := s.orch.OnNavigationSettled(ctx)
	return err
}

// ToggleFavorite saves or removes the item with the given link.
func (s *Shell) ToggleFavorite(link string) ([]favorites.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := route.Join(s.menu.BasePath, link)
	item := s.menu.FindRegular(path)
	if item == nil {
		item = s.menu.FindByLink(path)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, link)
	}

	if err := s.store.Toggle(item); err != nil {
		return nil, fmt.Errorf("failed to toggle favorite %s: %w", item, err)
	}
	return s.favoritesChanged()
}

// RemoveFavorite removes the favorite at position i.
func (s *Shell) RemoveFavorite(i int) ([]favorites.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.RemoveAt(i); err != nil {
		return nil, err
	}
	return s.favoritesChanged()
}

// ClearFavorites removes every favorite.
func (s *Shell) ClearFavorites() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		return err
	}
	_, err := s.favoritesChanged()
	return err
}

// Favorites lists the saved favorites.
func (s *Shell) Favorites() ([]favorites.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.List()
}

func (s *Shell) favoritesChanged() ([]favorites.Favorite, error) {
	if err := s.rebuildFavorites(); err != nil {
		return nil, err
	}
	return s.store.List()
}

// rebuildFavorites refreshes the favorites container and the rendered links.
func (s *Shell) rebuildFavorites() error {
	links, err := favorites.Links(s.store)
	if err != nil {
		return fmt.Errorf("failed to list favorites: %w", err)
	}
	s.menu.SetFavorites(links)
	s.rebuildLinks()
	return nil
}

// rebuildLinks renders one link per linked item, favorites included. The
// highlight survives when the same item is rendered again.
func (s *Shell) rebuildLinks() {
	active := make(map[*menu.Item]bool)
	for _, l := range s.links {
		if l.Active {
			active[l.Item] = true
		}
	}

	s.links = s.links[:0:0]
	s.menu.Walk(func(item *menu.Item, _ []*menu.Item) bool {
		if item.Navigable() {
			s.links = append(s.links, &activation.Link{
				Path:   s.menu.Resolve(item),
				Item:   item,
				Active: active[item],
			})
		}
		return true
	})

	s.log.Debug("links rendered", "count", len(s.links))
}
