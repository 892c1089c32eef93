package shell

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mchmarny/navmenu/pkg/activation"
	"github.com/mchmarny/navmenu/pkg/favorites"
	"github.com/mchmarny/navmenu/pkg/menu"
	"github.com/mchmarny/navmenu/pkg/server"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const fieldServiceYAML = `
title: Field Service
basePath: /app
items:
  - id: 1
    label: Operations
    isCollapsed: true
    items:
      - id: 2
        label: Jobs
        isCollapsed: true
        items:
          - id: 3
            label: List Jobs
            link: jobs/list
          - id: 4
            label: Edit Job
            link: work-orders/edit
            activeRoutes:
              - work-orders/edit/:id
      - id: 5
        label: Items
        isCollapsed: true
        items:
          - id: 6
            label: Item List
            link: items/list
  - id: 7
    label: Reports
    isCollapsed: true
    items:
      - id: 8
        label: Daily
        link: reports/daily
`

func newShell(t *testing.T) *Shell {
	t.Helper()
	m, err := menu.Parse([]byte(fieldServiceYAML))
	require.NoError(t, err)

	s, err := New(m, favorites.NewMemory())
	require.NoError(t, err)
	return s
}

func activeLink(s *Shell) string {
	for _, l := range s.links {
		if l.Active {
			return l.Path
		}
	}
	return ""
}

func TestNewRequiresMenu(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}

func TestLinksIncludeEveryLinkedItem(t *testing.T) {
	s := newShell(t)

	var paths []string
	for _, l := range s.Links() {
		paths = append(paths, l.Path)
	}
	assert.Equal(t, []string{"/app/jobs/list", "/app/work-orders/edit", "/app/items/list", "/app/reports/daily"}, paths)
}

func TestVisitHighlightsAndExpands(t *testing.T) {
	s := newShell(t)

	res, err := s.Visit(context.Background(), "/app/jobs/list")
	require.NoError(t, err)

	assert.Equal(t, activation.RuleExact, res.Rule)
	assert.Equal(t, "/app/jobs/list", activeLink(s))
	assert.Equal(t, "List Jobs", s.scrolled.Label)

	assert.False(t, s.menu.FindByID(1).Collapsed)
	assert.False(t, s.menu.FindByID(2).Collapsed)
	assert.True(t, s.menu.FindByID(5).Collapsed)
	assert.True(t, s.menu.FindByID(7).Collapsed)
}

func TestVisitParameterizedRoute(t *testing.T) {
	s := newShell(t)

	res, err := s.Visit(context.Background(), "/app/work-orders/edit/42")
	require.NoError(t, err)

	assert.Equal(t, "Edit Job", res.Matched.Label)
	assert.Equal(t, activation.RulePattern, res.Rule)
	assert.Equal(t, "/app/work-orders/edit", activeLink(s))
	require.Len(t, res.Trail, 2)
	assert.Equal(t, "Operations", res.Trail[0].Label)
	assert.Equal(t, "Jobs", res.Trail[1].Label)
}

func TestClick(t *testing.T) {
	ctx := context.Background()

	t.Run("toggle", func(t *testing.T) {
		s := newShell(t)
		kind, _, err := s.Click(ctx, ClickRequest{Label: "Reports"})
		require.NoError(t, err)
		assert.Equal(t, activation.ClickToggle, kind)
		assert.False(t, s.menu.FindByID(7).Collapsed)
		assert.True(t, s.menu.FindByID(1).Collapsed)
	})

	t.Run("link", func(t *testing.T) {
		s := newShell(t)
		kind, res, err := s.Click(ctx, ClickRequest{ID: 6})
		require.NoError(t, err)
		assert.Equal(t, activation.ClickLink, kind)
		assert.Equal(t, "/app/items/list", s.CurrentPath())
		require.NotNil(t, res)
		assert.Equal(t, activation.RuleExact, res.Rule)
	})

	t.Run("by link", func(t *testing.T) {
		s := newShell(t)
		kind, _, err := s.Click(ctx, ClickRequest{Link: "reports/daily"})
		require.NoError(t, err)
		assert.Equal(t, activation.ClickLink, kind)
		assert.Equal(t, "/app/reports/daily", activeLink(s))
	})

	t.Run("unknown", func(t *testing.T) {
		s := newShell(t)
		_, _, err := s.Click(ctx, ClickRequest{Label: "Nope"})
		assert.ErrorIs(t, err, ErrItemNotFound)

		_, _, err = s.Click(ctx, ClickRequest{Link: "jobs/list", Favorite: true})
		assert.ErrorIs(t, err, ErrItemNotFound)
	})
}

func TestFavoriteClickLeavesTreeUnchanged(t *testing.T) {
	ctx := context.Background()
	s := newShell(t)

	_, err := s.ToggleFavorite("jobs/list")
	require.NoError(t, err)

	_, err = s.Visit(ctx, "/app/reports/daily")
	require.NoError(t, err)
	require.True(t, s.menu.FindByID(1).Collapsed)

	kind, res, err := s.Click(ctx, ClickRequest{Link: "jobs/list", Favorite: true})
	require.NoError(t, err)

	assert.Equal(t, activation.ClickFavorite, kind)
	assert.Equal(t, "/app/jobs/list", s.CurrentPath())
	require.NotNil(t, res)
	assert.True(t, res.Suppressed)
	assert.True(t, s.menu.FindByID(1).Collapsed, "canonical branch stays closed")
	assert.Equal(t, "/app/reports/daily", activeLink(s))
	assert.False(t, s.Orchestrator().Suppressed())

	// The next ordinary navigation resolves again.
	res, err = s.Visit(ctx, "/app/jobs/list")
	require.NoError(t, err)
	assert.False(t, res.Suppressed)
	assert.False(t, s.menu.FindByID(1).Collapsed)
}

func TestFavoritesOverlay(t *testing.T) {
	s := newShell(t)

	list, err := s.ToggleFavorite("/items/list")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Item List", list[0].Label)

	container := s.menu.FavoritesContainer()
	require.NotNil(t, container)
	require.Len(t, container.Items, 1)
	assert.True(t, container.Items[0].Favorite)
	assert.Len(t, s.Links(), 5)

	list, err = s.ToggleFavorite("items/list")
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, s.menu.FavoritesContainer().Items)

	_, err = s.ToggleFavorite("missing/link")
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = s.RemoveFavorite(3)
	assert.ErrorIs(t, err, favorites.ErrOutOfRange)
}

func TestReplaceKeepsFavoritesAndResettles(t *testing.T) {
	ctx := context.Background()
	s := newShell(t)

	_, err := s.ToggleFavorite("reports/daily")
	require.NoError(t, err)
	_, err = s.Visit(ctx, "/app/reports/daily")
	require.NoError(t, err)

	next, err := menu.Parse([]byte(fieldServiceYAML))
	require.NoError(t, err)
	require.NoError(t, s.Replace(ctx, next))

	container := s.menu.FavoritesContainer()
	require.NotNil(t, container)
	require.Len(t, container.Items, 1)
	assert.Equal(t, "reports/daily", container.Items[0].Link)

	assert.False(t, next.FindByID(7).Collapsed, "current location expanded in the new tree")
	assert.Equal(t, "/app/reports/daily", activeLink(s))
}

func TestConcurrentOperations(t *testing.T) {
	ctx := context.Background()
	s := newShell(t)

	paths := []string{"/app/jobs/list", "/app/items/list", "/app/reports/daily", "/app/work-orders/edit/7"}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := s.Visit(ctx, paths[i%len(paths)])
			assert.NoError(t, err)
		}(i)
		go func() {
			defer wg.Done()
			_, err := s.view()
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, activation.Applied, s.Orchestrator().State())
}

func TestRunStopsOnCancel(t *testing.T) {
	s := newShell(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, s.Run(ctx, server.WithPort(0)))
}
