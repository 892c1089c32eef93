package favorites

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/navmenu/pkg/menu"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "favorites.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": db,
	}
}

func TestStoreContract(t *testing.T) {
	jobs := &menu.Item{Label: "List Jobs", Link: "jobs/list", Icon: "las la-briefcase"}
	tickets := &menu.Item{Label: "List Tickets", Link: "ticket/list"}
	duplicate := &menu.Item{Label: "List Jobs", Link: "jobs/list", Favorite: true}

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			assert.False(t, s.IsFavorited(jobs))

			require.NoError(t, s.Toggle(jobs))
			require.NoError(t, s.Toggle(tickets))
			assert.True(t, s.IsFavorited(jobs))
			assert.True(t, s.IsFavorited(duplicate), "favorites are keyed by link")

			list, err := s.List()
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, "jobs/list", list[0].Link)
			assert.Equal(t, "las la-briefcase", list[0].Icon)

			links, err := Links(s)
			require.NoError(t, err)
			assert.Equal(t, []string{"jobs/list", "ticket/list"}, links)

			require.NoError(t, s.Toggle(duplicate))
			assert.False(t, s.IsFavorited(jobs))

			require.NoError(t, s.RemoveAt(0))
			assert.False(t, s.IsFavorited(tickets))
			assert.ErrorIs(t, s.RemoveAt(0), ErrOutOfRange)
			assert.ErrorIs(t, s.RemoveAt(-1), ErrOutOfRange)

			assert.ErrorIs(t, s.Toggle(&menu.Item{Label: "group"}), ErrNotNavigable)
			assert.ErrorIs(t, s.Toggle(nil), ErrNotNavigable)
			assert.False(t, s.IsFavorited(nil))

			require.NoError(t, s.Toggle(jobs))
			require.NoError(t, s.Clear())
			list, err = s.List()
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestStoreLeadingSlash(t *testing.T) {
	relative := &menu.Item{Label: "Jobs", Link: "jobs"}
	absolute := &menu.Item{Label: "Jobs", Link: "/jobs"}

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Toggle(relative))
			assert.True(t, s.IsFavorited(absolute))

			require.NoError(t, s.Toggle(absolute))
			assert.False(t, s.IsFavorited(relative), "toggling the slashed link removes the same favorite")

			require.NoError(t, s.Toggle(absolute))
			links, err := Links(s)
			require.NoError(t, err)
			assert.Equal(t, []string{"jobs"}, links)
		})
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "jobs/list", Key("/jobs/list"))
	assert.Equal(t, "jobs/list", Key("jobs/list"))
	assert.Equal(t, "", Key("/"))
}

func TestSQLitePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "favorites.db")

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, db.Toggle(&menu.Item{Label: "Map", Link: "map"}))
	require.NoError(t, db.Close())

	db, err = OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	assert.True(t, db.IsFavorited(&menu.Item{Link: "map"}))
}
