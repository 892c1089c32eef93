package menu

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// collapsedState flattens the collapsed flags of every item by label.
func collapsedState(items []*Item) map[string]bool {
	state := map[string]bool{}
	preorder(items, func(item *Item) {
		state[item.Label] = item.Collapsed
	})
	return state
}

func TestPathTo(t *testing.T) {
	m := fieldService()
	target := m.FindByID(6)

	chain := PathTo(target, m.Items)
	require.Len(t, chain, 3)
	assert.Equal(t, "Field Service", chain[0].Label)
	assert.Equal(t, "Jobs", chain[1].Label)
	assert.Same(t, target, chain[2])

	assert.Nil(t, PathTo(&Item{Label: "stranger"}, m.Items))
	assert.Nil(t, PathTo(nil, m.Items))
}

func TestExpand(t *testing.T) {
	m := fieldService()
	m.FindByID(9).Collapsed = false

	require.True(t, m.Expand(m.FindByID(6)))

	assert.False(t, m.FindByID(2).Collapsed)
	assert.False(t, m.FindByID(4).Collapsed)
	assert.True(t, m.FindByID(7).Collapsed, "siblings are left alone")
	assert.False(t, m.FindByID(9).Collapsed, "expansion never closes other branches")
	assert.False(t, m.FindByID(6).Collapsed, "leaves are not touched")
}

func TestExpandUnknownTarget(t *testing.T) {
	m := fieldService()
	before := collapsedState(m.Items)

	assert.False(t, m.Expand(&Item{Label: "stranger"}))
	assert.Empty(t, cmp.Diff(before, collapsedState(m.Items)))
}

func TestExpandIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		items := genTree(t, 3, "r")

		var all []*Item
		preorder(items, func(item *Item) { all = append(all, item) })
		if len(all) == 0 {
			return
		}
		target := all[rapid.IntRange(0, len(all)-1).Draw(t, "target")]

		Expand(target, items)
		once := collapsedState(items)
		Expand(target, items)

		if diff := cmp.Diff(once, collapsedState(items)); diff != "" {
			t.Fatalf("second expand changed state (-once +twice):\n%s", diff)
		}
	})
}

func TestToggle(t *testing.T) {
	t.Run("opens clicked and closes siblings", func(t *testing.T) {
		m := fieldService()
		m.FindByID(9).Collapsed = false

		require.True(t, m.Toggle(m.FindByID(2)))

		assert.False(t, m.FindByID(2).Collapsed)
		assert.True(t, m.FindByID(9).Collapsed)
	})

	t.Run("collapses an expanded item", func(t *testing.T) {
		m := fieldService()
		m.FindByID(2).Collapsed = false
		m.FindByID(9).Collapsed = false

		m.Toggle(m.FindByID(2))

		assert.True(t, m.FindByID(2).Collapsed)
		assert.True(t, m.FindByID(9).Collapsed)
	})

	t.Run("descendant leaves expanded ancestor open", func(t *testing.T) {
		m := fieldService()
		m.FindByID(2).Collapsed = false
		m.FindByID(7).Collapsed = false

		m.Toggle(m.FindByID(4))

		assert.False(t, m.FindByID(2).Collapsed, "ancestor unaffected")
		assert.False(t, m.FindByID(4).Collapsed)
		assert.True(t, m.FindByID(7).Collapsed, "sibling at the same level closed")
	})

	t.Run("closes descendants of the clicked item", func(t *testing.T) {
		m := fieldService()
		m.FindByID(4).Collapsed = false

		m.Toggle(m.FindByID(2))

		assert.False(t, m.FindByID(2).Collapsed)
		assert.True(t, m.FindByID(4).Collapsed)
	})

	t.Run("works below depth four", func(t *testing.T) {
		leaf := &Item{Label: "e", Collapsed: true, Items: []*Item{{Label: "f", Link: "f"}}}
		other := &Item{Label: "e2", Items: []*Item{{Label: "g", Link: "g"}}}
		d := &Item{Label: "d", Items: []*Item{leaf, other}}
		c := &Item{Label: "c", Items: []*Item{d}}
		b := &Item{Label: "b", Items: []*Item{c}}
		a := &Item{Label: "a", Items: []*Item{b}}
		items := []*Item{a}

		require.True(t, Toggle(leaf, items))

		assert.False(t, leaf.Collapsed)
		assert.True(t, other.Collapsed)
		for _, anc := range []*Item{a, b, c, d} {
			assert.False(t, anc.Collapsed, anc.Label)
		}
	})

	t.Run("unknown item is ignored", func(t *testing.T) {
		m := fieldService()
		before := collapsedState(m.Items)
		assert.False(t, m.Toggle(&Item{Label: "stranger"}))
		assert.Empty(t, cmp.Diff(before, collapsedState(m.Items)))
	})
}

func TestToggleLeavesFavoriteDuplicatesIndependent(t *testing.T) {
	m := fieldService()
	m.SetFavorites([]string{"jobs/list"})
	fav := m.FavoritesContainer().Items[0]

	m.Toggle(m.FindByID(4))

	assert.False(t, m.FindByID(4).Collapsed)
	assert.False(t, fav.Collapsed, "favorite duplicate has no sub-items to toggle")
}

func TestCollapseAll(t *testing.T) {
	m := fieldService()
	m.Expand(m.FindByID(6))

	m.CollapseAll()

	for label, collapsed := range collapsedState(m.Items) {
		item := findLabel(m.Items, label)
		if item.HasItems() {
			assert.True(t, collapsed, label)
		}
	}
}

func findLabel(items []*Item, label string) *Item {
	var found *Item
	preorder(items, func(item *Item) {
		if found == nil && item.Label == label {
			found = item
		}
	})
	return found
}
