package menu

import "log/slog"

// PathTo returns the chain of items from a root down to target, inclusive,
// or nil when target is not in the tree. Items are compared by identity.
func PathTo(target *Item, items []*Item) []*Item {
	if target == nil {
		return nil
	}
	return pathTo(target, items, nil)
}

func pathTo(target *Item, items []*Item, trail []*Item) []*Item {
	for _, item := range items {
		current := append(trail[:len(trail):len(trail)], item)
		if item == target {
			return current
		}
		if found := pathTo(target, item.Items, current); found != nil {
			return found
		}
	}
	return nil
}

// Expand opens every item with sub-items on the chain from the root to
// target. It never closes anything, so repeated calls are no-ops.
func Expand(target *Item, items []*Item) bool {
	chain := PathTo(target, items)
	if chain == nil {
		slog.Debug("expand target not in tree", "item", target.String())
		return false
	}

	for _, item := range chain {
		if item.HasItems() {
			item.Collapsed = false
		}
	}

	slog.Debug("expanded", "item", target.String(), "depth", len(chain))
	return true
}

// Toggle applies the accordion policy for a user click at every depth.
// The clicked item flips, its ancestors stay open, and every other item
// with sub-items is closed.
func Toggle(clicked *Item, items []*Item) bool {
	chain := PathTo(clicked, items)
	if chain == nil {
		return false
	}

	ancestors := make(map[*Item]struct{}, len(chain))
	for _, item := range chain[:len(chain)-1] {
		ancestors[item] = struct{}{}
	}

	walk(items, nil, func(item *Item, _ []*Item) bool {
		if !item.HasItems() {
			return true
		}
		switch _, open := ancestors[item]; {
		case item == clicked:
			item.Collapsed = !item.Collapsed
		case open:
			item.Collapsed = false
		default:
			item.Collapsed = true
		}
		return true
	})

	slog.Debug("toggled", "item", clicked.String(), "collapsed", clicked.Collapsed)
	return true
}

// CollapseAll closes every item with sub-items.
func CollapseAll(items []*Item) {
	walk(items, nil, func(item *Item, _ []*Item) bool {
		if item.HasItems() {
			item.Collapsed = true
		}
		return true
	})
}
