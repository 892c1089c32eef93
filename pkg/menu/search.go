package menu

import "strings"

// Filter returns a copy of items keeping every item whose label contains
// term (case-insensitive) and every item with a matching descendant. Kept
// items are expanded and carry only their matching sub-items. Title items
// never match. An empty term returns items unchanged.
func Filter(items []*Item, term string) []*Item {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return items
	}
	return filter(items, term)
}

func filter(items []*Item, term string) []*Item {
	var out []*Item
	for _, item := range items {
		var sub []*Item
		if item.HasItems() {
			sub = filter(item.Items, term)
		}

		if !labelMatches(item, term) && len(sub) == 0 {
			continue
		}

		cp := *item
		cp.Items = sub
		cp.Collapsed = false
		out = append(out, &cp)
	}
	return out
}

func labelMatches(item *Item, term string) bool {
	if item.Label == "" || item.Title {
		return false
	}
	return strings.Contains(strings.ToLower(item.Label), term)
}
