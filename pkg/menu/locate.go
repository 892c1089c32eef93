package menu

import (
	"log/slog"

	"github.com/mchmarny/navmenu/pkg/route"
)

func resolve(basePath, link string) string {
	return route.Join(basePath, link)
}

// FindByLink walks items in pre-order and returns the first item whose
// resolved link equals path exactly. Favorite duplicates are included.
func FindByLink(path string, items []*Item, basePath string) *Item {
	return findByLink(path, items, basePath, true)
}

// FindRegular is FindByLink restricted to the canonical tree: favorite
// duplicates are skipped and never descended into.
func FindRegular(path string, items []*Item, basePath string) *Item {
	return findByLink(path, items, basePath, false)
}

func findByLink(path string, items []*Item, basePath string, favorites bool) *Item {
	for _, item := range items {
		if item.Favorite && !favorites {
			continue
		}

		if item.Link != "" && resolve(basePath, item.Link) == path {
			return item
		}

		if found := findByLink(path, item.Items, basePath, favorites); found != nil {
			return found
		}
	}
	return nil
}

// FindByActiveRoute walks items in pre-order and returns the first item
// with an active route pattern matching path. An item that matches is
// returned without looking at its sub-items or any later item.
func FindByActiveRoute(path string, items []*Item, basePath string) *Item {
	for _, item := range items {
		if len(item.ActiveRoutes) > 0 {
			for _, pattern := range item.ActiveRoutes {
				ok := route.Matches(pattern, path, basePath)
				slog.Debug("active route tested",
					"item", item.Label,
					"pattern", pattern,
					"kind", route.Classify(pattern).String(),
					"path", path,
					"match", ok)
				if ok {
					return item
				}
			}
		}

		if found := FindByActiveRoute(path, item.Items, basePath); found != nil {
			return found
		}
	}
	return nil
}
