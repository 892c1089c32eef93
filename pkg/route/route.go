package route

import (
	"regexp"
	"strings"
)

// Kind is the class of an active route pattern.
type Kind int

const (
	// Exact patterns match any path starting with the resolved route.
	Exact Kind = iota

	// Wildcard patterns contain "*" and match the whole subtree of their base.
	Wildcard

	// Param patterns contain ":name" segments and match any value in their place.
	Param
)

// String returns the name of the pattern class.
func (k Kind) String() string {
	switch k {
	case Wildcard:
		return "wildcard"
	case Param:
		return "param"
	default:
		return "exact"
	}
}

var paramSuffix = regexp.MustCompile(`/?:[^/]+.*$`)

// Classify returns the class of the pattern. Wildcard wins over Param
// when a pattern contains both markers.
func Classify(pattern string) Kind {
	switch {
	case strings.Contains(pattern, "*"):
		return Wildcard
	case strings.Contains(pattern, ":"):
		return Param
	default:
		return Exact
	}
}

// Base returns the route portion of the pattern used for prefix matching.
//
//	"maintenance/entities/*" -> "maintenance/entities"
//	"comments/edit/:id"      -> "comments/edit"
//	"comments/form"          -> "comments/form"
func Base(pattern string) string {
	switch Classify(pattern) {
	case Wildcard:
		base := strings.Replace(pattern, "/*", "", 1)
		return strings.Replace(base, "*", "", 1)
	case Param:
		return paramSuffix.ReplaceAllString(pattern, "")
	default:
		return pattern
	}
}

// Join resolves a link against the base path. A leading slash on the link
// is dropped so absolute-looking links do not produce "//".
func Join(basePath, link string) string {
	return basePath + "/" + strings.TrimPrefix(link, "/")
}

// Matches reports whether currentPath is owned by the pattern. A "/*"
// wildcard owns its base and every path nested beneath it, but not siblings
// sharing the base as a prefix. Every other pattern owns any path that starts
// with the resolved base. Malformed patterns simply fail to match.
func Matches(pattern, currentPath, basePath string) bool {
	full := Join(basePath, Base(pattern))
	if strings.Contains(pattern, "/*") {
		return Within(currentPath, full)
	}
	return strings.HasPrefix(currentPath, full)
}

// Within reports whether path equals prefix or is nested beneath it.
func Within(path, prefix string) bool {
	prefix = strings.TrimSuffix(prefix, "/")
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// MatchesAny returns the first pattern, in list order, that matches currentPath.
func MatchesAny(patterns []string, currentPath, basePath string) (string, bool) {
	for _, p := range patterns {
		if Matches(p, currentPath, basePath) {
			return p, true
		}
	}
	return "", false
}
