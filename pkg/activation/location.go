package activation

import (
	"net/url"
	"strings"
)

// UnauthorizedPage is the path segment of the page users land on when a
// route was refused; the route they wanted travels in the returnUrl query.
const UnauthorizedPage = "page-401"

// PathTransform normalizes locations and rendered link paths before matching.
// The zero value only strips query strings from the location.
type PathTransform struct {
	// Production enables stripping DeployRoot.
	Production bool

	// DeployRoot is the sub-path the application is served under in production.
	DeployRoot string
}

// location turns a raw location (path with optional query) into the path
// used for matching. A returnUrl query parameter names the path the user was
// heading to and takes precedence over the location itself.
func (t PathTransform) location(raw string) string {
	path := raw
	returnURL := ""
	if u, err := url.Parse(raw); err == nil {
		path = u.Path
		returnURL, _, _ = strings.Cut(u.Query().Get("returnUrl"), "?")
	}

	if returnURL != "" {
		path = returnURL
	} else if strings.Contains(path, UnauthorizedPage) {
		path = ""
	}

	return t.link(path)
}

// link strips the deployment root from a rendered path in production.
func (t PathTransform) link(path string) string {
	if t.Production && t.DeployRoot != "" {
		return strings.Replace(path, t.DeployRoot, "", 1)
	}
	return path
}

// Location returns the matching path for raw, as the orchestrator sees it.
func (t PathTransform) Location(raw string) string {
	return t.location(raw)
}
