package activation

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/mchmarny/navmenu/pkg/menu"
	"github.com/mchmarny/navmenu/pkg/route"
)

// Rule names the check that selected the highlighted link.
type Rule string

const (
	RuleNone        Rule = ""
	RulePattern     Rule = "pattern"
	RuleExact       Rule = "exact"
	RuleChild       Rule = "child"
	RuleLegacy      Rule = "legacy"
	RuleList        Rule = "list"
	RuleActiveRoute Rule = "active-route"
	RuleFavorite    Rule = "favorite"
)

// LegacyRule activates a link whose path contains LinkContains whenever the
// current path contains PathContains.
type LegacyRule struct {
	LinkContains string `json:"link_contains" yaml:"link_contains"`
	PathContains string `json:"path_contains" yaml:"path_contains"`
}

// DefaultLegacyRules keeps the medication limit group pages under their list link.
var DefaultLegacyRules = []LegacyRule{
	{LinkContains: "medication-limit-group/list", PathContains: "medication-limit-group"},
}

// Result describes one activation pass.
type Result struct {
	EventID string `json:"event_id"`
	Path    string `json:"path,omitempty"`

	// Suppressed is set when the pass was skipped after favorite navigation.
	Suppressed bool `json:"suppressed,omitempty"`

	// Matched is the item owning the path through its active routes.
	Matched *menu.Item `json:"-"`

	// Active is the item whose link equals the path, favorites included.
	Active *menu.Item `json:"-"`

	// Target is the canonical item expanded and scrolled to.
	Target *menu.Item `json:"-"`

	// Link is the highlighted rendered link.
	Link *Link `json:"link,omitempty"`
	Rule Rule  `json:"rule,omitempty"`

	// Trail holds the ancestors of the highlighted link's item, root first.
	Trail []*menu.Item `json:"-"`
}

// Highlighted reports whether a link was highlighted.
func (r *Result) Highlighted() bool {
	return r != nil && r.Link != nil
}

// plan is everything a pass will change, computed before any of it is applied.
type plan struct {
	expand []*menu.Item
	scroll *menu.Item
	links  []*Link
	link   *Link
}

func (o *Orchestrator) resolve(res *Result, log *slog.Logger) *plan {
	m := o.menu
	path := res.Path
	p := &plan{}

	// Author-declared active routes win over link equality anywhere else.
	if matched := m.FindByActiveRoute(path); matched != nil {
		res.Matched = matched
		if !matched.Favorite {
			p.expand = append(p.expand, matched)
		}
		log.Debug("active route owner found", "item", matched.String())
	}

	res.Active = m.FindByLink(path)
	target := res.Active
	if res.Active != nil && res.Active.Favorite {
		if regular := m.FindRegular(path); regular != nil {
			target = regular
		}
	}
	if target != nil && !target.Favorite {
		res.Target = target
		p.expand = append(p.expand, target)
		p.scroll = target
		log.Debug("link owner found", "item", target.String(), "via_favorite", res.Active.Favorite)
	}

	if o.view == nil {
		return p
	}

	p.links = o.view.Links()
	sorted := slices.Clone(p.links)
	slices.SortStableFunc(sorted, func(a, b *Link) int {
		return len(o.transform.link(b.Path)) - len(o.transform.link(a.Path))
	})

	for _, l := range sorted {
		if rule := o.linkRule(l, path); rule != RuleNone {
			p.link, res.Rule = l, rule
			break
		}
	}

	if p.link == nil && res.Matched != nil {
		if l := o.linkFor(sorted, res.Matched); l != nil {
			p.link, res.Rule = l, RuleActiveRoute
		}
	}

	if p.link == nil && res.Active != nil && res.Active.Favorite {
		if l := o.linkFor(sorted, res.Active); l != nil {
			p.link, res.Rule = l, RuleFavorite
		}
	}

	res.Link = p.link
	if p.link == nil {
		log.Debug("no rendered link matched", "path", path, "links", len(sorted))
	}
	return p
}

// linkRule returns the first rule under which the rendered link owns path.
func (o *Orchestrator) linkRule(l *Link, path string) Rule {
	linkPath := o.transform.link(l.Path)

	item := l.Item
	if item == nil {
		item = o.menu.FindByLink(linkPath)
	}
	if item != nil && len(item.ActiveRoutes) > 0 {
		if _, ok := route.MatchesAny(item.ActiveRoutes, path, o.menu.BasePath); ok {
			return RulePattern
		}
		return RuleNone
	}

	switch {
	case linkPath == path:
		return RuleExact
	case strings.HasPrefix(path, linkPath+"/"):
		return RuleChild
	}

	for _, r := range o.rules {
		if r.LinkContains != "" && strings.Contains(linkPath, r.LinkContains) && strings.Contains(path, r.PathContains) {
			return RuleLegacy
		}
	}

	if base, ok := strings.CutSuffix(linkPath, "/list"); ok {
		if strings.HasPrefix(path, base+"/") && path != linkPath {
			return RuleList
		}
	}

	return RuleNone
}

// linkFor returns the first link that points at item, either exactly or by
// ending with the item's link. The suffix form covers rendered paths that
// carry a dynamic segment, such as a record id, ahead of the shared link.
func (o *Orchestrator) linkFor(sorted []*Link, item *menu.Item) *Link {
	if item.Link == "" {
		return nil
	}
	want := o.menu.Resolve(item)
	suffix := "/" + strings.TrimPrefix(item.Link, "/")
	for _, l := range sorted {
		linkPath := o.transform.link(l.Path)
		if linkPath == want || strings.HasSuffix(linkPath, suffix) {
			return l
		}
	}
	return nil
}

func (o *Orchestrator) apply(p *plan) {
	if o.accordion && len(p.expand) > 0 {
		o.menu.CollapseAll()
	}
	for _, item := range p.expand {
		o.menu.Expand(item)
	}

	for _, l := range p.links {
		l.Active = false
	}
	if p.link != nil {
		p.link.Active = true
	}

	if p.scroll != nil && o.view != nil {
		o.view.ScrollTo(p.scroll)
	}
}

// trail returns the canonical ancestors of the highlighted link's item.
func (o *Orchestrator) trail(l *Link) []*menu.Item {
	item := l.Item
	if item == nil || item.Favorite {
		item = o.menu.FindRegular(o.transform.link(l.Path))
	}
	chain := menu.PathTo(item, o.menu.Items)
	if len(chain) == 0 {
		return nil
	}
	return chain[:len(chain)-1]
}
