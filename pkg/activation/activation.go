// Package activation decides which menu item is active for the current
// location, expands the branch leading to it and highlights one rendered
// link. It also owns the one-shot flag that keeps favorite navigation from
// reorganizing the canonical menu.
package activation

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mchmarny/navmenu/pkg/menu"
	"github.com/mchmarny/navmenu/pkg/metric"
)

// State is the orchestrator lifecycle state.
type State int

const (
	Idle State = iota
	Resolving
	Applied
)

func (s State) String() string {
	switch s {
	case Resolving:
		return "resolving"
	case Applied:
		return "applied"
	default:
		return "idle"
	}
}

// Location reports the current absolute application path.
type Location interface {
	CurrentPath() string
}

// View exposes the links currently rendered by the navigation shell.
type View interface {
	// Links returns the rendered links. The orchestrator owns their Active flag.
	Links() []*Link

	// ScrollTo asks the view to bring the item into sight.
	ScrollTo(item *menu.Item)
}

// Navigator performs route transitions. Absolute paths start with "/";
// anything else is relative to the current view.
type Navigator interface {
	Navigate(ctx context.Context, path string, relative bool) error
}

// Link is one rendered navigation link.
type Link struct {
	// Path is the resolved absolute path the link points to.
	Path string `json:"path"`

	// Item is the menu item the link was rendered from, when known.
	Item *menu.Item `json:"-"`

	// Active is the visual highlight state.
	Active bool `json:"active"`
}

// Click outcome labels.
const (
	ClickToggle   = "toggle"
	ClickFavorite = "favorite"
	ClickLink     = "link"
	ClickIgnored  = "ignored"
)

// Resolution outcome labels.
const (
	OutcomeHighlighted = "highlighted"
	OutcomeMiss        = "miss"
	OutcomeSuppressed  = "suppressed"
	OutcomeCanceled    = "canceled"
)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger used for diagnostic events.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// WithMetrics records resolution and click outcomes.
func WithMetrics(r *metric.Recorder) Option {
	return func(o *Orchestrator) { o.metrics = r }
}

// WithRules replaces the legacy link rules consulted after the generic ones.
func WithRules(rules ...LegacyRule) Option {
	return func(o *Orchestrator) { o.rules = rules }
}

// WithAccordion closes every branch before expanding the resolved one, so
// only the active branch stays open after navigation.
func WithAccordion() Option {
	return func(o *Orchestrator) { o.accordion = true }
}

// WithPathTransform sets the transforms applied to the location and to
// rendered link paths before matching.
func WithPathTransform(t PathTransform) Option {
	return func(o *Orchestrator) { o.transform = t }
}

// Orchestrator runs activation passes over one menu tree.
type Orchestrator struct {
	mu sync.Mutex

	menu      *menu.Menu
	location  Location
	view      View
	navigator Navigator

	log       *slog.Logger
	metrics   *metric.Recorder
	rules     []LegacyRule
	accordion bool
	transform PathTransform

	state State
	skip  bool
	last  *Result
}

// New returns an orchestrator for m.
func New(m *menu.Menu, loc Location, view View, nav Navigator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		menu:      m,
		location:  loc,
		view:      view,
		navigator: nav,
		log:       slog.Default(),
		rules:     DefaultLegacyRules,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SetMenu swaps the menu tree, e.g. after the menu file was reloaded.
func (o *Orchestrator) SetMenu(m *menu.Menu) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.menu = m
	o.last = nil
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Last returns the result of the most recent pass, or nil.
func (o *Orchestrator) Last() *Result {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}

// Suppressed reports whether the next pass will be skipped.
func (o *Orchestrator) Suppressed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.skip
}

// OnNavigationSettled runs one activation pass for the current location.
// It must be called after the view has rendered its links. A pass that
// finds nothing is not an error. If ctx is done before the pass is applied
// nothing is changed and ctx.Err() is returned.
func (o *Orchestrator) OnNavigationSettled(ctx context.Context) (*Result, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	res := &Result{EventID: uuid.NewString()}
	log := o.log.With("event", res.EventID)

	// Read and clear in the same critical section.
	if o.skip {
		o.skip = false
		res.Suppressed = true
		o.state = Applied
		o.last = res
		o.record(OutcomeSuppressed)
		log.Debug("activation suppressed after favorite navigation")
		return res, nil
	}

	o.state = Resolving
	res.Path = o.transform.location(o.location.CurrentPath())
	p := o.resolve(res, log)

	if err := ctx.Err(); err != nil {
		o.state = Idle
		o.record(OutcomeCanceled)
		log.Debug("activation canceled before apply", "path", res.Path)
		return nil, err
	}

	o.apply(p)
	if res.Link != nil {
		res.Trail = o.trail(res.Link)
	}
	o.state = Applied
	o.last = res

	if res.Highlighted() {
		o.record(OutcomeHighlighted)
	} else {
		o.record(OutcomeMiss)
	}

	log.Info("navigation settled",
		"path", res.Path,
		"matched", res.Matched.String(),
		"target", res.Target.String(),
		"rule", string(res.Rule))

	return res, nil
}

// OnItemClicked handles a click on a menu item. Favorites navigate without
// reorganizing the menu: the next activation pass is skipped. Items with
// sub-items are toggled accordion style; other linked items navigate.
func (o *Orchestrator) OnItemClicked(ctx context.Context, item *menu.Item) (string, error) {
	if item == nil {
		return ClickIgnored, nil
	}

	o.mu.Lock()
	switch {
	case item.Favorite && item.Link != "":
		o.skip = true
		o.mu.Unlock()

		o.recordClick(ClickFavorite)
		o.log.Debug("favorite clicked", "item", item.String())

		if err := o.navigator.Navigate(ctx, item.Link, !strings.HasPrefix(item.Link, "/")); err != nil {
			// No navigation happened, so no pass may be skipped on its behalf.
			o.mu.Lock()
			o.skip = false
			o.mu.Unlock()
			return ClickFavorite, err
		}
		return ClickFavorite, nil

	case item.HasItems() && !item.Favorite:
		found := o.menu.Toggle(item)
		o.mu.Unlock()
		if !found {
			return ClickIgnored, nil
		}
		o.recordClick(ClickToggle)
		return ClickToggle, nil

	case item.Navigable():
		o.mu.Unlock()
		o.recordClick(ClickLink)
		return ClickLink, o.navigator.Navigate(ctx, item.Link, !strings.HasPrefix(item.Link, "/"))

	default:
		o.mu.Unlock()
		return ClickIgnored, nil
	}
}

func (o *Orchestrator) record(outcome string) {
	if o.metrics != nil {
		o.metrics.Resolutions.Increment(outcome)
	}
}

func (o *Orchestrator) recordClick(kind string) {
	if o.metrics != nil {
		o.metrics.Clicks.Increment(kind)
	}
}
