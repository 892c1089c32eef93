package shell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/mchmarny/navmenu/pkg/activation"
	"github.com/mchmarny/navmenu/pkg/favorites"
	"github.com/mchmarny/navmenu/pkg/menu"
)

// maxBodyBytes caps API request bodies.
const maxBodyBytes = 64 << 10

// ResultView is an activation result with its items reduced to labels.
type ResultView struct {
	*activation.Result

	Matched string   `json:"matched,omitempty"`
	Active  string   `json:"active,omitempty"`
	Target  string   `json:"target,omitempty"`
	Trail   []string `json:"trail,omitempty"`
}

func newResultView(r *activation.Result) *ResultView {
	if r == nil {
		return nil
	}
	v := &ResultView{Result: r}
	if r.Matched != nil {
		v.Matched = r.Matched.Label
	}
	if r.Active != nil {
		v.Active = r.Active.Label
	}
	if r.Target != nil {
		v.Target = r.Target.Label
	}
	for _, item := range r.Trail {
		v.Trail = append(v.Trail, item.Label)
	}
	return v
}

// MenuView is the state rendered by GET /api/menu.
type MenuView struct {
	Menu       *menu.Menu  `json:"menu"`
	Path       string      `json:"path"`
	ActiveLink string      `json:"activeLink,omitempty"`
	ScrollTo   string      `json:"scrollTo,omitempty"`
	Last       *ResultView `json:"last,omitempty"`

	// Favorited lists the resolved links of canonical items the store has
	// saved, in menu order.
	Favorited []string `json:"favorited,omitempty"`
}

// ClickResponse is returned by POST /api/click.
type ClickResponse struct {
	Kind   string      `json:"kind"`
	Result *ResultView `json:"result,omitempty"`
}

type navigateRequest struct {
	Path string `json:"path"`
}

type favoriteRequest struct {
	Link string `json:"link"`
}

// Routes returns the API handlers keyed by http.ServeMux pattern.
func (s *Shell) Routes() map[string]http.Handler {
	return map[string]http.Handler{
		"GET /api/menu":                 http.HandlerFunc(s.handleMenu),
		"POST /api/navigate":            http.HandlerFunc(s.handleNavigate),
		"POST /api/click":               http.HandlerFunc(s.handleClick),
		"GET /api/search":               http.HandlerFunc(s.handleSearch),
		"GET /api/favorites":            http.HandlerFunc(s.handleFavorites),
		"POST /api/favorites/toggle":    http.HandlerFunc(s.handleToggleFavorite),
		"DELETE /api/favorites":         http.HandlerFunc(s.handleClearFavorites),
		"DELETE /api/favorites/{index}": http.HandlerFunc(s.handleRemoveFavorite),
	}
}

// Handler returns all API routes on a single mux.
func (s *Shell) Handler() http.Handler {
	mux := http.NewServeMux()
	for pattern, h := range s.Routes() {
		mux.Handle(pattern, h)
	}
	return mux
}

// view captures the shell state. The menu is encoded while the lock is
// held, so the returned bytes never observe a half-applied pass.
func (s *Shell) view() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := MenuView{
		Menu: s.menu,
		Path: s.path,
		Last: newResultView(s.orch.Last()),
	}
	for _, l := range s.links {
		if l.Active {
			v.ActiveLink = l.Path
			break
		}
	}
	if s.scrolled != nil {
		v.ScrollTo = s.menu.Resolve(s.scrolled)
	}
	s.menu.Walk(func(item *menu.Item, _ []*menu.Item) bool {
		if item.Favorites || item.Favorite {
			return false
		}
		if item.Link != "" && s.store.IsFavorited(item) {
			v.Favorited = append(v.Favorited, s.menu.Resolve(item))
		}
		return true
	})
	return json.Marshal(v)
}

func (s *Shell) handleMenu(w http.ResponseWriter, _ *http.Request) {
	data, err := s.view()
	if err != nil {
		slog.Error("failed to marshal menu", "error", err)
		writeError(w, http.StatusInternalServerError, "error, see logs for details")
		return
	}
	writeRaw(w, http.StatusOK, data)
}

func (s *Shell) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}

	res, err := s.Visit(r.Context(), req.Path)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, newResultView(res))
}

func (s *Shell) handleClick(w http.ResponseWriter, r *http.Request) {
	var req ClickRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	kind, res, err := s.Click(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	resp := ClickResponse{Kind: kind}
	if kind == activation.ClickFavorite || kind == activation.ClickLink {
		resp.Result = newResultView(res)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Shell) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	s.mu.Lock()
	items := menu.Filter(s.menu.Items, q)
	if items == nil {
		items = []*menu.Item{}
	}
	data, err := json.Marshal(items)
	s.mu.Unlock()

	if err != nil {
		slog.Error("failed to marshal search result", "error", err)
		writeError(w, http.StatusInternalServerError, "error, see logs for details")
		return
	}
	writeRaw(w, http.StatusOK, data)
}

func (s *Shell) handleFavorites(w http.ResponseWriter, _ *http.Request) {
	list, err := s.Favorites()
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

func (s *Shell) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var req favoriteRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	list, err := s.ToggleFavorite(req.Link)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

func (s *Shell) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	i, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be a number")
		return
	}

	list, err := s.RemoveFavorite(i)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

func (s *Shell) handleClearFavorites(w http.ResponseWriter, _ *http.Request) {
	if err := s.ClearFavorites(); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func nonNil(list []favorites.Favorite) []favorites.Favorite {
	if list == nil {
		return []favorites.Favorite{}
	}
	return list
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, favorites.ErrNotNavigable), errors.Is(err, favorites.ErrOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	slog.Error("handling error response",
		"status", status,
		"message", message,
	)
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"error, see logs for details"}`))
		return
	}
	writeRaw(w, status, jsonData)
}

func writeRaw(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}
