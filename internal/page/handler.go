// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package page

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/pdiddy/abstract-search/internal/orchestrator"
	"github.com/pdiddy/abstract-search/internal/render"
)

const (
	actionSearch  = "search"
	actionExtract = "extract"
)

// Handler serves the search page. GET renders an empty page; POST runs the
// submitted action through a fresh orchestrator and renders the result in
// place.
type Handler struct {
	Backend  orchestrator.Backend
	Renderer render.Renderer
	Logger   *zap.Logger
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.write(w, State{})
	case http.MethodPost:
		h.post(w, r)
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *Handler) post(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	question := r.PostForm.Get(IDQuestion)
	terms := r.PostForm.Get(IDSearchTerms)

	p := New(question, terms)
	var opts []orchestrator.Option
	if h.Renderer != nil {
		opts = append(opts, orchestrator.WithRenderer(h.Renderer))
	}
	o := orchestrator.New(h.Backend, p.Elements(), opts...)

	switch r.PostForm.Get("action") {
	case actionExtract:
		o.OnExtractClick(r.Context(), question)
	default:
		ev := &FormEvent{}
		o.OnSubmit(r.Context(), ev, question, terms)
		if !ev.DefaultPrevented() {
			http.Redirect(w, r, r.URL.Path, http.StatusSeeOther)
			return
		}
	}

	h.write(w, p.Snapshot())
}

func (h *Handler) write(w http.ResponseWriter, s State) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := Render(w, s); err != nil {
		h.logger().Error("render page", zap.Error(err))
	}
}

func (h *Handler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}
