// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package orchestrator coordinates the page elements around the two endpoint
// calls of a search-and-summarize interaction: submitting a search and
// extracting search terms from a question.
//
// The orchestrator holds explicit handles to the elements it drives. Each
// operation blocks until its response has been handled; hosts run one
// goroutine per user action. Overlapping operations are not sequenced, so
// when two searches are in flight the response that arrives last wins.
//
// See docs/ARCHITECTURE § Search Orchestrator.
package orchestrator

import (
	"context"
	"strings"
	"sync"

	"github.com/pdiddy/abstract-search/internal/render"
	"github.com/pdiddy/abstract-search/pkg/types"
)

// Texts shown to the user. These are part of the page contract.
const (
	TextNoArticles   = "No articles found."
	TextFetchError   = "Error: Unable to fetch abstracts."
	TextNoQuestion   = "No question provided."
	TextNoTerms      = "No terms extracted."
	TextExtractError = "Error: Unable to extract search terms."
)

const termSeparator = " "

// Backend calls the abstracts and term-extraction endpoints. Any error is
// treated as a transport failure.
type Backend interface {
	GetAbstracts(ctx context.Context, question, searchTerms string) (types.AbstractsResponse, error)
	ExtractTerms(ctx context.Context, question string) (types.TermsResponse, error)
}

// Toggle is a show/hide element such as the loading indicator.
type Toggle interface {
	Show()
	Hide()
}

// Panel is an output container that accepts markup or plain text.
type Panel interface {
	SetHTML(markup string)
	AppendHTML(markup string)
	SetText(text string)
}

// Field is a single-value text element.
type Field interface {
	SetValue(value string)
}

// Elements are the page elements the orchestrator writes to.
//
// UI serializes element updates; every state transition runs while holding
// it, so a reader holding the same lock never sees a half-applied update.
type Elements struct {
	UI          sync.Locker
	Spinner     Toggle
	Abstracts   Panel
	Summary     Field
	SearchTerms Field
}

// Event is a user action whose default browser behavior can be suppressed.
type Event interface {
	PreventDefault()
}

// Orchestrator binds user actions to endpoint calls.
type Orchestrator struct {
	backend  Backend
	el       Elements
	renderer render.Renderer
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRenderer replaces the article renderer (default render.Blocks).
func WithRenderer(r render.Renderer) Option {
	return func(o *Orchestrator) { o.renderer = r }
}

// New returns an orchestrator driving el against backend. A nil el.UI is
// replaced by a private mutex.
func New(backend Backend, el Elements, opts ...Option) *Orchestrator {
	if el.UI == nil {
		el.UI = &sync.Mutex{}
	}
	o := &Orchestrator{
		backend:  backend,
		el:       el,
		renderer: render.Blocks{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// OnSubmit handles a search form submission. The default form navigation is
// suppressed before anything else happens.
func (o *Orchestrator) OnSubmit(ctx context.Context, ev Event, question, searchTerms string) {
	if ev != nil {
		ev.PreventDefault()
	}
	o.SubmitSearch(ctx, question, searchTerms)
}

// OnExtractClick handles the extract-terms button. Buttons have no default
// action to suppress.
func (o *Orchestrator) OnExtractClick(ctx context.Context, question string) {
	o.ExtractTerms(ctx, question)
}

// SubmitSearch shows the loading indicator, clears the previous result,
// requests abstracts, and renders the outcome.
func (o *Orchestrator) SubmitSearch(ctx context.Context, question, searchTerms string) {
	o.update(func() {
		o.el.Spinner.Show()
		o.el.Abstracts.SetHTML("")
		o.el.Summary.SetValue("")
	})

	resp, err := o.backend.GetAbstracts(ctx, question, searchTerms)
	if err != nil {
		o.update(func() {
			o.el.Spinner.Hide()
			o.el.Abstracts.SetText(TextFetchError)
			o.el.Summary.SetValue("")
		})
		return
	}

	if !resp.HasArticles {
		o.update(func() {
			o.el.Spinner.Hide()
			o.el.Abstracts.SetText(TextNoArticles)
			o.el.Summary.SetValue("")
		})
		return
	}

	blocks, err := o.renderAll(resp.Articles)
	if err != nil {
		o.update(func() {
			o.el.Spinner.Hide()
			o.el.Abstracts.SetText(TextFetchError)
			o.el.Summary.SetValue("")
		})
		return
	}

	// Replace, never extend: an overlapping search may have filled the panel.
	o.update(func() {
		o.el.Spinner.Hide()
		o.el.Abstracts.SetHTML("")
		for _, b := range blocks {
			o.el.Abstracts.AppendHTML(b)
		}
		o.el.Summary.SetValue(resp.Summary)
	})
}

// ExtractTerms fills the search-terms field from the question. An empty
// question is answered locally without a request.
func (o *Orchestrator) ExtractTerms(ctx context.Context, question string) {
	if question == "" {
		o.update(func() { o.el.SearchTerms.SetValue(TextNoQuestion) })
		return
	}

	resp, err := o.backend.ExtractTerms(ctx, question)

	var value string
	switch {
	case err != nil:
		value = TextExtractError
	case !resp.HasTerms:
		value = TextNoTerms
	default:
		value = strings.Join(resp.Terms, termSeparator)
	}
	o.update(func() { o.el.SearchTerms.SetValue(value) })
}

func (o *Orchestrator) renderAll(articles []types.Article) ([]string, error) {
	blocks := make([]string, 0, len(articles))
	for _, a := range articles {
		b, err := o.renderer.Article(a)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func (o *Orchestrator) update(fn func()) {
	o.el.UI.Lock()
	defer o.el.UI.Unlock()
	fn()
}
