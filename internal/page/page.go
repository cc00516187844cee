// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package page holds the state of the search page and serves it as a
// server-rendered form. A Page exposes its elements to the orchestrator as
// explicit handles; its mutex serializes updates from concurrent actions.
package page

import (
	"html"
	"sync"

	"github.com/pdiddy/abstract-search/internal/orchestrator"
)

// Element identities shared with the page template.
const (
	IDForm        = "search-form"
	IDQuestion    = "question"
	IDSearchTerms = "search_terms"
	IDExtract     = "extract-terms"
	IDAbstracts   = "abstracts"
	IDSummary     = "summary_box"
	IDLoading     = "loading"
)

// State is a consistent copy of every element value.
type State struct {
	Question      string
	SearchTerms   string
	AbstractsHTML string
	Summary       string
	Loading       bool
}

// Page is the mutable element state of one search page.
type Page struct {
	mu    sync.Mutex
	state State
}

// New returns a page whose inputs hold question and searchTerms.
func New(question, searchTerms string) *Page {
	return &Page{state: State{Question: question, SearchTerms: searchTerms}}
}

// Elements returns the orchestrator handles for this page.
func (p *Page) Elements() orchestrator.Elements {
	return orchestrator.Elements{
		UI:          &p.mu,
		Spinner:     spinner{p},
		Abstracts:   abstracts{p},
		Summary:     field{&p.state.Summary},
		SearchTerms: field{&p.state.SearchTerms},
	}
}

// Snapshot returns the current state.
func (p *Page) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// SetQuestion records user input in the question element.
func (p *Page) SetQuestion(q string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Question = q
}

// SetSearchTerms records user input in the search-terms element.
func (p *Page) SetSearchTerms(terms string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.SearchTerms = terms
}

// The handles below are called with p.mu held by the orchestrator.

type spinner struct{ p *Page }

func (s spinner) Show() { s.p.state.Loading = true }
func (s spinner) Hide() { s.p.state.Loading = false }

type abstracts struct{ p *Page }

func (a abstracts) SetHTML(markup string)    { a.p.state.AbstractsHTML = markup }
func (a abstracts) AppendHTML(markup string) { a.p.state.AbstractsHTML += markup }

// SetText replaces the panel content with a text node.
func (a abstracts) SetText(text string) { a.p.state.AbstractsHTML = html.EscapeString(text) }

type field struct{ v *string }

func (f field) SetValue(value string) { *f.v = value }

// FormEvent is a form submission whose default navigation can be suppressed.
type FormEvent struct {
	prevented bool
}

// PreventDefault suppresses the default navigation.
func (e *FormEvent) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *FormEvent) DefaultPrevented() bool { return e.prevented }
