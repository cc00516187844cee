// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package terminal provides orchestrator element handles for a command-line
// front end. Article blocks are kept as markup while the orchestrator runs
// and flattened to plain text when printed.
package terminal

import (
	"fmt"
	"html"
	"io"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/pdiddy/abstract-search/internal/orchestrator"
)

const spinnerText = "Searching PubMed... "

// blockBreaks turns block-level tags into line breaks before tags are
// stripped.
var blockBreaks = strings.NewReplacer(
	"</h5>\n", "\n",
	"</p>\n", "\n",
	"</h5>", "\n",
	"</p>", "\n",
	"<hr>", strings.Repeat("-", 60),
)

var (
	stripOnce   sync.Once
	stripPolicy *bluemonday.Policy
)

func stripper() *bluemonday.Policy {
	stripOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})
	return stripPolicy
}

// Screen holds the state of one terminal interaction.
type Screen struct {
	mu          sync.Mutex
	status      io.Writer
	loading     bool
	abstracts   string
	summary     string
	searchTerms string
}

// New returns a Screen that writes spinner progress to status. A nil status
// discards it.
func New(status io.Writer) *Screen {
	if status == nil {
		status = io.Discard
	}
	return &Screen{status: status}
}

// Elements returns the handles the orchestrator drives. The screen's mutex
// is the UI lock.
func (s *Screen) Elements() orchestrator.Elements {
	return orchestrator.Elements{
		UI:          &s.mu,
		Spinner:     spinner{s},
		Abstracts:   panel{s},
		Summary:     field{&s.summary},
		SearchTerms: field{&s.searchTerms},
	}
}

// SearchTerms returns the current search-terms value.
func (s *Screen) SearchTerms() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchTerms
}

// AbstractsText returns the abstracts panel flattened to plain text.
func (s *Screen) AbstractsText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return PlainText(s.abstracts)
}

// Loading reports whether the spinner is shown.
func (s *Screen) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Print writes the abstracts as plain text followed by the summary.
func (s *Screen) Print(w io.Writer) error {
	s.mu.Lock()
	abstracts, summary := s.abstracts, s.summary
	s.mu.Unlock()

	if _, err := fmt.Fprintln(w, PlainText(abstracts)); err != nil {
		return err
	}
	if summary == "" {
		return nil
	}
	_, err := fmt.Fprintf(w, "\nSummary:\n%s\n", summary)
	return err
}

// PlainText flattens rendered article markup to readable text.
func PlainText(markup string) string {
	text := stripper().Sanitize(blockBreaks.Replace(markup))
	return strings.TrimSpace(html.UnescapeString(text))
}

type spinner struct{ s *Screen }

func (sp spinner) Show() {
	sp.s.loading = true
	fmt.Fprint(sp.s.status, spinnerText)
}

func (sp spinner) Hide() {
	if !sp.s.loading {
		return
	}
	sp.s.loading = false
	fmt.Fprintln(sp.s.status, "done.")
}

type panel struct{ s *Screen }

func (p panel) SetHTML(markup string)    { p.s.abstracts = markup }
func (p panel) AppendHTML(markup string) { p.s.abstracts += markup }
func (p panel) SetText(text string)      { p.s.abstracts = html.EscapeString(text) }

type field struct{ v *string }

func (f field) SetValue(value string) { *f.v = value }
