// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns articles into the markup blocks shown in the abstracts
// panel. Field values are inserted as provided; callers that need escaping
// wrap the renderer with a Sanitizer.
package render

import (
	"bytes"
	"fmt"
	"sync"
	"text/template"

	"github.com/microcosm-cc/bluemonday"

	"github.com/pdiddy/abstract-search/pkg/types"
)

// articleTmpl lays out one article. text/template performs no escaping.
var articleTmpl = template.Must(template.New("article").Parse(`
<h5>{{.Title}}</h5>
<p><strong>Authors:</strong> {{.Authors}}</p>
<p><strong>Year:</strong> {{.Year}}</p>
<p><strong>Abstract:</strong> {{.Abstract}}</p>
<hr>
`))

// Renderer produces the markup for one article.
type Renderer interface {
	Article(a types.Article) (string, error)
}

// Blocks renders articles verbatim.
type Blocks struct{}

// Article renders a single article block.
func (Blocks) Article(a types.Article) (string, error) {
	var buf bytes.Buffer
	if err := articleTmpl.Execute(&buf, a); err != nil {
		return "", fmt.Errorf("rendering article %q: %w", a.Title, err)
	}
	return buf.String(), nil
}

// Sanitizer strips unsafe markup from article fields before rendering.
type Sanitizer struct {
	Next Renderer
}

var (
	fieldPolicyOnce sync.Once
	fieldPolicy     *bluemonday.Policy
)

// Article sanitizes every field and delegates to Next.
func (s Sanitizer) Article(a types.Article) (string, error) {
	p := sanitizer()
	clean := types.Article{
		Title:    p.Sanitize(a.Title),
		Authors:  p.Sanitize(a.Authors),
		Year:     types.Year(p.Sanitize(string(a.Year))),
		Abstract: p.Sanitize(a.Abstract),
	}
	next := s.Next
	if next == nil {
		next = Blocks{}
	}
	return next.Article(clean)
}

func sanitizer() *bluemonday.Policy {
	fieldPolicyOnce.Do(func() {
		// PubMed titles and abstracts carry inline formatting (<i>, <sup>, <sub>).
		fieldPolicy = bluemonday.UGCPolicy()
	})
	return fieldPolicy
}

// New returns the renderer selected by cfg.
func New(cfg types.RenderConfig) Renderer {
	if cfg.Sanitize {
		return Sanitizer{Next: Blocks{}}
	}
	return Blocks{}
}
