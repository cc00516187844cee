// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package page

import (
	"fmt"
	"html/template"
	"io"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>PubMed Abstract Search</title>
<style>
body { font-family: sans-serif; max-width: 52rem; margin: 2rem auto; }
input[type=text], textarea { width: 100%; }
#loading { font-style: italic; }
</style>
</head>
<body>
<h1>PubMed Abstract Search</h1>
<form id="search-form" method="post" action="/">
  <label for="question">Question</label>
  <input type="text" id="question" name="question" value="{{.Question}}">
  <label for="search_terms">Search terms</label>
  <input type="text" id="search_terms" name="search_terms" value="{{.SearchTerms}}">
  <button type="submit" id="extract-terms" name="action" value="extract">Extract search terms</button>
  <button type="submit" name="action" value="search">Search</button>
</form>
<div id="loading"{{if not .Loading}} hidden{{end}}>Searching PubMed&hellip;</div>
<h2>Summary</h2>
<textarea id="summary_box" rows="8" readonly>{{.Summary}}</textarea>
<h2>Abstracts</h2>
<div id="abstracts">{{.Abstracts}}</div>
</body>
</html>
`))

// view is the template data. Abstracts is trusted markup.
type view struct {
	State
	Abstracts template.HTML
}

// Render writes the full page for s.
func Render(w io.Writer, s State) error {
	v := view{State: s, Abstracts: template.HTML(s.AbstractsHTML)} //nolint:gosec // article markup is inserted as provided
	if err := pageTmpl.Execute(w, v); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}
