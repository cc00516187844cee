// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/abstract-search/internal/llm"
	"github.com/pdiddy/abstract-search/pkg/types"
)

type fakeSearcher struct {
	articles []types.Article
	err      error
	gotTerm  string
}

func (f *fakeSearcher) SearchArticles(_ context.Context, term string) ([]types.Article, error) {
	f.gotTerm = term
	return f.articles, f.err
}

type call struct{ instruction, question, context string }

type fakeModel struct {
	answers map[string]string
	err     error
	calls   []call
}

func (f *fakeModel) Generate(_ context.Context, instruction, question, ctx string) (string, error) {
	f.calls = append(f.calls, call{instruction, question, ctx})
	if f.err != nil {
		return "", f.err
	}
	return f.answers[instruction], nil
}

type fakeRecorder struct {
	entries []types.HistoryEntry
	err     error
}

func (f *fakeRecorder) Record(_ context.Context, e types.HistoryEntry) (int64, error) {
	f.entries = append(f.entries, e)
	return int64(len(f.entries)), f.err
}

func newModel() *fakeModel {
	return &fakeModel{answers: map[string]string{
		llm.InstructionSearchTerms: "gut microbiota obesity",
		llm.InstructionSummary:     "Microbiota composition differs in obesity.",
	}}
}

func TestExtractTerms(t *testing.T) {
	m := newModel()
	s := New(&fakeSearcher{}, m, nil, nil)

	terms, err := s.ExtractTerms(context.Background(), "Does the gut microbiota affect obesity?")
	require.NoError(t, err)
	assert.Equal(t, []string{"gut", "microbiota", "obesity"}, terms)
	require.Len(t, m.calls, 1)
	assert.Equal(t, llm.InstructionSearchTerms, m.calls[0].instruction)
	assert.Equal(t, "", m.calls[0].context)
}

func TestExtractTermsEmptyQuestion(t *testing.T) {
	m := newModel()
	_, err := New(&fakeSearcher{}, m, nil, nil).ExtractTerms(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
	assert.Empty(t, m.calls)
}

func TestExtractTermsModelFailure(t *testing.T) {
	m := &fakeModel{err: errors.New("rate limited")}
	_, err := New(&fakeSearcher{}, m, nil, nil).ExtractTerms(context.Background(), "q")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestGetAbstractsRewritesQuestion(t *testing.T) {
	searcher := &fakeSearcher{articles: []types.Article{
		{Title: "A", Abstract: "first abstract"},
		{Title: "B", Abstract: "N/A"},
		{Title: "C", Abstract: "third abstract"},
	}}
	m := newModel()
	rec := &fakeRecorder{}
	s := New(searcher, m, rec, nil)
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	resp, err := s.GetAbstracts(context.Background(), "Does the gut microbiota affect obesity?", "")
	require.NoError(t, err)

	assert.True(t, resp.HasArticles)
	assert.Len(t, resp.Articles, 3)
	assert.Equal(t, "Microbiota composition differs in obesity.", resp.Summary)
	assert.Equal(t, "gut microbiota obesity", searcher.gotTerm)

	require.Len(t, m.calls, 2)
	assert.Equal(t, llm.InstructionSummary, m.calls[1].instruction)
	assert.Equal(t, "first abstract third abstract", m.calls[1].context)

	require.Len(t, rec.entries, 1)
	assert.Equal(t, types.HistoryEntry{
		Question:     "Does the gut microbiota affect obesity?",
		SearchTerms:  "gut microbiota obesity",
		ArticleCount: 3,
		Summary:      "Microbiota composition differs in obesity.",
		CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}, rec.entries[0])
}

func TestGetAbstractsUsesGivenSearchTerms(t *testing.T) {
	searcher := &fakeSearcher{articles: []types.Article{{Abstract: "x"}}}
	m := newModel()

	_, err := New(searcher, m, nil, nil).GetAbstracts(context.Background(), "q", "  crispr cas9 ")
	require.NoError(t, err)

	assert.Equal(t, "crispr cas9", searcher.gotTerm)
	require.Len(t, m.calls, 1)
	assert.Equal(t, llm.InstructionSummary, m.calls[0].instruction)
}

func TestGetAbstractsNoAbstracts(t *testing.T) {
	tests := []struct {
		name     string
		articles []types.Article
	}{
		{"no articles", nil},
		{"only unavailable abstracts", []types.Article{{Abstract: "N/A"}, {Abstract: ""}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel()
			resp, err := New(&fakeSearcher{articles: tt.articles}, m, nil, nil).GetAbstracts(context.Background(), "q", "t")
			require.NoError(t, err)
			assert.Equal(t, NoSummary, resp.Summary)
			assert.NotNil(t, resp.Articles)
			assert.Empty(t, m.calls)
		})
	}
}

func TestGetAbstractsErrors(t *testing.T) {
	tests := []struct {
		name     string
		question string
		searcher *fakeSearcher
		model    *fakeModel
		want     error
	}{
		{"empty question", "", &fakeSearcher{}, newModel(), ErrEmptyQuestion},
		{"pubmed failure", "q", &fakeSearcher{err: errors.New("502")}, newModel(), ErrUpstream},
		{"model failure", "q", &fakeSearcher{}, &fakeModel{err: errors.New("down")}, ErrUpstream},
		{"empty rewrite", "q", &fakeSearcher{}, &fakeModel{answers: map[string]string{}}, ErrUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.searcher, tt.model, nil, nil).GetAbstracts(context.Background(), tt.question, "")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGetAbstractsHistoryFailureIsNotFatal(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	resp, err := New(&fakeSearcher{}, newModel(), rec, nil).GetAbstracts(context.Background(), "q", "t")
	require.NoError(t, err)
	assert.Equal(t, NoSummary, resp.Summary)
	assert.Len(t, rec.entries, 1)
}

func TestSplitTerms(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"gut microbiota obesity", []string{"gut", "microbiota", "obesity"}},
		{"gut, microbiota;\nobesity", []string{"gut", "microbiota", "obesity"}},
		{"- gut\n- microbiota.", []string{"gut", "microbiota"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitTerms(tt.in))
		})
	}
}
