// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package service implements the use cases behind /get_abstracts and
// /extract_terms: rewrite a question into PubMed search terms, fetch
// abstracts, and summarize them into an answer.
//
// See docs/ARCHITECTURE § Backend.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/pdiddy/abstract-search/internal/llm"
	"github.com/pdiddy/abstract-search/internal/metrics"
	"github.com/pdiddy/abstract-search/internal/pubmed"
	"github.com/pdiddy/abstract-search/pkg/types"
)

// NoSummary is returned as the summary when no abstract text is available.
const NoSummary = "No sufficient data for summarization."

var (
	// ErrEmptyQuestion is returned when the question is blank.
	ErrEmptyQuestion = errors.New("no query provided")

	// ErrUpstream wraps failures of PubMed or the language model.
	ErrUpstream = errors.New("upstream failure")
)

// ArticleSearcher finds articles for a PubMed search term.
type ArticleSearcher interface {
	SearchArticles(ctx context.Context, term string) ([]types.Article, error)
}

// Recorder persists answered questions.
type Recorder interface {
	Record(ctx context.Context, e types.HistoryEntry) (int64, error)
}

// Service answers questions from PubMed abstracts.
type Service struct {
	articles ArticleSearcher
	model    llm.Generator
	history  Recorder
	logger   *zap.Logger
	now      func() time.Time
}

// New returns a Service. history may be nil to disable recording.
func New(articles ArticleSearcher, model llm.Generator, history Recorder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		articles: articles,
		model:    model,
		history:  history,
		logger:   logger,
		now:      time.Now,
	}
}

// ExtractTerms rewrites question into a list of search terms.
func (s *Service) ExtractTerms(ctx context.Context, question string) ([]string, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}
	rewritten, err := s.rewrite(ctx, question)
	if err != nil {
		return nil, err
	}
	return SplitTerms(rewritten), nil
}

// GetAbstracts searches PubMed and summarizes the abstracts found. A
// non-empty searchTerms is used as the PubMed term as given; otherwise the
// question is rewritten by the model.
func (s *Service) GetAbstracts(ctx context.Context, question, searchTerms string) (types.AbstractsResponse, error) {
	if strings.TrimSpace(question) == "" {
		return types.AbstractsResponse{}, ErrEmptyQuestion
	}

	term := strings.TrimSpace(searchTerms)
	if term == "" {
		var err error
		if term, err = s.rewrite(ctx, question); err != nil {
			return types.AbstractsResponse{}, err
		}
	}
	s.logger.Info("searching pubmed", zap.String("term", term))

	start := time.Now()
	articles, err := s.articles.SearchArticles(ctx, term)
	metrics.ObserveUpstream(metrics.UpstreamPubMed, start, err)
	if err != nil {
		return types.AbstractsResponse{}, fmt.Errorf("searching PubMed: %v: %w", err, ErrUpstream)
	}
	if articles == nil {
		articles = []types.Article{}
	}

	summary := NoSummary
	if combined := CombineAbstracts(articles); combined != "" {
		summary, err = s.generate(ctx, llm.InstructionSummary, question, combined)
		if err != nil {
			return types.AbstractsResponse{}, fmt.Errorf("summarizing abstracts: %v: %w", err, ErrUpstream)
		}
	}

	metrics.ArticlesReturned.Observe(float64(len(articles)))
	s.record(ctx, types.HistoryEntry{
		Question:     question,
		SearchTerms:  term,
		ArticleCount: len(articles),
		Summary:      summary,
		CreatedAt:    s.now().UTC(),
	})

	return types.AbstractsResponse{Articles: articles, Summary: summary, HasArticles: true}, nil
}

func (s *Service) rewrite(ctx context.Context, question string) (string, error) {
	out, err := s.generate(ctx, llm.InstructionSearchTerms, question, "")
	if err != nil {
		return "", fmt.Errorf("rewriting question: %v: %w", err, ErrUpstream)
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("rewriting question: empty answer: %w", ErrUpstream)
	}
	return out, nil
}

func (s *Service) generate(ctx context.Context, instruction, question, passage string) (string, error) {
	start := time.Now()
	out, err := s.model.Generate(ctx, instruction, question, passage)
	metrics.ObserveUpstream(metrics.UpstreamLLM, start, err)
	return out, err
}

func (s *Service) record(ctx context.Context, e types.HistoryEntry) {
	if s.history == nil {
		return
	}
	if _, err := s.history.Record(ctx, e); err != nil {
		s.logger.Warn("recording history", zap.Error(err))
	}
}

// CombineAbstracts joins every available abstract with a single space.
func CombineAbstracts(articles []types.Article) string {
	var parts []string
	for _, a := range articles {
		if a.Abstract == "" || a.Abstract == pubmed.NotAvailable {
			continue
		}
		parts = append(parts, a.Abstract)
	}
	return strings.Join(parts, " ")
}

// SplitTerms breaks a model answer into terms on whitespace, commas, and
// semicolons, trimming list bullets and trailing periods from each term.
func SplitTerms(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ';'
	})
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "-*•.")
		if f != "" {
			terms = append(terms, f)
		}
	}
	return terms
}
