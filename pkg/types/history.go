// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HistoryEntry records one answered question.
type HistoryEntry struct {
	// ID is the database row identifier.
	ID int64 `json:"id" yaml:"id"`

	// Question is the question as submitted.
	Question string `json:"question" yaml:"question"`

	// SearchTerms is the PubMed term actually used (user supplied or rewritten).
	SearchTerms string `json:"search_terms" yaml:"search_terms"`

	// ArticleCount is the number of articles returned.
	ArticleCount int `json:"article_count" yaml:"article_count"`

	// Summary is the generated answer.
	Summary string `json:"summary" yaml:"summary"`

	// CreatedAt is when the answer was produced.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
