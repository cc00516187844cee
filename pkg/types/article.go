// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the wire and configuration structures shared by the
// abstract-search front ends, client, and backend service.
//
// See docs/ARCHITECTURE.md § Endpoints, § Data Structures.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Article is one bibliographic record returned by the abstracts endpoint.
type Article struct {
	// Title is the article title as returned by PubMed.
	Title string `json:"title" yaml:"title"`

	// Authors is a display string of author names (e.g. "Ada Lovelace, Alan Turing").
	Authors string `json:"authors" yaml:"authors"`

	// Year is the publication year. The wire form may be a string or a number.
	Year Year `json:"year" yaml:"year"`

	// Abstract is the abstract text, sections joined by a single space.
	Abstract string `json:"abstract" yaml:"abstract"`
}

// Year holds a publication year in the textual form it is displayed with.
// It decodes from either a JSON string or a JSON number and always encodes
// as a JSON string.
type Year string

// UnmarshalJSON accepts a string, a number, or null.
func (y *Year) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*y = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*y = Year(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("year must be a string or number: %w", err)
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("parsing year %s: %w", n, err)
	}
	*y = Year(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// String returns the display form.
func (y Year) String() string { return string(y) }

// AbstractsRequest is the body of POST /get_abstracts.
type AbstractsRequest struct {
	Question    string `json:"question"`
	SearchTerms string `json:"search_terms"`
}

// AbstractsResponse is the body returned by POST /get_abstracts.
//
// HasArticles records whether the "articles" key was present with a non-null
// value. A response without it means "no results" rather than an empty list.
type AbstractsResponse struct {
	Articles    []Article `json:"articles"`
	Summary     string    `json:"summary"`
	HasArticles bool      `json:"-"`
}

// UnmarshalJSON decodes the body and records presence of the articles key.
func (r *AbstractsResponse) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*r = AbstractsResponse{}
	if raw, ok := fields["articles"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &r.Articles); err != nil {
			return fmt.Errorf("decoding articles: %w", err)
		}
		r.HasArticles = true
	}
	if raw, ok := fields["summary"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &r.Summary); err != nil {
			return fmt.Errorf("decoding summary: %w", err)
		}
	}
	return nil
}

// TermsRequest is the body of POST /extract_terms.
type TermsRequest struct {
	Question string `json:"question"`
}

// TermsResponse is the body returned by POST /extract_terms.
// HasTerms records whether the "terms" key was present with a non-null value.
type TermsResponse struct {
	Terms    []string `json:"terms"`
	HasTerms bool     `json:"-"`
}

// UnmarshalJSON decodes the body and records presence of the terms key.
func (r *TermsResponse) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*r = TermsResponse{}
	if raw, ok := fields["terms"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &r.Terms); err != nil {
			return fmt.Errorf("decoding terms: %w", err)
		}
		r.HasTerms = true
	}
	return nil
}

// ErrorResponse is the body the backend returns with a non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
