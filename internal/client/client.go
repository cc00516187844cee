// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package client calls the /get_abstracts and /extract_terms endpoints.
// It satisfies orchestrator.Backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/abstract-search/pkg/types"
)

const (
	abstractsPath = "/get_abstracts"
	termsPath     = "/extract_terms"
)

// ErrTransport wraps every failure: network errors, non-2xx statuses, and
// bodies that are not JSON objects.
var ErrTransport = errors.New("endpoint request failed")

// Client posts JSON to the abstract-search endpoints.
type Client struct {
	BaseURL   string
	UserAgent string
	HTTP      *http.Client
}

// New returns a client for cfg. A zero timeout leaves the transport default.
func New(cfg types.ClientConfig) *Client {
	return &Client{
		BaseURL:   strings.TrimRight(cfg.Endpoint, "/"),
		UserAgent: cfg.UserAgent,
		HTTP:      &http.Client{Timeout: cfg.Timeout},
	}
}

// GetAbstracts posts {question, search_terms} to /get_abstracts.
func (c *Client) GetAbstracts(ctx context.Context, question, searchTerms string) (types.AbstractsResponse, error) {
	var resp types.AbstractsResponse
	body := types.AbstractsRequest{Question: question, SearchTerms: searchTerms}
	if err := c.post(ctx, abstractsPath, body, &resp); err != nil {
		return types.AbstractsResponse{}, err
	}
	return resp, nil
}

// ExtractTerms posts {question} to /extract_terms.
func (c *Client) ExtractTerms(ctx context.Context, question string) (types.TermsResponse, error) {
	var resp types.TermsResponse
	if err := c.post(ctx, termsPath, types.TermsRequest{Question: question}, &resp); err != nil {
		return types.TermsResponse{}, err
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	bodyBytes, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("creating request: %w: %w", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w: %w", path, ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("POST %s returned HTTP %d: %w", path, resp.StatusCode, ErrTransport)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w: %w", path, ErrTransport, err)
	}
	return nil
}
