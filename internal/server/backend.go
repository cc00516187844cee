// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"

	"github.com/pdiddy/abstract-search/pkg/types"
)

// localBackend lets the server-rendered page drive the orchestrator without
// a network hop.
type localBackend struct {
	svc Answerer
}

func (b localBackend) GetAbstracts(ctx context.Context, question, searchTerms string) (types.AbstractsResponse, error) {
	return b.svc.GetAbstracts(ctx, question, searchTerms)
}

func (b localBackend) ExtractTerms(ctx context.Context, question string) (types.TermsResponse, error) {
	terms, err := b.svc.ExtractTerms(ctx, question)
	if err != nil {
		return types.TermsResponse{}, err
	}
	return types.TermsResponse{Terms: terms, HasTerms: true}, nil
}
