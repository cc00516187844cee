// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/pdiddy/abstract-search/internal/logger"
	"github.com/pdiddy/abstract-search/internal/service"
	"github.com/pdiddy/abstract-search/pkg/types"
)

const (
	msgNoQuery     = "No query provided"
	msgBadRequest  = "Invalid request body"
	msgUpstream    = "Upstream service unavailable"
	msgInternal    = "Internal server error"
	maxRequestBody = 1 << 20
)

func (s *Server) handleGetAbstracts(w http.ResponseWriter, r *http.Request) {
	var req types.AbstractsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := s.svc.GetAbstracts(r.Context(), req.Question, req.SearchTerms)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExtractTerms(w http.ResponseWriter, r *http.Request) {
	var req types.TermsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	terms, err := s.svc.ExtractTerms(r.Context(), req.Question)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.TermsResponse{Terms: terms, HasTerms: true})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyQuestion):
		writeError(w, http.StatusBadRequest, msgNoQuery)
	case errors.Is(err, service.ErrUpstream):
		logger.FromContext(r.Context()).Warn("upstream failure", zap.Error(err))
		writeError(w, http.StatusBadGateway, msgUpstream)
	default:
		logger.FromContext(r.Context()).Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, types.ErrorResponse{Error: message})
}
