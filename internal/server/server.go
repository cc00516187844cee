// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the backend service over HTTP: the JSON endpoints
// /get_abstracts and /extract_terms, the server-rendered search page, health,
// and Prometheus metrics.
//
// See docs/ARCHITECTURE § HTTP Server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pdiddy/abstract-search/internal/metrics"
	"github.com/pdiddy/abstract-search/internal/page"
	"github.com/pdiddy/abstract-search/internal/render"
	"github.com/pdiddy/abstract-search/pkg/types"
)

const (
	defaultAddr            = ":8080"
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 120 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// Answerer is the backend use-case surface served by the JSON endpoints.
type Answerer interface {
	GetAbstracts(ctx context.Context, question, searchTerms string) (types.AbstractsResponse, error)
	ExtractTerms(ctx context.Context, question string) ([]string, error)
}

// Server routes HTTP requests to an Answerer.
type Server struct {
	cfg      types.ServerConfig
	svc      Answerer
	renderer render.Renderer
	logger   *zap.Logger
}

// New returns a Server. renderer may be nil for verbatim article blocks.
func New(cfg types.ServerConfig, svc Answerer, renderer render.Renderer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	return &Server{cfg: cfg, svc: svc, renderer: renderer, logger: logger}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chimiddleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(metrics.Middleware())
	if c := corsHandler(s.cfg.AllowedOrigins); c != nil {
		r.Use(c)
	}

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if s.cfg.RateLimit > 0 {
			r.Use(rateLimit(s.cfg.RateLimit, s.cfg.RateBurst))
		}
		r.Post("/get_abstracts", s.handleGetAbstracts)
		r.Post("/extract_terms", s.handleExtractTerms)
	})

	r.Handle("/", &page.Handler{
		Backend:  localBackend{svc: s.svc},
		Renderer: s.renderer,
		Logger:   s.logger,
	})
	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", zap.String("addr", ln.Addr().String()))
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving HTTP: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}
