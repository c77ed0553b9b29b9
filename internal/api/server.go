// Package api serves the lexer over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"esmlex/internal/core/config"
	"esmlex/internal/engine/lexer"
	"esmlex/internal/shared/util"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	lexer    *lexer.Lexer
	cfg      config.Server
	maxBatch int
	limiters *util.ClientLimiters
	logger   *slog.Logger
	handler  http.Handler
	server   *http.Server
}

func NewServer(lx *lexer.Lexer, cfg config.Server, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	doc, err := LoadSpec()
	if err != nil {
		return nil, err
	}
	validator, err := newRequestValidator(doc)
	if err != nil {
		return nil, err
	}

	s := &Server{
		lexer:    lx,
		cfg:      cfg,
		maxBatch: cfg.MaxBatch,
		logger:   logger,
	}
	if cfg.RateLimit > 0 {
		s.limiters = util.NewClientLimiters(cfg.RateLimit, max(cfg.Burst, 1), 10*time.Minute)
	}

	api := func(h http.HandlerFunc) http.Handler {
		return s.rateLimit(limitBody(cfg.MaxBodyBytes, validator.wrap(h)))
	}

	mux := http.NewServeMux()
	mux.Handle("POST /v1/parse", api(s.handleParse))
	mux.Handle("POST /v1/parse-multiple", api(s.handleParseMultiple))
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /openapi.yaml", s.handleSpec)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.handler = s.instrument(mux)
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("esmlex API listening", "addr", s.cfg.Addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		s.Close()
		return err
	case <-ctx.Done():
		return s.Stop()
	}
}

func (s *Server) Stop() error {
	defer s.Close()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Close releases the limiter janitor.
func (s *Server) Close() {
	if s.limiters != nil {
		s.limiters.Close()
	}
}
