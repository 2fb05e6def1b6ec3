// Package server exposes the houseledger API over HTTP: the
// transaction-creation pipeline, OFX import, and CRUD for every entity,
// all under /api/v1.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mstannard/houseledger/internal/ofx"
	"github.com/mstannard/houseledger/internal/service"
)

const shutdownTimeout = 10 * time.Second

// Config holds the HTTP server settings.
type Config struct {
	Addr        string
	AuthEnabled bool
	AuthSecret  string
}

// Server serves the houseledger API.
type Server struct {
	store       service.Storage
	creator     service.TransactionCreator
	parser      *ofx.Parser
	httpServer  *http.Server
	authSecret  []byte
	authEnabled bool
}

// New wires the API server. When auth is enabled a non-empty secret is
// required.
func New(cfg Config, store service.Storage, creator service.TransactionCreator) (*Server, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("server address is required")
	}
	if cfg.AuthEnabled && cfg.AuthSecret == "" {
		return nil, fmt.Errorf("auth is enabled but no secret is configured")
	}

	s := &Server{
		store:       store,
		creator:     creator,
		parser:      ofx.NewParser(),
		authSecret:  []byte(cfg.AuthSecret),
		authEnabled: cfg.AuthEnabled,
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

// Handler returns the routed handler. Tests drive it through httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", s.httpServer.Addr, "auth_enabled", s.authEnabled)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	return nil
}
