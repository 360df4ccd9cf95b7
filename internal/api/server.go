// Package api provides the HTTP surface of the reader.
// This package implements the browser pages and a small JSON API using Gin.
//
// Example usage:
//
//	server, err := api.NewServer(cfg, reader, store, version)
//	err = server.Start()
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"pagereader/internal/config"
	"pagereader/internal/core"
	"pagereader/internal/storage"
	"pagereader/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Server represents the HTTP API server.
type Server struct {
	config  *config.Config
	reader  *core.Reader
	storage *storage.Storage
	version string
	router  *gin.Engine
	server  *http.Server
}

// NewServer creates a new HTTP server instance.
//
// Parameters:
//   - cfg: Loaded configuration (address, timeouts, book settings)
//   - reader: Page reader for the configured book
//   - store: Journal storage, nil when the journal is disabled
//   - version: Build version reported by /api/health
func NewServer(cfg *config.Config, reader *core.Reader, store *storage.Storage, version string) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	server := &Server{
		config:  cfg,
		reader:  reader,
		storage: store,
		version: version,
		router:  gin.New(),
	}
	server.router.SetHTMLTemplate(tmpl)

	// Setup middleware and routes
	server.setupMiddleware()
	server.setupRoutes()

	server.server = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      server.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return server, nil
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until it stops.
// A graceful Shutdown makes Start return nil.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// setupMiddleware configures middleware for the Gin router.
func (s *Server) setupMiddleware() {
	// Request ID middleware (should be first)
	s.router.Use(RequestID())

	// Custom panic recovery middleware
	s.router.Use(PanicRecovery())

	// Security headers
	s.router.Use(SecurityHeaders())

	// Custom logger middleware
	s.router.Use(LoggerMiddleware())

	// Error handling middleware
	s.router.Use(ErrorHandler())
}
