// Package server wires the reader components together and runs them until
// shutdown.
//
// The server follows a structured lifecycle:
//  1. Journal storage initialization (when enabled)
//  2. Reader construction
//  3. HTTP server launch
//  4. Graceful shutdown on context cancellation
package server

import (
	"context"
	"fmt"
	"time"

	"pagereader/internal/api"
	"pagereader/internal/config"
	"pagereader/internal/core"
	"pagereader/internal/storage"

	"github.com/rs/zerolog/log"
)

// shutdownTimeout bounds how long in-flight requests may take to finish.
const shutdownTimeout = 10 * time.Second

// Server represents the reader process orchestrator.
type Server struct {
	cfg     *config.Config
	version string
}

// New creates a new server instance with the provided configuration.
//
// The server is not started until Start() is called.
func New(cfg *config.Config, version string) *Server {
	return &Server{
		cfg:     cfg,
		version: version,
	}
}

// Start initializes and starts all components, then blocks until ctx is
// cancelled or the HTTP server fails.
func (s *Server) Start(ctx context.Context) error {
	// Phase 1: journal storage, optional
	store, err := s.openJournal(ctx)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() {
			if err := store.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close journal")
			}
		}()
	}

	// Phase 2: reader. A nil *storage.Journal must not become a non-nil Recorder.
	var recorder core.Recorder
	if store != nil {
		recorder = storage.NewJournal(store)
	}
	reader := core.NewReader(s.cfg, recorder)

	// Phase 3: HTTP server
	apiServer, err := api.NewServer(s.cfg, reader, store, s.version)
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	// Buffered so the goroutine can exit even if nobody reads the error
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- apiServer.Start()
	}()

	log.Info().
		Str("book", s.cfg.Path).
		Int("page_size", s.cfg.Size).
		Bool("mark", s.cfg.Mark).
		Str("url", "http://"+s.cfg.Addr()+"/").
		Msg("Reader is ready")

	// Phase 4: wait for shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info().Msg("Shutdown signal received, starting graceful shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	if err := <-serverErrors; err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	log.Info().Msg("Server stopped gracefully")
	return nil
}

// openJournal opens the journal database and prunes expired events.
// It returns nil storage when the journal is disabled.
func (s *Server) openJournal(ctx context.Context) (*storage.Storage, error) {
	if !s.cfg.Journal.Enabled {
		log.Debug().Msg("Journal disabled")
		return nil, nil
	}

	store, err := storage.Open(ctx, s.cfg.Journal)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	pruned, err := storage.NewJournal(store).Prune(ctx, s.cfg.Journal.Retention)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to prune journal: %w", err)
	}

	log.Info().
		Str("path", s.cfg.Journal.Path).
		Int64("pruned", pruned).
		Msg("Journal opened")
	return store, nil
}
