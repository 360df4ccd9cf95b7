// Package storage provides the optional SQLite request journal.
//
// The journal records the outcome of each page request for diagnostics.
// It stores no source path and is never read back to restore a position.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"pagereader/internal/config"
)

// Storage wraps the SQLite connection and the migrator that owns its schema.
type Storage struct {
	db       *sql.DB
	migrator *Migrator
}

// Open opens (creating if needed) the journal database described by cfg
// and applies pending migrations.
func Open(ctx context.Context, cfg config.JournalConfig) (*Storage, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	// Enable WAL and wait on a locked database instead of failing
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", cfg.Path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	migrator, err := NewMigrator(ctx, db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	log.Info().Str("path", cfg.Path).Msg("Journal database ready")

	return &Storage{db: db, migrator: migrator}, nil
}

// DB returns the underlying database handle.
func (s *Storage) DB() *sql.DB {
	return s.db
}

// Migrator returns the schema migrator.
func (s *Storage) Migrator() *Migrator {
	return s.migrator
}

// Ping checks database connectivity.
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}
