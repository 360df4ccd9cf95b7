// Package storage provides database migration functionality for the journal.
//
// Each migration runs in its own transaction and is recorded in
// schema_migrations, so Migrate is safe to run on every startup.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Migrator handles database schema migrations.
//
// It tracks applied migrations in a dedicated table and ensures
// migrations are applied in the correct order exactly once.
type Migrator struct {
	db         *sql.DB
	migrations []Migration
}

// Migration represents a single database migration.
type Migration struct {
	// Version is the migration version number (e.g., 1, 2, 3...)
	Version int

	// Name is a human-readable description of the migration
	Name string

	// UpSQL contains the SQL commands to apply the migration
	UpSQL string

	// DownSQL contains the SQL commands to roll back the migration
	DownSQL string
}

// MigrationRecord represents a migration record in the database.
type MigrationRecord struct {
	Version   int       `db:"version"`
	Name      string    `db:"name"`
	AppliedAt time.Time `db:"applied_at"`
}

// NewMigrator creates a new migration manager.
//
// It creates the migrations tracking table if it doesn't exist
// and registers the built-in journal migrations.
func NewMigrator(ctx context.Context, db *sql.DB) (*Migrator, error) {
	migrator := &Migrator{
		db: db,
	}

	if err := migrator.createMigrationsTable(ctx); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrator.registerBuiltinMigrations()

	return migrator, nil
}

// createMigrationsTable creates the table used to track applied migrations.
func (m *Migrator) createMigrationsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`

	if _, err := m.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	log.Debug().Msg("Schema migrations table ready")
	return nil
}

// registerBuiltinMigrations registers the journal schema.
func (m *Migrator) registerBuiltinMigrations() {
	// Migration 1: one row per served page request
	m.AddMigration(Migration{
		Version: 1,
		Name:    "create_fetch_events_table",
		UpSQL: `
			CREATE TABLE fetch_events (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				request_id TEXT NOT NULL,
				page INTEGER NOT NULL,
				size INTEGER NOT NULL,
				lines INTEGER NOT NULL DEFAULT 0,
				outcome TEXT NOT NULL CHECK (outcome IN ('ok', 'invalid_argument', 'not_found', 'io_failure')),
				error_message TEXT,
				duration_ms INTEGER NOT NULL DEFAULT 0,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP
			);

			CREATE INDEX idx_fetch_events_outcome ON fetch_events(outcome);
		`,
		DownSQL: `DROP TABLE IF EXISTS fetch_events;`,
	})

	// Migration 2: retention pruning scans by age
	m.AddMigration(Migration{
		Version: 2,
		Name:    "index_fetch_events_created_at",
		UpSQL: `
			CREATE INDEX idx_fetch_events_created_at ON fetch_events(created_at);
		`,
		DownSQL: `DROP INDEX IF EXISTS idx_fetch_events_created_at;`,
	})

	log.Debug().Int("count", len(m.migrations)).Msg("Built-in migrations registered")
}

// AddMigration registers a new migration, keeping migrations sorted by version.
func (m *Migrator) AddMigration(migration Migration) {
	m.migrations = append(m.migrations, migration)

	sort.Slice(m.migrations, func(i, j int) bool {
		return m.migrations[i].Version < m.migrations[j].Version
	})
}

// Migrate applies all pending migrations to the database.
//
// Returns the number of migrations applied and any error encountered.
func (m *Migrator) Migrate(ctx context.Context) (int, error) {
	appliedVersions, err := m.getAppliedVersions(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	appliedCount := 0

	for _, migration := range m.migrations {
		if slices.Contains(appliedVersions, migration.Version) {
			log.Debug().
				Int("version", migration.Version).
				Str("name", migration.Name).
				Msg("Migration already applied, skipping")
			continue
		}

		log.Info().
			Int("version", migration.Version).
			Str("name", migration.Name).
			Msg("Applying migration")

		if err := m.applyMigration(ctx, migration); err != nil {
			return appliedCount, fmt.Errorf("failed to apply migration %d (%s): %w",
				migration.Version, migration.Name, err)
		}

		appliedCount++
	}

	if appliedCount > 0 {
		log.Info().Int("count", appliedCount).Msg("Database migrations completed")
	} else {
		log.Debug().Msg("No pending migrations")
	}

	return appliedCount, nil
}

// getAppliedVersions retrieves the list of migration versions that have been applied.
func (m *Migrator) getAppliedVersions(ctx context.Context) ([]int, error) {
	rows, err := m.db.QueryContext(ctx, "SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		versions = append(versions, version)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating migration rows: %w", err)
	}

	return versions, nil
}

// applyMigration applies a single migration within a database transaction.
func (m *Migrator) applyMigration(ctx context.Context, migration Migration) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback() // Will be ignored if tx.Commit() succeeds

	for i, stmt := range splitSQL(migration.UpSQL) {
		log.Debug().
			Int("version", migration.Version).
			Int("statement", i+1).
			Str("sql", stmt).
			Msg("Executing migration statement")

		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute statement %d: %w", i+1, err)
		}
	}

	recordQuery := `
		INSERT INTO schema_migrations (version, name, applied_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
	`
	if _, err := tx.ExecContext(ctx, recordQuery, migration.Version, migration.Name); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration transaction: %w", err)
	}

	return nil
}

// splitSQL splits a SQL script into individual statements on semicolons.
// Statements must not contain semicolons inside string literals.
func splitSQL(script string) []string {
	var result []string
	for _, stmt := range strings.Split(script, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt != "" {
			result = append(result, stmt)
		}
	}
	return result
}

// Status returns the applied migrations in version order.
func (m *Migrator) Status(ctx context.Context) ([]MigrationRecord, error) {
	query := `
		SELECT version, name, applied_at
		FROM schema_migrations
		ORDER BY version
	`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query migration status: %w", err)
	}
	defer rows.Close()

	var records []MigrationRecord
	for rows.Next() {
		var record MigrationRecord
		if err := rows.Scan(&record.Version, &record.Name, &record.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating migration records: %w", err)
	}

	return records, nil
}

// Pending returns migrations that haven't been applied yet.
func (m *Migrator) Pending(ctx context.Context) ([]Migration, error) {
	appliedVersions, err := m.getAppliedVersions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	var pending []Migration
	for _, migration := range m.migrations {
		if !slices.Contains(appliedVersions, migration.Version) {
			pending = append(pending, migration)
		}
	}

	return pending, nil
}
