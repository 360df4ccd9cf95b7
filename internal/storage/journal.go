package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Journal writes and aggregates fetch events.
type Journal struct {
	storage *Storage
}

// NewJournal returns a journal backed by s.
func NewJournal(s *Storage) *Journal {
	return &Journal{storage: s}
}

// Record inserts event, filling ID and CreatedAt.
func (j *Journal) Record(ctx context.Context, event *FetchEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (request_id, page, size, lines, outcome, error_message, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, event.TableName())

	result, err := j.storage.db.ExecContext(ctx, query,
		event.RequestID, event.Page, event.Size, event.Lines,
		event.Outcome, event.ErrorMessage, event.DurationMs, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record fetch event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get fetch event ID: %w", err)
	}
	event.ID = id

	log.Debug().
		Int64("id", id).
		Str("outcome", event.Outcome).
		Msg("Fetch event recorded")

	return nil
}

// Stats returns outcome counts and the mean duration over all events.
func (j *Journal) Stats(ctx context.Context) (Stats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN outcome = 'ok' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN outcome = 'invalid_argument' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN outcome = 'not_found' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN outcome = 'io_failure' THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(duration_ms), 0)
		FROM fetch_events
	`

	var stats Stats
	err := j.storage.db.QueryRowContext(ctx, query).Scan(
		&stats.Total, &stats.OK, &stats.InvalidArgument,
		&stats.NotFound, &stats.IOFailure, &stats.AvgDurationMs)
	if err != nil {
		return Stats{}, fmt.Errorf("stats query failed: %w", err)
	}

	return stats, nil
}

// Recent returns up to limit events, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]FetchEvent, error) {
	query := `
		SELECT id, request_id, page, size, lines, outcome, error_message, duration_ms, created_at
		FROM fetch_events
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := j.storage.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	defer rows.Close()

	var events []FetchEvent
	for rows.Next() {
		var event FetchEvent
		if err := rows.Scan(&event.ID, &event.RequestID, &event.Page, &event.Size, &event.Lines,
			&event.Outcome, &event.ErrorMessage, &event.DurationMs, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return events, nil
}

// Prune deletes events older than maxAge and returns how many were removed.
func (j *Journal) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxAge)

	result, err := j.storage.db.ExecContext(ctx, "DELETE FROM fetch_events WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune fetch events: %w", err)
	}

	return result.RowsAffected()
}
