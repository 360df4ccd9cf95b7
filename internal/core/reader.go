// Package core ties the paginator to the application: every page read goes
// through Reader, which times it, logs it and records it in the journal
// when one is configured.
package core

import (
	"context"
	"time"

	"pagereader/internal/config"
	"pagereader/internal/pager"
	"pagereader/internal/storage"

	"github.com/rs/zerolog/log"
)

// Recorder persists fetch events. *storage.Journal implements it.
type Recorder interface {
	Record(ctx context.Context, event *storage.FetchEvent) error
}

// Reader serves pages of the configured book.
type Reader struct {
	paginator *pager.Paginator
	recorder  Recorder
}

// NewReader creates a reader for cfg. recorder may be nil.
func NewReader(cfg *config.Config, recorder Recorder) *Reader {
	return &Reader{
		paginator: pager.New(pager.Options{
			Path:       cfg.Path,
			Size:       cfg.Size,
			MarkBreaks: cfg.Mark,
		}),
		recorder: recorder,
	}
}

// Options returns the paginator options the reader was built with.
func (r *Reader) Options() pager.Options {
	return r.paginator.Options()
}

// Read returns page number with the configured page size.
func (r *Reader) Read(ctx context.Context, requestID string, number int) ([]string, error) {
	return r.ReadWithSize(ctx, requestID, number, r.paginator.Options().Size)
}

// ReadWithSize returns page number using size lines per page.
func (r *Reader) ReadWithSize(ctx context.Context, requestID string, number, size int) ([]string, error) {
	start := time.Now()
	lines, err := r.paginator.PageWithSize(ctx, number, size)
	elapsed := time.Since(start)

	kind := pager.Classify(err)
	event := log.Debug()
	if kind == pager.KindIOFailure {
		event = log.Error()
	}
	event.
		Str("request_id", requestID).
		Int("page", number).
		Int("size", size).
		Int("lines", len(lines)).
		Str("outcome", string(kind)).
		Dur("duration", elapsed).
		Err(err).
		Msg("Page read")

	r.record(ctx, requestID, number, size, len(lines), kind, err, elapsed)

	return lines, err
}

// record writes the event to the journal. Journal failures never fail a read.
func (r *Reader) record(ctx context.Context, requestID string, number, size, lines int, kind pager.Kind, err error, elapsed time.Duration) {
	if r.recorder == nil {
		return
	}

	fetchEvent := &storage.FetchEvent{
		RequestID:  requestID,
		Page:       number,
		Size:       size,
		Lines:      lines,
		Outcome:    string(kind),
		DurationMs: elapsed.Milliseconds(),
	}
	if err != nil {
		msg := err.Error()
		fetchEvent.ErrorMessage = &msg
	}

	// The request may already be cancelled; the record should still land.
	if recErr := r.recorder.Record(context.WithoutCancel(ctx), fetchEvent); recErr != nil {
		log.Warn().Err(recErr).Str("request_id", requestID).Msg("Failed to record fetch event")
	}
}
