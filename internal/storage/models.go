package storage

import (
	"time"
)

// Outcome values stored in fetch_events.outcome. They match pager.Kind.
const (
	OutcomeOK              = "ok"
	OutcomeInvalidArgument = "invalid_argument"
	OutcomeNotFound        = "not_found"
	OutcomeIOFailure       = "io_failure"
)

// FetchEvent is one served page request.
type FetchEvent struct {
	// ID is the unique identifier for the event
	ID int64 `db:"id,primary,auto_increment"`

	// RequestID correlates the event with the request log line
	RequestID string `db:"request_id,not_null"`

	// Page and Size are the requested page number and page size
	Page int `db:"page,not_null"`
	Size int `db:"size,not_null"`

	// Lines is the number of lines returned
	Lines int `db:"lines,not_null"`

	// Outcome is one of the Outcome constants
	Outcome string `db:"outcome,not_null"`

	// ErrorMessage is set when Outcome is not "ok"
	ErrorMessage *string `db:"error_message"`

	DurationMs int64     `db:"duration_ms,not_null"`
	CreatedAt  time.Time `db:"created_at,not_null"`
}

// TableName returns the journal table.
func (FetchEvent) TableName() string {
	return "fetch_events"
}

// Stats aggregates journal outcomes.
type Stats struct {
	Total           int64   `json:"total"`
	OK              int64   `json:"ok"`
	InvalidArgument int64   `json:"invalid_argument"`
	NotFound        int64   `json:"not_found"`
	IOFailure       int64   `json:"io_failure"`
	AvgDurationMs   float64 `json:"avg_duration_ms"`
}
