package journal

import "time"

// EventResponse represents a journal event in API responses.
type EventResponse struct {
	ID           int64     `json:"id"`
	RequestID    string    `json:"request_id"`
	Page         int       `json:"page"`
	Size         int       `json:"size"`
	Lines        int       `json:"lines"`
	Outcome      string    `json:"outcome"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	DurationMs   int64     `json:"duration_ms"`
	CreatedAt    time.Time `json:"created_at"`
}
