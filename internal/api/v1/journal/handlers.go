// Package journal implements read-only endpoints over the request journal.
package journal

import (
	"net/http"

	"pagereader/internal/api/types"
	"pagereader/internal/storage"

	"github.com/gin-gonic/gin"
)

const defaultRecentLimit = 50

// Handler exposes journal aggregates. A nil journal means the journal is
// disabled and every endpoint answers 404.
type Handler struct {
	journal *storage.Journal
}

// NewHandler creates a new journal handler.
func NewHandler(journal *storage.Journal) *Handler {
	return &Handler{journal: journal}
}

// Stats handles GET /api/v1/journal/stats
//
// Returns:
//   - 200 OK with outcome counts and mean duration
//   - 404 Not Found when the journal is disabled
//   - 500 Internal Server Error on storage failure
func (h *Handler) Stats(c *gin.Context) {
	if h.journal == nil {
		types.AbortWithError(c, types.NotFoundError("journal"))
		return
	}

	stats, err := h.journal.Stats(c.Request.Context())
	if err != nil {
		types.AbortWithError(c, types.InternalError("failed to read journal stats", err))
		return
	}

	c.JSON(http.StatusOK, types.SuccessResponse(stats))
}

// Recent handles GET /api/v1/journal/recent
//
// Query parameters:
//   - limit (default: 50, max: 500)
func (h *Handler) Recent(c *gin.Context) {
	if h.journal == nil {
		types.AbortWithError(c, types.NotFoundError("journal"))
		return
	}

	var query types.LimitQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		types.AbortWithError(c, types.ValidationError(err.Error()))
		return
	}
	if query.Limit == 0 {
		query.Limit = defaultRecentLimit
	}

	events, err := h.journal.Recent(c.Request.Context(), query.Limit)
	if err != nil {
		types.AbortWithError(c, types.InternalError("failed to read journal", err))
		return
	}

	responses := make([]EventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, EventResponse{
			ID:           event.ID,
			RequestID:    event.RequestID,
			Page:         event.Page,
			Size:         event.Size,
			Lines:        event.Lines,
			Outcome:      event.Outcome,
			ErrorMessage: event.ErrorMessage,
			DurationMs:   event.DurationMs,
			CreatedAt:    event.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, types.SuccessResponse(responses))
}
