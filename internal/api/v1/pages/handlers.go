// Package pages implements the JSON page endpoint.
package pages

import (
	"net/http"

	"pagereader/internal/api/types"
	"pagereader/internal/core"

	"github.com/gin-gonic/gin"
)

// Handler serves pages of the configured book.
type Handler struct {
	reader *core.Reader
}

// NewHandler creates a new pages handler.
func NewHandler(reader *core.Reader) *Handler {
	return &Handler{reader: reader}
}

// PageResponse is the data of a page response.
type PageResponse struct {
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
	Lines    []string `json:"lines"`
}

// Get handles GET /api/v1/pages/:number
//
// Query parameters:
//   - page_size (optional, 1..1000): overrides the configured page size
//
// Returns:
//   - 200 OK with the page lines (empty past the end of the book)
//   - 400 Bad Request for an invalid page number or size
//   - 404 Not Found when the book does not exist
//   - 500 Internal Server Error on read failure
func (h *Handler) Get(c *gin.Context) {
	var uri types.PageRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		types.AbortWithError(c, types.ValidationError(err.Error()))
		return
	}

	var query types.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		types.AbortWithError(c, types.ValidationError(err.Error()))
		return
	}

	size := query.PageSize
	if size == 0 {
		size = h.reader.Options().Size
	}

	lines, err := h.reader.ReadWithSize(c.Request.Context(), c.GetString(types.RequestIDKey), uri.Number, size)
	if err != nil {
		types.AbortWithError(c, types.FromPagerError(err))
		return
	}

	c.JSON(http.StatusOK, types.SuccessResponseWithPagination(
		PageResponse{Page: uri.Number, PageSize: size, Lines: lines},
		&types.PaginationResponse{Page: uri.Number, PageSize: size, Count: len(lines)},
	))
}
