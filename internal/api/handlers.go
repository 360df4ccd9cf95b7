package api

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"pagereader/internal/config"
	"pagereader/internal/core"
	"pagereader/internal/pager"
	"pagereader/internal/storage"

	"github.com/gin-gonic/gin"
)

// Handler serves the browser pages, the page endpoint they poll,
// and the health endpoints.
type Handler struct {
	config    *config.Config
	reader    *core.Reader
	storage   *storage.Storage
	version   string
	startTime time.Time
}

// NewHandler initializes the base handler. store may be nil.
func NewHandler(cfg *config.Config, reader *core.Reader, store *storage.Storage, version string) *Handler {
	return &Handler{
		config:    cfg,
		reader:    reader,
		storage:   store,
		version:   version,
		startTime: time.Now(),
	}
}

// pageData is passed to the HTML templates.
func (h *Handler) pageData() gin.H {
	return gin.H{
		"Title":  filepath.Base(h.config.Path),
		"Marker": pager.BreakMarker,
	}
}

// Index handles GET /
func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", h.pageData())
}

// Spring handles GET /spring, the same reader styled as a documentation page.
func (h *Handler) Spring(c *gin.Context) {
	c.HTML(http.StatusOK, "spring.html", h.pageData())
}

// Read handles GET /r?pn=N
//
// The response is a bare JSON array of lines so the page script stays
// simple. Errors are {"error": message}.
//
// Response:
//   - 200 OK with the lines of page N (possibly empty)
//   - 400 Bad Request when pn is missing, not a number or < 1
//   - 404 Not Found when the book file does not exist
//   - 500 Internal Server Error on read failure
func (h *Handler) Read(c *gin.Context) {
	pn, err := strconv.Atoi(c.Query("pn"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing parameter pn"})
		return
	}

	lines, err := h.reader.Read(c.Request.Context(), GetRequestID(c), pn)
	if err != nil {
		status := http.StatusInternalServerError
		switch pager.Classify(err) {
		case pager.KindInvalidArgument:
			status = http.StatusBadRequest
		case pager.KindNotFound:
			status = http.StatusNotFound
		}
		c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, lines)
}

// Ping handles GET /api/ping
//
// Response:
//   - 200 OK with {"message": "pong"}
func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
	})
}

// Health handles GET /api/health
//
// Reports whether the book is readable and whether the journal answers.
// Overall status is "healthy" only if the book is readable and the
// journal is healthy or disabled; otherwise it is "degraded".
//
// Response:
//   - 200 OK with detailed health report
func (h *Handler) Health(c *gin.Context) {
	bookStatus := h.checkBookHealth()
	journalStatus, journalResponseTime := h.checkJournalHealth(c.Request.Context())

	overallStatus := "healthy"
	if bookStatus != "healthy" || journalStatus == "unhealthy" {
		overallStatus = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    overallStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.startTime).String(),
		"version":   h.version,
		"components": gin.H{
			"book": gin.H{
				"status":    bookStatus,
				"page_size": h.config.Size,
				"mark":      h.config.Mark,
			},
			"journal": gin.H{
				"status":           journalStatus,
				"response_time_ms": journalResponseTime,
			},
		},
	})
}

// checkBookHealth reports "healthy" when the book is a readable regular file.
func (h *Handler) checkBookHealth() string {
	f, err := os.Open(h.config.Path)
	if err != nil {
		return "unhealthy"
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		return "unhealthy"
	}
	return "healthy"
}

// checkJournalHealth pings the journal database.
//
// Returns:
//   - status: "healthy", "unhealthy" or "disabled"
//   - response_time_ms: round-trip time in milliseconds
func (h *Handler) checkJournalHealth(ctx context.Context) (string, int64) {
	if h.storage == nil {
		return "disabled", 0
	}

	start := time.Now()
	err := h.storage.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()
	if err != nil {
		return "unhealthy", responseTime
	}
	return "healthy", responseTime
}
