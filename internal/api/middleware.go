package api

import (
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"pagereader/internal/api/types"

	"github.com/gin-gonic/gin"
	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns every request an ID, reusing a well-formed inbound one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := xid.FromString(id); err != nil {
			id = xid.New().String()
		}
		c.Set(types.RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the request ID assigned by RequestID.
func GetRequestID(c *gin.Context) string {
	return c.GetString(types.RequestIDKey)
}

// PanicRecovery turns a handler panic into a 500 envelope.
func PanicRecovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error().
			Str("request_id", GetRequestID(c)).
			Interface("panic", recovered).
			Bytes("stack", debug.Stack()).
			Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			types.ErrorResponse("INTERNAL_ERROR", "Internal server error", ""))
	})
}

// SecurityHeaders sets headers appropriate for a local-only page.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}

// LoggerMiddleware logs one line per request.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = log.Error()
		case status >= http.StatusBadRequest:
			event = log.Warn()
		}

		event.
			Str("request_id", GetRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("HTTP request")
	}
}

// ErrorHandler writes the envelope for an *types.APIError left by a handler.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		var apiErr *types.APIError
		if !errors.As(c.Errors.Last().Err, &apiErr) {
			apiErr = types.InternalError("unexpected error", c.Errors.Last().Err)
		}

		if apiErr.Cause != nil && apiErr.Status >= http.StatusInternalServerError {
			log.Error().
				Err(apiErr.Cause).
				Str("request_id", GetRequestID(c)).
				Msg(apiErr.Message)
		}

		c.JSON(apiErr.Status, apiErr.Response())
	}
}
