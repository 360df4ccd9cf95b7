package types

import (
	"net/http"

	"pagereader/internal/pager"

	"github.com/gin-gonic/gin"
)

// Error represents error information in API responses
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// APIError is an error carried through gin's error list to ErrorHandler.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details string
	Cause   error
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// Response converts the error into the response envelope.
func (e *APIError) Response() Response {
	return ErrorResponse(e.Code, e.Message, e.Details)
}

// AbortWithError records err on the context and stops the handler chain.
// ErrorHandler writes the response.
func AbortWithError(c *gin.Context, err *APIError) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorResponse creates an error API response
func ErrorResponse(code, message, details string) Response {
	return Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// ValidationError creates a 400 error
func ValidationError(details string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: "VALIDATION_ERROR", Message: "Invalid input data", Details: details}
}

// NotFoundError creates a 404 error
func NotFoundError(resource string) *APIError {
	return &APIError{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: "Resource not found", Details: resource + " not found"}
}

// InternalError creates a 500 error; cause is logged, not returned
func InternalError(details string, cause error) *APIError {
	return &APIError{Status: http.StatusInternalServerError, Code: "INTERNAL_ERROR", Message: "Internal server error", Details: details, Cause: cause}
}

// FromPagerError maps a paginator error onto the API taxonomy.
func FromPagerError(err error) *APIError {
	switch pager.Classify(err) {
	case pager.KindInvalidArgument:
		return ValidationError(err.Error())
	case pager.KindNotFound:
		return &APIError{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: "Book not found", Details: err.Error(), Cause: err}
	default:
		return InternalError(err.Error(), err)
	}
}
