package pager

import (
	"errors"
)

// Error taxonomy returned by the paginator. Callers match with errors.Is.
var (
	// ErrInvalidArgument: page number, page size or source path is unusable.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound: the source file does not exist.
	ErrNotFound = errors.New("source not found")
	// ErrIOFailure: opening or reading the source failed. Always wraps the cause.
	ErrIOFailure = errors.New("io failure")
	// ErrEncoding: a line is not valid UTF-8. Reported wrapped in ErrIOFailure.
	ErrEncoding = errors.New("invalid utf-8 in source")
)

// Kind is a stable, loggable classification of a fetch outcome.
type Kind string

const (
	KindOK              Kind = "ok"
	KindInvalidArgument Kind = "invalid_argument"
	KindNotFound        Kind = "not_found"
	KindIOFailure       Kind = "io_failure"
)

// Classify maps an error returned by Fetch to its Kind.
// Errors outside the taxonomy (including context cancellation) count as io_failure.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindIOFailure
	}
}

// ioError wraps cause so that both ErrIOFailure and cause match errors.Is.
type ioError struct {
	op    string
	cause error
}

func (e *ioError) Error() string {
	return "io failure: " + e.op + ": " + e.cause.Error()
}

func (e *ioError) Unwrap() []error {
	return []error{ErrIOFailure, e.cause}
}

func wrapIO(op string, cause error) error {
	return &ioError{op: op, cause: cause}
}
