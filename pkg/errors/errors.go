// Package errors defines the error taxonomy for the search service. Sentinel
// errors classify failures (corpus fetch, freshness-cache I/O, invalid input)
// and AppError attaches an HTTP status for the API layer.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrCorpusFetch reports that the content store was unreachable or
	// returned an unusable corpus. It aborts a rebuild; the previous
	// index keeps serving.
	ErrCorpusFetch = errors.New("corpus fetch failed")

	// ErrCacheIO reports that the freshness timestamp could not be read
	// or written. Non-fatal: the engine behaves as if no timestamp exists.
	ErrCacheIO = errors.New("freshness cache i/o failed")

	// ErrNotIndexed reports that no index is available and a synchronous
	// build also failed.
	ErrNotIndexed = errors.New("index unavailable")

	// ErrInvalidInput reports a malformed request parameter.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedDocument reports a corpus record that could not be
	// parsed into a Document.
	ErrMalformedDocument = errors.New("malformed document")
)

// AppError wraps a sentinel error with a message and HTTP status code.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError from a sentinel.
func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Newf creates an AppError with a formatted message.
func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

// HTTPStatusCode maps an error to the HTTP status the API should return.
func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotIndexed), errors.Is(err, ErrCorpusFetch):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
