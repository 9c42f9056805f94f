package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing catalog product.
	ErrNotFound = errors.New("not found")
	// ErrCatalogUnavailable signals that the upstream catalog could not be read.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrCompletionProviderError signals a completion provider failure.
	ErrCompletionProviderError = errors.New("completion provider error")
	// ErrCompletionBudgetExceeded signals that the completion token budget is spent.
	ErrCompletionBudgetExceeded = errors.New("completion token budget exceeded")
	// ErrMalformedModelOutput signals a completion that is not a valid id set.
	ErrMalformedModelOutput = errors.New("malformed model output")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrInvalidRequest signals a request that failed validation.
	ErrInvalidRequest = errors.New("invalid request")
)

// UpstreamError wraps ErrCatalogUnavailable with the upstream HTTP status.
type UpstreamError struct {
	Op         string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s returned status %d", ErrCatalogUnavailable.Error(), e.Op, e.StatusCode)
}

func (e *UpstreamError) Unwrap() error { return ErrCatalogUnavailable }

// NewUpstreamError creates an upstream status error.
func NewUpstreamError(op string, statusCode int) error {
	return &UpstreamError{Op: op, StatusCode: statusCode}
}
