package batch

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrInvalidPageSize is returned when a pager is configured with a page size <= 0
	ErrInvalidPageSize = errors.New("page size must be greater than 0")
)
