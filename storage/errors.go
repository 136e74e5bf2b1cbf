package storage

import "errors"

// Common storage errors.
var (
	// ErrNotFound is returned when a document key has never been written.
	ErrNotFound = errors.New("document not found")
)
