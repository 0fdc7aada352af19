package storage

import "errors"

// Common storage errors.
var (
	// ErrNotFound is returned when a document is not found.
	ErrNotFound = errors.New("document not found")

	// ErrInvalidKey is returned for keys that are not document keys.
	ErrInvalidKey = errors.New("invalid document key")
)
