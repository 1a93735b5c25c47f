package repository

import "errors"

var (
	// ErrNotFound is returned when a requested record doesn't exist.
	// Missing documents are normal here; callers fall through to the
	// next precedence tier or default to zero.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a revision check fails on write.
	ErrConflict = errors.New("conflict: record was modified by another writer")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
