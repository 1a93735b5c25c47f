package project

import "errors"

var (
	// ErrProjectNotFound indicates no line items exist for the key.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidInput indicates invalid line-item input.
	ErrInvalidInput = errors.New("invalid line item input")
)
