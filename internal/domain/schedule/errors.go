package schedule

import "errors"

var (
	// ErrScheduleNotFound indicates no aggregate exists for the job key.
	ErrScheduleNotFound = errors.New("schedule not found")
	// ErrInvalidInput indicates invalid schedule input.
	ErrInvalidInput = errors.New("invalid schedule input")
	// ErrRevisionConflict indicates another writer updated the aggregate
	// between read and write. The caller should re-read and retry.
	ErrRevisionConflict = errors.New("schedule was modified concurrently")
)
