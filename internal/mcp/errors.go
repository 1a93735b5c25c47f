package mcp

import (
	"errors"
	"fmt"

	"github.com/slateworks/crewplan/internal/domain/project"
	"github.com/slateworks/crewplan/internal/domain/schedule"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// mapError maps domain errors to MCP error codes. Errors without a
// mapping pass through unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, schedule.ErrScheduleNotFound):
		return &APIError{Code: "SCHEDULE_NOT_FOUND", Message: "schedule not found", RecoveryHint: "Check the job key spelling"}
	case errors.Is(err, schedule.ErrRevisionConflict):
		return &APIError{Code: "REVISION_CONFLICT", Message: "schedule modified by a concurrent write", RecoveryHint: "Re-read the record and retry"}
	case errors.Is(err, schedule.ErrInvalidInput), errors.Is(err, project.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Check the job key spelling"}
	default:
		return err
	}
}
