package wip

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/slateworks/crewplan/internal/domain/project"
	"github.com/slateworks/crewplan/internal/domain/schedule"
)

// ProjectSource supplies deduplicated projects.
type ProjectSource interface {
	Canonical(ctx context.Context) ([]project.Project, error)
}

// AssignmentSource supplies resolved per-day assignments.
type AssignmentSource interface {
	ResolveAll(ctx context.Context) ([]schedule.Assignment, error)
}

// Service produces WIP reports.
type Service struct {
	projects  ProjectSource
	schedules AssignmentSource
	logger    *slog.Logger
}

// NewService creates a new WIP service.
func NewService(projects ProjectSource, schedules AssignmentSource, logger *slog.Logger) *Service {
	return &Service{projects: projects, schedules: schedules, logger: logger}
}

// Report builds the WIP report for an optional year filter (0 = all).
func (s *Service) Report(ctx context.Context, year int) (*Report, error) {
	projects, err := s.projects.Canonical(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading projects: %w", err)
	}
	assignments, err := s.schedules.ResolveAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving assignments: %w", err)
	}
	return Build(projects, assignments, year), nil
}
