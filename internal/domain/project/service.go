package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/slateworks/crewplan/internal/repository"
)

// Service handles project line-item operations and canonical views.
type Service struct {
	repo       Repository
	exclusions ExclusionConfig
	logger     *slog.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, exclusions ExclusionConfig, logger *slog.Logger) *Service {
	return &Service{repo: repo, exclusions: exclusions, logger: logger}
}

// SaveRequest defines line-item upsert inputs.
type SaveRequest struct {
	ID            string
	Customer      string
	ProjectNumber string
	ProjectName   string
	ScopeOfWork   string
	Status        Status
	Sales         float64
	Cost          float64
	Hours         float64
	Estimator     string
	DateCreated   string
	DateUpdated   string
	Archived      bool
}

// Save creates or updates a line item.
func (s *Service) Save(ctx context.Context, req SaveRequest) (*LineItem, error) {
	if strings.TrimSpace(req.Customer) == "" || strings.TrimSpace(req.ProjectName) == "" {
		return nil, ErrInvalidInput
	}

	id := req.ID
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}

	li := &LineItem{
		ID:            id,
		Customer:      req.Customer,
		ProjectNumber: req.ProjectNumber,
		ProjectName:   req.ProjectName,
		ScopeOfWork:   req.ScopeOfWork,
		Status:        req.Status,
		Sales:         req.Sales,
		Cost:          req.Cost,
		Hours:         req.Hours,
		Estimator:     req.Estimator,
		DateCreated:   req.DateCreated,
		DateUpdated:   req.DateUpdated,
		Archived:      req.Archived,
	}

	if err := s.repo.Upsert(ctx, li); err != nil {
		return nil, fmt.Errorf("saving line item: %w", err)
	}
	return li, nil
}

// Get fetches a line item by ID.
func (s *Service) Get(ctx context.Context, id string) (*LineItem, error) {
	li, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting line item: %w", err)
	}
	return li, nil
}

// Canonical returns the deduplicated projects across all line items.
func (s *Service) Canonical(ctx context.Context) ([]Project, error) {
	items, err := s.repo.List(ctx, ListOptions{IncludeArchived: true})
	if err != nil {
		return nil, fmt.Errorf("listing line items: %w", err)
	}
	return Deduplicate(items, s.exclusions), nil
}

// Qualifying returns the canonical projects whose status counts toward
// the WIP hour budget.
func (s *Service) Qualifying(ctx context.Context) ([]Project, error) {
	all, err := s.Canonical(ctx)
	if err != nil {
		return nil, err
	}
	qualified := all[:0]
	for _, p := range all {
		if p.Status.IsQualifying() {
			qualified = append(qualified, p)
		}
	}
	return qualified, nil
}
