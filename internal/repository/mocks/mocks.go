package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/slateworks/crewplan/internal/domain/project"
	"github.com/slateworks/crewplan/internal/domain/schedule"
	"github.com/slateworks/crewplan/internal/domain/scope"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Upsert(ctx context.Context, li *project.LineItem) error {
	args := m.Called(ctx, li)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*project.LineItem, error) {
	args := m.Called(ctx, id)
	if li, ok := args.Get(0).(*project.LineItem); ok {
		return li, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context, opts project.ListOptions) ([]project.LineItem, error) {
	args := m.Called(ctx, opts)
	if items, ok := args.Get(0).([]project.LineItem); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) ListByJobKey(ctx context.Context, jobKey string) ([]project.LineItem, error) {
	args := m.Called(ctx, jobKey)
	if items, ok := args.Get(0).([]project.LineItem); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

// ScopeRepository is a mock for scope.Repository.
type ScopeRepository struct {
	mock.Mock
}

func (m *ScopeRepository) Upsert(ctx context.Context, s *scope.Scope) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *ScopeRepository) Get(ctx context.Context, id string) (*scope.Scope, error) {
	args := m.Called(ctx, id)
	if s, ok := args.Get(0).(*scope.Scope); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ScopeRepository) ListByJobKey(ctx context.Context, jobKey string) ([]scope.Scope, error) {
	args := m.Called(ctx, jobKey)
	if scopes, ok := args.Get(0).([]scope.Scope); ok {
		return scopes, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ScopeRepository) ListAll(ctx context.Context, limit, offset int) ([]scope.Scope, error) {
	args := m.Called(ctx, limit, offset)
	if scopes, ok := args.Get(0).([]scope.Scope); ok {
		return scopes, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ScopeRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ShortTermRepository is a mock for schedule.ShortTermRepository.
type ShortTermRepository struct {
	mock.Mock
}

func (m *ShortTermRepository) Upsert(ctx context.Context, doc *schedule.ShortTermDoc) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *ShortTermRepository) Get(ctx context.Context, jobKey, month string) (*schedule.ShortTermDoc, error) {
	args := m.Called(ctx, jobKey, month)
	if doc, ok := args.Get(0).(*schedule.ShortTermDoc); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ShortTermRepository) ListByJobKey(ctx context.Context, jobKey string) ([]schedule.ShortTermDoc, error) {
	args := m.Called(ctx, jobKey)
	if docs, ok := args.Get(0).([]schedule.ShortTermDoc); ok {
		return docs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ShortTermRepository) ListByMonths(ctx context.Context, months []string) ([]schedule.ShortTermDoc, error) {
	args := m.Called(ctx, months)
	if docs, ok := args.Get(0).([]schedule.ShortTermDoc); ok {
		return docs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ShortTermRepository) ListAll(ctx context.Context) ([]schedule.ShortTermDoc, error) {
	args := m.Called(ctx)
	if docs, ok := args.Get(0).([]schedule.ShortTermDoc); ok {
		return docs, args.Error(1)
	}
	return nil, args.Error(1)
}

// LongTermRepository is a mock for schedule.LongTermRepository.
type LongTermRepository struct {
	mock.Mock
}

func (m *LongTermRepository) Upsert(ctx context.Context, doc *schedule.LongTermDoc) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *LongTermRepository) Get(ctx context.Context, jobKey, month string) (*schedule.LongTermDoc, error) {
	args := m.Called(ctx, jobKey, month)
	if doc, ok := args.Get(0).(*schedule.LongTermDoc); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LongTermRepository) ListByJobKey(ctx context.Context, jobKey string) ([]schedule.LongTermDoc, error) {
	args := m.Called(ctx, jobKey)
	if docs, ok := args.Get(0).([]schedule.LongTermDoc); ok {
		return docs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LongTermRepository) ListByMonths(ctx context.Context, months []string) ([]schedule.LongTermDoc, error) {
	args := m.Called(ctx, months)
	if docs, ok := args.Get(0).([]schedule.LongTermDoc); ok {
		return docs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LongTermRepository) ListAll(ctx context.Context) ([]schedule.LongTermDoc, error) {
	args := m.Called(ctx)
	if docs, ok := args.Get(0).([]schedule.LongTermDoc); ok {
		return docs, args.Error(1)
	}
	return nil, args.Error(1)
}

// AggregateRepository is a mock for schedule.AggregateRepository.
type AggregateRepository struct {
	mock.Mock
}

func (m *AggregateRepository) Get(ctx context.Context, jobKey string) (*schedule.Aggregate, error) {
	args := m.Called(ctx, jobKey)
	if agg, ok := args.Get(0).(*schedule.Aggregate); ok {
		return agg, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AggregateRepository) List(ctx context.Context, limit, offset int) ([]schedule.Aggregate, error) {
	args := m.Called(ctx, limit, offset)
	if aggs, ok := args.Get(0).([]schedule.Aggregate); ok {
		return aggs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AggregateRepository) Upsert(ctx context.Context, agg *schedule.Aggregate, expectedRevision int64) error {
	args := m.Called(ctx, agg, expectedRevision)
	return args.Error(0)
}

// SyncRepository is a mock for schedule.SyncRepository.
type SyncRepository struct {
	mock.Mock
}

func (m *SyncRepository) ApplySync(ctx context.Context, batch schedule.SyncBatch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

// ActiveRepository is a mock for schedule.ActiveRepository.
type ActiveRepository struct {
	mock.Mock
}

func (m *ActiveRepository) ListRange(ctx context.Context, startDay, endDay string) ([]schedule.ActiveEntry, error) {
	args := m.Called(ctx, startDay, endDay)
	if entries, ok := args.Get(0).([]schedule.ActiveEntry); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActiveRepository) ListByJobKey(ctx context.Context, jobKey string) ([]schedule.ActiveEntry, error) {
	args := m.Called(ctx, jobKey)
	if entries, ok := args.Get(0).([]schedule.ActiveEntry); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}

// TrackingRepository is a mock for schedule.TrackingRepository.
type TrackingRepository struct {
	mock.Mock
}

func (m *TrackingRepository) ListByJobKey(ctx context.Context, jobKey string) ([]schedule.Tracking, error) {
	args := m.Called(ctx, jobKey)
	if rows, ok := args.Get(0).([]schedule.Tracking); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TrackingRepository) ListAll(ctx context.Context, limit, offset int) ([]schedule.Tracking, error) {
	args := m.Called(ctx, limit, offset)
	if rows, ok := args.Get(0).([]schedule.Tracking); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}
