package schedule_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slateworks/crewplan/internal/domain/project"
	"github.com/slateworks/crewplan/internal/domain/schedule"
	"github.com/slateworks/crewplan/internal/domain/scope"
	"github.com/slateworks/crewplan/internal/repository"
	"github.com/slateworks/crewplan/internal/repository/mocks"
)

type serviceMocks struct {
	projects   *mocks.ProjectRepository
	scopes     *mocks.ScopeRepository
	shortTerm  *mocks.ShortTermRepository
	longTerm   *mocks.LongTermRepository
	aggregates *mocks.AggregateRepository
	sync       *mocks.SyncRepository
	active     *mocks.ActiveRepository
	tracking   *mocks.TrackingRepository
}

func newServiceWithMocks() (*schedule.Service, *serviceMocks) {
	m := &serviceMocks{
		projects:   &mocks.ProjectRepository{},
		scopes:     &mocks.ScopeRepository{},
		shortTerm:  &mocks.ShortTermRepository{},
		longTerm:   &mocks.LongTermRepository{},
		aggregates: &mocks.AggregateRepository{},
		sync:       &mocks.SyncRepository{},
		active:     &mocks.ActiveRepository{},
		tracking:   &mocks.TrackingRepository{},
	}
	svc := schedule.NewService(m.projects, m.scopes, m.shortTerm, m.longTerm, m.aggregates, m.sync, m.active, m.tracking, nil)
	return svc, m
}

func TestRecomputeWritesSyncBatch(t *testing.T) {
	ctx := context.Background()
	svc, m := newServiceWithMocks()
	jobKey := "Acme Co~101~North Plant"

	m.projects.On("ListByJobKey", ctx, jobKey).Return([]project.LineItem{
		{ID: "li-1", Customer: "Acme Co", ProjectNumber: "101", ProjectName: "North Plant", Status: project.StatusAccepted, Hours: 100},
	}, nil)
	m.scopes.On("ListByJobKey", ctx, jobKey).Return([]scope.Scope{
		{ID: "sc-1", JobKey: jobKey, Title: "Piping", StartDate: "2026-01-05", EndDate: "2026-01-09", Hours: 50},
	}, nil)
	m.shortTerm.On("ListByJobKey", ctx, jobKey).Return(nil, nil)
	m.longTerm.On("ListByJobKey", ctx, jobKey).Return(nil, nil)
	m.aggregates.On("Get", ctx, jobKey).Return(nil, repository.ErrNotFound)

	var batch schedule.SyncBatch
	m.sync.On("ApplySync", ctx, mock.AnythingOfType("schedule.SyncBatch")).
		Run(func(args mock.Arguments) { batch = args.Get(1).(schedule.SyncBatch) }).
		Return(nil)

	agg, err := svc.Recompute(ctx, jobKey)
	require.NoError(t, err)
	require.Equal(t, int64(1), agg.Revision)
	require.Equal(t, 100.0, agg.TotalHours)
	require.Equal(t, "Acme Co", agg.Customer)
	require.InDelta(t, 50.0, agg.Allocations.Hours["2026-01"], 1e-9)

	require.Equal(t, int64(0), batch.ExpectedRevision)
	require.Len(t, batch.ActiveEntries, 5)
	require.Equal(t, "Piping", batch.ActiveEntries[0].ScopeOfWork)
	require.Len(t, batch.Tracking, 1)
	require.InDelta(t, 50.0, batch.Tracking[0].ScheduledHours, 1e-9)
	require.InDelta(t, 0.0, batch.Tracking[0].UnscheduledHours, 1e-9)
	m.sync.AssertExpectations(t)
}

func TestRecomputeConflictSurfaces(t *testing.T) {
	ctx := context.Background()
	svc, m := newServiceWithMocks()
	jobKey := "Acme Co~101~North Plant"

	m.projects.On("ListByJobKey", ctx, jobKey).Return(nil, nil)
	m.scopes.On("ListByJobKey", ctx, jobKey).Return(nil, nil)
	m.shortTerm.On("ListByJobKey", ctx, jobKey).Return(nil, nil)
	m.longTerm.On("ListByJobKey", ctx, jobKey).Return(nil, nil)
	m.aggregates.On("Get", ctx, jobKey).Return(&schedule.Aggregate{JobKey: jobKey, Revision: 2}, nil)
	m.sync.On("ApplySync", ctx, mock.Anything).Return(repository.ErrConflict)

	_, err := svc.Recompute(ctx, jobKey)
	require.ErrorIs(t, err, schedule.ErrRevisionConflict)
}

func TestRecomputeCarriesForwardCustomerFields(t *testing.T) {
	ctx := context.Background()
	svc, m := newServiceWithMocks()
	jobKey := "Acme Co~101~North Plant"

	m.projects.On("ListByJobKey", ctx, jobKey).Return(nil, nil)
	m.scopes.On("ListByJobKey", ctx, jobKey).Return([]scope.Scope{
		{ID: "sc-1", JobKey: jobKey, Title: "Piping", StartDate: "2026-01-05", EndDate: "2026-01-09", Hours: 50},
	}, nil)
	m.shortTerm.On("ListByJobKey", ctx, jobKey).Return(nil, nil)
	m.longTerm.On("ListByJobKey", ctx, jobKey).Return(nil, nil)
	m.aggregates.On("Get", ctx, jobKey).Return(&schedule.Aggregate{
		JobKey: jobKey, Customer: "Acme Co", ProjectName: "North Plant", Status: "Accepted", Revision: 4,
	}, nil)
	m.sync.On("ApplySync", ctx, mock.Anything).Return(nil)

	agg, err := svc.Recompute(ctx, jobKey)
	require.NoError(t, err)
	require.Equal(t, int64(5), agg.Revision)
	require.Equal(t, "Acme Co", agg.Customer)
	require.Equal(t, "North Plant", agg.ProjectName)
	// No line items means the budget falls back to the resolved total.
	require.InDelta(t, 50.0, agg.TotalHours, 1e-9)
}

func TestRescheduleCarriesRevision(t *testing.T) {
	ctx := context.Background()
	svc, m := newServiceWithMocks()
	jobKey := "Acme Co~101~North Plant"

	m.aggregates.On("Get", ctx, jobKey).Return(&schedule.Aggregate{JobKey: jobKey, Revision: 3}, nil)
	m.aggregates.On("Upsert", ctx, mock.MatchedBy(func(agg *schedule.Aggregate) bool {
		return agg.Revision == 4
	}), int64(3)).Return(nil)

	agg, err := svc.Reschedule(ctx, schedule.RescheduleRequest{JobKey: jobKey, TotalHours: 80})
	require.NoError(t, err)
	require.Equal(t, int64(4), agg.Revision)
	m.aggregates.AssertExpectations(t)
}

func TestRescheduleConflict(t *testing.T) {
	ctx := context.Background()
	svc, m := newServiceWithMocks()
	jobKey := "Acme Co~101~North Plant"

	m.aggregates.On("Get", ctx, jobKey).Return(nil, repository.ErrNotFound)
	m.aggregates.On("Upsert", ctx, mock.Anything, int64(0)).Return(repository.ErrConflict)

	_, err := svc.Reschedule(ctx, schedule.RescheduleRequest{JobKey: jobKey})
	require.ErrorIs(t, err, schedule.ErrRevisionConflict)
}

func TestRescheduleRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	svc, _ := newServiceWithMocks()

	_, err := svc.Reschedule(ctx, schedule.RescheduleRequest{})
	require.ErrorIs(t, err, schedule.ErrInvalidInput)

	_, err = svc.Reschedule(ctx, schedule.RescheduleRequest{JobKey: "Acme~1~X", TotalHours: -5})
	require.ErrorIs(t, err, schedule.ErrInvalidInput)
}

func TestApplyDayEditRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	svc, _ := newServiceWithMocks()

	_, err := svc.ApplyDayEdit(ctx, schedule.DayEditRequest{Month: "2026-01", WeekNumber: 1, DayNumber: 1, Hours: 8})
	require.ErrorIs(t, err, schedule.ErrInvalidInput)

	_, err = svc.ApplyDayEdit(ctx, schedule.DayEditRequest{JobKey: "Acme~1~X", Month: "2026-01", WeekNumber: 1, DayNumber: 1, Hours: -1})
	require.ErrorIs(t, err, schedule.ErrInvalidInput)

	_, err = svc.ApplyDayEdit(ctx, schedule.DayEditRequest{JobKey: "Acme~1~X", Month: "2026-01", WeekNumber: 9, DayNumber: 1, Hours: 8})
	require.ErrorIs(t, err, schedule.ErrInvalidInput)
}

func TestGetAggregateNotFound(t *testing.T) {
	ctx := context.Background()
	svc, m := newServiceWithMocks()

	m.aggregates.On("Get", ctx, "missing").Return(nil, repository.ErrNotFound)

	_, err := svc.GetAggregate(ctx, "missing")
	require.ErrorIs(t, err, schedule.ErrScheduleNotFound)
}

func TestActiveEntriesUsesDayKeys(t *testing.T) {
	ctx := context.Background()
	svc, m := newServiceWithMocks()

	entries := []schedule.ActiveEntry{
		{JobKey: "Acme~1~X", ScopeOfWork: "Piping", Date: "2026-01-05", Hours: 10, Source: schedule.SourceGantt},
	}
	m.active.On("ListRange", ctx, "2026-01-01", "2026-01-31").Return(entries, nil)

	got, err := svc.ActiveEntries(ctx,
		time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, entries, got)
}

func TestScopeTrackingDispatch(t *testing.T) {
	ctx := context.Background()
	svc, m := newServiceWithMocks()

	byKey := []schedule.Tracking{{JobKey: "Acme~1~X", ScopeOfWork: "Piping", ScheduledHours: 50}}
	all := []schedule.Tracking{{JobKey: "Acme~1~X"}, {JobKey: "Beta~2~Y"}}
	m.tracking.On("ListByJobKey", ctx, "Acme~1~X").Return(byKey, nil)
	m.tracking.On("ListAll", ctx, 0, 0).Return(all, nil)

	got, err := svc.ScopeTracking(ctx, "Acme~1~X")
	require.NoError(t, err)
	require.Equal(t, byKey, got)

	got, err = svc.ScopeTracking(ctx, "  ")
	require.NoError(t, err)
	require.Len(t, got, 2)
}
