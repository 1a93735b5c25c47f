package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/slateworks/crewplan/internal/domain/project"
	"github.com/slateworks/crewplan/internal/domain/schedule"
	"github.com/slateworks/crewplan/internal/domain/wip"
)

type stubProjects struct {
	projects []project.Project
	err      error
}

func (s *stubProjects) Canonical(context.Context) ([]project.Project, error) {
	return s.projects, s.err
}

type stubSchedules struct {
	aggs        []schedule.Aggregate
	assignments []schedule.Assignment
	active      []schedule.ActiveEntry
	tracking    []schedule.Tracking
	agg         *schedule.Aggregate
	err         error

	lastDayEdit    schedule.DayEditRequest
	lastReschedule schedule.RescheduleRequest
	lastJobKey     string
	rangeStart     time.Time
	rangeEnd       time.Time
}

func (s *stubSchedules) ListAggregates(context.Context, int, int) ([]schedule.Aggregate, error) {
	return s.aggs, s.err
}

func (s *stubSchedules) Reschedule(_ context.Context, req schedule.RescheduleRequest) (*schedule.Aggregate, error) {
	s.lastReschedule = req
	return s.agg, s.err
}

func (s *stubSchedules) ResolveRange(_ context.Context, start, end time.Time) ([]schedule.Assignment, error) {
	s.rangeStart, s.rangeEnd = start, end
	return s.assignments, s.err
}

func (s *stubSchedules) ApplyDayEdit(_ context.Context, req schedule.DayEditRequest) (*schedule.Aggregate, error) {
	s.lastDayEdit = req
	return s.agg, s.err
}

func (s *stubSchedules) ActiveEntries(_ context.Context, start, end time.Time) ([]schedule.ActiveEntry, error) {
	s.rangeStart, s.rangeEnd = start, end
	return s.active, s.err
}

func (s *stubSchedules) ScopeTracking(_ context.Context, jobKey string) ([]schedule.Tracking, error) {
	s.lastJobKey = jobKey
	return s.tracking, s.err
}

type stubWIP struct {
	report *wip.Report
	err    error
	year   int
}

func (s *stubWIP) Report(_ context.Context, year int) (*wip.Report, error) {
	s.year = year
	return s.report, s.err
}

func newTestRouter(t *testing.T) (*stubProjects, *stubSchedules, *stubWIP, http.Handler) {
	t.Helper()
	projects := &stubProjects{}
	schedules := &stubSchedules{}
	reports := &stubWIP{report: &wip.Report{}}
	router := NewServer(Services{Projects: projects, Schedules: schedules, WIP: reports}, nil)
	return projects, schedules, reports, router
}

func TestHealth(t *testing.T) {
	_, _, _, router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestListProjects(t *testing.T) {
	projects, _, _, router := newTestRouter(t)
	projects.projects = []project.Project{{JobKey: "Acme~101~Plant", Customer: "Acme"}}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/projects", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got []project.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	require.Equal(t, "Acme~101~Plant", got[0].JobKey)
}

func TestListSchedulesEmpty(t *testing.T) {
	_, _, _, router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/schedules", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestRescheduleConflict(t *testing.T) {
	_, schedules, _, router := newTestRouter(t)
	schedules.err = schedule.ErrRevisionConflict

	body, _ := json.Marshal(map[string]any{"job_key": "Acme~101~Plant", "total_hours": 120})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/schedules", bytes.NewReader(body)))

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "Acme~101~Plant", schedules.lastReschedule.JobKey)
}

func TestRescheduleBadBody(t *testing.T) {
	_, _, _, router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/schedules", bytes.NewReader([]byte("{"))))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListAssignments(t *testing.T) {
	_, schedules, _, router := newTestRouter(t)
	schedules.assignments = []schedule.Assignment{
		{JobKey: "Acme~101~Plant", Date: "2026-01-05", Hours: 10, Source: schedule.SourceGantt},
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/assignments?start=2026-01-01&end=2026-01-31", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), schedules.rangeStart)
	require.Equal(t, time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC), schedules.rangeEnd)
	var got []schedule.Assignment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
}

func TestListAssignmentsBadRange(t *testing.T) {
	_, _, _, router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/assignments?start=not-a-date&end=2026-01-31", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDayEdit(t *testing.T) {
	_, schedules, _, router := newTestRouter(t)
	schedules.agg = &schedule.Aggregate{JobKey: "Acme~101~Plant", Revision: 2}

	body, _ := json.Marshal(map[string]any{
		"job_key":     "Acme~101~Plant",
		"month":       "2026-01",
		"week_number": 1,
		"day_number":  1,
		"hours":       8,
		"foreman":     "Reyes",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/assignments", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "2026-01", schedules.lastDayEdit.Month)
	require.Equal(t, 8.0, schedules.lastDayEdit.Hours)
	require.Equal(t, "Reyes", schedules.lastDayEdit.Foreman)
}

func TestDayEditInvalid(t *testing.T) {
	_, schedules, _, router := newTestRouter(t)
	schedules.err = schedule.ErrInvalidInput

	body, _ := json.Marshal(map[string]any{"job_key": "", "month": "2026-01"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/assignments", bytes.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListActive(t *testing.T) {
	_, schedules, _, router := newTestRouter(t)
	schedules.active = []schedule.ActiveEntry{
		{JobKey: "Acme~101~Plant", ScopeOfWork: "Piping", Date: "2026-01-05", Hours: 10, Source: schedule.SourceGantt},
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/active?start=2026-01-01&end=2026-01-31", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), schedules.rangeStart)
	var got []schedule.ActiveEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	require.Equal(t, "Piping", got[0].ScopeOfWork)
}

func TestListActiveBadRange(t *testing.T) {
	_, _, _, router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/active?start=2026-01-01", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListTracking(t *testing.T) {
	_, schedules, _, router := newTestRouter(t)
	schedules.tracking = []schedule.Tracking{
		{JobKey: "Acme~101~Plant", ScopeOfWork: "Piping", TotalHours: 50, ScheduledHours: 44, UnscheduledHours: 6},
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tracking?job_key=Acme~101~Plant", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Acme~101~Plant", schedules.lastJobKey)
	var got []schedule.Tracking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	require.Equal(t, 6.0, got[0].UnscheduledHours)
}

func TestListTrackingEmpty(t *testing.T) {
	_, _, _, router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tracking", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestWIPReport(t *testing.T) {
	_, _, reports, router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/wip?year=2026", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 2026, reports.year)
}

func TestWIPReportBadYear(t *testing.T) {
	_, _, _, router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/wip?year=soon", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
