package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/slateworks/crewplan/internal/calendar"
	"github.com/slateworks/crewplan/internal/domain/project"
	"github.com/slateworks/crewplan/internal/domain/schedule"
	"github.com/slateworks/crewplan/internal/domain/wip"
)

// ProjectService defines project operations needed by the HTTP API.
type ProjectService interface {
	Canonical(ctx context.Context) ([]project.Project, error)
}

// ScheduleService defines schedule operations needed by the HTTP API.
type ScheduleService interface {
	ListAggregates(ctx context.Context, limit, offset int) ([]schedule.Aggregate, error)
	Reschedule(ctx context.Context, req schedule.RescheduleRequest) (*schedule.Aggregate, error)
	ResolveRange(ctx context.Context, start, end time.Time) ([]schedule.Assignment, error)
	ApplyDayEdit(ctx context.Context, req schedule.DayEditRequest) (*schedule.Aggregate, error)
	ActiveEntries(ctx context.Context, start, end time.Time) ([]schedule.ActiveEntry, error)
	ScopeTracking(ctx context.Context, jobKey string) ([]schedule.Tracking, error)
}

// WIPService defines reporting operations needed by the HTTP API.
type WIPService interface {
	Report(ctx context.Context, year int) (*wip.Report, error)
}

// Services bundles the domain services the API exposes.
type Services struct {
	Projects  ProjectService
	Schedules ScheduleService
	WIP       WIPService
}

// Server wires HTTP handlers.
type Server struct {
	services Services
	logger   *slog.Logger
}

// NewServer creates the API router.
func NewServer(services Services, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	srv := &Server{services: services, logger: logger}

	r.Get("/health", srv.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/projects", srv.handleListProjects)
		r.Get("/schedules", srv.handleListSchedules)
		r.Post("/schedules", srv.handleReschedule)
		r.Get("/assignments", srv.handleListAssignments)
		r.Post("/assignments", srv.handleDayEdit)
		r.Get("/active", srv.handleListActive)
		r.Get("/tracking", srv.handleListTracking)
		r.Get("/wip", srv.handleWIPReport)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.services.Projects.Canonical(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	aggs, err := s.services.Schedules.ListAggregates(r.Context(), limit, offset)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if aggs == nil {
		aggs = []schedule.Aggregate{}
	}
	s.writeJSON(w, http.StatusOK, aggs)
}

// rescheduleBody is the manual schedule write accepted at the boundary.
type rescheduleBody struct {
	JobKey        string               `json:"job_key"`
	Customer      string               `json:"customer"`
	ProjectNumber string               `json:"project_number"`
	ProjectName   string               `json:"project_name"`
	Status        string               `json:"status"`
	TotalHours    float64              `json:"total_hours"`
	Allocations   schedule.Allocations `json:"allocations"`
}

func (s *Server) handleReschedule(w http.ResponseWriter, r *http.Request) {
	var body rescheduleBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	agg, err := s.services.Schedules.Reschedule(r.Context(), schedule.RescheduleRequest{
		JobKey:        body.JobKey,
		Customer:      body.Customer,
		ProjectNumber: body.ProjectNumber,
		ProjectName:   body.ProjectName,
		Status:        body.Status,
		TotalHours:    body.TotalHours,
		Allocations:   body.Allocations,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, agg)
}

func (s *Server) handleListAssignments(w http.ResponseWriter, r *http.Request) {
	start, ok := calendar.ParseISODate(r.URL.Query().Get("start"))
	if !ok {
		s.writeErrorMessage(w, http.StatusBadRequest, "invalid or missing start date")
		return
	}
	end, ok := calendar.ParseISODate(r.URL.Query().Get("end"))
	if !ok {
		s.writeErrorMessage(w, http.StatusBadRequest, "invalid or missing end date")
		return
	}
	assignments, err := s.services.Schedules.ResolveRange(r.Context(), start, end)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if assignments == nil {
		assignments = []schedule.Assignment{}
	}
	s.writeJSON(w, http.StatusOK, assignments)
}

// dayEditBody is one board edit: a card dropped on a day cell.
type dayEditBody struct {
	JobKey     string   `json:"job_key"`
	Month      string   `json:"month"`
	WeekNumber int      `json:"week_number"`
	DayNumber  int      `json:"day_number"`
	Hours      float64  `json:"hours"`
	Foreman    string   `json:"foreman"`
	Employees  []string `json:"employees"`
}

func (s *Server) handleDayEdit(w http.ResponseWriter, r *http.Request) {
	var body dayEditBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	agg, err := s.services.Schedules.ApplyDayEdit(r.Context(), schedule.DayEditRequest{
		JobKey:     body.JobKey,
		Month:      body.Month,
		WeekNumber: body.WeekNumber,
		DayNumber:  body.DayNumber,
		Hours:      body.Hours,
		Foreman:    body.Foreman,
		Employees:  body.Employees,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, agg)
}

// handleListActive serves the persisted day-level cache instead of
// resolving from scratch, so board reads stay cheap.
func (s *Server) handleListActive(w http.ResponseWriter, r *http.Request) {
	start, ok := calendar.ParseISODate(r.URL.Query().Get("start"))
	if !ok {
		s.writeErrorMessage(w, http.StatusBadRequest, "invalid or missing start date")
		return
	}
	end, ok := calendar.ParseISODate(r.URL.Query().Get("end"))
	if !ok {
		s.writeErrorMessage(w, http.StatusBadRequest, "invalid or missing end date")
		return
	}
	entries, err := s.services.Schedules.ActiveEntries(r.Context(), start, end)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []schedule.ActiveEntry{}
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleListTracking(w http.ResponseWriter, r *http.Request) {
	rows, err := s.services.Schedules.ScopeTracking(r.Context(), r.URL.Query().Get("job_key"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if rows == nil {
		rows = []schedule.Tracking{}
	}
	s.writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleWIPReport(w http.ResponseWriter, r *http.Request) {
	year := 0
	if y := r.URL.Query().Get("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			s.writeErrorMessage(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = parsed
	}
	report, err := s.services.WIP.Report(r.Context(), year)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// writeError maps domain errors to statuses. Internal failures are
// logged with detail and surface as one summarized message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, schedule.ErrInvalidInput) || errors.Is(err, project.ErrInvalidInput):
		s.writeErrorMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, schedule.ErrScheduleNotFound) || errors.Is(err, project.ErrProjectNotFound):
		s.writeErrorMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, schedule.ErrRevisionConflict):
		s.writeErrorMessage(w, http.StatusConflict, err.Error())
	default:
		if s.logger != nil {
			s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		}
		s.writeErrorMessage(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
