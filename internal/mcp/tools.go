package mcp

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/slateworks/crewplan/internal/calendar"
	"github.com/slateworks/crewplan/internal/domain/project"
	"github.com/slateworks/crewplan/internal/domain/schedule"
	"github.com/slateworks/crewplan/internal/domain/wip"
)

type toolHandler struct {
	services Services
}

func registerTools(server *sdkmcp.Server, services Services) {
	h := &toolHandler{services: services}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List deduplicated projects with summed sales, cost, and hours",
	}, h.listProjects)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_schedules",
		Description: "List reconciled schedule records with monthly hour allocations",
	}, h.listSchedules)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_assignments",
		Description: "Resolve per-day crew assignments within a date range, with override precedence applied",
	}, h.getAssignments)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "wip_report",
		Description: "Build the work-in-progress report: scheduled vs unscheduled hours and a short-term forecast",
	}, h.wipReport)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "reschedule",
		Description: "Write a manual schedule record for a job, guarded by revision conflict detection",
	}, h.reschedule)
}

// ListProjectsParams has no fields; the tool always returns the full
// canonical set.
type ListProjectsParams struct{}

// ListProjectsResult is the list_projects tool output.
type ListProjectsResult struct {
	Projects []project.Project `json:"projects"`
}

func (h *toolHandler) listProjects(ctx context.Context, _ *sdkmcp.CallToolRequest, _ ListProjectsParams) (*sdkmcp.CallToolResult, ListProjectsResult, error) {
	projects, err := h.services.Projects.Canonical(ctx)
	if err != nil {
		return nil, ListProjectsResult{}, mapError(err)
	}
	return nil, ListProjectsResult{Projects: projects}, nil
}

// ListSchedulesParams pages through schedule records.
type ListSchedulesParams struct {
	Limit  int `json:"limit,omitempty" jsonschema:"maximum number of records to return"`
	Offset int `json:"offset,omitempty" jsonschema:"offset for pagination"`
}

// ListSchedulesResult is the list_schedules tool output.
type ListSchedulesResult struct {
	Schedules []schedule.Aggregate `json:"schedules"`
}

func (h *toolHandler) listSchedules(ctx context.Context, _ *sdkmcp.CallToolRequest, params ListSchedulesParams) (*sdkmcp.CallToolResult, ListSchedulesResult, error) {
	aggs, err := h.services.Schedules.ListAggregates(ctx, params.Limit, params.Offset)
	if err != nil {
		return nil, ListSchedulesResult{}, mapError(err)
	}
	if aggs == nil {
		aggs = []schedule.Aggregate{}
	}
	return nil, ListSchedulesResult{Schedules: aggs}, nil
}

// GetAssignmentsParams bounds the crew-board window.
type GetAssignmentsParams struct {
	Start string `json:"start" jsonschema:"start date, YYYY-MM-DD"`
	End   string `json:"end" jsonschema:"end date inclusive, YYYY-MM-DD"`
}

// GetAssignmentsResult is the get_assignments tool output.
type GetAssignmentsResult struct {
	Assignments []schedule.Assignment `json:"assignments"`
}

func (h *toolHandler) getAssignments(ctx context.Context, _ *sdkmcp.CallToolRequest, params GetAssignmentsParams) (*sdkmcp.CallToolResult, GetAssignmentsResult, error) {
	start, ok := calendar.ParseISODate(params.Start)
	if !ok {
		return nil, GetAssignmentsResult{}, fmt.Errorf("invalid start date %q", params.Start)
	}
	end, ok := calendar.ParseISODate(params.End)
	if !ok {
		return nil, GetAssignmentsResult{}, fmt.Errorf("invalid end date %q", params.End)
	}
	assignments, err := h.services.Schedules.ResolveRange(ctx, start, end)
	if err != nil {
		return nil, GetAssignmentsResult{}, mapError(err)
	}
	if assignments == nil {
		assignments = []schedule.Assignment{}
	}
	return nil, GetAssignmentsResult{Assignments: assignments}, nil
}

// WIPReportParams selects the reporting year.
type WIPReportParams struct {
	Year int `json:"year,omitempty" jsonschema:"calendar year to report on, defaults to all years"`
}

func (h *toolHandler) wipReport(ctx context.Context, _ *sdkmcp.CallToolRequest, params WIPReportParams) (*sdkmcp.CallToolResult, *wip.Report, error) {
	report, err := h.services.WIP.Report(ctx, params.Year)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return nil, report, nil
}

// RescheduleParams is a manual schedule write. Either job_key or the
// customer/number/name triple identifies the job.
type RescheduleParams struct {
	JobKey        string             `json:"job_key,omitempty" jsonschema:"job key, customer~number~name"`
	Customer      string             `json:"customer,omitempty"`
	ProjectNumber string             `json:"project_number,omitempty"`
	ProjectName   string             `json:"project_name,omitempty"`
	Status        string             `json:"status,omitempty"`
	TotalHours    float64            `json:"total_hours"`
	Allocations   map[string]float64 `json:"allocations,omitempty" jsonschema:"hours keyed by month, YYYY-MM"`
}

func (h *toolHandler) reschedule(ctx context.Context, _ *sdkmcp.CallToolRequest, params RescheduleParams) (*sdkmcp.CallToolResult, *schedule.Aggregate, error) {
	agg, err := h.services.Schedules.Reschedule(ctx, schedule.RescheduleRequest{
		JobKey:        params.JobKey,
		Customer:      params.Customer,
		ProjectNumber: params.ProjectNumber,
		ProjectName:   params.ProjectName,
		Status:        params.Status,
		TotalHours:    params.TotalHours,
		Allocations:   schedule.FromHours(params.Allocations),
	})
	if err != nil {
		return nil, nil, mapError(err)
	}
	return nil, agg, nil
}
