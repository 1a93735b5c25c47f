// Package wip rolls resolved schedule assignments into month and year
// buckets and derives the scheduled-versus-unscheduled capacity
// figures used by the WIP report.
package wip

import (
	"strconv"
	"strings"

	"github.com/slateworks/crewplan/internal/domain/project"
	"github.com/slateworks/crewplan/internal/domain/schedule"
)

// Report is the WIP view for an optional year filter (0 = all years).
type Report struct {
	Year             int                `json:"year,omitempty"`
	ScheduledHours   float64            `json:"scheduled_hours"`
	ScheduledByMonth map[string]float64 `json:"scheduled_by_month"`
	HourBudget       float64            `json:"hour_budget"`
	UnscheduledHours float64            `json:"unscheduled_hours"`
	Forecast         []MonthForecast    `json:"forecast,omitempty"`
}

// inYear reports whether an ISO month or day key falls in year.
// year 0 matches everything.
func inYear(key string, year int) bool {
	if year == 0 {
		return true
	}
	i := strings.IndexByte(key, '-')
	if i < 0 {
		return false
	}
	y, err := strconv.Atoi(key[:i])
	return err == nil && y == year
}

// ScheduledHours sums resolver output, optionally filtered to one
// calendar year, and also returns the per-month breakdown of the
// filtered hours.
func ScheduledHours(assignments []schedule.Assignment, year int) (float64, map[string]float64) {
	byMonth := make(map[string]float64)
	var total float64
	for _, a := range assignments {
		if len(a.Date) < 7 || !inYear(a.Date, year) {
			continue
		}
		byMonth[a.Date[:7]] += a.Hours
		total += a.Hours
	}
	return total, byMonth
}

// QualifyingBudget sums the hour budgets of Accepted / In Progress
// projects. With a year filter, a cross-year project's budget is
// reduced by the hours already placed in other years, so the year view
// only carries the remainder; a project fully consumed elsewhere
// contributes nothing rather than going negative.
func QualifyingBudget(projects []project.Project, assignments []schedule.Assignment, year int) float64 {
	outside := make(map[string]float64)
	if year != 0 {
		for _, a := range assignments {
			if !inYear(a.Date, year) {
				outside[a.JobKey] += a.Hours
			}
		}
	}

	var budget float64
	for _, p := range projects {
		if !p.Status.IsQualifying() {
			continue
		}
		remaining := p.Hours - outside[p.JobKey]
		if remaining > 0 {
			budget += remaining
		}
	}
	return budget
}

// Unscheduled is the capacity-planning headline figure: the qualifying
// budget not yet placed on the calendar, floored at zero.
func Unscheduled(budget, scheduledQualifying float64) float64 {
	u := budget - scheduledQualifying
	if u < 0 {
		return 0
	}
	return u
}

// Build assembles a full report from deduplicated projects and
// resolved assignments. Scheduled hours counted against the budget
// exclude non-qualifying projects even when they carry schedule data.
func Build(projects []project.Project, assignments []schedule.Assignment, year int) *Report {
	qualifying := make(map[string]bool)
	for _, p := range projects {
		if p.Status.IsQualifying() {
			qualifying[p.JobKey] = true
		}
	}

	total, byMonth := ScheduledHours(assignments, year)

	var scheduledQualifying float64
	for _, a := range assignments {
		if qualifying[a.JobKey] && inYear(a.Date, year) {
			scheduledQualifying += a.Hours
		}
	}

	budget := QualifyingBudget(projects, assignments, year)

	// The trendline regresses over all history, unfiltered.
	_, allMonths := ScheduledHours(assignments, 0)

	return &Report{
		Year:             year,
		ScheduledHours:   total,
		ScheduledByMonth: byMonth,
		HourBudget:       budget,
		UnscheduledHours: Unscheduled(budget, scheduledQualifying),
		Forecast:         Forecast(allMonths),
	}
}
