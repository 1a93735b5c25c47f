package schedule

import (
	"time"

	"github.com/slateworks/crewplan/internal/calendar"
)

// Source tags where a resolved allocation came from.
type Source string

const (
	SourceGantt     Source = "gantt"
	SourceShortTerm Source = "short-term"
	SourceLongTerm  Source = "long-term"
	SourceSchedules Source = "schedules"
)

// ShortTermDoc is the per-(jobKey, month) daily override grid: what the
// scheduling board writes when a card is dragged or an hour field is
// edited. A day that has been written with hours 0 means "explicitly
// cleared", which is different from a day that was never written.
type ShortTermDoc struct {
	JobKey string          `json:"job_key"`
	Month  string          `json:"month"` // "YYYY-MM"
	Weeks  []ShortTermWeek `json:"weeks"`
}

// ShortTermWeek holds the written days of one week of the month.
type ShortTermWeek struct {
	WeekNumber int            `json:"week_number"` // 1..5
	Days       []ShortTermDay `json:"days"`
}

// ShortTermDay is one explicitly written day.
type ShortTermDay struct {
	DayNumber int      `json:"day_number"` // 1..5, Monday..Friday
	Hours     float64  `json:"hours"`
	Foreman   string   `json:"foreman,omitempty"`
	Employees []string `json:"employees,omitempty"`
}

// Date resolves a (month, weekNumber, dayNumber) triple to a concrete
// calendar day. Week 1 starts at the month's first Monday, so a triple
// pointing past the month's last week reports ok=false.
func (d ShortTermDay) Date(month string, weekNumber int) (time.Time, bool) {
	return overrideDate(month, weekNumber, d.DayNumber)
}

func overrideDate(month string, weekNumber, dayNumber int) (time.Time, bool) {
	if weekNumber < 1 || dayNumber < 1 || dayNumber > 5 {
		return time.Time{}, false
	}
	mondays := calendar.WeekStartsOfMonth(month)
	if weekNumber > len(mondays) {
		return time.Time{}, false
	}
	return mondays[weekNumber-1].AddDate(0, 0, dayNumber-1), true
}

// LongTermDoc is the per-(jobKey, month) weekly-bucket override: a
// coarse lookahead used before Gantt scopes exist for a project.
type LongTermDoc struct {
	JobKey string         `json:"job_key"`
	Month  string         `json:"month"`
	Weeks  []LongTermWeek `json:"weeks"`
}

// LongTermWeek carries the hours for one week bucket of the month.
type LongTermWeek struct {
	WeekNumber int     `json:"week_number"`
	Hours      float64 `json:"hours"`
}

// Assignment is one resolved per-day row: the hours a project has on a
// concrete date, with crew fields when the short-term grid supplied
// them. Zero-hour assignments are filtered before this leaves the
// resolver.
type Assignment struct {
	JobKey    string   `json:"job_key"`
	Date      string   `json:"date"` // ISO day
	Hours     float64  `json:"hours"`
	Foreman   string   `json:"foreman,omitempty"`
	Employees []string `json:"employees,omitempty"`
	Source    Source   `json:"source"`
}

// Aggregate is the reconciled "schedules" record for one job key,
// consumed by the reporting pages. It is derived output once scopes or
// overrides exist, never hand-edited, but legacy hand-written records
// still load through the Allocations union.
type Aggregate struct {
	JobKey        string      `json:"job_key"`
	DocKey        string      `json:"doc_key"` // sanitized storage id
	Customer      string      `json:"customer,omitempty"`
	ProjectNumber string      `json:"project_number,omitempty"`
	ProjectName   string      `json:"project_name,omitempty"`
	Status        string      `json:"status,omitempty"`
	TotalHours    float64     `json:"total_hours"`
	Allocations   Allocations `json:"allocations"`
	Revision      int64       `json:"revision"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// ActiveEntry is the finer-grained derived cache: one row per
// (jobKey, scopeOfWork, date), supporting date-range queries without
// re-deriving from scratch.
type ActiveEntry struct {
	JobKey      string  `json:"job_key"`
	ScopeOfWork string  `json:"scope_of_work"`
	Date        string  `json:"date"`
	Hours       float64 `json:"hours"`
	Source      Source  `json:"source"`
}

// Tracking records scheduled-versus-budget per (jobKey, scopeOfWork).
// Unscheduled hours are clamped at zero, matching the WIP convention.
type Tracking struct {
	JobKey           string  `json:"job_key"`
	ScopeOfWork      string  `json:"scope_of_work"`
	TotalHours       float64 `json:"total_hours"`
	ScheduledHours   float64 `json:"scheduled_hours"`
	UnscheduledHours float64 `json:"unscheduled_hours"`
}
