package scope

import (
	"time"

	"github.com/slateworks/crewplan/internal/calendar"
)

// HoursPerWorkerDay converts a manpower figure (workers on site per
// day) into hours: one worker is one ten-hour day.
const HoursPerWorkerDay = 10.0

// Scope is a Gantt-chart work item: a date range plus either a
// manpower figure or a total-hours figure. A scope belongs to exactly
// one job key and drives day-level allocation when both dates parse.
type Scope struct {
	ID        string  `json:"id"`
	JobKey    string  `json:"job_key"`
	Title     string  `json:"title"`
	StartDate string  `json:"start_date,omitempty"` // ISO date, optional
	EndDate   string  `json:"end_date,omitempty"`   // ISO date, optional
	Manpower  float64 `json:"manpower,omitempty"`   // workers per day
	Hours     float64 `json:"hours,omitempty"`      // total over the range
}

// DateRange parses the scope's dates. ok=false means the scope does
// not participate in date-based allocation (it may still display in
// scope lists).
func (s Scope) DateRange() (start, end time.Time, ok bool) {
	start, ok = calendar.ParseISODate(s.StartDate)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end, ok = calendar.ParseISODate(s.EndDate)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// DailyHours maps ISO day keys ("YYYY-MM-DD") to allocated hours.
type DailyHours map[string]float64

// Total sums all allocated hours.
func (d DailyHours) Total() float64 {
	var sum float64
	for _, h := range d {
		sum += h
	}
	return sum
}

// Merge adds every allocation in other into d.
func (d DailyHours) Merge(other DailyHours) {
	for day, h := range other {
		d[day] += h
	}
}

// ByMonth rolls the daily allocation up into "YYYY-MM" buckets.
func (d DailyHours) ByMonth() map[string]float64 {
	months := make(map[string]float64)
	for day, h := range d {
		if t, ok := calendar.ParseISODate(day); ok {
			months[calendar.MonthKey(t)] += h
		}
	}
	return months
}
