package scope

import (
	"time"

	"github.com/slateworks/crewplan/internal/calendar"
)

// AllocateDaily spreads one scope's hours across the workdays of its
// date range. Weekends and holidays never receive hours, even when the
// range starts or ends on one.
//
// Manpower takes precedence: when present, every workday gets
// manpower * 10 hours and the total-hours figure is ignored. Otherwise
// the total is divided evenly across the range's workdays. A scope
// with unparsable dates, a zero-workday range, or neither figure
// allocates nothing.
func AllocateDaily(s Scope) DailyHours {
	start, end, ok := s.DateRange()
	if !ok {
		return nil
	}

	var rate float64
	switch {
	case s.Manpower > 0:
		rate = s.Manpower * HoursPerWorkerDay
	case s.Hours > 0:
		workdays := calendar.WorkdaysBetween(start, end)
		if workdays == 0 {
			return nil
		}
		rate = s.Hours / float64(workdays)
	default:
		return nil
	}

	daily := make(DailyHours)
	calendar.EachDay(start, end, func(d time.Time) {
		if calendar.IsWorkday(d) {
			daily[calendar.DayKey(d)] = rate
		}
	})
	return daily
}

// AllocateProject sums the daily allocations of all scopes belonging
// to one job key into a single per-day figure; the schedule board
// shows one card per project per day, not one per scope.
func AllocateProject(scopes []Scope) DailyHours {
	daily := make(DailyHours)
	for _, s := range scopes {
		daily.Merge(AllocateDaily(s))
	}
	return daily
}

// AllocatedHours is the scope's effective hour total: the sum of its
// daily allocation. For manpower scopes this is derived from the
// workday count, for hour scopes it equals the stored figure (when the
// range has workdays).
func AllocatedHours(s Scope) float64 {
	return AllocateDaily(s).Total()
}

// HasValidRange reports whether any scope in the slice parses to a
// usable date range. A project with any such scope never falls back to
// long-term weekly data, even on days its scopes do not cover.
func HasValidRange(scopes []Scope) bool {
	for _, s := range scopes {
		if _, _, ok := s.DateRange(); ok {
			return true
		}
	}
	return false
}
