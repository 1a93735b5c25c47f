package scope

import (
	"github.com/slateworks/crewplan/internal/calendar"
)

// SalesByMonth distributes a dollar amount across the months a scope's
// range touches, proportional to the calendar days (weekends included)
// of overlap with each month. This is deliberately a different
// counting mode than the workday-based hour allocation: hours follow
// workdays, dollars follow the calendar.
func SalesByMonth(s Scope, amount float64) map[string]float64 {
	start, end, ok := s.DateRange()
	if !ok || amount == 0 {
		return nil
	}
	totalDays := calendar.OverlapDays(start, end, start, end)
	if totalDays == 0 {
		return nil
	}

	out := make(map[string]float64)
	for m := calendar.Day(start.Year(), start.Month(), 1); !m.After(end); m = m.AddDate(0, 1, 0) {
		month := calendar.MonthKey(m)
		first, last, _ := calendar.MonthBounds(month)
		if overlap := calendar.OverlapDays(start, end, first, last); overlap > 0 {
			out[month] += amount * float64(overlap) / float64(totalDays)
		}
	}
	return out
}

// ProrateSales splits a project's total sales across months. Each
// scope's share of the total is its share of the project's allocated
// hours; that share is then spread by calendar-day month overlap.
// Scopes without hours, or a project without any allocated hours,
// contribute nothing rather than erroring.
func ProrateSales(scopes []Scope, totalSales float64) map[string]float64 {
	if totalSales == 0 {
		return map[string]float64{}
	}
	totalHours := 0.0
	hoursByScope := make([]float64, len(scopes))
	for i, s := range scopes {
		hoursByScope[i] = AllocatedHours(s)
		totalHours += hoursByScope[i]
	}
	if totalHours == 0 {
		return map[string]float64{}
	}

	out := make(map[string]float64)
	for i, s := range scopes {
		if hoursByScope[i] == 0 {
			continue
		}
		share := totalSales * hoursByScope[i] / totalHours
		for month, amount := range SalesByMonth(s, share) {
			out[month] += amount
		}
	}
	return out
}
