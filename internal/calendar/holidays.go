package calendar

import "time"

// holidays is the static company holiday table, keyed by ISO date.
// Observed dates, not nominal ones, so weekend holidays appear on the
// adjacent weekday. Extend the table when a new year's calendar is
// published.
var holidays = map[string]struct{}{
	// 2024
	"2024-01-01": {}, // New Year's Day
	"2024-05-27": {}, // Memorial Day
	"2024-07-04": {}, // Independence Day
	"2024-09-02": {}, // Labor Day
	"2024-11-28": {}, // Thanksgiving
	"2024-11-29": {}, // Day after Thanksgiving
	"2024-12-25": {}, // Christmas Day

	// 2025
	"2025-01-01": {},
	"2025-05-26": {},
	"2025-07-04": {},
	"2025-09-01": {},
	"2025-11-27": {},
	"2025-11-28": {},
	"2025-12-25": {},

	// 2026
	"2026-01-01": {},
	"2026-05-25": {},
	"2026-07-03": {}, // Independence Day observed
	"2026-09-07": {},
	"2026-11-26": {},
	"2026-11-27": {},
	"2026-12-25": {},

	// 2027
	"2027-01-01": {},
	"2027-05-31": {},
	"2027-07-05": {}, // Independence Day observed
	"2027-09-06": {},
	"2027-11-25": {},
	"2027-11-26": {},
	"2027-12-24": {}, // Christmas observed
}

// IsHoliday reports whether t is on the company holiday table.
func IsHoliday(t time.Time) bool {
	_, ok := holidays[t.Format(ISODate)]
	return ok
}
