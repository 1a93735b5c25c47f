// Package calendar provides weekday- and holiday-aware date arithmetic
// for schedule allocation. All functions operate on civil dates modeled
// as time.Time values at UTC midnight; use Day or ParseISODate to build
// them.
package calendar

import (
	"time"
)

const (
	// ISODate is the canonical day layout used for map keys and storage.
	ISODate = "2006-01-02"
	// ISOMonth is the canonical month layout ("YYYY-MM").
	ISOMonth = "2006-01"
)

// Day builds a civil date at UTC midnight.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the time-of-day component of t, keeping its calendar date.
func Truncate(t time.Time) time.Time {
	return Day(t.Year(), t.Month(), t.Day())
}

// ParseISODate parses a "YYYY-MM-DD" string. Longer timestamps are
// accepted by reading only their leading date portion, so RFC3339
// values from legacy records parse too. Returns false for anything
// that does not start with a valid date.
func ParseISODate(s string) (time.Time, bool) {
	if len(s) > len(ISODate) {
		s = s[:len(ISODate)]
	}
	t, err := time.Parse(ISODate, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseMonth parses a "YYYY-MM" string into the first day of that month.
func ParseMonth(s string) (time.Time, bool) {
	t, err := time.Parse(ISOMonth, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DayKey formats t as "YYYY-MM-DD".
func DayKey(t time.Time) string { return t.Format(ISODate) }

// MonthKey formats t as "YYYY-MM".
func MonthKey(t time.Time) string { return t.Format(ISOMonth) }

// MonthBounds returns the first and last day of a "YYYY-MM" month.
func MonthBounds(month string) (first, last time.Time, ok bool) {
	first, ok = ParseMonth(month)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	last = first.AddDate(0, 1, -1)
	return first, last, true
}

// IsWorkday reports whether t is a Monday through Friday that is not a
// listed holiday.
func IsWorkday(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !IsHoliday(t)
}

// WorkdaysBetween counts workdays in [start, end] inclusive. Returns 0
// when end precedes start.
func WorkdaysBetween(start, end time.Time) int {
	start, end = Truncate(start), Truncate(end)
	n := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if IsWorkday(d) {
			n++
		}
	}
	return n
}

// OverlapDays counts the calendar days (weekends included) in the
// intersection of [aStart, aEnd] and [bStart, bEnd], both inclusive.
// Returns 0 when the ranges do not intersect. This is the counting
// mode used for proportional month spreading; it is deliberately not
// interchangeable with WorkdaysBetween.
func OverlapDays(aStart, aEnd, bStart, bEnd time.Time) int {
	lo := Truncate(aStart)
	if b := Truncate(bStart); b.After(lo) {
		lo = b
	}
	hi := Truncate(aEnd)
	if b := Truncate(bEnd); b.Before(hi) {
		hi = b
	}
	if hi.Before(lo) {
		return 0
	}
	return int(hi.Sub(lo).Hours()/24) + 1
}

// MondayOfWeek returns the Monday of the ISO week containing t.
func MondayOfWeek(t time.Time) time.Time {
	t = Truncate(t)
	offset := (int(t.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return t.AddDate(0, 0, -offset)
}

// WeekStartsOfMonth returns the Mondays belonging to a "YYYY-MM" month,
// in order. A month's first week starts on the first Monday on or after
// the 1st; days before that Monday belong to no week of the month.
func WeekStartsOfMonth(month string) []time.Time {
	first, last, ok := MonthBounds(month)
	if !ok {
		return nil
	}
	start := MondayOfWeek(first)
	if start.Before(first) {
		start = start.AddDate(0, 0, 7)
	}
	var mondays []time.Time
	for d := start; !d.After(last); d = d.AddDate(0, 0, 7) {
		mondays = append(mondays, d)
	}
	return mondays
}

// EachDay calls fn for every calendar day in [start, end] inclusive.
func EachDay(start, end time.Time, fn func(time.Time)) {
	start, end = Truncate(start), Truncate(end)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}
