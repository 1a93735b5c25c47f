package schedule

import (
	"sort"
	"time"

	"github.com/slateworks/crewplan/internal/calendar"
	"github.com/slateworks/crewplan/internal/domain/scope"
)

// Inputs carries everything the resolver reads for one pass. All three
// sources may overlap on the same (jobKey, day); precedence decides.
type Inputs struct {
	ScopesByJob map[string][]scope.Scope
	ShortTerm   []ShortTermDoc
	LongTerm    []LongTermDoc
}

// Resolve reconciles the three scheduling sources into one per-day view.
// Precedence per (jobKey, day), highest first:
//
//  1. an explicitly written short-term day — an hours value, even 0,
//     counts as "known", and 0 suppresses the project from that day
//     unless a still-valid scope re-derives hours for it;
//  2. the Gantt-derived allocation from the project's scopes;
//  3. long-term weekly buckets split evenly over the week's five
//     workdays, but only for projects with no valid scope range at
//     all — one valid scope disables long-term everywhere.
//
// Zero-hour rows are filtered from the result, so a short-term clear on
// a day that a still-valid scope covers re-surfaces the scope-derived
// hours on the next resolve. That undo-of-a-clear behavior is a
// contract, not an accident.
//
// The output is sorted by (date, jobKey), making Resolve idempotent on
// identical inputs.
func Resolve(in Inputs) []Assignment {
	written := indexShortTerm(in.ShortTerm)

	jobs := make(map[string]struct{})
	for key := range in.ScopesByJob {
		jobs[key] = struct{}{}
	}
	for key := range written {
		jobs[key] = struct{}{}
	}
	for _, doc := range in.LongTerm {
		jobs[doc.JobKey] = struct{}{}
	}

	longTermByJob := make(map[string][]LongTermDoc)
	for _, doc := range in.LongTerm {
		longTermByJob[doc.JobKey] = append(longTermByJob[doc.JobKey], doc)
	}

	var out []Assignment
	for jobKey := range jobs {
		out = append(out, resolveJob(jobKey, in.ScopesByJob[jobKey], written[jobKey], longTermByJob[jobKey])...)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].JobKey < out[j].JobKey
	})
	return out
}

func resolveJob(jobKey string, scopes []scope.Scope, written map[string]ShortTermDay, longTerm []LongTermDoc) []Assignment {
	gantt := scope.AllocateProject(scopes)

	days := make(map[string]struct{}, len(gantt)+len(written))
	for day := range gantt {
		days[day] = struct{}{}
	}
	for day := range written {
		days[day] = struct{}{}
	}

	// Long-term only feeds days for projects without any valid scope.
	var longFallback map[string]float64
	if !scope.HasValidRange(scopes) {
		longFallback = expandLongTerm(longTerm)
		for day := range longFallback {
			days[day] = struct{}{}
		}
	}

	var out []Assignment
	for day := range days {
		if st, ok := written[day]; ok {
			if st.Hours > 0 {
				out = append(out, Assignment{
					JobKey:    jobKey,
					Date:      day,
					Hours:     st.Hours,
					Foreman:   st.Foreman,
					Employees: st.Employees,
					Source:    SourceShortTerm,
				})
				continue
			}
			// A clear (hours 0, no foreman) is undone when the Gantt
			// data still implies hours on that day. It still blocks
			// the long-term fallback.
			if st.Foreman == "" {
				if h := gantt[day]; h > 0 {
					out = append(out, Assignment{JobKey: jobKey, Date: day, Hours: h, Source: SourceGantt})
				}
			}
			continue
		}
		if h := gantt[day]; h > 0 {
			out = append(out, Assignment{JobKey: jobKey, Date: day, Hours: h, Source: SourceGantt})
			continue
		}
		if h := longFallback[day]; h > 0 {
			out = append(out, Assignment{JobKey: jobKey, Date: day, Hours: h, Source: SourceLongTerm})
		}
	}
	return out
}

// indexShortTerm flattens the override grids into explicitly written
// days keyed by jobKey then ISO date. Later documents for the same day
// overwrite earlier ones, mirroring the store's one-doc-per-month rule.
func indexShortTerm(docs []ShortTermDoc) map[string]map[string]ShortTermDay {
	out := make(map[string]map[string]ShortTermDay)
	for _, doc := range docs {
		for _, week := range doc.Weeks {
			for _, day := range week.Days {
				date, ok := day.Date(doc.Month, week.WeekNumber)
				if !ok {
					continue
				}
				byDay := out[doc.JobKey]
				if byDay == nil {
					byDay = make(map[string]ShortTermDay)
					out[doc.JobKey] = byDay
				}
				byDay[calendar.DayKey(date)] = day
			}
		}
	}
	return out
}

// expandLongTerm spreads each weekly bucket evenly across that week's
// five weekdays (hours/5), keyed by ISO date.
func expandLongTerm(docs []LongTermDoc) map[string]float64 {
	out := make(map[string]float64)
	for _, doc := range docs {
		mondays := calendar.WeekStartsOfMonth(doc.Month)
		for _, week := range doc.Weeks {
			if week.WeekNumber < 1 || week.WeekNumber > len(mondays) || week.Hours <= 0 {
				continue
			}
			daily := week.Hours / 5
			monday := mondays[week.WeekNumber-1]
			for i := 0; i < 5; i++ {
				out[calendar.DayKey(monday.AddDate(0, 0, i))] += daily
			}
		}
	}
	return out
}

// MonthsTouched lists the "YYYY-MM" months a date range covers, for
// fetching the override documents relevant to a resolve window.
func MonthsTouched(start, end time.Time) []string {
	if end.Before(start) {
		return nil
	}
	var months []string
	for m := calendar.Day(start.Year(), start.Month(), 1); !m.After(end); m = m.AddDate(0, 1, 0) {
		months = append(months, calendar.MonthKey(m))
	}
	return months
}
