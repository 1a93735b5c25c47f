package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/slateworks/crewplan/internal/domain/scope"
)

func ganttScope(jobKey string) scope.Scope {
	return scope.Scope{
		ID:        "sc-1",
		JobKey:    jobKey,
		Title:     "Piping",
		StartDate: "2026-01-05",
		EndDate:   "2026-01-09",
		Hours:     50,
	}
}

func byDate(assignments []Assignment) map[string]Assignment {
	out := make(map[string]Assignment, len(assignments))
	for _, a := range assignments {
		out[a.Date] = a
	}
	return out
}

func TestResolveGanttOnly(t *testing.T) {
	job := "Acme Co~101~North Plant"
	out := Resolve(Inputs{ScopesByJob: map[string][]scope.Scope{job: {ganttScope(job)}}})

	require.Len(t, out, 5)
	for _, a := range out {
		require.Equal(t, job, a.JobKey)
		require.Equal(t, 10.0, a.Hours)
		require.Equal(t, SourceGantt, a.Source)
	}
	require.Equal(t, "2026-01-05", out[0].Date)
	require.Equal(t, "2026-01-09", out[4].Date)
}

func TestResolveWrittenDayWins(t *testing.T) {
	job := "Acme Co~101~North Plant"
	out := Resolve(Inputs{
		ScopesByJob: map[string][]scope.Scope{job: {ganttScope(job)}},
		ShortTerm: []ShortTermDoc{{
			JobKey: job,
			Month:  "2026-01",
			Weeks: []ShortTermWeek{{
				WeekNumber: 1,
				Days: []ShortTermDay{
					{DayNumber: 2, Hours: 4, Foreman: "Reyes", Employees: []string{"Cho", "Ortiz"}},
				},
			}},
		}},
	})

	days := byDate(out)
	require.Len(t, out, 5)
	require.Equal(t, 4.0, days["2026-01-06"].Hours)
	require.Equal(t, SourceShortTerm, days["2026-01-06"].Source)
	require.Equal(t, "Reyes", days["2026-01-06"].Foreman)
	require.Equal(t, []string{"Cho", "Ortiz"}, days["2026-01-06"].Employees)
	require.Equal(t, 10.0, days["2026-01-05"].Hours)
}

func TestResolveZeroClearResurfacesScopeHours(t *testing.T) {
	job := "Acme Co~101~North Plant"
	shortTerm := []ShortTermDoc{{
		JobKey: job,
		Month:  "2026-01",
		Weeks: []ShortTermWeek{{
			WeekNumber: 1,
			Days:       []ShortTermDay{{DayNumber: 1, Hours: 0}},
		}},
	}}

	// The stored zero is not permanent: the still-valid scope re-derives
	// the day on every resolve.
	out := Resolve(Inputs{
		ScopesByJob: map[string][]scope.Scope{job: {ganttScope(job)}},
		ShortTerm:   shortTerm,
	})
	require.Len(t, out, 5)
	days := byDate(out)
	require.Equal(t, 10.0, days["2026-01-05"].Hours)
	require.Equal(t, SourceGantt, days["2026-01-05"].Source)
}

func TestResolveZeroClearSuppressesUncoveredDay(t *testing.T) {
	job := "Beta Corp~~South Yard"
	shortTerm := []ShortTermDoc{{
		JobKey: job,
		Month:  "2026-02",
		Weeks: []ShortTermWeek{{
			WeekNumber: 1,
			Days:       []ShortTermDay{{DayNumber: 1, Hours: 0}},
		}},
	}}

	// No scope covers the cleared day, so the zero holds and also blocks
	// the long-term fallback for it.
	out := Resolve(Inputs{
		ShortTerm: shortTerm,
		LongTerm: []LongTermDoc{{
			JobKey: job,
			Month:  "2026-02",
			Weeks:  []LongTermWeek{{WeekNumber: 1, Hours: 40}},
		}},
	})
	require.Len(t, out, 4)
	for _, a := range out {
		require.NotEqual(t, "2026-02-02", a.Date)
		require.Equal(t, SourceLongTerm, a.Source)
	}
}

func TestResolveLongTermFallback(t *testing.T) {
	job := "Beta Corp~~South Yard"
	out := Resolve(Inputs{
		LongTerm: []LongTermDoc{{
			JobKey: job,
			Month:  "2026-02",
			Weeks:  []LongTermWeek{{WeekNumber: 1, Hours: 40}},
		}},
	})

	// Week 1 of February 2026 starts Monday the 2nd.
	require.Len(t, out, 5)
	days := byDate(out)
	for i := 0; i < 5; i++ {
		date := time.Date(2026, time.February, 2+i, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		require.InDelta(t, 8.0, days[date].Hours, 1e-9)
		require.Equal(t, SourceLongTerm, days[date].Source)
	}
}

func TestResolveScopeDisablesLongTermEverywhere(t *testing.T) {
	job := "Acme Co~101~North Plant"
	out := Resolve(Inputs{
		ScopesByJob: map[string][]scope.Scope{job: {ganttScope(job)}},
		LongTerm: []LongTermDoc{{
			JobKey: job,
			Month:  "2026-03",
			Weeks:  []LongTermWeek{{WeekNumber: 1, Hours: 40}},
		}},
	})

	// A valid scope in January kills the March long-term bucket too.
	require.Len(t, out, 5)
	for _, a := range out {
		require.Equal(t, SourceGantt, a.Source)
	}
}

func TestResolveShortTermWinsOverLongTerm(t *testing.T) {
	job := "Beta Corp~~South Yard"
	out := Resolve(Inputs{
		ShortTerm: []ShortTermDoc{{
			JobKey: job,
			Month:  "2026-02",
			Weeks: []ShortTermWeek{{
				WeekNumber: 1,
				Days:       []ShortTermDay{{DayNumber: 1, Hours: 12}},
			}},
		}},
		LongTerm: []LongTermDoc{{
			JobKey: job,
			Month:  "2026-02",
			Weeks:  []LongTermWeek{{WeekNumber: 1, Hours: 40}},
		}},
	})

	days := byDate(out)
	require.Equal(t, 12.0, days["2026-02-02"].Hours)
	require.Equal(t, SourceShortTerm, days["2026-02-02"].Source)
	require.InDelta(t, 8.0, days["2026-02-03"].Hours, 1e-9)
	require.Equal(t, SourceLongTerm, days["2026-02-03"].Source)
}

func TestResolveIdempotent(t *testing.T) {
	job := "Acme Co~101~North Plant"
	in := Inputs{
		ScopesByJob: map[string][]scope.Scope{
			job:                     {ganttScope(job)},
			"Beta Corp~~South Yard": {{ID: "sc-2", JobKey: "Beta Corp~~South Yard", StartDate: "2026-01-05", EndDate: "2026-01-06", Manpower: 2}},
		},
	}

	first := Resolve(in)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Resolve(in))
	}
	// Sorted by date then job key.
	require.Equal(t, "Acme Co~101~North Plant", first[0].JobKey)
	require.Equal(t, "Beta Corp~~South Yard", first[1].JobKey)
}

func TestResolveSkipsInvalidOverrideCells(t *testing.T) {
	job := "Acme Co~101~North Plant"
	out := Resolve(Inputs{
		ShortTerm: []ShortTermDoc{{
			JobKey: job,
			Month:  "2026-01",
			Weeks: []ShortTermWeek{
				{WeekNumber: 9, Days: []ShortTermDay{{DayNumber: 1, Hours: 8}}},
				{WeekNumber: 1, Days: []ShortTermDay{{DayNumber: 7, Hours: 8}}},
			},
		}},
	})
	require.Empty(t, out)
}

func TestMonthsTouched(t *testing.T) {
	start := time.Date(2025, time.November, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.February, 3, 0, 0, 0, 0, time.UTC)
	require.Equal(t, []string{"2025-11", "2025-12", "2026-01", "2026-02"}, MonthsTouched(start, end))

	require.Nil(t, MonthsTouched(end, start))
	require.Equal(t, []string{"2026-01"}, MonthsTouched(
		time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
	))
}

func TestOverrideDateMapping(t *testing.T) {
	day := ShortTermDay{DayNumber: 3}
	date, ok := day.Date("2026-01", 2)
	require.True(t, ok)
	require.Equal(t, "2026-01-14", date.Format("2006-01-02"))

	_, ok = day.Date("2026-01", 5)
	require.False(t, ok)

	_, ok = ShortTermDay{DayNumber: 0}.Date("2026-01", 1)
	require.False(t, ok)
}
