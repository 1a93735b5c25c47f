package wip

import (
	"sort"

	"github.com/slateworks/crewplan/internal/calendar"
)

// forecastWindow is how many trailing months feed the regression;
// forecastHorizon is how many months it projects forward.
const (
	forecastWindow  = 6
	forecastHorizon = 3
)

// MonthForecast is one projected trendline point.
type MonthForecast struct {
	Month string  `json:"month"`
	Hours float64 `json:"hours"`
}

// Forecast fits a linear regression over the last up-to-six months of
// scheduled hours and projects three months forward. Display-only: it
// feeds a trendline, never the budget math. Negative projections clamp
// to zero. Returns nil when there is no history.
func Forecast(byMonth map[string]float64) []MonthForecast {
	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		if _, ok := calendar.ParseMonth(m); ok {
			months = append(months, m)
		}
	}
	if len(months) == 0 {
		return nil
	}
	sort.Strings(months)
	if len(months) > forecastWindow {
		months = months[len(months)-forecastWindow:]
	}

	n := float64(len(months))
	var sumX, sumY, sumXY, sumXX float64
	for i, m := range months {
		x, y := float64(i), byMonth[m]
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	// Least squares; a single data point degenerates to a flat line.
	var slope float64
	if denom := n*sumXX - sumX*sumX; denom != 0 {
		slope = (n*sumXY - sumX*sumY) / denom
	}
	intercept := (sumY - slope*sumX) / n

	last, _ := calendar.ParseMonth(months[len(months)-1])
	out := make([]MonthForecast, 0, forecastHorizon)
	for i := 1; i <= forecastHorizon; i++ {
		x := n - 1 + float64(i)
		hours := intercept + slope*x
		if hours < 0 {
			hours = 0
		}
		out = append(out, MonthForecast{
			Month: calendar.MonthKey(last.AddDate(0, i, 0)),
			Hours: hours,
		})
	}
	return out
}
