package schedule

import (
	"encoding/json"
	"fmt"
)

// Allocations is the month-bucket field of an Aggregate. Two wire
// shapes exist and both must stay readable: the current form is a map
// of "YYYY-MM" to hours, the legacy form is a list of
// {month, percent} entries describing shares of TotalHours. Writes
// always produce the map form.
type Allocations struct {
	Hours    map[string]float64
	Percents []PercentAllocation
}

// PercentAllocation is one legacy percent-based month entry.
type PercentAllocation struct {
	Month   string  `json:"month"`
	Percent float64 `json:"percent"`
}

// IsLegacy reports whether the record carries percent-based data.
func (a Allocations) IsLegacy() bool {
	return a.Hours == nil && a.Percents != nil
}

// HoursByMonth normalizes either shape to hours per month. Legacy
// percent entries are resolved against totalHours. This is the single
// read path for the field; nothing else interprets the union.
func (a Allocations) HoursByMonth(totalHours float64) map[string]float64 {
	out := make(map[string]float64, len(a.Hours)+len(a.Percents))
	for month, hours := range a.Hours {
		out[month] += hours
	}
	for _, p := range a.Percents {
		out[p.Month] += totalHours * p.Percent / 100
	}
	return out
}

// FromHours builds the current map form.
func FromHours(hours map[string]float64) Allocations {
	if hours == nil {
		hours = map[string]float64{}
	}
	return Allocations{Hours: hours}
}

// UnmarshalJSON accepts either wire shape.
func (a *Allocations) UnmarshalJSON(data []byte) error {
	var asMap map[string]float64
	if err := json.Unmarshal(data, &asMap); err == nil {
		a.Hours = asMap
		a.Percents = nil
		return nil
	}
	var asList []PercentAllocation
	if err := json.Unmarshal(data, &asList); err == nil {
		a.Hours = nil
		a.Percents = asList
		return nil
	}
	return fmt.Errorf("allocations: unrecognized shape: %s", string(data))
}

// MarshalJSON writes the map form unless the record is still legacy.
func (a Allocations) MarshalJSON() ([]byte, error) {
	if a.IsLegacy() {
		return json.Marshal(a.Percents)
	}
	if a.Hours == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(a.Hours)
}
