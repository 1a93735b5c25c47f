package schedule

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocationsUnmarshalMapShape(t *testing.T) {
	var a Allocations
	require.NoError(t, json.Unmarshal([]byte(`{"2026-01": 80, "2026-02": 40}`), &a))
	require.False(t, a.IsLegacy())
	require.Equal(t, map[string]float64{"2026-01": 80, "2026-02": 40}, a.HoursByMonth(0))
}

func TestAllocationsUnmarshalLegacyShape(t *testing.T) {
	var a Allocations
	require.NoError(t, json.Unmarshal([]byte(`[{"month":"2026-01","percent":25},{"month":"2026-02","percent":75}]`), &a))
	require.True(t, a.IsLegacy())

	hours := a.HoursByMonth(200)
	require.InDelta(t, 50.0, hours["2026-01"], 1e-9)
	require.InDelta(t, 150.0, hours["2026-02"], 1e-9)
}

func TestAllocationsUnmarshalRejectsOtherShapes(t *testing.T) {
	var a Allocations
	require.Error(t, json.Unmarshal([]byte(`"eighty hours"`), &a))
}

func TestAllocationsMarshalWritesMapForm(t *testing.T) {
	data, err := json.Marshal(FromHours(map[string]float64{"2026-01": 80}))
	require.NoError(t, err)
	require.JSONEq(t, `{"2026-01": 80}`, string(data))

	// Zero value still produces a readable map.
	data, err = json.Marshal(Allocations{})
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(data))
}

func TestAllocationsMarshalPreservesLegacy(t *testing.T) {
	a := Allocations{Percents: []PercentAllocation{{Month: "2026-01", Percent: 100}}}
	data, err := json.Marshal(a)
	require.NoError(t, err)
	require.JSONEq(t, `[{"month":"2026-01","percent":100}]`, string(data))

	var back Allocations
	require.NoError(t, json.Unmarshal(data, &back))
	require.True(t, back.IsLegacy())
}
