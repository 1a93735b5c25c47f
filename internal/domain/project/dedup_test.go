package project_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/slateworks/crewplan/internal/domain/project"
)

func item(id, customer, number, name string, status project.Status, hours float64) project.LineItem {
	return project.LineItem{
		ID:            id,
		Customer:      customer,
		ProjectNumber: number,
		ProjectName:   name,
		Status:        status,
		Hours:         hours,
		Sales:         hours * 100,
		Cost:          hours * 60,
		Estimator:     "MK",
		DateCreated:   "2025-06-01",
	}
}

func TestDeduplicatePriorityStatusWins(t *testing.T) {
	// Two customers share identifier "1"; X holds a priority status and
	// must win no matter which record is read first.
	items := []project.LineItem{
		item("a", "Y", "1", "Foo", project.StatusBidSubmitted, 200),
		item("b", "X", "1", "Foo", project.StatusInProgress, 120),
	}

	for _, order := range [][]project.LineItem{items, {items[1], items[0]}} {
		got := project.Deduplicate(order, project.ExclusionConfig{})
		require.Len(t, got, 1)
		require.Equal(t, "X", got[0].Customer)
		require.Equal(t, project.JobKey("X", "1", "Foo"), got[0].JobKey)
		require.Equal(t, 120.0, got[0].Hours)
	}
}

func TestDeduplicateRecencyThenAlphabetical(t *testing.T) {
	items := []project.LineItem{
		item("a", "Beta Corp", "77", "Warehouse", project.StatusEstimating, 10),
		item("b", "Alpha LLC", "77", "Warehouse", project.StatusBidSubmitted, 20),
	}
	items[0].DateCreated = "2025-01-15"
	items[1].DateCreated = "2025-03-01"

	got := project.Deduplicate(items, project.ExclusionConfig{})
	require.Len(t, got, 1)
	require.Equal(t, "Alpha LLC", got[0].Customer, "latest dateCreated wins")

	// Equal dates: alphabetical ascending breaks the tie.
	items[0].DateCreated = "2025-03-01"
	got = project.Deduplicate(items, project.ExclusionConfig{})
	require.Len(t, got, 1)
	require.Equal(t, "Alpha LLC", got[0].Customer)
}

func TestDeduplicateSumsLineItems(t *testing.T) {
	items := []project.LineItem{
		item("a", "X", "9", "Plant", project.StatusAccepted, 100),
		item("b", "X", "9", "Plant", project.StatusAccepted, 40),
		item("c", "X", "9", "Plant", project.StatusAccepted, 10),
	}
	items[0].ScopeOfWork = "Piping"

	got := project.Deduplicate(items, project.ExclusionConfig{})
	require.Len(t, got, 1)
	require.Equal(t, 150.0, got[0].Hours)
	require.Equal(t, 15000.0, got[0].Sales)
	require.Equal(t, 9000.0, got[0].Cost)
	require.Equal(t, 3, got[0].LineItems)
	require.Equal(t, "Piping", got[0].ScopeOfWork)
}

func TestDeduplicateExclusions(t *testing.T) {
	cfg := project.ExclusionConfig{
		CustomerSubstrings: []string{"do not use"},
		ProjectNames:       []string{"TEST PROJECT"},
		ProjectNumbers:     []string{"0000"},
		Estimators:         []string{"house"},
	}

	archived := item("a", "X", "1", "Real", project.StatusAccepted, 10)
	archived.Archived = true
	blockedCustomer := item("b", "Acme (DO NOT USE)", "2", "Real", project.StatusAccepted, 10)
	sentinelName := item("c", "X", "3", "test project cloned", project.StatusAccepted, 10)
	blockedNumber := item("d", "X", "0000", "Real", project.StatusAccepted, 10)
	noEstimator := item("e", "X", "5", "Real", project.StatusAccepted, 10)
	noEstimator.Estimator = ""
	houseEstimator := item("f", "X", "6", "Real", project.StatusAccepted, 10)
	houseEstimator.Estimator = "House"
	keeper := item("g", "X", "7", "Real", project.StatusAccepted, 10)

	got := project.Deduplicate([]project.LineItem{
		archived, blockedCustomer, sentinelName, blockedNumber, noEstimator, houseEstimator, keeper,
	}, cfg)
	require.Len(t, got, 1)
	require.Equal(t, "7", got[0].ProjectNumber)
}

func TestDeduplicateShuffleStable(t *testing.T) {
	base := []project.LineItem{
		item("a", "X", "1", "Foo", project.StatusInProgress, 120),
		item("b", "Y", "1", "Foo", project.StatusBidSubmitted, 200),
		item("c", "X", "1", "Foo", project.StatusInProgress, 30),
		item("d", "Alpha", "", "Standalone", project.StatusEstimating, 15),
		item("e", "Beta", "", "Standalone", project.StatusEstimating, 25),
		item("f", "Z", "42", "Tower", project.StatusComplete, 500),
	}

	want := project.Deduplicate(base, project.ExclusionConfig{})
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 25; i++ {
		shuffled := append([]project.LineItem(nil), base...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		require.Equal(t, want, project.Deduplicate(shuffled, project.ExclusionConfig{}), "iteration %d", i)
	}
}

func TestJobKeyNormalization(t *testing.T) {
	require.Equal(t, project.JobKey(" Acme  Co ", "101", "North   Plant"), project.JobKey("Acme Co", " 101", "North Plant"))
	require.Equal(t, "Acme Co~101~North Plant", project.JobKey(" Acme  Co ", "101 ", "North  Plant"))
}

func TestSanitizeDocKey(t *testing.T) {
	require.Equal(t, "AcmeCo101NorthPlant", project.SanitizeDocKey("Acme Co~101~North Plant"))
	require.Equal(t, "job_key-1", project.SanitizeDocKey("job_key-1"))
}
