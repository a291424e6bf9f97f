package sim

import (
	"testing"
	"time"
)

// testStates is the standard program pipeline used across tests.
func testStates() []ProcessState {
	return []ProcessState{
		{ID: "eligible", Name: "Eligible Population"},
		{ID: "applied", Name: "Applied Population"},
		{ID: "enrolled_inactive", Name: "Enrolled Inactive Population", ResetOnFiscalYear: true},
		{ID: "active_claimant", Name: "Active Claimant Population", ResetOnFiscalYear: true},
	}
}

func testFlows() []Flow {
	return []Flow{
		{ID: "new_applications", Source: "eligible", Target: "applied"},
		{ID: "new_enrollments", Source: "applied", Target: "enrolled_inactive"},
		{ID: "new_first_claimants", Source: "enrolled_inactive", Target: "active_claimant"},
	}
}

func testGraph(t *testing.T) *Graph {
	t.Helper()
	g, err := NewGraph(testStates(), testFlows())
	if err != nil {
		t.Fatalf("building test graph: %v", err)
	}
	return g
}

func seniorsOntario() PopulationSegment {
	return PopulationSegment{
		ID:             "seniors_65plus_on",
		Cohort:         "seniors",
		Region:         "on",
		AgeMin:         65,
		AgeMax:         120,
		AgeBracket:     "65plus",
		PopulationSize: 100000,
	}
}

func pwdBC() PopulationSegment {
	return PopulationSegment{
		ID:             "pwd_18to64_bc",
		Cohort:         "pwd",
		Region:         "bc",
		AgeMin:         18,
		AgeMax:         64,
		AgeBracket:     "18to64",
		PopulationSize: 40000,
	}
}

func testRates() map[string]float64 {
	return map[string]float64{
		"new_applications":    0.05,
		"new_enrollments":     0.8,
		"new_first_claimants": 0.3,
	}
}

// testConfig builds a one-fiscal-year monthly run over two segments with
// global default rates and no distributions.
func testConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		StartDate:            time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:              time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		Interval:             IntervalMonthly,
		FiscalYearStartMonth: time.April,
		FiscalYearStartDay:   1,
		Seed:                 42,
		Graph:                testGraph(t),
		Regions:              []Region{{ID: "on", Name: "Ontario"}, {ID: "bc", Name: "British Columbia"}},
		Segments:             []PopulationSegment{seniorsOntario(), pwdBC()},
		Rates:                NewRateTable(testRates()),
	}
}
