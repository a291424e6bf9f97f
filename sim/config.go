package sim

import "time"

// InitialStateID is the state every segment's full population starts in.
const InitialStateID = "eligible"

// Config is the fully merged and validated input to a simulation run,
// produced by the scenario-loading collaborator. Immutable once validated.
type Config struct {
	StartDate time.Time
	EndDate   time.Time
	Interval  TimeInterval

	FiscalYearStartMonth time.Month
	FiscalYearStartDay   int

	// Seed makes the run reproducible: the only nondeterminism in a run is
	// distribution sampling, and it derives entirely from this value.
	Seed int64

	Graph    *Graph
	Regions  []Region
	Segments []PopulationSegment

	Rates         *RateTable
	Seasonal      SeasonalFactors
	Distributions map[string]DistSpec // flow ID → bound distribution
	DerivedRatios []RatioSpec

	ScenarioName string
}

// Validate checks everything that must hold before period 1 executes:
// region references, age ordering, rate coverage for every structurally
// defined flow, distribution specs, seasonal factors, and derived-ratio
// state references. Graph integrity is checked earlier by NewGraph.
func (c *Config) Validate() error {
	if c.Graph == nil {
		return NewConfigurationError("states", "no state graph defined")
	}
	if len(c.Segments) == 0 {
		return NewConfigurationError("population_segments", "no segments defined")
	}
	if !c.Graph.HasState(InitialStateID) {
		return NewConfigurationError("states", "initial state %q is not defined", InitialStateID)
	}

	regionIDs := make(map[string]bool, len(c.Regions))
	for _, r := range c.Regions {
		if r.ID == "" {
			return NewConfigurationError("regions", "region with empty id")
		}
		regionIDs[r.ID] = true
	}
	seen := make(map[string]bool, len(c.Segments))
	for _, seg := range c.Segments {
		field := "population_segments." + seg.ID
		if seg.ID == "" {
			return NewConfigurationError("population_segments", "segment with empty id")
		}
		if seen[seg.ID] {
			return NewConfigurationError(field, "duplicate segment id")
		}
		seen[seg.ID] = true
		if !regionIDs[seg.Region] {
			return NewConfigurationError(field, "unknown region %q", seg.Region)
		}
		if seg.AgeMin > seg.AgeMax {
			return NewConfigurationError(field, "age_min %d exceeds age_max %d", seg.AgeMin, seg.AgeMax)
		}
		if seg.PopulationSize < 0 {
			return NewConfigurationError(field, "negative population size %v", seg.PopulationSize)
		}
	}

	if c.Rates == nil {
		return NewConfigurationError("flow_rates", "no flow rates defined")
	}
	if err := c.Rates.ValidateCoverage(c.Graph.Flows, c.Segments); err != nil {
		return err
	}
	if err := c.Seasonal.Validate(); err != nil {
		return err
	}
	for flowID, spec := range c.Distributions {
		if err := ValidateDistSpec(spec); err != nil {
			return err
		}
		found := false
		for _, f := range c.Graph.Flows {
			if f.ID == flowID {
				found = true
				break
			}
		}
		if !found {
			return NewConfigurationError("distributions."+spec.Name, "unknown flow %q", flowID)
		}
	}
	for _, r := range c.DerivedRatios {
		if !c.Graph.HasState(r.Numerator) || !c.Graph.HasState(r.Denominator) {
			return NewConfigurationError("derived_metrics."+r.ID,
				"ratio references undefined state (%q / %q)", r.Numerator, r.Denominator)
		}
	}
	return nil
}
