package scenario

import (
	"sort"
	"time"

	"github.com/gc-ohds/expenditure-forecast/sim"
)

// RunOverrides carries the CLI-level parameters that are not part of the
// configuration files.
type RunOverrides struct {
	StartDate    string // YYYY-MM-DD, required
	EndDate      string // YYYY-MM-DD, required
	TimeInterval string // empty = use config, else MONTHLY/QUARTERLY/ANNUAL
	Seed         *int64 // nil = use config seed
	ScenarioName string
}

// Build converts a merged Document into the engine's immutable Config and
// validates it. Every ConfigurationError a scenario can cause surfaces here,
// before a Simulator is constructed.
func Build(doc *Document, overrides RunOverrides) (*sim.Config, error) {
	start, err := parseDate("start date", overrides.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end date", overrides.EndDate)
	if err != nil {
		return nil, err
	}

	intervalStr := doc.Simulation.TimeInterval
	if overrides.TimeInterval != "" {
		intervalStr = overrides.TimeInterval
	}
	interval, err := sim.ParseTimeInterval(intervalStr)
	if err != nil {
		return nil, err
	}

	states := make([]sim.ProcessState, 0, len(doc.States))
	for _, key := range sortedKeys(doc.States) {
		s := doc.States[key]
		states = append(states, sim.ProcessState{
			ID:                s.ID,
			Name:              s.Name,
			ResetOnFiscalYear: s.ResetOnFiscalYear,
		})
	}
	flows := make([]sim.Flow, 0, len(doc.Flows))
	for _, key := range sortedKeys(doc.Flows) {
		f := doc.Flows[key]
		flows = append(flows, sim.Flow{ID: f.ID, Source: f.Source, Target: f.Target})
	}
	graph, err := sim.NewGraph(states, flows)
	if err != nil {
		return nil, err
	}

	regions := make([]sim.Region, 0, len(doc.Regions))
	for _, r := range doc.Regions {
		regions = append(regions, sim.Region{ID: r.RegionID, Name: r.RegionName})
	}
	segments := make([]sim.PopulationSegment, 0, len(doc.PopulationSegments))
	for _, s := range doc.PopulationSegments {
		segments = append(segments, sim.PopulationSegment{
			ID:             s.SegmentID,
			Cohort:         s.CohortType,
			Region:         s.RegionID,
			AgeMin:         s.AgeMin,
			AgeMax:         s.AgeMax,
			AgeBracket:     s.AgeBracketName,
			PopulationSize: s.PopulationSize,
		})
	}

	seasonal := make(sim.SeasonalFactors, len(doc.SeasonalFactors))
	for flowID, byMonth := range doc.SeasonalFactors {
		factors := make(map[time.Month]float64, len(byMonth))
		for month, v := range byMonth {
			if month < 1 || month > 12 {
				return nil, sim.NewConfigurationError("seasonal_factors."+flowID,
					"month %d out of range", month)
			}
			factors[time.Month(month)] = v
		}
		seasonal[flowID] = factors
	}

	dists := make(map[string]sim.DistSpec, len(doc.Distributions))
	for flowID, d := range doc.Distributions {
		name := d.Name
		if name == "" {
			name = flowID
		}
		dists[flowID] = sim.DistSpec{Name: name, Type: d.Type, Params: d.Params}
	}

	ratios := defaultRatios(graph)
	if len(doc.DerivedMetrics) > 0 {
		ratios = ratios[:0]
		for _, r := range doc.DerivedMetrics {
			ratios = append(ratios, sim.RatioSpec{
				ID:          r.ID,
				Numerator:   r.Numerator,
				Denominator: r.Denominator,
			})
		}
	}

	fyMonth := doc.Simulation.FiscalYearStartMonth
	if fyMonth == 0 {
		fyMonth = 4 // April, the program's benefit-year start
	}
	fyDay := doc.Simulation.FiscalYearStartDay
	if fyDay == 0 {
		fyDay = 1
	}
	seed := doc.Simulation.Seed
	if overrides.Seed != nil {
		seed = *overrides.Seed
	}

	cfg := &sim.Config{
		StartDate:            start,
		EndDate:              end,
		Interval:             interval,
		FiscalYearStartMonth: time.Month(fyMonth),
		FiscalYearStartDay:   fyDay,
		Seed:                 seed,
		Graph:                graph,
		Regions:              regions,
		Segments:             segments,
		Rates:                sim.NewRateTable(doc.FlowRates),
		Seasonal:             seasonal,
		Distributions:        dists,
		DerivedRatios:        ratios,
		ScenarioName:         overrides.ScenarioName,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// defaultRatios derives the standard program health ratios when the states
// they read are present. A scenario can replace them via derived_metrics.
func defaultRatios(graph *sim.Graph) []sim.RatioSpec {
	candidates := []sim.RatioSpec{
		{ID: "application_rate", Numerator: "applied", Denominator: "eligible"},
		{ID: "enrollment_rate", Numerator: "enrolled_inactive", Denominator: "applied"},
		{ID: "claiming_rate", Numerator: "active_claimant", Denominator: "enrolled_inactive"},
	}
	var out []sim.RatioSpec
	for _, r := range candidates {
		if graph.HasState(r.Numerator) && graph.HasState(r.Denominator) {
			out = append(out, r)
		}
	}
	return out
}

// sortedKeys keeps graph construction order stable regardless of YAML map
// iteration order; determinism depends on it.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func parseDate(what, s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, sim.NewConfigurationError(what, "invalid date %q (want YYYY-MM-DD)", s)
	}
	return t.UTC(), nil
}
