// Package scenario loads and merges the YAML configuration a simulation run
// consumes: a base config plus an optional scenario file whose keys override
// the base key-by-key. The merge happens once at load time; the engine only
// ever sees the merged, validated result.
package scenario

// Document mirrors the on-disk YAML layout of base_config.yaml and
// scenarios/<name>.yaml. Both files share this shape; a scenario usually
// fills in only the sections it overrides.
type Document struct {
	Simulation         SimulationSpec              `yaml:"simulation"`
	States             map[string]StateSpec        `yaml:"states"`
	Flows              map[string]FlowSpec         `yaml:"flows"`
	Regions            []RegionSpec                `yaml:"regions"`
	PopulationSegments []SegmentSpec               `yaml:"population_segments"`
	FlowRates          map[string]float64          `yaml:"flow_rates"`
	Distributions      map[string]DistributionSpec `yaml:"distributions"`
	SeasonalFactors    map[string]map[int]float64  `yaml:"seasonal_factors"`
	DerivedMetrics     []DerivedMetricSpec         `yaml:"derived_metrics"`
}

// SimulationSpec carries run-level parameters.
type SimulationSpec struct {
	TimeInterval         string `yaml:"time_interval"`
	FiscalYearStartMonth int    `yaml:"fiscal_year_start_month"`
	FiscalYearStartDay   int    `yaml:"fiscal_year_start_day"`
	Seed                 int64  `yaml:"seed"`
}

// StateSpec defines one process state. The map key in Document.States is a
// descriptive label; ID is the identifier flows reference.
type StateSpec struct {
	ID                string `yaml:"id"`
	Name              string `yaml:"name"`
	ResetOnFiscalYear bool   `yaml:"reset_on_fiscal_year"`
}

// FlowSpec defines one directed flow between states.
type FlowSpec struct {
	ID     string `yaml:"id"`
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// RegionSpec defines one region.
type RegionSpec struct {
	RegionID   string `yaml:"region_id"`
	RegionName string `yaml:"region_name"`
}

// SegmentSpec defines one population segment.
type SegmentSpec struct {
	SegmentID      string  `yaml:"segment_id"`
	CohortType     string  `yaml:"cohort_type"`
	RegionID       string  `yaml:"region_id"`
	AgeMin         int     `yaml:"age_min"`
	AgeMax         int     `yaml:"age_max"`
	AgeBracketName string  `yaml:"age_bracket_name"`
	PopulationSize float64 `yaml:"population_size"`
}

// DistributionSpec binds a named statistical distribution to the flow whose
// key it sits under in Document.Distributions.
type DistributionSpec struct {
	Name   string             `yaml:"name"`
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params"`
}

// DerivedMetricSpec defines a derived ratio metric over two state totals.
type DerivedMetricSpec struct {
	ID          string `yaml:"id"`
	Numerator   string `yaml:"numerator"`
	Denominator string `yaml:"denominator"`
}
