package sim

import "sort"

// MetricType tags the kind of value a record carries.
type MetricType string

const (
	MetricState     MetricType = "state"
	MetricFlow      MetricType = "flow"
	MetricFinancial MetricType = "financial"
	MetricDerived   MetricType = "derived"
)

// DimensionAll is the token marking an aggregated dimension in a metric
// record (e.g. a per-region rollup has Cohort, AgeBracket and Segment all
// set to "ALL").
const DimensionAll = "ALL"

// MetricRecord is the normalized unit the tracker emits. This is the stable
// schema the CSV/JSON writers depend on; do not alter it without a
// compatibility note.
type MetricRecord struct {
	Period     string     `json:"period"`
	Type       MetricType `json:"type"`
	ID         string     `json:"id"`
	Region     string     `json:"region"`
	Cohort     string     `json:"cohort"`
	AgeBracket string     `json:"age_bracket"`
	Segment    string     `json:"segment"`
	Value      float64    `json:"value"`
}

// Filter selects metric records in a Query. Zero-valued fields match
// anything.
type Filter struct {
	Type       MetricType
	ID         string
	Period     string
	Region     string
	Cohort     string
	AgeBracket string
	Segment    string
}

func (f Filter) matches(r MetricRecord) bool {
	if f.Type != "" && r.Type != f.Type {
		return false
	}
	if f.ID != "" && r.ID != f.ID {
		return false
	}
	if f.Period != "" && r.Period != f.Period {
		return false
	}
	if f.Region != "" && r.Region != f.Region {
		return false
	}
	if f.Cohort != "" && r.Cohort != f.Cohort {
		return false
	}
	if f.AgeBracket != "" && r.AgeBracket != f.AgeBracket {
		return false
	}
	if f.Segment != "" && r.Segment != f.Segment {
		return false
	}
	return true
}

// RatioSpec defines a derived metric: the ratio of two state totals, emitted
// at the grand-total level each period (e.g. enrollment_rate =
// enrolled_inactive / applied).
type RatioSpec struct {
	ID          string
	Numerator   string // state ID
	Denominator string // state ID
}

// Tracker accumulates per-period metric records. Records are append-only:
// past records are never mutated, which makes runs replayable and
// comparisons across seeds exact.
type Tracker struct {
	records []MetricRecord
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{records: make([]MetricRecord, 0)}
}

// RecordState appends one state population record for a segment.
func (t *Tracker) RecordState(period, stateID string, seg PopulationSegment, value float64) {
	t.records = append(t.records, MetricRecord{
		Period:     period,
		Type:       MetricState,
		ID:         stateID,
		Region:     seg.Region,
		Cohort:     seg.Cohort,
		AgeBracket: seg.AgeBracket,
		Segment:    seg.ID,
		Value:      value,
	})
}

// RecordFlow appends one flow movement record for a segment.
func (t *Tracker) RecordFlow(period, flowID string, seg PopulationSegment, value float64) {
	t.records = append(t.records, MetricRecord{
		Period:     period,
		Type:       MetricFlow,
		ID:         flowID,
		Region:     seg.Region,
		Cohort:     seg.Cohort,
		AgeBracket: seg.AgeBracket,
		Segment:    seg.ID,
		Value:      value,
	})
}

// RecordFlowTotal appends the ALL-dimension rollup row for one flow's total
// movement in a period, alongside the per-segment rows from RecordFlow.
// Tabular consumers expect the total row per (flow, period) just as they do
// for state records.
func (t *Tracker) RecordFlowTotal(period, flowID string, value float64) {
	t.records = append(t.records, MetricRecord{
		Period:     period,
		Type:       MetricFlow,
		ID:         flowID,
		Region:     DimensionAll,
		Cohort:     DimensionAll,
		AgeBracket: DimensionAll,
		Segment:    DimensionAll,
		Value:      value,
	})
}

// RecordStateSnapshot appends one record per (segment, state) with nonzero
// population, plus ALL-dimension rollups per region, per cohort, per age
// bracket, and a grand total per state. Downstream tabular consumers expect
// the rollup rows alongside the segment rows.
func (t *Tracker) RecordStateSnapshot(period string, ledger *Ledger, segments []PopulationSegment) {
	byRegion := make(map[string]map[string]float64)  // state → region → total
	byCohort := make(map[string]map[string]float64)  // state → cohort → total
	byBracket := make(map[string]map[string]float64) // state → age bracket → total
	grand := make(map[string]float64)                // state → total

	for _, seg := range segments {
		for _, state := range ledger.states {
			v := ledger.Population(seg.ID, state.ID)
			if v <= 0 {
				continue
			}
			t.RecordState(period, state.ID, seg, v)
			accumulate(byRegion, state.ID, seg.Region, v)
			accumulate(byCohort, state.ID, seg.Cohort, v)
			accumulate(byBracket, state.ID, seg.AgeBracket, v)
			grand[state.ID] += v
		}
	}

	// Rollups iterate sorted dimension values: record order must be
	// identical across runs for the determinism guarantee to be exact.
	for _, state := range ledger.states {
		for _, region := range sortedDims(byRegion[state.ID]) {
			t.appendRollup(period, state.ID, region, DimensionAll, DimensionAll, byRegion[state.ID][region])
		}
		for _, cohort := range sortedDims(byCohort[state.ID]) {
			t.appendRollup(period, state.ID, DimensionAll, cohort, DimensionAll, byCohort[state.ID][cohort])
		}
		for _, bracket := range sortedDims(byBracket[state.ID]) {
			t.appendRollup(period, state.ID, DimensionAll, DimensionAll, bracket, byBracket[state.ID][bracket])
		}
		if v, ok := grand[state.ID]; ok {
			t.appendRollup(period, state.ID, DimensionAll, DimensionAll, DimensionAll, v)
		}
	}
}

// RecordDerivedRatios computes and appends the configured state-ratio
// metrics at the grand-total level. A zero denominator yields no record for
// that ratio.
func (t *Tracker) RecordDerivedRatios(period string, ledger *Ledger, ratios []RatioSpec) {
	for _, r := range ratios {
		den := ledger.StateTotal(r.Denominator)
		if den <= 0 {
			continue
		}
		t.records = append(t.records, MetricRecord{
			Period:     period,
			Type:       MetricDerived,
			ID:         r.ID,
			Region:     DimensionAll,
			Cohort:     DimensionAll,
			AgeBracket: DimensionAll,
			Segment:    DimensionAll,
			Value:      ledger.StateTotal(r.Numerator) / den,
		})
	}
}

// Query returns the records matching the filter, in recording order.
func (t *Tracker) Query(f Filter) []MetricRecord {
	var out []MetricRecord
	for _, r := range t.records {
		if f.matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Records returns a copy of all recorded metrics in recording order.
func (t *Tracker) Records() []MetricRecord {
	out := make([]MetricRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Len returns the number of recorded metrics.
func (t *Tracker) Len() int { return len(t.records) }

func (t *Tracker) appendRollup(period, stateID, region, cohort, bracket string, value float64) {
	t.records = append(t.records, MetricRecord{
		Period:     period,
		Type:       MetricState,
		ID:         stateID,
		Region:     region,
		Cohort:     cohort,
		AgeBracket: bracket,
		Segment:    DimensionAll,
		Value:      value,
	})
}

func sortedDims(m map[string]float64) []string {
	dims := make([]string, 0, len(m))
	for d := range m {
		dims = append(dims, d)
	}
	sort.Strings(dims)
	return dims
}

func accumulate(m map[string]map[string]float64, state, dim string, v float64) {
	if m[state] == nil {
		m[state] = make(map[string]float64)
	}
	m[state][dim] += v
}
