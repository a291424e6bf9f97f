package sim

import (
	"strings"
	"time"
)

// WildcardAge is the literal token in a rate key meaning "all age brackets
// for this cohort in this region".
const WildcardAge = "all"

// RateKey identifies one layered flow-rate override. Flat config keys such
// as "new_applications_seniors_65plus_on" are never parsed; keys are only
// ever generated from a (flow, segment) pair, which removes any ambiguity
// about construction order.
type RateKey struct {
	FlowID     string
	Cohort     string
	AgeBracket string
	Region     string
}

// String renders the canonical flat form used in configuration files:
// segments joined by underscores, empty components omitted right-to-left.
func (k RateKey) String() string {
	parts := []string{k.FlowID}
	if k.Cohort != "" {
		parts = append(parts, k.Cohort)
	}
	if k.AgeBracket != "" {
		parts = append(parts, k.AgeBracket)
	}
	if k.Region != "" {
		parts = append(parts, k.Region)
	}
	return strings.Join(parts, "_")
}

// rateKeyCandidates generates lookup keys in precedence order, most specific
// first:
//
//  1. segment-exact: flow + cohort + age bracket + region
//  2. cohort+region with the age bracket wildcarded ("all")
//  3. cohort + age bracket, all regions
//  4. cohort alone, all regions and ages
//  5. global default: flow alone
//
// Level 2 deliberately outranks level 3: a region tuning its own program
// wins over a nationwide demographic default when both could match.
func rateKeyCandidates(flowID string, seg PopulationSegment) []RateKey {
	return []RateKey{
		{FlowID: flowID, Cohort: seg.Cohort, AgeBracket: seg.AgeBracket, Region: seg.Region},
		{FlowID: flowID, Cohort: seg.Cohort, AgeBracket: WildcardAge, Region: seg.Region},
		{FlowID: flowID, Cohort: seg.Cohort, AgeBracket: seg.AgeBracket},
		{FlowID: flowID, Cohort: seg.Cohort},
		{FlowID: flowID},
	}
}

// RateTable is the flat mapping of flow-rate override keys to base rates,
// already merged base+scenario at load time. Immutable during a run.
type RateTable struct {
	rates map[string]float64
}

// NewRateTable wraps a merged flow-rate mapping.
func NewRateTable(rates map[string]float64) *RateTable {
	return &RateTable{rates: rates}
}

// Resolve returns the base rate for a flow and segment by specificity
// precedence, along with the matched key. The first match wins; there is no
// blending across levels.
func (t *RateTable) Resolve(flowID string, seg PopulationSegment) (float64, RateKey, bool) {
	for _, key := range rateKeyCandidates(flowID, seg) {
		if rate, ok := t.rates[key.String()]; ok {
			return rate, key, true
		}
	}
	return 0, RateKey{}, false
}

// ValidateCoverage checks that every structurally defined flow resolves to a
// rate for every segment. A missing entry is a ConfigurationError, not a
// silent zero.
func (t *RateTable) ValidateCoverage(flows []Flow, segments []PopulationSegment) error {
	for _, flow := range flows {
		for _, seg := range segments {
			if _, _, ok := t.Resolve(flow.ID, seg); !ok {
				return NewConfigurationError("flow_rates."+flow.ID,
					"no rate at any precedence level for segment %q", seg.ID)
			}
		}
	}
	return nil
}

// SeasonalFactors maps flow ID → month → rate multiplier. Months without an
// entry default to 1.0.
type SeasonalFactors map[string]map[time.Month]float64

// Factor returns the seasonal multiplier for a flow in a given month.
func (f SeasonalFactors) Factor(flowID string, month time.Month) float64 {
	if byMonth, ok := f[flowID]; ok {
		if v, ok := byMonth[month]; ok {
			return v
		}
	}
	return 1.0
}

// Validate rejects negative multipliers.
func (f SeasonalFactors) Validate() error {
	for flowID, byMonth := range f {
		for month, v := range byMonth {
			if v < 0 {
				return NewConfigurationError("seasonal_factors."+flowID,
					"month %d multiplier %v must be >= 0", month, v)
			}
		}
	}
	return nil
}

// RateResolver produces the effective per-period rate for a (flow, segment)
// pair: base rate by specificity precedence, times the seasonal factor for
// the current month, times a draw from the distribution bound to the flow
// (if any), clamped to [0, 1].
type RateResolver struct {
	table    *RateTable
	seasonal SeasonalFactors
	samplers map[string]Sampler // flow ID → bound sampler
}

// NewRateResolver assembles a resolver. samplers may be nil or sparse; flows
// without a sampler apply a factor of exactly 1.0.
func NewRateResolver(table *RateTable, seasonal SeasonalFactors, samplers map[string]Sampler) *RateResolver {
	return &RateResolver{table: table, seasonal: seasonal, samplers: samplers}
}

// EffectiveRate resolves and perturbs the rate for one invocation. Sampling
// is independent per call; there is no autocorrelation across periods.
func (r *RateResolver) EffectiveRate(flowID string, seg PopulationSegment, month time.Month) (float64, error) {
	rate, _, ok := r.table.Resolve(flowID, seg)
	if !ok {
		// Coverage is validated at load time; reaching this is a defect.
		return 0, NewInvariantViolationError("flow %q lost rate coverage for segment %q", flowID, seg.ID)
	}
	rate *= r.seasonal.Factor(flowID, month)
	if s, ok := r.samplers[flowID]; ok {
		rate *= s.Sample()
	}
	if rate < 0 {
		rate = 0
	} else if rate > 1 {
		rate = 1
	}
	return rate, nil
}
