package sim

// conservationTolerance absorbs floating-point drift when checking that a
// segment's total never exceeds its population size.
const conservationTolerance = 1e-6

// Ledger holds per-segment, per-state population counts. Counts are
// real-valued: a rate of 0.09 on 100 people legitimately moves 9.0.
//
// Population is conserved per segment: the sum across all states never
// exceeds the segment's population size. The "not yet in any tracked state"
// pool is the initial state's balance, so a fresh ledger holds the full
// population size in the initial state and zero everywhere else.
type Ledger struct {
	states   []ProcessState
	segments []PopulationSegment

	counts map[string]map[string]float64 // segment ID → state ID → count
	sizes  map[string]float64            // segment ID → population size
}

// NewLedger initializes every segment with its full population size in the
// initial state and zero in all others.
func NewLedger(graph *Graph, segments []PopulationSegment, initialState string) (*Ledger, error) {
	if !graph.HasState(initialState) {
		return nil, NewConfigurationError("states", "initial state %q is not defined", initialState)
	}
	l := &Ledger{
		states:   graph.States,
		segments: segments,
		counts:   make(map[string]map[string]float64, len(segments)),
		sizes:    make(map[string]float64, len(segments)),
	}
	for _, seg := range segments {
		byState := make(map[string]float64, len(graph.States))
		for _, s := range graph.States {
			byState[s.ID] = 0
		}
		byState[initialState] = seg.PopulationSize
		l.counts[seg.ID] = byState
		l.sizes[seg.ID] = seg.PopulationSize
	}
	return l, nil
}

// Population returns the count at (segment, state). Unknown pairs read as
// zero.
func (l *Ledger) Population(segmentID, stateID string) float64 {
	return l.counts[segmentID][stateID]
}

// Snapshot returns a deep copy of the current counts. The executor computes
// a whole period's movement from one snapshot so that flows sharing a source
// do not see each other's output.
func (l *Ledger) Snapshot() map[string]map[string]float64 {
	snap := make(map[string]map[string]float64, len(l.counts))
	for segID, byState := range l.counts {
		copied := make(map[string]float64, len(byState))
		for stateID, v := range byState {
			copied[stateID] = v
		}
		snap[segID] = copied
	}
	return snap
}

// Move shifts population mass from one state to another within a segment.
// Called only during delta commit, after all of a period's movement has been
// computed from the snapshot.
func (l *Ledger) Move(segmentID, sourceID, targetID string, amount float64) error {
	if amount < 0 {
		return NewInvariantViolationError(
			"negative movement %v from %q to %q in segment %q", amount, sourceID, targetID, segmentID)
	}
	byState, ok := l.counts[segmentID]
	if !ok {
		return NewInvariantViolationError("unknown segment %q", segmentID)
	}
	byState[sourceID] -= amount
	byState[targetID] += amount
	if byState[sourceID] < -conservationTolerance {
		return NewInvariantViolationError(
			"state %q in segment %q driven negative (%v)", sourceID, segmentID, byState[sourceID])
	}
	if byState[sourceID] < 0 {
		byState[sourceID] = 0 // absorb float drift
	}
	return nil
}

// ResetFiscalYearStates zeroes every state flagged reset_on_fiscal_year for
// all segments. The zeroed mass leaves the tracked system; it is not
// returned to the initial state. Runs before the boundary period's flows.
func (l *Ledger) ResetFiscalYearStates(graph *Graph) {
	for _, stateID := range graph.ResettableStates() {
		for _, byState := range l.counts {
			byState[stateID] = 0
		}
	}
}

// CheckConservation verifies that for every segment the sum across all
// states stays within the segment's population size, and no count is
// negative, within floating-point tolerance.
func (l *Ledger) CheckConservation() error {
	for _, seg := range l.segments {
		total := 0.0
		for stateID, v := range l.counts[seg.ID] {
			if v < -conservationTolerance {
				return NewInvariantViolationError(
					"negative population %v at (%s, %s)", v, seg.ID, stateID)
			}
			total += v
		}
		if total > l.sizes[seg.ID]+conservationTolerance {
			return NewInvariantViolationError(
				"segment %q total %v exceeds population size %v", seg.ID, total, l.sizes[seg.ID])
		}
	}
	return nil
}

// SegmentTotal returns the sum across all states for one segment.
func (l *Ledger) SegmentTotal(segmentID string) float64 {
	total := 0.0
	for _, v := range l.counts[segmentID] {
		total += v
	}
	return total
}

// StateTotal returns the sum of one state's count across all segments.
func (l *Ledger) StateTotal(stateID string) float64 {
	total := 0.0
	for _, byState := range l.counts {
		total += byState[stateID]
	}
	return total
}
