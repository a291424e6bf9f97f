package sim

// Region is a geographic unit the population is segmented by.
// Immutable once loaded.
type Region struct {
	ID   string // e.g. "on"
	Name string // e.g. "Ontario"
}

// ProcessState is one station in the program pipeline
// (eligible, applied, enrolled_inactive, active_claimant, ...).
// The set of states is fixed for a run.
type ProcessState struct {
	ID   string
	Name string
	// ResetOnFiscalYear marks states that empty out at each fiscal-year
	// boundary to model benefit-year cycles.
	ResetOnFiscalYear bool
}

// Flow is a directed edge in the state graph. All flows share identical
// movement semantics (rate × source population → target); there is no
// per-flow behavioral specialization.
type Flow struct {
	ID     string
	Source string // source ProcessState ID
	Target string // target ProcessState ID
}

// PopulationSegment is the concrete population unit: one demographic cohort
// within one region and age bracket. PopulationSize is the segment's total
// eligible-population baseline, not a per-state count.
type PopulationSegment struct {
	ID             string
	Cohort         string // e.g. "seniors", "pwd", "adults"
	Region         string // Region.ID
	AgeMin         int
	AgeMax         int
	AgeBracket     string // e.g. "65plus"
	PopulationSize float64
}

// Graph is the static state/flow definition, loaded once and immutable
// during a run. Multiple flows may share a source or target.
type Graph struct {
	States []ProcessState
	Flows  []Flow

	stateIndex map[string]int
}

// NewGraph validates that every flow references existing states and returns
// an immutable graph. A dangling source or target is a ConfigurationError.
func NewGraph(states []ProcessState, flows []Flow) (*Graph, error) {
	g := &Graph{
		States:     states,
		Flows:      flows,
		stateIndex: make(map[string]int, len(states)),
	}
	for i, s := range states {
		if s.ID == "" {
			return nil, NewConfigurationError("states", "state %d has empty id", i)
		}
		if _, dup := g.stateIndex[s.ID]; dup {
			return nil, NewConfigurationError("states."+s.ID, "duplicate state id")
		}
		g.stateIndex[s.ID] = i
	}
	for _, f := range flows {
		if f.ID == "" {
			return nil, NewConfigurationError("flows", "flow with empty id")
		}
		if _, ok := g.stateIndex[f.Source]; !ok {
			return nil, NewConfigurationError("flows."+f.ID, "unknown source state %q", f.Source)
		}
		if _, ok := g.stateIndex[f.Target]; !ok {
			return nil, NewConfigurationError("flows."+f.ID, "unknown target state %q", f.Target)
		}
	}
	return g, nil
}

// State looks up a process state by ID.
func (g *Graph) State(id string) (ProcessState, bool) {
	i, ok := g.stateIndex[id]
	if !ok {
		return ProcessState{}, false
	}
	return g.States[i], true
}

// HasState reports whether the graph defines the given state ID.
func (g *Graph) HasState(id string) bool {
	_, ok := g.stateIndex[id]
	return ok
}

// ResettableStates returns the IDs of states flagged for fiscal-year reset.
func (g *Graph) ResettableStates() []string {
	var ids []string
	for _, s := range g.States {
		if s.ResetOnFiscalYear {
			ids = append(ids, s.ID)
		}
	}
	return ids
}
