package sim

import (
	"github.com/sirupsen/logrus"
)

// Summary reports what a completed run did.
type Summary struct {
	Scenario          string   `json:"scenario"`
	StartDate         string   `json:"start_date"`
	EndDate           string   `json:"end_date"`
	TimeInterval      string   `json:"time_interval"`
	Periods           int      `json:"periods"`
	FiscalTransitions int      `json:"fiscal_transitions"`
	FiscalYears       []string `json:"fiscal_years"`
	Records           int      `json:"records"`
}

// Simulator orchestrates clock advancement, fiscal-year resets, flow
// execution, and metric recording across the configured date range. Each
// Simulator owns an independent ledger and tracker; separate runs share no
// state.
type Simulator struct {
	cfg      *Config
	clock    *Clock
	ledger   *Ledger
	executor *FlowExecutor
	tracker  *Tracker
}

// NewSimulator validates the configuration and assembles a run. All
// ConfigurationErrors surface here, before any period executes.
func NewSimulator(cfg *Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	clock, err := NewClock(cfg.StartDate, cfg.EndDate, cfg.Interval,
		cfg.FiscalYearStartMonth, cfg.FiscalYearStartDay)
	if err != nil {
		return nil, err
	}
	ledger, err := NewLedger(cfg.Graph, cfg.Segments, InitialStateID)
	if err != nil {
		return nil, err
	}

	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))
	samplers := make(map[string]Sampler, len(cfg.Distributions))
	for flowID, spec := range cfg.Distributions {
		s, err := NewSampler(spec, rng.ForSubsystem(SubsystemRate(flowID)))
		if err != nil {
			return nil, err
		}
		samplers[flowID] = s
	}
	resolver := NewRateResolver(cfg.Rates, cfg.Seasonal, samplers)

	return &Simulator{
		cfg:      cfg,
		clock:    clock,
		ledger:   ledger,
		executor: NewFlowExecutor(cfg.Graph, cfg.Segments, resolver),
		tracker:  NewTracker(),
	}, nil
}

// Tracker exposes the recorded metrics for the serialization collaborator.
func (s *Simulator) Tracker() *Tracker { return s.tracker }

// Ledger exposes the population ledger, chiefly for tests.
func (s *Simulator) Ledger() *Ledger { return s.ledger }

// Run executes the simulation period by period through the end date
// (inclusive) and returns a completion summary. The loop per period:
// fiscal-year reset if the previous advance crossed a boundary, then flow
// execution from a fresh ledger snapshot, then metric recording.
func (s *Simulator) Run() (*Summary, error) {
	summary := &Summary{
		Scenario:     s.cfg.ScenarioName,
		StartDate:    s.cfg.StartDate.Format("2006-01-02"),
		EndDate:      s.cfg.EndDate.Format("2006-01-02"),
		TimeInterval: string(s.cfg.Interval),
	}
	logrus.Infof("starting run %s → %s (%s)", summary.StartDate, summary.EndDate, s.cfg.Interval)

	fiscalYears := map[string]bool{s.clock.FiscalYear(): true}
	summary.FiscalYears = append(summary.FiscalYears, s.clock.FiscalYear())

	crossedBoundary := false
	for !s.clock.Done() {
		period := s.clock.CurrentPeriod()

		if crossedBoundary {
			s.ledger.ResetFiscalYearStates(s.cfg.Graph)
			summary.FiscalTransitions++
			fy := s.clock.FiscalYear()
			if !fiscalYears[fy] {
				fiscalYears[fy] = true
				summary.FiscalYears = append(summary.FiscalYears, fy)
			}
			logrus.Infof("fiscal year transition at %s (%s)", period, fy)
		}

		deltas, err := s.executor.RunPeriod(s.ledger, s.clock.CurrentDate().Month())
		if err != nil {
			return nil, err
		}
		flowTotals := make(map[string]float64)
		var flowOrder []string
		for _, d := range deltas {
			seg, ok := s.segment(d.SegmentID)
			if !ok {
				return nil, NewInvariantViolationError("delta for unknown segment %q", d.SegmentID)
			}
			s.tracker.RecordFlow(period, d.FlowID, seg, d.Moved)
			if _, seen := flowTotals[d.FlowID]; !seen {
				flowOrder = append(flowOrder, d.FlowID)
			}
			flowTotals[d.FlowID] += d.Moved
		}
		for _, flowID := range flowOrder {
			s.tracker.RecordFlowTotal(period, flowID, flowTotals[flowID])
		}
		s.tracker.RecordStateSnapshot(period, s.ledger, s.cfg.Segments)
		s.tracker.RecordDerivedRatios(period, s.ledger, s.cfg.DerivedRatios)

		if err := s.ledger.CheckConservation(); err != nil {
			return nil, err
		}

		summary.Periods++
		logrus.Debugf("completed period %s (%d movements)", period, len(deltas))
		crossedBoundary = s.clock.Advance()
	}

	summary.Records = s.tracker.Len()
	logrus.Infof("run complete: %d periods, %d fiscal transitions, %d records",
		summary.Periods, summary.FiscalTransitions, summary.Records)
	return summary, nil
}

func (s *Simulator) segment(id string) (PopulationSegment, bool) {
	for _, seg := range s.cfg.Segments {
		if seg.ID == id {
			return seg, true
		}
	}
	return PopulationSegment{}, false
}
