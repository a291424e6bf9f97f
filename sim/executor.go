package sim

import (
	"time"

	"github.com/sirupsen/logrus"
)

// FlowDelta is one flow's movement for one segment within a period.
type FlowDelta struct {
	FlowID    string
	SegmentID string
	Source    string
	Target    string
	Moved     float64
}

// FlowExecutor applies every flow to every segment each period.
//
// All of a period's movement is computed from a snapshot of the ledger taken
// at period start: flows do not see each other's output within the same
// period, which prevents order-dependent double-movement when two flows share
// a source or chain source→target→source. The ledger is updated only after
// all flows have been computed.
type FlowExecutor struct {
	graph    *Graph
	segments []PopulationSegment
	resolver *RateResolver
}

// NewFlowExecutor assembles an executor over an immutable graph and segment
// set.
func NewFlowExecutor(graph *Graph, segments []PopulationSegment, resolver *RateResolver) *FlowExecutor {
	return &FlowExecutor{graph: graph, segments: segments, resolver: resolver}
}

// RunPeriod computes and commits one period of population movement. month is
// the calendar month of the period start, used for seasonal factors. The
// returned deltas carry only nonzero movement.
func (e *FlowExecutor) RunPeriod(ledger *Ledger, month time.Month) ([]FlowDelta, error) {
	snapshot := ledger.Snapshot()

	var deltas []FlowDelta
	for _, flow := range e.graph.Flows {
		for _, seg := range e.segments {
			atSource := snapshot[seg.ID][flow.Source]
			if atSource <= 0 {
				continue // nothing to move, not an error
			}
			rate, err := e.resolver.EffectiveRate(flow.ID, seg, month)
			if err != nil {
				return nil, err
			}
			if rate < 0 {
				// The resolver clamps to [0,1]; a negative here is a defect.
				return nil, NewInvariantViolationError(
					"post-clamp rate %v for flow %q segment %q", rate, flow.ID, seg.ID)
			}
			moved := atSource * rate
			if moved == 0 {
				continue
			}
			deltas = append(deltas, FlowDelta{
				FlowID:    flow.ID,
				SegmentID: seg.ID,
				Source:    flow.Source,
				Target:    flow.Target,
				Moved:     moved,
			})
		}
	}

	for _, d := range deltas {
		if err := ledger.Move(d.SegmentID, d.Source, d.Target, d.Moved); err != nil {
			return nil, err
		}
	}

	logrus.Debugf("executed %d flow movements across %d flows and %d segments",
		len(deltas), len(e.graph.Flows), len(e.segments))
	return deltas, nil
}
