package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/gc-ohds/expenditure-forecast/sim"
)

// PrintSummary writes a human-readable end-of-run digest: the run
// parameters, final state totals, and total movement per flow.
func PrintSummary(w io.Writer, summary *sim.Summary, tracker *sim.Tracker) {
	fmt.Fprintln(w, "=== Simulation Summary ===")
	fmt.Fprintf(w, "Scenario            : %s\n", summary.Scenario)
	fmt.Fprintf(w, "Date range          : %s to %s (%s)\n",
		summary.StartDate, summary.EndDate, summary.TimeInterval)
	fmt.Fprintf(w, "Periods processed   : %d\n", summary.Periods)
	fmt.Fprintf(w, "Fiscal years        : %s (%d transitions)\n",
		strings.Join(summary.FiscalYears, ", "), summary.FiscalTransitions)
	fmt.Fprintf(w, "Metric records      : %d\n", summary.Records)

	// Grand totals from the last recorded period.
	records := tracker.Records()
	if len(records) == 0 {
		return
	}
	lastPeriod := records[len(records)-1].Period

	fmt.Fprintf(w, "Final state totals (%s):\n", lastPeriod)
	for _, r := range tracker.Query(sim.Filter{
		Type:    sim.MetricState,
		Period:  lastPeriod,
		Region:  sim.DimensionAll,
		Cohort:  sim.DimensionAll,
		Segment: sim.DimensionAll,
	}) {
		if r.AgeBracket != sim.DimensionAll {
			continue
		}
		fmt.Fprintf(w, "  %-28s %14.1f\n", r.ID, r.Value)
	}

	// Sum the per-segment rows; the ALL rollup rows carry the same mass
	// again and would double-count.
	flowTotals := make(map[string]float64)
	var flowOrder []string
	for _, r := range tracker.Query(sim.Filter{Type: sim.MetricFlow}) {
		if r.Segment == sim.DimensionAll {
			continue
		}
		if _, seen := flowTotals[r.ID]; !seen {
			flowOrder = append(flowOrder, r.ID)
		}
		flowTotals[r.ID] += r.Value
	}
	if len(flowOrder) > 0 {
		fmt.Fprintln(w, "Cumulative flow movement:")
		for _, id := range flowOrder {
			fmt.Fprintf(w, "  %-28s %14.1f\n", id, flowTotals[id])
		}
	}
}
