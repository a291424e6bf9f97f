// Package sim provides the core flow-simulation engine for the
// expenditure-forecast model.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - types.go: the static data model (regions, states, flows, segments)
//   - executor.go: snapshot-isolated population movement within one period
//   - simulator.go: the period loop, fiscal-year resets, and metric recording
//
// # Architecture
//
// The sim package owns the engine; collaborators live in sub-packages:
//   - sim/scenario/: YAML configuration loading and base+scenario merging
//   - sim/report/: JSON/CSV serialization of recorded metrics
//
// A run is strictly sequential: each period the executor takes a snapshot of
// the population ledger, resolves an effective rate for every (flow, segment)
// pair, and commits all movement at once. Randomness enters only through the
// distribution samplers, which draw from seeded per-flow RNG streams so that
// a run is reproducible from its seed.
package sim
