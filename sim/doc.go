// Package sim provides the event-driven engine behind queue-sim.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - job.go: Job lifecycle (waiting → in service → departed)
//   - station.go: one FIFO queue in front of a server pool
//   - topology.go: the four kinds (mm1, mmc, mmk1, mmkc) as Topology policies
//   - simulator.go: the clock, event selection and streaming accumulators
//
// # Architecture
//
// A Simulator owns the clock, next-arrival schedule, completed-job log,
// accumulators and time series. It delegates the two decisions that differ
// between kinds, which departure fires next and where an arrival goes, to a
// Topology. Randomness comes from a PartitionedRNG seeded from Config.Seed,
// so identical configs replay identically.
//
// Sub-packages:
//   - sim/theory/: closed-form M/M/1 and M/M/c references and comparison
//   - sim/trace/: routing decision trace recording
//   - sim/export/: flat export records (JSON or YAML)
package sim
