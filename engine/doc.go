// Package engine provides the fairness-aware selection and grouping engine.
//
// # Reading Guide
//
// Start with these files to understand a draw end to end:
//   - engine.go: Engine construction, Pick and Group entry points
//   - eligibility.go: status, manual-exclusion and cooldown filters with relax-on-conflict
//   - weighting.go: strategy resolution plus term-balance and stage-fairness dampening
//   - draw.go: weighted-without-replacement sampling and the never-picked quota
//   - grouping.go: random round-robin dealing and score/pair-aware greedy packing
//
// # Architecture
//
// The engine is a pure computation over in-memory snapshots; it performs no I/O.
// Data types shared with callers live in sub-packages:
//   - engine/roster/: candidate and pick-history snapshots
//   - engine/trace/: per-candidate decision traces and summaries
//   - engine/strategy/: weighting strategy registry and signed plugin loading
//   - engine/metrics/: Prometheus and no-op metrics collectors
//
// # Determinism
//
// Every random decision draws from a RandomSource injected per request (or the
// engine default). Supplying the same source sequence and the same inputs yields
// identical winners and groups. See rng.go for seeded, per-class partitioned sources.
package engine
