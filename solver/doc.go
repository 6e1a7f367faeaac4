// SPDX-License-Identifier: MIT

// Package solver implements the stateful solve cache and the polyalgorithm
// dispatch engine for repeated linear solves A*x = b.
//
// The solver package provides:
//
//   - The Strategy contract every solution backend implements: an expensive,
//     reusable Prepare step, a cheap repeatable Apply step, and the
//     NeedsConcreteOperator trait (see Strategy).
//   - The Cache: a mutable handle binding a Problem to one Strategy plus the
//     strategy-private backend State, with the staleness protocol governing
//     when cached work may be reused (see Cache and Phase).
//   - The backend Registry: process-wide registration of strategies against
//     operator trait categories, populated once during package init and
//     read-only during solves.
//   - The default-strategy Selector, run exactly once at bind time when the
//     caller names no strategy (see Registry.Select).
//   - The Solve orchestrator turning the cache state machine into a
//     Record, plus the unified sentinel error taxonomy.
//
// Lifecycle:
//
//	cache, _ := solver.Bind(op, rhs)   // strategy resolved via selector
//	rec, _ := cache.Solve()            // Prepare + Apply
//	_ = cache.SetRHS(rhs2)             // cache stays Ready
//	rec, _ = cache.Solve()             // Apply only, no refactorization
//	_ = cache.SetOperator(op2)         // cache becomes Stale
//	rec, _ = cache.Solve()             // Prepare again, then Apply
//	cache.Release()                    // deterministic state teardown
//
// Concurrency: a single cache must be operated by one logical thread of
// control at a time (mutations and solves caller-serialized); distinct
// caches are fully independent and may run in parallel with no coordination.
//
// Errors (sentinel): ErrShapeMismatch, ErrUnsupportedOperator, ErrSingular,
// ErrPatternMismatch, ErrIterationLimit, ErrNilCache, ErrReleased,
// ErrNoStrategy. All are matched via errors.Is; numerical failures from
// backends propagate unchanged and are never masked by a silent strategy
// substitution.
package solver
