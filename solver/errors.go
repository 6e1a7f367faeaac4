// SPDX-License-Identifier: MIT
// Package solver: sentinel error set (unified, consistent).
// This file defines ONLY package-level sentinel errors used across the solve
// core and its backends. Backends MUST return these sentinels (wrapped with
// context via fmt.Errorf("ctx: %w", ErrX) is fine) and tests MUST check them
// via errors.Is. No component panics on user-triggered error conditions.

package solver

import "errors"

// ERROR PRIORITY (documented, enforced in tests):
// nil-argument guards -> shape mismatch -> unsupported operator ->
// backend-reported numerical failures (singular / pattern mismatch) ->
// iteration limit (non-fatal, carried in Record.Status).

var (
	// ErrShapeMismatch indicates operator/rhs/guess dimensions that are
	// inconsistent with each other or with the bound cache. Rejected at bind
	// or mutate time, before any backend call.
	ErrShapeMismatch = errors.New("linsolve: shape mismatch")

	// ErrUnsupportedOperator indicates that no registered backend path
	// exists for the operator/strategy combination (e.g. a factorization
	// strategy handed an abstract operator). Fatal, surfaced immediately.
	ErrUnsupportedOperator = errors.New("linsolve: unsupported operator kind")

	// ErrSingular indicates that a backend detected numerical singularity
	// or severe ill-conditioning during Prepare. The cache is left Stale;
	// the caller may retry with a corrected operator.
	ErrSingular = errors.New("linsolve: singular or ill-conditioned operator")

	// ErrPatternMismatch indicates that the sparse same-pattern reuse
	// assumption was violated. Distinct from ErrSingular so callers can
	// react by forcing a symbolic rebuild (WithFreshPattern) and retrying.
	ErrPatternMismatch = errors.New("linsolve: sparse pattern mismatch")

	// ErrIterationLimit indicates that an iterative strategy did not
	// converge within its iteration bound. Non-fatal: the orchestrator maps
	// it to StatusIterationLimit and returns the best available iterate.
	ErrIterationLimit = errors.New("linsolve: iteration limit exceeded")

	// ErrNilCache indicates a nil *Cache receiver or argument.
	ErrNilCache = errors.New("linsolve: nil cache")

	// ErrReleased indicates a cache used after Release.
	ErrReleased = errors.New("linsolve: cache already released")

	// ErrNoStrategy indicates that the selector found no registered backend
	// for the operator's trait category.
	ErrNoStrategy = errors.New("linsolve: no strategy registered for operator kind")

	// ErrDuplicateStrategy indicates a Register call reusing an existing
	// backend name. Programmer error at init time; MustRegister panics on it.
	ErrDuplicateStrategy = errors.New("linsolve: duplicate strategy registration")

	// ErrBadRegistration indicates a structurally invalid Registration
	// (empty name, nil factory, no kinds).
	ErrBadRegistration = errors.New("linsolve: invalid strategy registration")

	// ErrNilSolveFunc indicates a Func strategy bound without a solve
	// callback. Surfaced from Prepare, the first point the cache drives the
	// strategy.
	ErrNilSolveFunc = errors.New("linsolve: nil user solve function")
)
