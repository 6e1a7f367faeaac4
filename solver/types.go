// SPDX-License-Identifier: MIT

// Package solver: core domain types - the problem descriptor, the strategy
// contract with its opaque backend state, the cache phases and the solve
// record. Errors, options and the registry live in dedicated files.
package solver

import "github.com/katalvlaran/linsolve/operator"

// Problem is the descriptor of one linear system A*x = b.
//
// Operator is the linear map, RHS the right-hand side, Guess the buffer that
// both seeds iterative strategies and receives the solution in place, Params
// an opaque context forwarded to function-based strategies.
//
// Shape invariants (enforced at bind/mutate time, ErrShapeMismatch):
// len(RHS) == rows, len(Guess) == cols; the operator is square unless the
// bound strategy provides exact least-squares semantics (QR/SVD).
type Problem struct {
	Operator operator.Operator
	RHS      []float64
	Guess    []float64
	Params   any
}

// State is the strategy-private cached backend state held by a cache:
// a completed factorization, an iterative workspace, or nothing at all.
//
// Ownership is exclusive to one cache. Release frees any held resources
// deterministically and must be idempotent; it is called by Cache.Release,
// by the orchestrator when state is rebuilt from scratch, and by strategies
// that consume a previous state inside Prepare.
type State interface {
	Release()
}

// StatReporter is optionally implemented by backend states able to report
// per-apply statistics; the orchestrator copies them into the Record.
type StatReporter interface {
	// SolveStats returns the iteration count and final residual norm of the
	// most recent Apply. Direct backends typically report (0, 0).
	SolveStats() (iterations int, residual float64)
}

// Strategy is the contract every solution backend implements.
//
// Contract obligations:
//
//   - Prepare performs the expensive, reusable work (numeric/symbolic
//     factorization, workspace allocation). Factorization strategies must
//     depend only on p.Operator, never on RHS/Guess values; function-based
//     and iterative strategies may consult all fields. prev is the cache's
//     previous backend state: nil on first use or when a fresh pattern was
//     demanded, otherwise the state from the last successful Prepare.
//     The strategy takes ownership of prev in ALL cases - it either folds
//     prev into the returned state or releases it, including on error.
//   - Apply performs the cheap, repeatable step (substitution, one Krylov
//     run, direct function invocation) writing the solution into dst. It
//     must not invalidate st: a subsequent Apply with an unchanged problem
//     must produce the identical result.
//   - NeedsConcreteOperator reports whether the strategy requires
//     materialized storage (factorizations: true) or can operate through
//     MulVec alone (Krylov, user functions: false).
//
// Error obligations: Prepare surfaces ErrSingular on detected
// non-invertibility and ErrUnsupportedOperator when handed an operator kind
// it has no path for; sparse pattern-reusing backends surface
// ErrPatternMismatch when the reuse assumption is violated. These propagate
// to the caller unchanged - substituting another method silently is
// forbidden.
type Strategy interface {
	// Name returns the stable registry name of the backend.
	Name() string

	// NeedsConcreteOperator reports whether a materialized matrix is
	// required (true) or an abstract apply/solve surface suffices (false).
	NeedsConcreteOperator() bool

	// Prepare builds (or refreshes) backend state for p.Operator.
	Prepare(p *Problem, prev State) (State, error)

	// Apply solves against the current RHS/Guess using st, writing into dst.
	Apply(st State, p *Problem, dst []float64) error
}

// RectangularSolver is optionally implemented by strategies with exact
// least-squares semantics (QR, SVD). Bind admits non-square operators only
// when the bound strategy implements it and reports true; every other
// strategy requires a square system.
type RectangularSolver interface {
	SolvesRectangular() bool
}

// Phase is the cache lifecycle state.
//
// Unbound -> (Prepare) -> Ready -> (SetOperator) -> Stale -> (Prepare) -> Ready.
// SetRHS never changes the phase: factorizations are rhs-independent.
// There is no terminal phase; the cache is reusable until released.
type Phase int

const (
	// PhaseUnbound means no backend state exists yet (lazy allocation:
	// state is built on the first solve).
	PhaseUnbound Phase = iota

	// PhaseReady means backend state is valid for the current operator;
	// a solve runs Apply only.
	PhaseReady

	// PhaseStale means the operator mutated since the last Prepare (or a
	// previous Prepare/Apply failed); the next solve re-runs Prepare first.
	PhaseStale
)

// String returns a stable lowercase label for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseUnbound:
		return "unbound"
	case PhaseReady:
		return "ready"
	case PhaseStale:
		return "stale"
	default:
		return "unknown"
	}
}

// Status classifies the outcome of a successful solve.
type Status int

const (
	// StatusOK means the strategy completed normally.
	StatusOK Status = iota

	// StatusIterationLimit means an iterative strategy hit its iteration
	// bound; Record.Solution holds the best available iterate. This is a
	// normal non-fatal outcome, not an error.
	StatusIterationLimit
)

// Record is the output of one solve.
//
// Solution aliases the cache's guess buffer (in-place discipline): it stays
// valid until the next solve or mutation on the same cache overwrites it.
// Cache points back to the originating cache for chaining further solves.
type Record struct {
	Solution   []float64
	Status     Status
	Iterations int
	Residual   float64
	Cache      *Cache
}
