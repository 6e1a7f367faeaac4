// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"

	"github.com/katalvlaran/linsolve/operator"
)

// Cache binds one operator to one strategy and owns the backend state that
// makes repeated solves cheap. It is the unit of reuse: create once per
// linear system, mutate in place as the system evolves, Release when done.
//
// Concurrency: a Cache is NOT safe for concurrent use; distinct caches are
// fully independent and may be driven from different goroutines.
type Cache struct {
	problem  Problem
	strategy Strategy
	state    State
	phase    Phase
	metrics  Metrics

	// freshPattern forces the next Prepare to start from nil previous state
	// (symbolic rebuild for pattern-reusing backends). One-shot: consumed by
	// the next solve.
	freshPattern bool
	released     bool
}

// Bind creates a cache for op with right-hand side rhs.
//
// The strategy is resolved once, here: an explicit WithStrategy choice wins,
// otherwise the registry's selector decides from the operator's traits. The
// choice is pinned for the cache lifetime. No backend state is built yet -
// allocation is lazy, deferred to the first Solve.
//
// Shape checks run up front: op must be non-nil, len(rhs) must equal the row
// count, and the system must be square unless the bound strategy implements
// RectangularSolver (QR/SVD least squares). The guess/solution buffer is
// allocated zeroed unless WithGuess seeds it; a WithGuess slice whose length
// differs from the column count is rejected. SetGuess re-seeds later.
//
// Returns ErrShapeMismatch, ErrNoStrategy, ErrUnsupportedOperator,
// operator.ErrNilOperator.
func Bind(op operator.Operator, rhs []float64, opts ...BindOption) (*Cache, error) {
	if err := operator.ValidateNotNil(op); err != nil {
		return nil, err
	}
	rows, cols := op.Dims()
	if len(rhs) != rows {
		return nil, fmt.Errorf("Bind: rhs length %d, operator rows %d: %w",
			len(rhs), rows, ErrShapeMismatch)
	}

	o := gatherBindOptions(opts...)
	strat := o.strategy
	if strat == nil {
		var err error
		if strat, err = o.registry.Select(op); err != nil {
			return nil, err
		}
	}
	if rows != cols {
		rect, ok := strat.(RectangularSolver)
		if !ok || !rect.SolvesRectangular() {
			return nil, fmt.Errorf("Bind: %dx%d operator, strategy %s requires square: %w",
				rows, cols, strat.Name(), ErrShapeMismatch)
		}
	}
	if strat.NeedsConcreteOperator() && op.Kind() == operator.KindAbstract {
		return nil, fmt.Errorf("Bind: strategy %s needs materialized storage: %w",
			strat.Name(), ErrUnsupportedOperator)
	}
	if o.guess != nil && len(o.guess) != cols {
		return nil, fmt.Errorf("Bind: guess length %d, operator cols %d: %w",
			len(o.guess), cols, ErrShapeMismatch)
	}

	guess := make([]float64, cols)
	copy(guess, o.guess)

	return &Cache{
		problem: Problem{
			Operator: op,
			RHS:      rhs,
			Guess:    guess,
			Params:   o.params,
		},
		strategy: strat,
		phase:    PhaseUnbound,
		metrics:  o.metrics,
	}, nil
}

// SetOperator replaces the operator in place, invalidating cached backend
// state: the next Solve re-runs Prepare. The replacement must match the
// bound dimensions exactly.
//
// By default (DefaultAssumeSamePattern) the previous backend state is handed
// to the next Prepare for reuse - for the sparse LU this means numeric-only
// refactorization under the pinned symbolic analysis. Pass WithFreshPattern()
// when the nonzero structure changed; the flag applies to this mutation only.
//
// The bound strategy never changes here: selection is a bind-time decision.
func (c *Cache) SetOperator(op operator.Operator, opts ...MutateOption) error {
	if err := c.usable(); err != nil {
		return err
	}
	if err := operator.ValidateNotNil(op); err != nil {
		return err
	}
	rows, cols := op.Dims()
	prevRows, prevCols := c.problem.Operator.Dims()
	if rows != prevRows || cols != prevCols {
		return fmt.Errorf("SetOperator: shape %dx%d, cache bound to %dx%d: %w",
			rows, cols, prevRows, prevCols, ErrShapeMismatch)
	}

	m := gatherMutateOptions(opts...)
	c.problem.Operator = op
	c.phase = PhaseStale
	if !m.samePattern {
		c.freshPattern = true
	}

	return nil
}

// SetRHS replaces the right-hand side. Cheap by contract: backend state
// depends only on the operator, so the phase never changes - the next Solve
// reuses the existing factorization or workspace as-is.
func (c *Cache) SetRHS(rhs []float64) error {
	if err := c.usable(); err != nil {
		return err
	}
	rows, _ := c.problem.Operator.Dims()
	if len(rhs) != rows {
		return fmt.Errorf("SetRHS: length %d, operator rows %d: %w",
			len(rhs), rows, ErrShapeMismatch)
	}
	c.problem.RHS = rhs

	return nil
}

// SetGuess seeds the solution buffer - the warm start for iterative
// strategies and the in-place input for Func strategies with InPlace set.
// The values are copied; the caller keeps ownership of g.
func (c *Cache) SetGuess(g []float64) error {
	if err := c.usable(); err != nil {
		return err
	}
	if len(g) != len(c.problem.Guess) {
		return fmt.Errorf("SetGuess: length %d, solution dimension %d: %w",
			len(g), len(c.problem.Guess), ErrShapeMismatch)
	}
	copy(c.problem.Guess, g)

	return nil
}

// Phase reports the current lifecycle phase.
func (c *Cache) Phase() Phase {
	if c == nil || c.released {
		return PhaseUnbound
	}

	return c.phase
}

// StrategyName reports the stable name of the bound strategy.
func (c *Cache) StrategyName() string {
	if c == nil || c.strategy == nil {
		return ""
	}

	return c.strategy.Name()
}

// Release frees backend state deterministically. Idempotent; every further
// operation on the cache fails with ErrReleased. Relying on the garbage
// collector instead is permitted but forfeits prompt reclamation of large
// factorizations.
func (c *Cache) Release() {
	if c == nil || c.released {
		return
	}
	if c.state != nil {
		c.state.Release()
		c.state = nil
	}
	c.released = true
	c.phase = PhaseUnbound
}

// usable guards every mutating/solving entry point.
func (c *Cache) usable() error {
	if c == nil {
		return ErrNilCache
	}
	if c.released {
		return ErrReleased
	}

	return nil
}
