// SPDX-License-Identifier: MIT

package solver

import (
	"errors"
	"fmt"
)

// Solve runs one solve against the cache's current operator and right-hand
// side, writing the solution in place into the cache-owned buffer.
//
// Orchestration:
//  1. Ready caches skip straight to Apply (the reuse fast path).
//  2. Unbound/Stale caches run Prepare first, handing the previous backend
//     state over for reuse - unless a fresh pattern was demanded, in which
//     case Prepare starts from nil.
//  3. Apply writes into the guess buffer, which doubles as the warm start
//     for iterative strategies and as Record.Solution.
//
// Failure discipline: a failed Prepare leaves the cache Stale with no backend
// state (the strategy consumed the previous state); a failed Apply leaves the
// cache Stale but keeps the state for the retrying Prepare to reuse. Either
// way the caller may correct the problem and call Solve again on the same
// cache.
//
// ErrIterationLimit from Apply is NOT an error here: the best available
// iterate is already in the buffer, so Solve returns a Record with
// StatusIterationLimit and a nil error, and the cache stays Ready.
//
// Determinism: identical cache state and inputs produce identical records.
func (c *Cache) Solve() (Record, error) {
	if err := c.usable(); err != nil {
		return Record{}, err
	}
	name := c.strategy.Name()

	if c.phase != PhaseReady {
		prev := c.state
		c.state = nil
		if c.freshPattern {
			if prev != nil {
				prev.Release()
				prev = nil
			}
			c.freshPattern = false
		}
		st, err := c.strategy.Prepare(&c.problem, prev)
		if err != nil {
			// prev was consumed by the strategy; nothing left to hold.
			c.phase = PhaseStale
			c.metrics.Failure(name, failureReason(err))

			return Record{}, fmt.Errorf("Solve/prepare: %w", err)
		}
		c.state = st
		c.phase = PhaseReady
		c.metrics.Prepare(name)
	} else {
		c.metrics.Reuse(name)
	}

	dst := c.problem.Guess
	err := c.strategy.Apply(c.state, &c.problem, dst)
	status := StatusOK
	switch {
	case err == nil:
	case errors.Is(err, ErrIterationLimit):
		status = StatusIterationLimit
	default:
		c.phase = PhaseStale
		c.metrics.Failure(name, failureReason(err))

		return Record{}, fmt.Errorf("Solve/apply: %w", err)
	}
	c.metrics.Apply(name)

	rec := Record{Solution: dst, Status: status, Cache: c}
	if sr, ok := c.state.(StatReporter); ok {
		rec.Iterations, rec.Residual = sr.SolveStats()
	}

	return rec, nil
}

// failureReason maps an error to the coarse label fed to Metrics.Failure.
func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrSingular):
		return "singular"
	case errors.Is(err, ErrPatternMismatch):
		return "pattern-mismatch"
	case errors.Is(err, ErrShapeMismatch):
		return "shape"
	case errors.Is(err, ErrUnsupportedOperator):
		return "unsupported"
	default:
		return "other"
	}
}
