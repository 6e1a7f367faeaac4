// SPDX-License-Identifier: MIT

package direct

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/linsolve/operator"
	"github.com/katalvlaran/linsolve/solver"
)

// condLimit is the reciprocal-condition cutoff past which a factorization is
// reported singular rather than silently producing noise.
const condLimit = 1e15

// LU is the general dense strategy: partially pivoted LU via gonum's
// mat.LU. Robust default for dense systems above the blocked-LU size limit.
//
// Complexity: Prepare O(n^3), Apply O(n^2).
type LU struct{}

type luState struct {
	lu *mat.LU
}

func (s *luState) Release() { s.lu = nil }

// Name implements solver.Strategy.
func (LU) Name() string { return solver.NameDenseLU }

// NeedsConcreteOperator implements solver.Strategy.
func (LU) NeedsConcreteOperator() bool { return true }

// Prepare implements solver.Strategy: factorizes the dense storage.
// A previous state is released and rebuilt; gonum's LU has no incremental
// refactorization path worth pinning.
//
// Errors: ErrUnsupportedOperator on non-dense operators, ErrSingular when
// the condition estimate exceeds the cutoff.
func (l LU) Prepare(p *solver.Problem, prev solver.State) (solver.State, error) {
	if prev != nil {
		prev.Release()
	}
	d, err := denseStorage(p.Operator, l.Name())
	if err != nil {
		return nil, err
	}
	var f mat.LU
	f.Factorize(d)
	if c := f.Cond(); c > condLimit {
		return nil, fmt.Errorf("%s: condition estimate %.3g: %w",
			l.Name(), c, solver.ErrSingular)
	}

	return &luState{lu: &f}, nil
}

// Apply implements solver.Strategy: two triangular substitutions into dst.
func (l LU) Apply(st solver.State, p *solver.Problem, dst []float64) error {
	s, ok := st.(*luState)
	if !ok || s.lu == nil {
		return fmt.Errorf("%s: foreign or released state: %w",
			l.Name(), solver.ErrUnsupportedOperator)
	}
	x := mat.NewVecDense(len(dst), dst)
	b := mat.NewVecDense(len(p.RHS), p.RHS)
	if err := s.lu.SolveVecTo(x, false, b); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			// Ill-conditioned but solvable: the Prepare cutoff already
			// accepted it, so the solution stands.
			return nil
		}

		return fmt.Errorf("%s: %w", l.Name(), solver.ErrSingular)
	}

	return nil
}

// denseStorage unwraps the materialized dense matrix behind op, accepting
// both the general dense and the symmetric wrappers.
func denseStorage(op operator.Operator, tag string) (mat.Matrix, error) {
	switch m := op.(type) {
	case *operator.Dense:
		return m.Raw(), nil
	case *operator.Symmetric:
		return m.RawSym(), nil
	default:
		return nil, fmt.Errorf("%s: operator kind %s has no dense storage: %w",
			tag, op.Kind(), solver.ErrUnsupportedOperator)
	}
}

var _ solver.Strategy = LU{}
