// SPDX-License-Identifier: MIT

package direct

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/linsolve/operator"
	"github.com/katalvlaran/linsolve/solver"
)

// Cholesky is the strategy for symmetric positive-definite systems, via
// gonum's mat.Cholesky. Half the work of LU with no pivoting needed; the
// selector picks it only when the operator carries the SPD hint, and a wrong
// hint surfaces as ErrSingular here rather than as silent garbage.
//
// Complexity: Prepare O(n^3/3), Apply O(n^2).
type Cholesky struct{}

type cholState struct {
	chol *mat.Cholesky
}

func (s *cholState) Release() { s.chol = nil }

// Name implements solver.Strategy.
func (Cholesky) Name() string { return solver.NameCholesky }

// NeedsConcreteOperator implements solver.Strategy.
func (Cholesky) NeedsConcreteOperator() bool { return true }

// Prepare implements solver.Strategy.
// Errors: ErrSingular when the matrix is not positive definite,
// ErrUnsupportedOperator on non-symmetric operators.
func (c Cholesky) Prepare(p *solver.Problem, prev solver.State) (solver.State, error) {
	if prev != nil {
		prev.Release()
	}
	sym, ok := p.Operator.(*operator.Symmetric)
	if !ok {
		return nil, fmt.Errorf("%s: operator kind %s: %w",
			c.Name(), p.Operator.Kind(), solver.ErrUnsupportedOperator)
	}
	var f mat.Cholesky
	if !f.Factorize(sym.RawSym()) {
		return nil, fmt.Errorf("%s: matrix is not positive definite: %w",
			c.Name(), solver.ErrSingular)
	}

	return &cholState{chol: &f}, nil
}

// Apply implements solver.Strategy.
func (c Cholesky) Apply(st solver.State, p *solver.Problem, dst []float64) error {
	s, ok := st.(*cholState)
	if !ok || s.chol == nil {
		return fmt.Errorf("%s: foreign or released state: %w",
			c.Name(), solver.ErrUnsupportedOperator)
	}
	x := mat.NewVecDense(len(dst), dst)
	b := mat.NewVecDense(len(p.RHS), p.RHS)
	if err := s.chol.SolveVecTo(x, b); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return nil
		}

		return fmt.Errorf("%s: %w", c.Name(), solver.ErrSingular)
	}

	return nil
}

var _ solver.Strategy = Cholesky{}
