// SPDX-License-Identifier: MIT

package direct

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/linsolve/operator"
	"github.com/katalvlaran/linsolve/solver"
)

// QR is the dense least-squares strategy: Householder QR via gonum's mat.QR.
// For square systems it is a slower but better-conditioned alternative to LU;
// for rows >= cols it minimizes the 2-norm residual exactly, which is why it
// is one of the two strategies admitting rectangular operators.
//
// Complexity: Prepare O(r*c^2), Apply O(r*c).
type QR struct{}

type qrState struct {
	qr *mat.QR
}

func (s *qrState) Release() { s.qr = nil }

// Name implements solver.Strategy.
func (QR) Name() string { return solver.NameDenseQR }

// NeedsConcreteOperator implements solver.Strategy.
func (QR) NeedsConcreteOperator() bool { return true }

// SolvesRectangular implements solver.RectangularSolver.
func (QR) SolvesRectangular() bool { return true }

// Prepare implements solver.Strategy.
func (q QR) Prepare(p *solver.Problem, prev solver.State) (solver.State, error) {
	if prev != nil {
		prev.Release()
	}
	d, ok := p.Operator.(*operator.Dense)
	if !ok {
		return nil, fmt.Errorf("%s: operator kind %s: %w",
			q.Name(), p.Operator.Kind(), solver.ErrUnsupportedOperator)
	}
	rows, cols := d.Dims()
	if rows < cols {
		return nil, fmt.Errorf("%s: underdetermined %dx%d system: %w",
			q.Name(), rows, cols, solver.ErrShapeMismatch)
	}
	var f mat.QR
	f.Factorize(d.Raw())

	return &qrState{qr: &f}, nil
}

// Apply implements solver.Strategy: one least-squares solve into dst.
// Errors: ErrSingular when R is rank deficient.
func (q QR) Apply(st solver.State, p *solver.Problem, dst []float64) error {
	s, ok := st.(*qrState)
	if !ok || s.qr == nil {
		return fmt.Errorf("%s: foreign or released state: %w",
			q.Name(), solver.ErrUnsupportedOperator)
	}
	x := mat.NewVecDense(len(dst), dst)
	b := mat.NewVecDense(len(p.RHS), p.RHS)
	if err := s.qr.SolveVecTo(x, false, b); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return nil
		}

		return fmt.Errorf("%s: %w", q.Name(), solver.ErrSingular)
	}

	return nil
}

var _ solver.Strategy = QR{}
var _ solver.RectangularSolver = QR{}
