// SPDX-License-Identifier: MIT

package direct

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/linsolve/operator"
	"github.com/katalvlaran/linsolve/solver"
)

// DefaultRcond is the singular-value cutoff of the SVD strategy, relative to
// the largest singular value. Values below it are treated as zero rank.
const DefaultRcond = 1e-12

// SVD is the rank-revealing least-squares strategy: thin singular value
// decomposition with explicit truncation. The most expensive and the most
// robust dense backend - it produces the minimum-norm solution even for
// exactly rank-deficient systems, which LU and QR reject.
//
// Complexity: Prepare O(r*c^2), Apply O(r*c).
type SVD struct {
	// Rcond is the relative singular-value cutoff; zero means DefaultRcond.
	Rcond float64
}

type svdState struct {
	u, v *mat.Dense // thin factors: u is r-by-k, v is c-by-k
	s    []float64  // singular values, descending
	rank int
	work []float64 // scratch of length k for U^T b
}

func (s *svdState) Release() { s.u, s.v, s.s, s.work = nil, nil, nil, nil }

// Name implements solver.Strategy.
func (SVD) Name() string { return solver.NameDenseSVD }

// NeedsConcreteOperator implements solver.Strategy.
func (SVD) NeedsConcreteOperator() bool { return true }

// SolvesRectangular implements solver.RectangularSolver.
func (SVD) SolvesRectangular() bool { return true }

// Prepare implements solver.Strategy: thin SVD plus rank determination.
// Errors: ErrSingular when every singular value falls below the cutoff
// (the zero matrix), ErrUnsupportedOperator on non-dense operators.
func (v SVD) Prepare(p *solver.Problem, prev solver.State) (solver.State, error) {
	if prev != nil {
		prev.Release()
	}
	d, ok := p.Operator.(*operator.Dense)
	if !ok {
		return nil, fmt.Errorf("%s: operator kind %s: %w",
			v.Name(), p.Operator.Kind(), solver.ErrUnsupportedOperator)
	}

	var f mat.SVD
	if !f.Factorize(d.Raw(), mat.SVDThin) {
		return nil, fmt.Errorf("%s: decomposition failed to converge: %w",
			v.Name(), solver.ErrSingular)
	}
	st := &svdState{u: &mat.Dense{}, v: &mat.Dense{}}
	f.UTo(st.u)
	f.VTo(st.v)
	st.s = f.Values(nil)

	rcond := v.Rcond
	if rcond <= 0 {
		rcond = DefaultRcond
	}
	cut := 0.0
	if len(st.s) > 0 {
		cut = st.s[0] * rcond
	}
	for _, sv := range st.s {
		if sv > cut {
			st.rank++
		}
	}
	if st.rank == 0 {
		return nil, fmt.Errorf("%s: numerically zero operator: %w",
			v.Name(), solver.ErrSingular)
	}
	st.work = make([]float64, len(st.s))

	return st, nil
}

// Apply implements solver.Strategy: x = V * diag(1/s) * U^T b over the
// retained rank, the minimum-norm least-squares solution.
func (v SVD) Apply(st solver.State, p *solver.Problem, dst []float64) error {
	s, ok := st.(*svdState)
	if !ok || s.u == nil {
		return fmt.Errorf("%s: foreign or released state: %w",
			v.Name(), solver.ErrUnsupportedOperator)
	}

	ru := s.u.RawMatrix()
	for k := 0; k < s.rank; k++ {
		acc := 0.0
		for i := 0; i < ru.Rows; i++ {
			acc += ru.Data[i*ru.Stride+k] * p.RHS[i]
		}
		s.work[k] = acc / s.s[k]
	}
	rv := s.v.RawMatrix()
	for j := 0; j < rv.Rows; j++ {
		acc := 0.0
		row := rv.Data[j*rv.Stride:]
		for k := 0; k < s.rank; k++ {
			acc += row[k] * s.work[k]
		}
		dst[j] = acc
	}

	return nil
}

var _ solver.Strategy = SVD{}
var _ solver.RectangularSolver = SVD{}
