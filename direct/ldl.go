// SPDX-License-Identifier: MIT

package direct

import (
	"fmt"
	"math"

	"github.com/katalvlaran/linsolve/operator"
	"github.com/katalvlaran/linsolve/solver"
)

// LDL is the strategy for symmetric indefinite systems: the root-free
// A = L*D*L^T factorization with unit lower L and diagonal D. It accepts
// negative eigenvalues (where Cholesky fails) while still exploiting
// symmetry for half the work of LU.
//
// No pivoting is performed: a (near-)zero D entry is reported as
// ErrSingular rather than repaired, keeping the factorization deterministic
// and the reuse seam simple.
//
// Complexity: Prepare O(n^3/3), Apply O(n^2).
type LDL struct{}

type ldlState struct {
	n int
	l []float64 // strict lower triangle of unit L, row-major packed n*n
	d []float64
}

func (s *ldlState) Release() { s.l, s.d = nil, nil }

// Name implements solver.Strategy.
func (LDL) Name() string { return solver.NameLDL }

// NeedsConcreteOperator implements solver.Strategy.
func (LDL) NeedsConcreteOperator() bool { return true }

// Prepare implements solver.Strategy. Previous-state buffers are reused when
// the dimension is unchanged.
func (l LDL) Prepare(p *solver.Problem, prev solver.State) (solver.State, error) {
	st, _ := prev.(*ldlState)
	if st == nil {
		if prev != nil {
			prev.Release()
		}
		st = &ldlState{}
	}

	sym, ok := p.Operator.(*operator.Symmetric)
	if !ok {
		st.Release()

		return nil, fmt.Errorf("%s: operator kind %s: %w",
			l.Name(), p.Operator.Kind(), solver.ErrUnsupportedOperator)
	}
	n := sym.RawSym().SymmetricDim()
	if st.n != n {
		st.n = n
		st.l = make([]float64, n*n)
		st.d = make([]float64, n)
	}

	a := sym.RawSym()
	amax := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			if v := math.Abs(a.At(i, j)); v > amax {
				amax = v
			}
		}
	}
	floor := pivotFloor(amax)

	// Column-by-column: d[j] = a[j][j] - sum, l[i][j] = (a[i][j] - sum)/d[j].
	for j := 0; j < n; j++ {
		dj := a.At(j, j)
		for k := 0; k < j; k++ {
			ljk := st.l[j*n+k]
			dj -= ljk * ljk * st.d[k]
		}
		if math.Abs(dj) <= floor {
			st.Release()

			return nil, fmt.Errorf("%s: zero pivot at column %d: %w",
				l.Name(), j, solver.ErrSingular)
		}
		st.d[j] = dj
		for i := j + 1; i < n; i++ {
			v := a.At(i, j)
			for k := 0; k < j; k++ {
				v -= st.l[i*n+k] * st.l[j*n+k] * st.d[k]
			}
			st.l[i*n+j] = v / dj
		}
	}

	return st, nil
}

// Apply implements solver.Strategy: forward substitution, diagonal scaling,
// back substitution with L^T.
func (l LDL) Apply(st solver.State, p *solver.Problem, dst []float64) error {
	s, ok := st.(*ldlState)
	if !ok || s.l == nil {
		return fmt.Errorf("%s: foreign or released state: %w",
			l.Name(), solver.ErrUnsupportedOperator)
	}
	n := s.n
	copy(dst, p.RHS)
	for i := 1; i < n; i++ {
		acc := dst[i]
		row := s.l[i*n:]
		for j := 0; j < i; j++ {
			acc -= row[j] * dst[j]
		}
		dst[i] = acc
	}
	for i := 0; i < n; i++ {
		dst[i] /= s.d[i]
	}
	for i := n - 2; i >= 0; i-- {
		acc := dst[i]
		for j := i + 1; j < n; j++ {
			acc -= s.l[j*n+i] * dst[j]
		}
		dst[i] = acc
	}

	return nil
}

var _ solver.Strategy = LDL{}
