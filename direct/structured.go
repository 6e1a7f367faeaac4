// SPDX-License-Identifier: MIT

// Structural backends: when the operator announces diagonal, tridiagonal or
// triangular structure, the "factorization" collapses to O(n) or O(n^2) work
// and Apply is a single sweep. The Prepare/Apply split still pays: the
// diagonal backend inverts once, the Thomas backend eliminates once, and
// repeated rhs swaps cost only the cheap sweep.

package direct

import (
	"fmt"
	"math"

	"github.com/katalvlaran/linsolve/operator"
	"github.com/katalvlaran/linsolve/solver"
)

// Diagonal solves diagonal systems by reciprocal multiplication.
// Prepare inverts the diagonal once (O(n)); Apply is one multiply sweep.
type Diagonal struct{}

type diagState struct {
	inv []float64
}

func (s *diagState) Release() { s.inv = nil }

// Name implements solver.Strategy.
func (Diagonal) Name() string { return solver.NameDiagonal }

// NeedsConcreteOperator implements solver.Strategy.
func (Diagonal) NeedsConcreteOperator() bool { return true }

// Prepare implements solver.Strategy.
// Errors: ErrSingular on any zero diagonal entry.
func (d Diagonal) Prepare(p *solver.Problem, prev solver.State) (solver.State, error) {
	st, _ := prev.(*diagState)
	if st == nil {
		if prev != nil {
			prev.Release()
		}
		st = &diagState{}
	}

	op, ok := p.Operator.(*operator.Diagonal)
	if !ok {
		st.Release()

		return nil, fmt.Errorf("%s: operator kind %s: %w",
			d.Name(), p.Operator.Kind(), solver.ErrUnsupportedOperator)
	}
	n := op.RawDiag().SymmetricDim()
	if len(st.inv) != n {
		st.inv = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		v := op.RawDiag().At(i, i)
		if v == 0 {
			st.Release()

			return nil, fmt.Errorf("%s: zero entry at %d: %w",
				d.Name(), i, solver.ErrSingular)
		}
		st.inv[i] = 1 / v
	}

	return st, nil
}

// Apply implements solver.Strategy.
func (d Diagonal) Apply(st solver.State, p *solver.Problem, dst []float64) error {
	s, ok := st.(*diagState)
	if !ok || s.inv == nil {
		return fmt.Errorf("%s: foreign or released state: %w",
			d.Name(), solver.ErrUnsupportedOperator)
	}
	for i, inv := range s.inv {
		dst[i] = p.RHS[i] * inv
	}

	return nil
}

// Thomas solves tridiagonal systems by the Thomas algorithm, split along the
// reuse seam: Prepare runs the forward elimination of the bands once
// (an unpivoted LU specialized to bandwidth 1), Apply sweeps the rhs through
// the stored factors. Both phases are O(n).
//
// No pivoting: a vanishing pivot during elimination is ErrSingular. This
// matches the classical algorithm's applicability (diagonally dominant or
// SPD tridiagonal systems).
type Thomas struct{}

type thomasState struct {
	lower []float64 // multipliers, length n-1
	diag  []float64 // eliminated diagonal, length n
	upper []float64 // unchanged super-diagonal, length n-1
}

func (s *thomasState) Release() { s.lower, s.diag, s.upper = nil, nil, nil }

// Name implements solver.Strategy.
func (Thomas) Name() string { return solver.NameTridiagonal }

// NeedsConcreteOperator implements solver.Strategy.
func (Thomas) NeedsConcreteOperator() bool { return true }

// Prepare implements solver.Strategy: band elimination into reusable factors.
func (t Thomas) Prepare(p *solver.Problem, prev solver.State) (solver.State, error) {
	st, _ := prev.(*thomasState)
	if st == nil {
		if prev != nil {
			prev.Release()
		}
		st = &thomasState{}
	}

	op, ok := p.Operator.(*operator.Tridiagonal)
	if !ok {
		st.Release()

		return nil, fmt.Errorf("%s: operator kind %s: %w",
			t.Name(), p.Operator.Kind(), solver.ErrUnsupportedOperator)
	}
	sub, diag, super := op.Bands()
	n := len(diag)
	if len(st.diag) != n {
		st.lower = make([]float64, n-1)
		st.diag = make([]float64, n)
		st.upper = make([]float64, n-1)
	}
	copy(st.diag, diag)
	copy(st.upper, super)

	amax := 0.0
	for _, v := range diag {
		if a := math.Abs(v); a > amax {
			amax = a
		}
	}
	floor := pivotFloor(amax)
	for i := 0; i < n-1; i++ {
		if math.Abs(st.diag[i]) <= floor {
			st.Release()

			return nil, fmt.Errorf("%s: zero pivot at row %d: %w",
				t.Name(), i, solver.ErrSingular)
		}
		m := sub[i] / st.diag[i]
		st.lower[i] = m
		st.diag[i+1] -= m * st.upper[i]
	}
	if math.Abs(st.diag[n-1]) <= floor {
		st.Release()

		return nil, fmt.Errorf("%s: zero pivot at row %d: %w",
			t.Name(), n-1, solver.ErrSingular)
	}

	return st, nil
}

// Apply implements solver.Strategy: forward sweep then back substitution.
func (t Thomas) Apply(st solver.State, p *solver.Problem, dst []float64) error {
	s, ok := st.(*thomasState)
	if !ok || s.diag == nil {
		return fmt.Errorf("%s: foreign or released state: %w",
			t.Name(), solver.ErrUnsupportedOperator)
	}
	n := len(s.diag)
	copy(dst, p.RHS)
	for i := 0; i < n-1; i++ {
		dst[i+1] -= s.lower[i] * dst[i]
	}
	dst[n-1] /= s.diag[n-1]
	for i := n - 2; i >= 0; i-- {
		dst[i] = (dst[i] - s.upper[i]*dst[i+1]) / s.diag[i]
	}

	return nil
}

// TriangularSolve solves triangular systems by direct substitution. There is
// nothing to factor: Prepare only validates and pins the typed handle, Apply
// runs one O(n^2) substitution sweep in the direction the triangle dictates.
type TriangularSolve struct{}

type triState struct {
	op *operator.Triangular
}

func (s *triState) Release() { s.op = nil }

// Name implements solver.Strategy.
func (TriangularSolve) Name() string { return solver.NameTriangular }

// NeedsConcreteOperator implements solver.Strategy.
func (TriangularSolve) NeedsConcreteOperator() bool { return true }

// Prepare implements solver.Strategy: validates the diagonal up front so a
// singular triangle fails here, not mid-substitution.
func (t TriangularSolve) Prepare(p *solver.Problem, prev solver.State) (solver.State, error) {
	if prev != nil {
		prev.Release()
	}
	op, ok := p.Operator.(*operator.Triangular)
	if !ok {
		return nil, fmt.Errorf("%s: operator kind %s: %w",
			t.Name(), p.Operator.Kind(), solver.ErrUnsupportedOperator)
	}
	n, _ := op.Dims()
	for i := 0; i < n; i++ {
		if op.RawTri().At(i, i) == 0 {
			return nil, fmt.Errorf("%s: zero diagonal at %d: %w",
				t.Name(), i, solver.ErrSingular)
		}
	}

	return &triState{op: op}, nil
}

// Apply implements solver.Strategy.
func (t TriangularSolve) Apply(st solver.State, p *solver.Problem, dst []float64) error {
	s, ok := st.(*triState)
	if !ok || s.op == nil {
		return fmt.Errorf("%s: foreign or released state: %w",
			t.Name(), solver.ErrUnsupportedOperator)
	}
	m := s.op.RawTri()
	n, _ := s.op.Dims()
	if s.op.Upper() {
		for i := n - 1; i >= 0; i-- {
			acc := p.RHS[i]
			for j := i + 1; j < n; j++ {
				acc -= m.At(i, j) * dst[j]
			}
			dst[i] = acc / m.At(i, i)
		}
	} else {
		for i := 0; i < n; i++ {
			acc := p.RHS[i]
			for j := 0; j < i; j++ {
				acc -= m.At(i, j) * dst[j]
			}
			dst[i] = acc / m.At(i, i)
		}
	}

	return nil
}

var (
	_ solver.Strategy = Diagonal{}
	_ solver.Strategy = Thomas{}
	_ solver.Strategy = TriangularSolve{}
)
