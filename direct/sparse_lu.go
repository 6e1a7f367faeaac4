// SPDX-License-Identifier: MIT

package direct

import (
	"fmt"
	"math"

	"github.com/katalvlaran/linsolve/operator"
	"github.com/katalvlaran/linsolve/solver"
)

// SparseLU is the pattern-reusing sparse direct strategy: row-wise Gaussian
// elimination with partial pivoting over CSR storage.
//
// The reuse seam is KLU-shaped. The first Prepare runs both phases:
// symbolic (a snapshot of the nonzero pattern plus the pivot order the
// numeric elimination discovered) and numeric (the L/U factors themselves).
// Subsequent Prepares with a previous state verify that the operator still
// carries the identical pattern, then refactorize numerically under the
// PINNED pivot order - no re-pivoting, which is exactly what makes the
// refactorization cheap and deterministic.
//
// Consequences, surfaced as errors rather than repaired:
//   - a replacement operator with a different pattern is ErrPatternMismatch
//     (the caller retries with WithFreshPattern to rebuild the symbolic
//     phase);
//   - new values that make a pinned pivot vanish are ErrSingular even when
//     a different pivot order would succeed.
//
// Complexity: Prepare O(n * fill) with column scans, Apply O(nnz(L)+nnz(U)).
type SparseLU struct{}

// sparseEntry is one stored factor coefficient.
type sparseEntry struct {
	idx int // column (U rows) or elimination position (L rows)
	val float64
}

type sparseLUState struct {
	n int

	// Symbolic phase: pinned pattern snapshot and pivot order.
	rowPtr []int
	colIdx []int
	perm   []int // perm[k] = original row placed at elimination position k
	pos    []int // pos[perm[k]] = k

	// Numeric phase: L multipliers per original row (ascending position),
	// U rows per elimination position (ascending column, diagonal first).
	lower [][]sparseEntry
	upper [][]sparseEntry

	work []float64 // forward-substitution buffer
}

func (s *sparseLUState) Release() {
	s.rowPtr, s.colIdx, s.perm, s.pos = nil, nil, nil, nil
	s.lower, s.upper, s.work = nil, nil, nil
}

// Name implements solver.Strategy.
func (SparseLU) Name() string { return solver.NameSparseLU }

// NeedsConcreteOperator implements solver.Strategy.
func (SparseLU) NeedsConcreteOperator() bool { return true }

// Prepare implements solver.Strategy.
//
// prev == nil: full symbolic + numeric factorization, pivot order discovered
// by partial pivoting. prev != nil: pattern verification against the pinned
// snapshot, then numeric-only refactorization under the pinned order.
//
// Errors: ErrUnsupportedOperator on non-CSR operators, ErrPatternMismatch on
// a violated same-pattern assumption, ErrSingular on a vanishing pivot.
func (sl SparseLU) Prepare(p *solver.Problem, prev solver.State) (solver.State, error) {
	csr, ok := p.Operator.(*operator.CSR)
	if !ok {
		if prev != nil {
			prev.Release()
		}

		return nil, fmt.Errorf("%s: operator kind %s: %w",
			sl.Name(), p.Operator.Kind(), solver.ErrUnsupportedOperator)
	}
	rows, cols := csr.Dims()
	if rows != cols {
		if prev != nil {
			prev.Release()
		}

		return nil, fmt.Errorf("%s: %dx%d not square: %w",
			sl.Name(), rows, cols, solver.ErrShapeMismatch)
	}

	st, _ := prev.(*sparseLUState)
	if st != nil {
		if !st.patternMatches(csr) {
			st.Release()

			return nil, fmt.Errorf("%s: operator pattern differs from pinned symbolic analysis: %w",
				sl.Name(), solver.ErrPatternMismatch)
		}
		if err := st.factorize(csr, true); err != nil {
			st.Release()

			return nil, fmt.Errorf("%s: refactorization: %w", sl.Name(), err)
		}

		return st, nil
	}
	if prev != nil {
		prev.Release() // foreign state type; rebuild from scratch
	}

	st = newSparseLUState(csr)
	if err := st.factorize(csr, false); err != nil {
		st.Release()

		return nil, fmt.Errorf("%s: %w", sl.Name(), err)
	}

	return st, nil
}

// Apply implements solver.Strategy: permuted forward substitution through L,
// back substitution through U, into dst.
func (sl SparseLU) Apply(st solver.State, p *solver.Problem, dst []float64) error {
	s, ok := st.(*sparseLUState)
	if !ok || s.perm == nil {
		return fmt.Errorf("%s: foreign or released state: %w",
			sl.Name(), solver.ErrUnsupportedOperator)
	}
	n := s.n
	y := s.work
	for k := 0; k < n; k++ {
		r := s.perm[k]
		acc := p.RHS[r]
		for _, e := range s.lower[r] {
			acc -= e.val * y[e.idx]
		}
		y[k] = acc
	}
	for k := n - 1; k >= 0; k-- {
		row := s.upper[k]
		acc := y[k]
		for _, e := range row[1:] {
			acc -= e.val * dst[e.idx]
		}
		dst[k] = acc / row[0].val
	}

	return nil
}

// newSparseLUState snapshots the pattern of csr into a fresh state.
func newSparseLUState(csr *operator.CSR) *sparseLUState {
	n, _ := csr.Dims()
	rowPtr, colIdx, _ := csr.Raw()
	st := &sparseLUState{
		n:      n,
		rowPtr: append([]int(nil), rowPtr...),
		colIdx: append([]int(nil), colIdx...),
		perm:   make([]int, n),
		pos:    make([]int, n),
		lower:  make([][]sparseEntry, n),
		upper:  make([][]sparseEntry, n),
		work:   make([]float64, n),
	}

	return st
}

// patternMatches compares the operator's structure to the pinned snapshot.
func (s *sparseLUState) patternMatches(csr *operator.CSR) bool {
	rows, cols := csr.Dims()
	if rows != s.n || cols != s.n {
		return false
	}
	rowPtr, colIdx, _ := csr.Raw()
	if len(colIdx) != len(s.colIdx) {
		return false
	}
	for i := range rowPtr {
		if rowPtr[i] != s.rowPtr[i] {
			return false
		}
	}
	for p := range colIdx {
		if colIdx[p] != s.colIdx[p] {
			return false
		}
	}

	return true
}

// factorize runs the numeric elimination. pinned selects the pivot order:
// false discovers it by partial pivoting (and records it), true replays the
// recorded order verbatim.
func (s *sparseLUState) factorize(csr *operator.CSR, pinned bool) error {
	n := s.n
	rowPtr, colIdx, values := csr.Raw()

	// Working rows as column->value maps; fill-in inserts freely.
	rows := make([]map[int]float64, n)
	amax := 0.0
	for i := 0; i < n; i++ {
		m := make(map[int]float64, rowPtr[i+1]-rowPtr[i])
		for p := rowPtr[i]; p < rowPtr[i+1]; p++ {
			m[colIdx[p]] = values[p]
			if v := math.Abs(values[p]); v > amax {
				amax = v
			}
		}
		rows[i] = m
	}
	floor := pivotFloor(amax)

	placed := make([]bool, n)
	for i := range s.lower {
		s.lower[i] = s.lower[i][:0]
	}

	for k := 0; k < n; k++ {
		var r int
		if pinned {
			r = s.perm[k]
		} else {
			// Partial pivoting: the unplaced row with the largest
			// magnitude in column k.
			r = -1
			best := 0.0
			for i := 0; i < n; i++ {
				if placed[i] {
					continue
				}
				if v := math.Abs(rows[i][k]); r < 0 || v > best {
					best, r = v, i
				}
			}
			s.perm[k] = r
			s.pos[r] = k
		}
		pv := rows[r][k]
		if math.Abs(pv) <= floor {
			return fmt.Errorf("zero pivot at column %d: %w", k, solver.ErrSingular)
		}
		placed[r] = true

		for i := 0; i < n; i++ {
			if placed[i] {
				continue
			}
			v, hit := rows[i][k]
			if !hit || v == 0 {
				continue
			}
			m := v / pv
			delete(rows[i], k)
			s.lower[i] = append(s.lower[i], sparseEntry{idx: k, val: m})
			for c, pvval := range rows[r] {
				if c > k {
					rows[i][c] -= m * pvval
				}
			}
		}
	}

	// Freeze U rows: diagonal first, then remaining columns ascending.
	for k := 0; k < n; k++ {
		src := rows[s.perm[k]]
		row := s.upper[k][:0]
		row = append(row, sparseEntry{idx: k, val: src[k]})
		for c := k + 1; c < n; c++ {
			if v, hit := src[c]; hit && v != 0 {
				row = append(row, sparseEntry{idx: c, val: v})
			}
		}
		s.upper[k] = row
	}

	return nil
}

var _ solver.Strategy = SparseLU{}
