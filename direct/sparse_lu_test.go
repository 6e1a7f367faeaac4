// SPDX-License-Identifier: MIT

package direct_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/linsolve/direct"
	"github.com/katalvlaran/linsolve/operator"
	"github.com/katalvlaran/linsolve/solver"
)

// poissonCSR builds the n-by-n -1/2/-1 stencil in CSR form.
func poissonCSR(t *testing.T, n int, diagVal float64) *operator.CSR {
	t.Helper()
	var is, js []int
	var vs []float64
	for i := 0; i < n; i++ {
		if i > 0 {
			is, js, vs = append(is, i), append(js, i-1), append(vs, -1)
		}
		is, js, vs = append(is, i), append(js, i), append(vs, diagVal)
		if i < n-1 {
			is, js, vs = append(is, i), append(js, i+1), append(vs, -1)
		}
	}
	csr, err := operator.CSRFromTriplets(n, n, is, js, vs)
	require.NoError(t, err)

	return csr
}

func TestSparseLU_KnownSolution(t *testing.T) {
	t.Parallel()

	n := 9
	op := poissonCSR(t, n, 2)
	b := make([]float64, n)
	b[0], b[n-1] = 1, 1 // solution is all ones

	x := solveOnce(t, direct.SparseLU{}, op, b)
	for i := range x {
		require.InDelta(t, 1.0, x[i], 1e-10)
	}
}

func TestSparseLU_PivotsOnZeroDiagonal(t *testing.T) {
	t.Parallel()

	// Permutation matrix with a zero diagonal everywhere: only partial
	// pivoting can factorize it.
	csr, err := operator.CSRFromTriplets(3, 3,
		[]int{0, 1, 2},
		[]int{1, 2, 0},
		[]float64{1, 1, 1},
	)
	require.NoError(t, err)

	x := solveOnce(t, direct.SparseLU{}, csr, []float64{10, 20, 30})
	require.InDeltaSlice(t, []float64{30, 10, 20}, x, 1e-12)
}

func TestSparseLU_SamePatternRefactorization(t *testing.T) {
	t.Parallel()

	n := 6
	cache, err := solver.Bind(poissonCSR(t, n, 4), onesVec(n),
		solver.WithStrategy(direct.SparseLU{}))
	require.NoError(t, err)
	defer cache.Release()

	rec1, err := cache.Solve()
	require.NoError(t, err)
	first := append([]float64(nil), rec1.Solution...)

	// Identical pattern, scaled values: the pinned pivot order must still
	// apply and the solution must scale accordingly.
	scaled := poissonCSR(t, n, 4)
	_, _, vals := scaled.Raw()
	for i := range vals {
		vals[i] *= 2
	}
	require.NoError(t, cache.SetOperator(scaled))

	rec2, err := cache.Solve()
	require.NoError(t, err)
	for i := range first {
		require.InDelta(t, first[i]/2, rec2.Solution[i], 1e-10)
	}
}

func TestSparseLU_PatternMismatch(t *testing.T) {
	t.Parallel()

	n := 5
	cache, err := solver.Bind(poissonCSR(t, n, 4), onesVec(n),
		solver.WithStrategy(direct.SparseLU{}))
	require.NoError(t, err)
	defer cache.Release()

	_, err = cache.Solve()
	require.NoError(t, err)

	// Diagonal-only pattern: structurally different from the stencil.
	diagOnly, err := operator.CSRFromTriplets(n, n,
		[]int{0, 1, 2, 3, 4},
		[]int{0, 1, 2, 3, 4},
		[]float64{1, 1, 1, 1, 1},
	)
	require.NoError(t, err)
	require.NoError(t, cache.SetOperator(diagOnly))

	_, err = cache.Solve()
	require.ErrorIs(t, err, solver.ErrPatternMismatch)
	require.Equal(t, solver.PhaseStale, cache.Phase())

	// Recovery protocol: re-mutate with the fresh-pattern flag, which drops
	// the pinned symbolic analysis and rebuilds from scratch.
	require.NoError(t, cache.SetOperator(diagOnly, solver.WithFreshPattern()))
	rec, err := cache.Solve()
	require.NoError(t, err)
	require.InDeltaSlice(t, onesVec(n), rec.Solution, 1e-12)
}

func TestSparseLU_PinnedPivotGoesSingular(t *testing.T) {
	t.Parallel()

	// Full 2x2 pattern. The first factorization pins row 0 as the pivot for
	// column 0; the replacement keeps the pattern (explicit zero) but makes
	// that pinned pivot vanish - refactorization must refuse rather than
	// silently re-pivot.
	full := func(a, b, c, d float64) *operator.CSR {
		csr, err := operator.CSRFromTriplets(2, 2,
			[]int{0, 0, 1, 1}, []int{0, 1, 0, 1}, []float64{a, b, c, d})
		require.NoError(t, err)

		return csr
	}

	cache, err := solver.Bind(full(2, 1, 1, 2), []float64{1, 1},
		solver.WithStrategy(direct.SparseLU{}))
	require.NoError(t, err)
	defer cache.Release()

	_, err = cache.Solve()
	require.NoError(t, err)

	require.NoError(t, cache.SetOperator(full(0, 1, 1, 0)))
	_, err = cache.Solve()
	require.ErrorIs(t, err, solver.ErrSingular)

	// A fresh symbolic analysis re-pivots and solves the same values fine.
	require.NoError(t, cache.SetOperator(full(0, 1, 1, 0), solver.WithFreshPattern()))
	rec, err := cache.Solve()
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{1, 1}, rec.Solution, 1e-12)
}

func TestSparseLU_RejectsNonSparse(t *testing.T) {
	t.Parallel()

	dense, err := operator.DenseOf(2, 2, []float64{1, 0, 0, 1})
	require.NoError(t, err)

	cache, err := solver.Bind(dense, []float64{1, 1}, solver.WithStrategy(direct.SparseLU{}))
	require.NoError(t, err)
	defer cache.Release()

	_, err = cache.Solve()
	require.ErrorIs(t, err, solver.ErrUnsupportedOperator)
}

func onesVec(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}

	return v
}
