// SPDX-License-Identifier: MIT

package direct_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/linsolve/direct"
	"github.com/katalvlaran/linsolve/operator"
	"github.com/katalvlaran/linsolve/solver"
)

// solveOnce drives one Prepare+Apply through a fresh cache.
func solveOnce(t *testing.T, s solver.Strategy, op operator.Operator, rhs []float64) []float64 {
	t.Helper()
	cache, err := solver.Bind(op, rhs, solver.WithStrategy(s))
	require.NoError(t, err)
	defer cache.Release()

	rec, err := cache.Solve()
	require.NoError(t, err)
	require.Equal(t, solver.StatusOK, rec.Status)

	return append([]float64(nil), rec.Solution...)
}

// residualNorm returns |A*x - b|_inf.
func residualNorm(t *testing.T, op operator.Operator, x, b []float64) float64 {
	t.Helper()
	ax := make([]float64, len(b))
	require.NoError(t, op.MulVec(ax, x))
	worst := 0.0
	for i := range ax {
		if d := ax[i] - b[i]; d > worst {
			worst = d
		} else if -d > worst {
			worst = -d
		}
	}

	return worst
}

// randomDominant builds a seeded diagonally dominant n-by-n dense operator.
func randomDominant(t *testing.T, n int, seed int64) *operator.Dense {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	data := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			data[i*n+j] = rng.NormFloat64()
		}
		data[i*n+i] += float64(n)
	}
	op, err := operator.DenseOf(n, n, data)
	require.NoError(t, err)

	return op
}

func TestLU_KnownSolution(t *testing.T) {
	t.Parallel()

	op, err := operator.DenseOf(2, 2, []float64{2, 1, 1, 3})
	require.NoError(t, err)

	// [2 1; 1 3] x = [3; 5] -> x = [0.8; 1.4].
	x := solveOnce(t, direct.LU{}, op, []float64{3, 5})
	require.InDeltaSlice(t, []float64{0.8, 1.4}, x, 1e-12)
}

func TestLU_SingularMatrix(t *testing.T) {
	t.Parallel()

	op, err := operator.DenseOf(2, 2, []float64{1, 2, 2, 4})
	require.NoError(t, err)

	cache, err := solver.Bind(op, []float64{1, 1}, solver.WithStrategy(direct.LU{}))
	require.NoError(t, err)
	defer cache.Release()

	_, err = cache.Solve()
	require.ErrorIs(t, err, solver.ErrSingular)
	require.Equal(t, solver.PhaseStale, cache.Phase())
}

func TestLU_RejectsNonDense(t *testing.T) {
	t.Parallel()

	diag, err := operator.DiagonalOf([]float64{1, 2})
	require.NoError(t, err)

	cache, err := solver.Bind(diag, []float64{1, 1}, solver.WithStrategy(direct.LU{}))
	require.NoError(t, err)
	defer cache.Release()

	_, err = cache.Solve()
	require.ErrorIs(t, err, solver.ErrUnsupportedOperator)
}

func TestBlockedLU_MatchesPlainLU(t *testing.T) {
	t.Parallel()

	// Dimension chosen to exercise partial blocks (not a multiple of the
	// panel width).
	op := randomDominant(t, 67, 1)
	rhs := make([]float64, 67)
	for i := range rhs {
		rhs[i] = float64(i%5) - 2
	}

	plain := solveOnce(t, direct.LU{}, op, rhs)
	blocked := solveOnce(t, direct.BlockedLU{BlockSize: 16}, op, rhs)
	require.InDeltaSlice(t, plain, blocked, 1e-9)
	require.Less(t, residualNorm(t, op, blocked, rhs), 1e-9)
}

func TestBlockedLU_PivotsCorrectly(t *testing.T) {
	t.Parallel()

	// Zero on the leading diagonal: unpivoted elimination would divide by
	// zero immediately.
	op, err := operator.DenseOf(2, 2, []float64{0, 1, 1, 0})
	require.NoError(t, err)

	x := solveOnce(t, direct.BlockedLU{}, op, []float64{3, 7})
	require.InDeltaSlice(t, []float64{7, 3}, x, 1e-12)
}

func TestBlockedLU_SingularMatrix(t *testing.T) {
	t.Parallel()

	op, err := operator.DenseOf(2, 2, []float64{1, 2, 2, 4})
	require.NoError(t, err)

	cache, err := solver.Bind(op, []float64{1, 1}, solver.WithStrategy(direct.BlockedLU{}))
	require.NoError(t, err)
	defer cache.Release()

	_, err = cache.Solve()
	require.ErrorIs(t, err, solver.ErrSingular)
}

func TestBlockedLU_ReusesAcrossRefactorization(t *testing.T) {
	t.Parallel()

	cache, err := solver.Bind(randomDominant(t, 10, 2), make([]float64, 10),
		solver.WithStrategy(direct.BlockedLU{}))
	require.NoError(t, err)
	defer cache.Release()

	_, err = cache.Solve()
	require.NoError(t, err)

	// Same-dimension mutation: the refactorization path reuses buffers and
	// must still produce a correct solution.
	op2 := randomDominant(t, 10, 3)
	require.NoError(t, cache.SetOperator(op2))
	require.NoError(t, cache.SetRHS([]float64{1, 0, 0, 0, 0, 0, 0, 0, 0, 1}))

	rec, err := cache.Solve()
	require.NoError(t, err)
	require.Less(t, residualNorm(t, op2, rec.Solution, []float64{1, 0, 0, 0, 0, 0, 0, 0, 0, 1}), 1e-9)
}

func TestQR_LeastSquares(t *testing.T) {
	t.Parallel()

	// Overdetermined: fit y = a + b*t through three points; exact fit exists
	// for collinear data.
	op, err := operator.DenseOf(3, 2, []float64{
		1, 0,
		1, 1,
		1, 2,
	})
	require.NoError(t, err)

	x := solveOnce(t, direct.QR{}, op, []float64{1, 3, 5})
	require.InDeltaSlice(t, []float64{1, 2}, x, 1e-12)
}

func TestQR_RejectsUnderdetermined(t *testing.T) {
	t.Parallel()

	op, err := operator.DenseOf(2, 3, make([]float64, 6))
	require.NoError(t, err)

	cache, err := solver.Bind(op, []float64{1, 1}, solver.WithStrategy(direct.QR{}))
	require.NoError(t, err)
	defer cache.Release()

	_, err = cache.Solve()
	require.ErrorIs(t, err, solver.ErrShapeMismatch)
}

func TestSVD_RankDeficientMinimumNorm(t *testing.T) {
	t.Parallel()

	// Rank-1 matrix: LU and QR give up, SVD returns the minimum-norm
	// least-squares solution x = [1; 1] for b = [2; 2] (A = ones(2,2)).
	op, err := operator.DenseOf(2, 2, []float64{1, 1, 1, 1})
	require.NoError(t, err)

	x := solveOnce(t, direct.SVD{}, op, []float64{2, 2})
	require.InDeltaSlice(t, []float64{1, 1}, x, 1e-12)
}

func TestSVD_ZeroMatrixIsSingular(t *testing.T) {
	t.Parallel()

	op, err := operator.DenseOf(2, 2, make([]float64, 4))
	require.NoError(t, err)

	cache, err := solver.Bind(op, []float64{1, 1}, solver.WithStrategy(direct.SVD{}))
	require.NoError(t, err)
	defer cache.Release()

	_, err = cache.Solve()
	require.ErrorIs(t, err, solver.ErrSingular)
}

func TestCholesky_SPDSystem(t *testing.T) {
	t.Parallel()

	sym := mat.NewSymDense(2, []float64{4, 1, 1, 3})
	op, err := operator.NewSymmetric(sym, true)
	require.NoError(t, err)

	x := solveOnce(t, direct.Cholesky{}, op, []float64{1, 2})
	require.Less(t, residualNorm(t, op, x, []float64{1, 2}), 1e-12)
}

func TestCholesky_NonPDFailsLoudly(t *testing.T) {
	t.Parallel()

	// Indefinite despite the (wrong) SPD hint a caller might give.
	sym := mat.NewSymDense(2, []float64{1, 2, 2, 1})
	op, err := operator.NewSymmetric(sym, true)
	require.NoError(t, err)

	cache, err := solver.Bind(op, []float64{1, 1}, solver.WithStrategy(direct.Cholesky{}))
	require.NoError(t, err)
	defer cache.Release()

	_, err = cache.Solve()
	require.ErrorIs(t, err, solver.ErrSingular)
}

func TestLDL_IndefiniteSystem(t *testing.T) {
	t.Parallel()

	// Eigenvalues 3 and -1: Cholesky territory ends here, LDL carries on.
	sym := mat.NewSymDense(2, []float64{1, 2, 2, 1})
	op, err := operator.NewSymmetric(sym, false)
	require.NoError(t, err)

	x := solveOnce(t, direct.LDL{}, op, []float64{5, 4})
	require.Less(t, residualNorm(t, op, x, []float64{5, 4}), 1e-12)
}

func TestLDL_SingularMatrix(t *testing.T) {
	t.Parallel()

	sym := mat.NewSymDense(2, []float64{1, 1, 1, 1})
	op, err := operator.NewSymmetric(sym, false)
	require.NoError(t, err)

	cache, err := solver.Bind(op, []float64{1, 1}, solver.WithStrategy(direct.LDL{}))
	require.NoError(t, err)
	defer cache.Release()

	_, err = cache.Solve()
	require.ErrorIs(t, err, solver.ErrSingular)
}
