// SPDX-License-Identifier: MIT

package solver_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/linsolve/solver"
)

func TestFunc_SolvesThroughUserFunction(t *testing.T) {
	t.Parallel()

	// x = rhs scaled by the params factor: trivial but observable.
	f := solver.Func{
		Fn: func(dst, rhs []float64, params any) error {
			factor := params.(float64)
			for i := range dst {
				dst[i] = rhs[i] * factor
			}

			return nil
		},
	}

	cache, err := solver.Bind(ident(t, 2), []float64{1, 2},
		solver.WithStrategy(f), solver.WithParams(0.5))
	require.NoError(t, err)
	defer cache.Release()

	rec, err := cache.Solve()
	require.NoError(t, err)
	require.Equal(t, []float64{0.5, 1}, rec.Solution)
}

func TestFunc_SetupRunsPerPrepare(t *testing.T) {
	t.Parallel()

	setups := 0
	f := solver.Func{
		Fn:    func(dst, rhs []float64, _ any) error { copy(dst, rhs); return nil },
		Setup: func(*solver.Problem) error { setups++; return nil },
	}

	cache, err := solver.Bind(ident(t, 2), []float64{1, 2}, solver.WithStrategy(f))
	require.NoError(t, err)
	defer cache.Release()

	_, err = cache.Solve()
	require.NoError(t, err)
	_, err = cache.Solve()
	require.NoError(t, err)
	require.Equal(t, 1, setups) // second solve reused

	require.NoError(t, cache.SetOperator(ident(t, 2)))
	_, err = cache.Solve()
	require.NoError(t, err)
	require.Equal(t, 2, setups) // mutation re-ran the user refactorization
}

func TestFunc_SetupFailurePropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("user setup failed")
	f := solver.Func{
		Fn:    func(dst, rhs []float64, _ any) error { copy(dst, rhs); return nil },
		Setup: func(*solver.Problem) error { return boom },
	}

	cache, err := solver.Bind(ident(t, 2), []float64{1, 2}, solver.WithStrategy(f))
	require.NoError(t, err)
	defer cache.Release()

	_, err = cache.Solve()
	require.ErrorIs(t, err, boom)
	require.Equal(t, solver.PhaseStale, cache.Phase())
}

func TestFunc_InPlaceSeedsFromGuess(t *testing.T) {
	t.Parallel()

	// The in-place function sees the current guess in dst and increments it;
	// rhs is ignored.
	f := solver.Func{
		InPlace: true,
		Fn: func(dst, _ []float64, _ any) error {
			for i := range dst {
				dst[i]++
			}

			return nil
		},
	}

	cache, err := solver.Bind(ident(t, 2), []float64{0, 0}, solver.WithStrategy(f))
	require.NoError(t, err)
	defer cache.Release()

	require.NoError(t, cache.SetGuess([]float64{10, 20}))
	rec, err := cache.Solve()
	require.NoError(t, err)
	require.Equal(t, []float64{11, 21}, rec.Solution)

	// The solution becomes the next guess: in-place chaining.
	rec, err = cache.Solve()
	require.NoError(t, err)
	require.Equal(t, []float64{12, 22}, rec.Solution)
}

func TestFunc_NilFnRejectedAtPrepare(t *testing.T) {
	t.Parallel()

	cache, err := solver.Bind(ident(t, 2), []float64{1, 2},
		solver.WithStrategy(solver.Func{}))
	require.NoError(t, err)
	defer cache.Release()

	_, err = cache.Solve()
	require.ErrorIs(t, err, solver.ErrNilSolveFunc)
	require.NotErrorIs(t, err, solver.ErrBadRegistration)
	require.Equal(t, solver.PhaseStale, cache.Phase())
}
