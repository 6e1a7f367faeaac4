// SPDX-License-Identifier: MIT

package solver_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/linsolve/operator"
	"github.com/katalvlaran/linsolve/solver"
)

// stubState counts releases through a shared counter.
type stubState struct {
	releases *int
}

func (s *stubState) Release() { *s.releases++ }

// stubStrategy is a scriptable backend: it counts calls, records the prev
// state handed to Prepare and can be told to fail either phase.
type stubStrategy struct {
	name       string
	rect       bool
	prepares   int
	applies    int
	prepareErr error
	applyErr   error
	lastPrev   solver.State
	releases   int
}

func (s *stubStrategy) Name() string                { return s.name }
func (s *stubStrategy) NeedsConcreteOperator() bool { return false }
func (s *stubStrategy) SolvesRectangular() bool     { return s.rect }

func (s *stubStrategy) Prepare(_ *solver.Problem, prev solver.State) (solver.State, error) {
	s.prepares++
	s.lastPrev = prev
	if s.prepareErr != nil {
		if prev != nil {
			prev.Release()
		}

		return nil, s.prepareErr
	}

	return &stubState{releases: &s.releases}, nil
}

func (s *stubStrategy) Apply(_ solver.State, p *solver.Problem, dst []float64) error {
	s.applies++
	if s.applyErr != nil {
		return s.applyErr
	}
	copy(dst, p.RHS)

	return nil
}

// countingMetrics records every hook invocation.
type countingMetrics struct {
	prepares, reuses, applies int
	failures                  map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{failures: make(map[string]int)}
}

func (m *countingMetrics) Prepare(string) { m.prepares++ }
func (m *countingMetrics) Reuse(string)   { m.reuses++ }
func (m *countingMetrics) Apply(string)   { m.applies++ }
func (m *countingMetrics) Failure(_, reason string) {
	m.failures[reason]++
}

func ident(t *testing.T, n int) *operator.Dense {
	t.Helper()
	data := make([]float64, n*n)
	for i := 0; i < n; i++ {
		data[i*n+i] = 1
	}
	op, err := operator.DenseOf(n, n, data)
	require.NoError(t, err)

	return op
}

func TestBind_Validation(t *testing.T) {
	t.Parallel()

	_, err := solver.Bind(nil, []float64{1})
	require.ErrorIs(t, err, operator.ErrNilOperator)

	stub := &stubStrategy{name: "stub"}
	_, err = solver.Bind(ident(t, 2), []float64{1, 2, 3}, solver.WithStrategy(stub))
	require.ErrorIs(t, err, solver.ErrShapeMismatch)
}

func TestBind_RectangularRequiresLeastSquares(t *testing.T) {
	t.Parallel()

	rect, err := operator.DenseOf(3, 2, make([]float64, 6))
	require.NoError(t, err)

	_, err = solver.Bind(rect, make([]float64, 3),
		solver.WithStrategy(&stubStrategy{name: "square-only"}))
	require.ErrorIs(t, err, solver.ErrShapeMismatch)

	cache, err := solver.Bind(rect, make([]float64, 3),
		solver.WithStrategy(&stubStrategy{name: "ls", rect: true}))
	require.NoError(t, err)
	cache.Release()
}

func TestCache_LifecyclePhases(t *testing.T) {
	t.Parallel()

	stub := &stubStrategy{name: "stub"}
	m := newCountingMetrics()

	cache, err := solver.Bind(ident(t, 2), []float64{1, 2},
		solver.WithStrategy(stub), solver.WithMetrics(m))
	require.NoError(t, err)
	defer cache.Release()

	// Lazy allocation: nothing prepared at bind time.
	require.Equal(t, solver.PhaseUnbound, cache.Phase())
	require.Equal(t, 0, stub.prepares)

	rec, err := cache.Solve()
	require.NoError(t, err)
	require.Equal(t, solver.PhaseReady, cache.Phase())
	require.Equal(t, 1, stub.prepares)
	require.Equal(t, 1, stub.applies)
	require.Equal(t, []float64{1, 2}, rec.Solution)
	require.Same(t, cache, rec.Cache)
	require.Nil(t, stub.lastPrev) // first Prepare starts from nothing

	// Second solve: pure reuse.
	_, err = cache.Solve()
	require.NoError(t, err)
	require.Equal(t, 1, stub.prepares)
	require.Equal(t, 2, stub.applies)
	require.Equal(t, 1, m.reuses)
}

func TestCache_SetRHSNeverStales(t *testing.T) {
	t.Parallel()

	stub := &stubStrategy{name: "stub"}
	cache, err := solver.Bind(ident(t, 2), []float64{1, 2}, solver.WithStrategy(stub))
	require.NoError(t, err)
	defer cache.Release()

	_, err = cache.Solve()
	require.NoError(t, err)

	require.NoError(t, cache.SetRHS([]float64{5, 6}))
	require.Equal(t, solver.PhaseReady, cache.Phase())

	rec, err := cache.Solve()
	require.NoError(t, err)
	require.Equal(t, 1, stub.prepares) // still the first factorization
	require.Equal(t, []float64{5, 6}, rec.Solution)

	require.ErrorIs(t, cache.SetRHS([]float64{1}), solver.ErrShapeMismatch)
}

func TestCache_SetOperatorStalesAndHandsPrevState(t *testing.T) {
	t.Parallel()

	stub := &stubStrategy{name: "stub"}
	cache, err := solver.Bind(ident(t, 2), []float64{1, 2}, solver.WithStrategy(stub))
	require.NoError(t, err)
	defer cache.Release()

	_, err = cache.Solve()
	require.NoError(t, err)

	require.NoError(t, cache.SetOperator(ident(t, 2)))
	require.Equal(t, solver.PhaseStale, cache.Phase())

	_, err = cache.Solve()
	require.NoError(t, err)
	require.Equal(t, 2, stub.prepares)
	require.NotNil(t, stub.lastPrev) // same-pattern default: prev handed over

	// Dimension change is rejected outright.
	err = cache.SetOperator(ident(t, 3))
	require.ErrorIs(t, err, solver.ErrShapeMismatch)
}

func TestCache_WithFreshPatternForcesNilPrev(t *testing.T) {
	t.Parallel()

	stub := &stubStrategy{name: "stub"}
	cache, err := solver.Bind(ident(t, 2), []float64{1, 2}, solver.WithStrategy(stub))
	require.NoError(t, err)
	defer cache.Release()

	_, err = cache.Solve()
	require.NoError(t, err)

	require.NoError(t, cache.SetOperator(ident(t, 2), solver.WithFreshPattern()))
	_, err = cache.Solve()
	require.NoError(t, err)
	require.Nil(t, stub.lastPrev)
	require.Equal(t, 1, stub.releases) // the old state was released, not reused

	// One-shot: the next mutation reverts to same-pattern reuse.
	require.NoError(t, cache.SetOperator(ident(t, 2)))
	_, err = cache.Solve()
	require.NoError(t, err)
	require.NotNil(t, stub.lastPrev)
}

func TestCache_PrepareFailureLeavesStaleAndRetries(t *testing.T) {
	t.Parallel()

	stub := &stubStrategy{
		name:       "stub",
		prepareErr: fmt.Errorf("factor: %w", solver.ErrSingular),
	}
	m := newCountingMetrics()
	cache, err := solver.Bind(ident(t, 2), []float64{1, 2},
		solver.WithStrategy(stub), solver.WithMetrics(m))
	require.NoError(t, err)
	defer cache.Release()

	_, err = cache.Solve()
	require.ErrorIs(t, err, solver.ErrSingular)
	require.Equal(t, solver.PhaseStale, cache.Phase())
	require.Equal(t, 1, m.failures["singular"])
	require.Equal(t, 0, stub.applies) // Apply never ran

	// Correct the failure and retry on the same cache.
	stub.prepareErr = nil
	rec, err := cache.Solve()
	require.NoError(t, err)
	require.Equal(t, solver.PhaseReady, cache.Phase())
	require.Equal(t, []float64{1, 2}, rec.Solution)
}

func TestCache_ApplyFailureLeavesStale(t *testing.T) {
	t.Parallel()

	stub := &stubStrategy{
		name:     "stub",
		applyErr: fmt.Errorf("substitute: %w", solver.ErrSingular),
	}
	cache, err := solver.Bind(ident(t, 2), []float64{1, 2}, solver.WithStrategy(stub))
	require.NoError(t, err)
	defer cache.Release()

	_, err = cache.Solve()
	require.ErrorIs(t, err, solver.ErrSingular)
	require.Equal(t, solver.PhaseStale, cache.Phase())

	stub.applyErr = nil
	_, err = cache.Solve()
	require.NoError(t, err)
	require.Equal(t, 2, stub.prepares) // stale forced a re-Prepare
}

func TestCache_IterationLimitIsNotAnError(t *testing.T) {
	t.Parallel()

	stub := &stubStrategy{
		name:     "stub",
		applyErr: fmt.Errorf("krylov: %w", solver.ErrIterationLimit),
	}
	m := newCountingMetrics()
	cache, err := solver.Bind(ident(t, 2), []float64{1, 2},
		solver.WithStrategy(stub), solver.WithMetrics(m))
	require.NoError(t, err)
	defer cache.Release()

	rec, err := cache.Solve()
	require.NoError(t, err)
	require.Equal(t, solver.StatusIterationLimit, rec.Status)
	require.Equal(t, solver.PhaseReady, cache.Phase())
	require.Equal(t, 1, m.applies)
	require.Empty(t, m.failures)
}

func TestBind_WithGuessSeedsSolutionBuffer(t *testing.T) {
	t.Parallel()

	// The in-place function increments the seeded buffer, so the solve
	// observes exactly what Bind stored.
	f := solver.Func{
		InPlace: true,
		Fn: func(dst, _ []float64, _ any) error {
			for i := range dst {
				dst[i]++
			}

			return nil
		},
	}

	g := []float64{10, 20}
	cache, err := solver.Bind(ident(t, 2), []float64{0, 0},
		solver.WithStrategy(f), solver.WithGuess(g))
	require.NoError(t, err)
	defer cache.Release()

	g[0] = -99 // Bind copied; caller-side mutation must not leak in

	rec, err := cache.Solve()
	require.NoError(t, err)
	require.Equal(t, []float64{11, 21}, rec.Solution)
}

func TestBind_WithGuessLengthValidated(t *testing.T) {
	t.Parallel()

	_, err := solver.Bind(ident(t, 2), []float64{1, 2},
		solver.WithStrategy(&stubStrategy{name: "stub"}),
		solver.WithGuess([]float64{1, 2, 3}))
	require.ErrorIs(t, err, solver.ErrShapeMismatch)

	// nil keeps the zeroed default.
	cache, err := solver.Bind(ident(t, 2), []float64{1, 2},
		solver.WithStrategy(&stubStrategy{name: "stub"}), solver.WithGuess(nil))
	require.NoError(t, err)
	cache.Release()
}

func TestCache_SetGuessCopies(t *testing.T) {
	t.Parallel()

	stub := &stubStrategy{name: "stub"}
	cache, err := solver.Bind(ident(t, 2), []float64{1, 2}, solver.WithStrategy(stub))
	require.NoError(t, err)
	defer cache.Release()

	g := []float64{7, 8}
	require.NoError(t, cache.SetGuess(g))
	g[0] = 99 // caller-side mutation must not leak in

	require.ErrorIs(t, cache.SetGuess([]float64{1}), solver.ErrShapeMismatch)
}

func TestCache_ReleaseIsIdempotentAndTerminal(t *testing.T) {
	t.Parallel()

	stub := &stubStrategy{name: "stub"}
	cache, err := solver.Bind(ident(t, 2), []float64{1, 2}, solver.WithStrategy(stub))
	require.NoError(t, err)

	_, err = cache.Solve()
	require.NoError(t, err)

	cache.Release()
	require.Equal(t, 1, stub.releases)
	cache.Release() // second call is a no-op
	require.Equal(t, 1, stub.releases)

	_, err = cache.Solve()
	require.ErrorIs(t, err, solver.ErrReleased)
	require.ErrorIs(t, cache.SetRHS([]float64{1, 2}), solver.ErrReleased)
	require.ErrorIs(t, cache.SetOperator(ident(t, 2)), solver.ErrReleased)
}

func TestCache_NilReceiver(t *testing.T) {
	t.Parallel()

	var cache *solver.Cache
	_, err := cache.Solve()
	require.ErrorIs(t, err, solver.ErrNilCache)
	require.ErrorIs(t, cache.SetRHS(nil), solver.ErrNilCache)
	require.Equal(t, solver.PhaseUnbound, cache.Phase())

	cache.Release() // must not panic

	if !errors.Is(cache.SetGuess(nil), solver.ErrNilCache) {
		t.Fatal("SetGuess on nil cache must report ErrNilCache")
	}
}

func TestPhase_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "unbound", solver.PhaseUnbound.String())
	require.Equal(t, "ready", solver.PhaseReady.String())
	require.Equal(t, "stale", solver.PhaseStale.String())
}
