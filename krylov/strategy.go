// SPDX-License-Identifier: MIT

package krylov

import (
	"fmt"

	"github.com/katalvlaran/linsolve/solver"
)

// GMRES is the restarted-GMRES strategy - the default for abstract
// operators. Prepare sizes the Arnoldi workspace (O(restart*n) floats),
// Apply runs the iteration warm-started from the current guess buffer.
type GMRES struct {
	Settings Settings
}

type gmresState struct {
	ws    *gmresWorkspace
	stats Stats
}

func (s *gmresState) Release()                   { s.ws = nil }
func (s *gmresState) SolveStats() (int, float64) { return s.stats.Iterations, s.stats.Residual }

// Name implements solver.Strategy.
func (GMRES) Name() string { return solver.NameGMRES }

// NeedsConcreteOperator implements solver.Strategy: MulVec is enough.
func (GMRES) NeedsConcreteOperator() bool { return false }

// Prepare implements solver.Strategy: workspace (re)allocation. A previous
// state with matching dimensions is reused untouched - operator mutation
// invalidates nothing here, since nothing of the operator is cached.
func (g GMRES) Prepare(p *solver.Problem, prev solver.State) (solver.State, error) {
	n, _ := p.Operator.Dims()
	m := g.Settings.restart(n)
	if st, ok := prev.(*gmresState); ok && st.ws != nil && st.ws.n == n && st.ws.m == m {
		return st, nil
	}
	if prev != nil {
		prev.Release()
	}

	return &gmresState{ws: newGMRESWorkspace(n, m, g.Settings.Precondition != nil)}, nil
}

// Apply implements solver.Strategy: one GMRES run, dst doubles as the warm
// start. ErrIterationLimit leaves the best iterate in dst.
func (g GMRES) Apply(st solver.State, p *solver.Problem, dst []float64) error {
	s, ok := st.(*gmresState)
	if !ok || s.ws == nil {
		return fmt.Errorf("%s: foreign or released state: %w",
			g.Name(), solver.ErrUnsupportedOperator)
	}
	var err error
	s.stats, err = gmres(p.Operator, p.RHS, dst, g.Settings, s.ws)
	if err != nil {
		return fmt.Errorf("%s: %w", g.Name(), err)
	}

	return nil
}

// CG is the conjugate-gradient strategy for symmetric positive-definite
// systems: one operator application per iteration, minimal memory.
type CG struct {
	Settings Settings
}

type cgState struct {
	ws    *cgWorkspace
	n     int
	stats Stats
}

func (s *cgState) Release()                   { s.ws = nil }
func (s *cgState) SolveStats() (int, float64) { return s.stats.Iterations, s.stats.Residual }

// Name implements solver.Strategy.
func (CG) Name() string { return solver.NameCG }

// NeedsConcreteOperator implements solver.Strategy.
func (CG) NeedsConcreteOperator() bool { return false }

// Prepare implements solver.Strategy.
func (c CG) Prepare(p *solver.Problem, prev solver.State) (solver.State, error) {
	n, _ := p.Operator.Dims()
	if st, ok := prev.(*cgState); ok && st.ws != nil && st.n == n {
		return st, nil
	}
	if prev != nil {
		prev.Release()
	}

	return &cgState{ws: newCGWorkspace(n), n: n}, nil
}

// Apply implements solver.Strategy.
func (c CG) Apply(st solver.State, p *solver.Problem, dst []float64) error {
	s, ok := st.(*cgState)
	if !ok || s.ws == nil {
		return fmt.Errorf("%s: foreign or released state: %w",
			c.Name(), solver.ErrUnsupportedOperator)
	}
	var err error
	s.stats, err = cg(p.Operator, p.RHS, dst, c.Settings, s.ws)
	if err != nil {
		return fmt.Errorf("%s: %w", c.Name(), err)
	}

	return nil
}

// BiCGStab is the stabilized bi-conjugate-gradient strategy for general
// nonsymmetric systems: fixed memory, two operator applications per step.
type BiCGStab struct {
	Settings Settings
}

type bicgstabState struct {
	ws    *bicgstabWorkspace
	n     int
	stats Stats
}

func (s *bicgstabState) Release()                   { s.ws = nil }
func (s *bicgstabState) SolveStats() (int, float64) { return s.stats.Iterations, s.stats.Residual }

// Name implements solver.Strategy.
func (BiCGStab) Name() string { return solver.NameBiCGStab }

// NeedsConcreteOperator implements solver.Strategy.
func (BiCGStab) NeedsConcreteOperator() bool { return false }

// Prepare implements solver.Strategy.
func (b BiCGStab) Prepare(p *solver.Problem, prev solver.State) (solver.State, error) {
	n, _ := p.Operator.Dims()
	if st, ok := prev.(*bicgstabState); ok && st.ws != nil && st.n == n {
		return st, nil
	}
	if prev != nil {
		prev.Release()
	}

	return &bicgstabState{ws: newBiCGStabWorkspace(n), n: n}, nil
}

// Apply implements solver.Strategy.
func (b BiCGStab) Apply(st solver.State, p *solver.Problem, dst []float64) error {
	s, ok := st.(*bicgstabState)
	if !ok || s.ws == nil {
		return fmt.Errorf("%s: foreign or released state: %w",
			b.Name(), solver.ErrUnsupportedOperator)
	}
	var err error
	s.stats, err = bicgstab(p.Operator, p.RHS, dst, b.Settings, s.ws)
	if err != nil {
		return fmt.Errorf("%s: %w", b.Name(), err)
	}

	return nil
}

var (
	_ solver.Strategy     = GMRES{}
	_ solver.Strategy     = CG{}
	_ solver.Strategy     = BiCGStab{}
	_ solver.StatReporter = (*gmresState)(nil)
	_ solver.StatReporter = (*cgState)(nil)
	_ solver.StatReporter = (*bicgstabState)(nil)
)
