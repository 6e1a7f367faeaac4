// SPDX-License-Identifier: MIT

package solver

import "fmt"

// SolveFunc is a user-supplied direct solve routine: write the solution of
// the current system into dst given rhs and the opaque Problem.Params value.
type SolveFunc func(dst, rhs []float64, params any) error

// Func adapts a plain user function into a Strategy, for callers that bring
// their own solver (wrapped external library, problem-specific closed form)
// but still want the cache lifecycle, metrics and record plumbing.
//
// InPlace declares that Fn reads and writes dst as one buffer (dst is
// pre-seeded with the current guess); otherwise dst arrives zeroed.
// Setup, when non-nil, runs once per Prepare and again after every operator
// mutation - the hook for user-side refactorization.
type Func struct {
	Fn      SolveFunc
	Setup   func(p *Problem) error
	InPlace bool
}

// funcState is a marker: the user owns all real state behind Fn/Setup.
type funcState struct{}

func (*funcState) Release() {}

// Name implements Strategy.
func (Func) Name() string { return NameUserFunction }

// NeedsConcreteOperator implements Strategy: the function decides for itself
// what it needs; the cache imposes nothing.
func (Func) NeedsConcreteOperator() bool { return false }

// Prepare implements Strategy: runs the optional Setup hook.
func (f Func) Prepare(p *Problem, prev State) (State, error) {
	if prev != nil {
		prev.Release()
	}
	if f.Fn == nil {
		return nil, fmt.Errorf("%s: %w", NameUserFunction, ErrNilSolveFunc)
	}
	if f.Setup != nil {
		if err := f.Setup(p); err != nil {
			return nil, fmt.Errorf("%s: setup: %w", NameUserFunction, err)
		}
	}

	return &funcState{}, nil
}

// Apply implements Strategy: one invocation of the user function.
func (f Func) Apply(_ State, p *Problem, dst []float64) error {
	if f.InPlace {
		copy(dst, p.Guess)
	} else {
		for i := range dst {
			dst[i] = 0
		}
	}
	if err := f.Fn(dst, p.RHS, p.Params); err != nil {
		return fmt.Errorf("%s: %w", NameUserFunction, err)
	}

	return nil
}

var _ Strategy = Func{}
