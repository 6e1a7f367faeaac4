// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"

	"github.com/katalvlaran/linsolve/operator"
)

// nativeStrategy forwards solves to an operator's own NativeSolve method.
// It is the highest-precedence default: an operator that knows how to invert
// itself always beats generic factorization.
//
// Prepare is trivially cheap (no state beyond a typed handle), so this
// strategy never goes stale in a way that costs anything to refresh.
type nativeStrategy struct{}

// nativeState pins the NativeSolver interface resolved at Prepare time.
type nativeState struct {
	solver operator.NativeSolver
}

// Release implements State; nothing is held.
func (*nativeState) Release() {}

// Name implements Strategy.
func (nativeStrategy) Name() string { return NameNative }

// NeedsConcreteOperator implements Strategy: the native path works through
// the operator's own solve surface, no materialized storage required.
func (nativeStrategy) NeedsConcreteOperator() bool { return false }

// Prepare implements Strategy. prev is released and rebuilt: re-resolving
// the interface is cheaper than proving the old handle still matches.
func (nativeStrategy) Prepare(p *Problem, prev State) (State, error) {
	if prev != nil {
		prev.Release()
	}
	ns, ok := p.Operator.(operator.NativeSolver)
	if !ok {
		return nil, fmt.Errorf("%s: operator has no native solve: %w",
			NameNative, ErrUnsupportedOperator)
	}

	return &nativeState{solver: ns}, nil
}

// Apply implements Strategy: one NativeSolve call into dst.
func (nativeStrategy) Apply(st State, p *Problem, dst []float64) error {
	ns, ok := st.(*nativeState)
	if !ok {
		return fmt.Errorf("%s: foreign state: %w", NameNative, ErrUnsupportedOperator)
	}
	if err := ns.solver.NativeSolve(dst, p.RHS); err != nil {
		return fmt.Errorf("%s: %w", NameNative, err)
	}

	return nil
}

func init() {
	MustRegister(Registration{
		Name: NameNative,
		Kinds: []operator.Kind{
			operator.KindDense, operator.KindSymmetric, operator.KindDiagonal,
			operator.KindTridiagonal, operator.KindTriangular,
			operator.KindSparse, operator.KindAbstract,
		},
		Priority: 1, // reached by name, not by kind ranking
		New:      func() Strategy { return nativeStrategy{} },
	})
}
