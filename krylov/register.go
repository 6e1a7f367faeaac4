// SPDX-License-Identifier: MIT

package krylov

import (
	"github.com/katalvlaran/linsolve/operator"
	"github.com/katalvlaran/linsolve/solver"
)

// GMRES is the only registered default for abstract operators. All three
// methods are additionally registered at low priority for every materialized
// kind: they only need MulVec, so a trimmed-down registry with nothing else
// can still fall back to them.
func init() {
	all := []operator.Kind{
		operator.KindDense, operator.KindSymmetric, operator.KindDiagonal,
		operator.KindTridiagonal, operator.KindTriangular,
		operator.KindSparse, operator.KindAbstract,
	}

	solver.MustRegister(solver.Registration{
		Name: solver.NameGMRES, Kinds: all, Priority: 5,
		New: func() solver.Strategy { return GMRES{} },
	})
	solver.MustRegister(solver.Registration{
		Name: solver.NameCG, Kinds: []operator.Kind{operator.KindSymmetric, operator.KindAbstract}, Priority: 4,
		New: func() solver.Strategy { return CG{} },
	})
	solver.MustRegister(solver.Registration{
		Name: solver.NameBiCGStab, Kinds: all, Priority: 3,
		New: func() solver.Strategy { return BiCGStab{} },
	})
}
