// SPDX-License-Identifier: MIT

package direct

import (
	"github.com/katalvlaran/linsolve/operator"
	"github.com/katalvlaran/linsolve/solver"
)

// Registration priorities within a kind: the blocked LU outranks the plain
// one for selector fallback purposes, the exact symmetric factorizations
// outrank least-squares generalists. The selector normally resolves by name;
// priorities only decide fallback order in trimmed-down registries.
func init() {
	dense := []operator.Kind{operator.KindDense}
	symmetric := []operator.Kind{operator.KindSymmetric}

	solver.MustRegister(solver.Registration{
		Name: solver.NameDenseBlocked, Kinds: dense, Priority: 60,
		New: func() solver.Strategy { return BlockedLU{} },
	})
	solver.MustRegister(solver.Registration{
		Name: solver.NameDenseLU, Kinds: dense, Priority: 50,
		New: func() solver.Strategy { return LU{} },
	})
	solver.MustRegister(solver.Registration{
		Name: solver.NameDenseQR, Kinds: dense, Priority: 30,
		New: func() solver.Strategy { return QR{} },
	})
	solver.MustRegister(solver.Registration{
		Name: solver.NameDenseSVD, Kinds: dense, Priority: 10,
		New: func() solver.Strategy { return SVD{} },
	})
	solver.MustRegister(solver.Registration{
		Name: solver.NameCholesky, Kinds: symmetric, Priority: 60,
		New: func() solver.Strategy { return Cholesky{} },
	})
	solver.MustRegister(solver.Registration{
		Name: solver.NameLDL, Kinds: symmetric, Priority: 50,
		New: func() solver.Strategy { return LDL{} },
	})
	solver.MustRegister(solver.Registration{
		Name: solver.NameDiagonal, Kinds: []operator.Kind{operator.KindDiagonal}, Priority: 50,
		New: func() solver.Strategy { return Diagonal{} },
	})
	solver.MustRegister(solver.Registration{
		Name: solver.NameTridiagonal, Kinds: []operator.Kind{operator.KindTridiagonal}, Priority: 50,
		New: func() solver.Strategy { return Thomas{} },
	})
	solver.MustRegister(solver.Registration{
		Name: solver.NameTriangular, Kinds: []operator.Kind{operator.KindTriangular}, Priority: 50,
		New: func() solver.Strategy { return TriangularSolve{} },
	})
	solver.MustRegister(solver.Registration{
		Name: solver.NameSparseLU, Kinds: []operator.Kind{operator.KindSparse}, Priority: 50,
		New: func() solver.Strategy { return SparseLU{} },
	})
}
