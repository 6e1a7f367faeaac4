// SPDX-License-Identifier: MIT

// Package operator: domain-facing interfaces and trait categories.
// Concrete implementations live in dedicated files (dense.go, structured.go,
// csr.go, matfree.go); this file holds only the contracts the solver core
// dispatches on.
package operator

// Kind is the trait category of an operator, used by the backend registry
// and the default-strategy selector. It deliberately encodes structure, not
// implementation: two different dense containers share KindDense.
type Kind int

const (
	// KindDense marks a general materialized dense matrix.
	KindDense Kind = iota

	// KindSymmetric marks a materialized symmetric dense matrix
	// (optionally hinted positive definite).
	KindSymmetric

	// KindDiagonal marks a materialized diagonal matrix.
	KindDiagonal

	// KindTridiagonal marks a materialized tridiagonal matrix.
	KindTridiagonal

	// KindTriangular marks a materialized triangular matrix.
	KindTriangular

	// KindSparse marks a materialized sparse matrix (CSR storage).
	KindSparse

	// KindAbstract marks a matrix-free operator exposed only through
	// callbacks; factorization strategies cannot serve it.
	KindAbstract
)

// String returns a stable, lowercase label for the kind.
// Used in registry diagnostics and metrics labels; never parsed back.
func (k Kind) String() string {
	switch k {
	case KindDense:
		return "dense"
	case KindSymmetric:
		return "symmetric"
	case KindDiagonal:
		return "diagonal"
	case KindTridiagonal:
		return "tridiagonal"
	case KindTriangular:
		return "triangular"
	case KindSparse:
		return "sparse"
	case KindAbstract:
		return "abstract"
	default:
		return "unknown"
	}
}

// Operator is a linear map A acting on float64 vectors.
//
// Every operator, materialized or not, must report its shape and apply the
// map. Concrete storage is reached by type-asserting to the specific
// implementation (*Dense, *CSR, ...); strategies that need storage do exactly
// that and reject foreign kinds with a sentinel.
//
// Complexity notes: Dims and Kind are O(1); MulVec is O(nnz) for sparse and
// O(r*c) for dense kinds.
type Operator interface {
	// Dims returns the number of rows and columns of the operator.
	Dims() (rows, cols int)

	// Kind returns the trait category used for strategy dispatch.
	Kind() Kind

	// MulVec computes dst = A*x.
	// Returns ErrDimensionMismatch when len(x) != cols or len(dst) != rows.
	MulVec(dst, x []float64) error
}

// NativeSolver is implemented by operators that carry their own efficient
// solve capability (apply-inverse). The default-strategy selector checks this
// trait FIRST: such operators are served by a passthrough strategy that
// defers entirely to NativeSolve.
type NativeSolver interface {
	Operator

	// NativeSolve computes dst such that A*dst = rhs using the operator's
	// own solver. Implementations report their own failure sentinels.
	NativeSolve(dst, rhs []float64) error
}
