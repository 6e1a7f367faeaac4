// SPDX-License-Identifier: MIT
// Package operator: matrix-free operators known only through callbacks.
// The callback shape (dst, x) mirrors the matrix-vector contract used by
// iterative solvers; see the krylov package for the consuming side.

package operator

// MulVecFunc computes dst = A*x. dst and x never alias.
type MulVecFunc func(dst, x []float64)

// SolveFunc computes dst with A*dst = rhs. dst and rhs never alias.
type SolveFunc func(dst, rhs []float64) error

// MatFree is an abstract operator exposing only a matrix-vector product.
// It is the canonical KindAbstract citizen: the selector routes it to a
// Krylov method because nothing can be factorized.
type MatFree struct {
	rows, cols int
	mulVec     MulVecFunc
}

// NewMatFree builds a matrix-free operator of the given shape.
// Errors: ErrBadShape on non-positive dimensions, ErrNilCallback when
// mulVec is nil.
func NewMatFree(rows, cols int, mulVec MulVecFunc) (*MatFree, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrBadShape
	}
	if mulVec == nil {
		return nil, ErrNilCallback
	}

	return &MatFree{rows: rows, cols: cols, mulVec: mulVec}, nil
}

// Dims returns the declared shape.
func (m *MatFree) Dims() (rows, cols int) { return m.rows, m.cols }

// Kind reports KindAbstract.
func (m *MatFree) Kind() Kind { return KindAbstract }

// MulVec applies the callback after shape validation.
func (m *MatFree) MulVec(dst, x []float64) error {
	if err := ValidateMulVec(dst, x, m.rows, m.cols); err != nil {
		return err
	}
	m.mulVec(dst, x)

	return nil
}

// MatFreeSolver is a matrix-free operator that additionally wraps its own
// efficient solve; it satisfies NativeSolver and therefore short-circuits
// the default-strategy selector into the passthrough strategy.
type MatFreeSolver struct {
	MatFree
	solve SolveFunc
}

// NewMatFreeSolver builds a matrix-free operator carrying a native solve.
// Errors as NewMatFree, plus ErrNilCallback when solve is nil.
func NewMatFreeSolver(rows, cols int, mulVec MulVecFunc, solve SolveFunc) (*MatFreeSolver, error) {
	inner, err := NewMatFree(rows, cols, mulVec)
	if err != nil {
		return nil, err
	}
	if solve == nil {
		return nil, ErrNilCallback
	}

	return &MatFreeSolver{MatFree: *inner, solve: solve}, nil
}

// NativeSolve defers to the wrapped solve callback after shape validation.
func (m *MatFreeSolver) NativeSolve(dst, rhs []float64) error {
	if err := ValidateVecLen(dst, m.cols); err != nil {
		return err
	}
	if err := ValidateVecLen(rhs, m.rows); err != nil {
		return err
	}

	return m.solve(dst, rhs)
}

// Compile-time trait checks.
var (
	_ Operator     = (*MatFree)(nil)
	_ NativeSolver = (*MatFreeSolver)(nil)
	_ Operator     = (*Dense)(nil)
	_ Operator     = (*Symmetric)(nil)
	_ Operator     = (*Diagonal)(nil)
	_ Operator     = (*Triangular)(nil)
	_ Operator     = (*Tridiagonal)(nil)
	_ Operator     = (*CSR)(nil)
)
