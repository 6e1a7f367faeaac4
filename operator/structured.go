// SPDX-License-Identifier: MIT
// Package operator: structurally specialized dense kinds. Diagonal and
// Triangular reuse gonum/mat containers; Tridiagonal keeps its three bands as
// plain slices because that is exactly the layout the Thomas solver consumes.

package operator

import "gonum.org/v1/gonum/mat"

// Diagonal is a materialized diagonal operator wrapping *mat.DiagDense.
type Diagonal struct {
	m *mat.DiagDense
}

// NewDiagonal wraps d; returns ErrNilOperator when d is nil.
func NewDiagonal(d *mat.DiagDense) (*Diagonal, error) {
	if d == nil {
		return nil, ErrNilOperator
	}

	return &Diagonal{m: d}, nil
}

// DiagonalOf builds a diagonal operator over diag (shared, not copied).
// Returns ErrBadShape on an empty diagonal.
func DiagonalOf(diag []float64) (*Diagonal, error) {
	if len(diag) == 0 {
		return nil, ErrBadShape
	}

	return &Diagonal{m: mat.NewDiagDense(len(diag), diag)}, nil
}

// Dims returns the (square) shape.
func (d *Diagonal) Dims() (rows, cols int) {
	n := d.m.SymmetricDim()

	return n, n
}

// Kind reports KindDiagonal.
func (d *Diagonal) Kind() Kind { return KindDiagonal }

// RawDiag exposes the backing *mat.DiagDense for the diagonal backend.
func (d *Diagonal) RawDiag() *mat.DiagDense { return d.m }

// MulVec computes dst[i] = d[i]*x[i]. Complexity: O(n).
func (d *Diagonal) MulVec(dst, x []float64) error {
	n := d.m.SymmetricDim()
	if err := ValidateMulVec(dst, x, n, n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		dst[i] = d.m.At(i, i) * x[i]
	}

	return nil
}

// Triangular is a materialized triangular operator wrapping *mat.TriDense.
type Triangular struct {
	m *mat.TriDense
}

// NewTriangular wraps t; returns ErrNilOperator when t is nil.
func NewTriangular(t *mat.TriDense) (*Triangular, error) {
	if t == nil {
		return nil, ErrNilOperator
	}

	return &Triangular{m: t}, nil
}

// Dims returns the (square) shape.
func (t *Triangular) Dims() (rows, cols int) {
	n, _ := t.m.Triangle()

	return n, n
}

// Kind reports KindTriangular.
func (t *Triangular) Kind() Kind { return KindTriangular }

// Upper reports whether the stored triangle is the upper one.
func (t *Triangular) Upper() bool {
	_, k := t.m.Triangle()

	return k == mat.Upper
}

// RawTri exposes the backing *mat.TriDense for the substitution backend.
func (t *Triangular) RawTri() *mat.TriDense { return t.m }

// MulVec computes dst = T*x visiting only the stored triangle.
// Complexity: O(n^2) worst case, half of it skipped structurally.
func (t *Triangular) MulVec(dst, x []float64) error {
	n, kind := t.m.Triangle()
	if err := ValidateMulVec(dst, x, n, n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		lo, hi := 0, i+1
		if kind == mat.Upper {
			lo, hi = i, n
		}
		acc := 0.0
		for j := lo; j < hi; j++ {
			acc += t.m.At(i, j) * x[j]
		}
		dst[i] = acc
	}

	return nil
}

// Tridiagonal is a materialized tridiagonal operator with bands stored as
// three slices: sub (length n-1), diag (length n), super (length n-1).
// The slices are shared, not copied.
type Tridiagonal struct {
	sub, diag, super []float64
}

// NewTridiagonal builds a tridiagonal operator from its bands.
// Returns ErrBadShape when diag is empty or the off-band lengths are not
// exactly len(diag)-1.
func NewTridiagonal(sub, diag, super []float64) (*Tridiagonal, error) {
	n := len(diag)
	if n == 0 || len(sub) != n-1 || len(super) != n-1 {
		return nil, ErrBadShape
	}

	return &Tridiagonal{sub: sub, diag: diag, super: super}, nil
}

// Dims returns the (square) shape.
func (t *Tridiagonal) Dims() (rows, cols int) { return len(t.diag), len(t.diag) }

// Kind reports KindTridiagonal.
func (t *Tridiagonal) Kind() Kind { return KindTridiagonal }

// Bands exposes the backing slices (sub, diag, super) for the Thomas backend.
// Callers must treat them as read-only structure; values may be mutated by
// the owner between solves.
func (t *Tridiagonal) Bands() (sub, diag, super []float64) {
	return t.sub, t.diag, t.super
}

// MulVec computes dst = A*x over the three bands. Complexity: O(n).
func (t *Tridiagonal) MulVec(dst, x []float64) error {
	n := len(t.diag)
	if err := ValidateMulVec(dst, x, n, n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		acc := t.diag[i] * x[i]
		if i > 0 {
			acc += t.sub[i-1] * x[i-1]
		}
		if i < n-1 {
			acc += t.super[i] * x[i+1]
		}
		dst[i] = acc
	}

	return nil
}
