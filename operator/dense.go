// SPDX-License-Identifier: MIT
// Package operator: general dense and symmetric dense operators backed by
// gonum/mat storage. Factorization strategies reach the raw storage through
// Raw()/RawSym() and never through the Operator interface.

package operator

import "gonum.org/v1/gonum/mat"

// Dense is a general materialized dense operator wrapping *mat.Dense.
// The wrapped matrix is shared, not copied; the caller keeps ownership and
// must not resize it while the operator is bound to a cache.
type Dense struct {
	m *mat.Dense
}

// NewDense wraps m as a dense operator.
// Returns ErrNilOperator when m is nil.
func NewDense(m *mat.Dense) (*Dense, error) {
	if m == nil {
		return nil, ErrNilOperator
	}

	return &Dense{m: m}, nil
}

// DenseOf builds a rows-by-cols dense operator over data (row-major).
// data is shared, not copied. Returns ErrBadShape on non-positive dimensions
// or a data length different from rows*cols.
func DenseOf(rows, cols int, data []float64) (*Dense, error) {
	if rows <= 0 || cols <= 0 || len(data) != rows*cols {
		return nil, ErrBadShape
	}

	return &Dense{m: mat.NewDense(rows, cols, data)}, nil
}

// Dims returns the shape of the wrapped matrix.
func (d *Dense) Dims() (rows, cols int) { return d.m.Dims() }

// Kind reports KindDense.
func (d *Dense) Kind() Kind { return KindDense }

// Raw exposes the backing *mat.Dense for factorization backends.
func (d *Dense) Raw() *mat.Dense { return d.m }

// MulVec computes dst = A*x with a fixed row-major traversal.
// Complexity: O(r*c).
func (d *Dense) MulVec(dst, x []float64) error {
	r, c := d.m.Dims()
	if err := ValidateMulVec(dst, x, r, c); err != nil {
		return err
	}
	raw := d.m.RawMatrix()
	for i := 0; i < r; i++ {
		base := i * raw.Stride
		acc := 0.0
		for j := 0; j < c; j++ {
			acc += raw.Data[base+j] * x[j]
		}
		dst[i] = acc
	}

	return nil
}

// Symmetric is a materialized symmetric dense operator wrapping
// *mat.SymDense, with an explicit positive-definite hint.
//
// The hint is caller-supplied configuration, never inferred: the selector
// routes SPD-hinted operators to Cholesky and the rest to LDL. A wrong hint
// is not silent - Cholesky surfaces ErrSingular on a non-PD matrix.
type Symmetric struct {
	m   *mat.SymDense
	spd bool
}

// NewSymmetric wraps s as a symmetric operator; spd marks it positive
// definite for selection purposes. Returns ErrNilOperator when s is nil.
func NewSymmetric(s *mat.SymDense, spd bool) (*Symmetric, error) {
	if s == nil {
		return nil, ErrNilOperator
	}

	return &Symmetric{m: s, spd: spd}, nil
}

// Dims returns the (square) shape.
func (s *Symmetric) Dims() (rows, cols int) {
	n := s.m.SymmetricDim()

	return n, n
}

// Kind reports KindSymmetric.
func (s *Symmetric) Kind() Kind { return KindSymmetric }

// PositiveDefinite reports the caller-supplied SPD hint.
func (s *Symmetric) PositiveDefinite() bool { return s.spd }

// RawSym exposes the backing *mat.SymDense for factorization backends.
func (s *Symmetric) RawSym() *mat.SymDense { return s.m }

// MulVec computes dst = A*x through the symmetric accessor.
// Complexity: O(n^2).
func (s *Symmetric) MulVec(dst, x []float64) error {
	n := s.m.SymmetricDim()
	if err := ValidateMulVec(dst, x, n, n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		acc := 0.0
		for j := 0; j < n; j++ {
			acc += s.m.At(i, j) * x[j]
		}
		dst[i] = acc
	}

	return nil
}
