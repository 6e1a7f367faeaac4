// SPDX-License-Identifier: MIT
// Package operator: sentinel error set.
// This file defines ONLY package-level sentinel errors used across the
// operator package. Constructors and methods MUST return these sentinels and
// tests MUST check them via errors.Is. Panics are reserved for programmer
// errors in private helpers.

package operator

import "errors"

var (
	// ErrNilOperator indicates that a nil Operator (or nil backing storage)
	// was passed where a concrete value is required.
	ErrNilOperator = errors.New("operator: nil operator")

	// ErrBadShape is returned when requested dimensions are invalid
	// (e.g. rows <= 0 or cols <= 0) or backing data has the wrong length.
	ErrBadShape = errors.New("operator: invalid shape")

	// ErrDimensionMismatch indicates incompatible dimensions between an
	// operator and a vector argument (MulVec dst/x lengths).
	ErrDimensionMismatch = errors.New("operator: dimension mismatch")

	// ErrOutOfRange indicates a row or column index outside valid bounds.
	ErrOutOfRange = errors.New("operator: index out of range")

	// ErrBadPattern indicates a malformed CSR structure: non-monotone row
	// pointers, unsorted or duplicate column indices, or indices out of range.
	ErrBadPattern = errors.New("operator: invalid sparse pattern")

	// ErrNilCallback indicates a MatFree operator constructed without the
	// mandatory matrix-vector product callback.
	ErrNilCallback = errors.New("operator: nil MulVec callback")
)
