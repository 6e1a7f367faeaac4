// SPDX-License-Identifier: MIT
// Package: operator
//
// Purpose:
//   - Provide a single, canonical source of truth for common validation checks.
//   - Keep strategies and the solver core minimal by delegating shape/nil
//     checks here.
//   - Return plain sentinel errors (no wrapping) so call sites can wrap
//     uniformly.
//
// Determinism & Performance:
//   - All checks are pure, deterministic and allocate nothing.

package operator

import "fmt"

// validatorErrorf wraps an underlying error with the given validator tag.
// Used internally to maintain consistent labeling of sentinel violations.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil ensures the operator reference is non-nil.
//
// Inputs: Operator interface value.
// Returns ErrNilOperator if op == nil.
// Complexity: O(1).
func ValidateNotNil(op Operator) error {
	if op == nil {
		return validatorErrorf("ValidateNotNil", ErrNilOperator)
	}

	return nil
}

// ValidateSquare checks that op is square (rows == cols).
//
// Assumes op is non-nil (caller must ensure, typically via ValidateNotNil).
// Errors: ErrDimensionMismatch if not square.
// Complexity: O(1).
func ValidateSquare(op Operator) error {
	r, c := op.Dims()
	if r != c {
		return validatorErrorf("ValidateSquare", ErrDimensionMismatch)
	}

	return nil
}

// ValidateVecLen ensures the vector is non-nil and has exactly length n.
//
// Errors: ErrNilOperator for nil vectors (reused "nil argument" sentinel),
// ErrDimensionMismatch on length mismatch.
// Complexity: O(1).
func ValidateVecLen(x []float64, n int) error {
	if x == nil {
		return validatorErrorf("ValidateVecLen", ErrNilOperator)
	}
	if len(x) != n {
		return validatorErrorf("ValidateVecLen", ErrDimensionMismatch)
	}

	return nil
}

// ValidateMulVec ensures dst/x are conformable with an r-by-c operator.
// Fixed sequence: dst against rows, then x against cols. The inner sentinel
// is propagated unchanged, so nil vectors classify as ErrNilOperator and
// wrong lengths as ErrDimensionMismatch.
// Complexity: O(1).
func ValidateMulVec(dst, x []float64, r, c int) error {
	if err := ValidateVecLen(dst, r); err != nil {
		return validatorErrorf("ValidateMulVec: dst", err)
	}
	if err := ValidateVecLen(x, c); err != nil {
		return validatorErrorf("ValidateMulVec: x", err)
	}

	return nil
}
