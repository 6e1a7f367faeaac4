// SPDX-License-Identifier: MIT

// Package direct implements the factorization-based solution strategies:
// dense LU (plain and blocked), QR and SVD least squares, Cholesky and LDL
// for symmetric systems, the structural backends (diagonal, Thomas
// tridiagonal, triangular substitution) and the pattern-reusing sparse LU.
//
// Every strategy here splits its work along the Prepare/Apply seam:
// Prepare performs the O(n^3)-class factorization against the operator's
// materialized storage, Apply performs the O(n^2)-class (or cheaper)
// substitution against the current right-hand side. Factorizations depend
// on the operator alone, never on rhs or guess values, which is what makes
// cached reuse across rhs swaps sound.
//
// All backends self-register into solver.DefaultRegistry at init; importing
// this package (directly or through the root facade) is what arms the
// default selector with direct methods.
//
// Numerical backbone: gonum.org/v1/gonum/mat for LU/QR/SVD/Cholesky; the
// blocked LU, LDL, structural and sparse backends are implemented here
// because gonum ships no factorization for those shapes that exposes the
// reuse seam this package needs.
package direct
