// SPDX-License-Identifier: MIT

// Package operator defines the linear-operator abstraction consumed by the
// solve cache and its strategies.
//
// The operator package provides:
//
//   - The Operator interface: shape inspection (Dims), a trait category
//     (Kind) and a matrix-vector product (MulVec) - the minimal surface an
//     abstract, matrix-free operator must expose.
//   - Concrete materialized kinds backed by gonum/mat storage: Dense,
//     Symmetric (with an SPD hint), Diagonal and Triangular, plus a
//     three-band Tridiagonal and a compressed sparse row CSR type.
//   - MatFree / MatFreeSolver for operators known only through callbacks;
//     MatFreeSolver additionally carries a native solve and satisfies the
//     NativeSolver trait used by the default-strategy selector.
//   - Central validators (ValidateNotNil, ValidateSquare, ValidateVecLen)
//     returning plain sentinel errors, so call sites can wrap uniformly.
//
// Determinism & Policy:
//   - All operators are value containers; none of them mutates its input
//     slices, and MulVec writes dst with a fixed row order.
//   - Shape violations surface as sentinels (ErrBadShape,
//     ErrDimensionMismatch) checked via errors.Is; no operator panics on
//     user-triggered conditions.
//
// See the solver package for how traits drive strategy selection.
package operator
