// SPDX-License-Identifier: MIT

// Package linsolve is a stateful linear-solve cache with polyalgorithm
// strategy dispatch.
//
// The problem it solves: applications that solve A*x = b once per program
// run are served by any factorization call, but simulation loops solve the
// SAME system shape thousands of times with drifting coefficients or
// right-hand sides. The expensive work (factorization, symbolic analysis,
// iteration workspaces) is reusable across those solves; this module makes
// the reuse explicit, safe and observable.
//
// Three moving parts:
//
//   - operators (package operator): typed wrappers that announce structure -
//     dense, symmetric, diagonal, tridiagonal, triangular, sparse CSR, or
//     fully abstract matrix-free maps;
//   - strategies (packages direct and krylov): interchangeable backends
//     split along a Prepare/Apply seam, registered by name and trait kind;
//   - the cache (package solver): binds one operator to one strategy,
//     tracks staleness through mutation, and orchestrates Prepare/Apply.
//
// Importing this root package arms solver.DefaultRegistry with every
// built-in backend; the Bind/Solve helpers here are the intended entry
// points.
//
// Quick start:
//
//	op, _ := operator.DenseOf(2, 2, []float64{4, 1, 1, 3})
//	cache, err := linsolve.Bind(op, []float64{1, 2})
//	if err != nil { ... }
//	defer cache.Release()
//
//	rec, err := cache.Solve()        // factorizes, then substitutes
//	_ = cache.SetRHS([]float64{5, 6})
//	rec, err = cache.Solve()         // substitution only: reuse
package linsolve
