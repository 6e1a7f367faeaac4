// SPDX-License-Identifier: MIT

// Package krylov implements the matrix-free iterative strategies: restarted
// GMRES (the abstract-operator default), conjugate gradients for SPD systems
// and BiCGStab for general nonsymmetric ones.
//
// These backends touch the operator exclusively through MulVec, so they are
// the only route for operators with no materialized storage. Their
// Prepare/Apply split is allocation-shaped rather than factorization-shaped:
// Prepare sizes the iteration workspace once, Apply runs one (warm-started)
// iteration to convergence against the current right-hand side. The guess
// buffer both seeds the iteration and receives the result, so consecutive
// solves of slowly drifting systems converge in few steps.
//
// Hitting the iteration bound is reported as solver.ErrIterationLimit with
// the best iterate left in place; the orchestrator maps it to
// StatusIterationLimit rather than failing the solve.
package krylov
