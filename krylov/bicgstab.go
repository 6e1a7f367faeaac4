// SPDX-License-Identifier: MIT

package krylov

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/linsolve/operator"
	"github.com/katalvlaran/linsolve/solver"
)

// bicgstabWorkspace holds the BiCGStab vectors, reused across Apply calls.
type bicgstabWorkspace struct {
	r, rhat, p, v, ss, t, y, z []float64
}

func newBiCGStabWorkspace(n int) *bicgstabWorkspace {
	mk := func() []float64 { return make([]float64, n) }

	return &bicgstabWorkspace{
		r: mk(), rhat: mk(), p: mk(), v: mk(),
		ss: mk(), t: mk(), y: mk(), z: mk(),
	}
}

// bicgstab runs (optionally right-preconditioned) BiCGStab on op*x = b,
// starting from and writing back into x. Handles general nonsymmetric
// systems at two operator applications per iteration, with smoother
// convergence than plain BiCG.
//
// Breakdown (rho or omega vanishing) ends the run with the current iterate;
// if the tolerance was not reached it is reported as ErrIterationLimit.
func bicgstab(op operator.Operator, b, x []float64, s Settings, ws *bicgstabWorkspace) (Stats, error) {
	tol := s.tolerance()
	maxit := s.maxIter(len(b))

	bnorm := floats.Norm(b, 2)
	if bnorm == 0 {
		for i := range x {
			x[i] = 0
		}

		return Stats{}, nil
	}

	if err := op.MulVec(ws.v, x); err != nil {
		return Stats{}, err
	}
	copy(ws.r, b)
	floats.Sub(ws.r, ws.v)
	copy(ws.rhat, ws.r)
	for i := range ws.v {
		ws.v[i] = 0
	}
	copy(ws.p, ws.r)

	applyM := func(dst, r []float64) error {
		if s.Precondition == nil {
			copy(dst, r)

			return nil
		}

		return s.Precondition(dst, r)
	}

	stats := Stats{Residual: floats.Norm(ws.r, 2) / bnorm}
	if stats.Residual <= tol {
		return stats, nil
	}

	rho := floats.Dot(ws.rhat, ws.r)
	for stats.Iterations < maxit {
		stats.Iterations++
		if rho == 0 {
			break // breakdown: shadow residual orthogonal to residual
		}

		if err := applyM(ws.y, ws.p); err != nil {
			return stats, err
		}
		if err := op.MulVec(ws.v, ws.y); err != nil {
			return stats, err
		}
		alpha := rho / floats.Dot(ws.rhat, ws.v)
		copy(ws.ss, ws.r)
		floats.AddScaled(ws.ss, -alpha, ws.v)

		// Early exit on the half step.
		if floats.Norm(ws.ss, 2)/bnorm <= tol {
			floats.AddScaled(x, alpha, ws.y)
			stats.Residual = floats.Norm(ws.ss, 2) / bnorm

			return stats, nil
		}

		if err := applyM(ws.z, ws.ss); err != nil {
			return stats, err
		}
		if err := op.MulVec(ws.t, ws.z); err != nil {
			return stats, err
		}
		tt := floats.Dot(ws.t, ws.t)
		if tt == 0 {
			break
		}
		omega := floats.Dot(ws.t, ws.ss) / tt

		floats.AddScaled(x, alpha, ws.y)
		floats.AddScaled(x, omega, ws.z)
		copy(ws.r, ws.ss)
		floats.AddScaled(ws.r, -omega, ws.t)

		stats.Residual = floats.Norm(ws.r, 2) / bnorm
		if stats.Residual <= tol {
			return stats, nil
		}
		if omega == 0 {
			break
		}

		rhoNext := floats.Dot(ws.rhat, ws.r)
		beta := (rhoNext / rho) * (alpha / omega)
		rho = rhoNext
		for i := range ws.p {
			ws.p[i] = ws.r[i] + beta*(ws.p[i]-omega*ws.v[i])
		}
	}

	return stats, fmt.Errorf("bicgstab: %d iterations, residual %.3g: %w",
		stats.Iterations, stats.Residual, solver.ErrIterationLimit)
}
