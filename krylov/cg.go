// SPDX-License-Identifier: MIT

package krylov

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/linsolve/operator"
	"github.com/katalvlaran/linsolve/solver"
)

// cgWorkspace holds the four CG vectors, reused across Apply calls.
type cgWorkspace struct {
	r, z, p, ap []float64
}

func newCGWorkspace(n int) *cgWorkspace {
	return &cgWorkspace{
		r:  make([]float64, n),
		z:  make([]float64, n),
		p:  make([]float64, n),
		ap: make([]float64, n),
	}
}

// cg runs (optionally preconditioned) conjugate gradients on op*x = b,
// starting from and writing back into x. Correct only for symmetric
// positive-definite operators; on indefinite systems the iteration may
// diverge, which surfaces as ErrIterationLimit.
func cg(op operator.Operator, b, x []float64, s Settings, ws *cgWorkspace) (Stats, error) {
	tol := s.tolerance()
	maxit := s.maxIter(len(b))

	bnorm := floats.Norm(b, 2)
	if bnorm == 0 {
		for i := range x {
			x[i] = 0
		}

		return Stats{}, nil
	}

	if err := op.MulVec(ws.ap, x); err != nil {
		return Stats{}, err
	}
	copy(ws.r, b)
	floats.Sub(ws.r, ws.ap)

	stats := Stats{Residual: floats.Norm(ws.r, 2) / bnorm}
	if stats.Residual <= tol {
		return stats, nil
	}

	applyM := func(dst, r []float64) error {
		if s.Precondition == nil {
			copy(dst, r)

			return nil
		}

		return s.Precondition(dst, r)
	}

	if err := applyM(ws.z, ws.r); err != nil {
		return stats, err
	}
	copy(ws.p, ws.z)
	rz := floats.Dot(ws.r, ws.z)

	for stats.Iterations < maxit {
		stats.Iterations++
		if err := op.MulVec(ws.ap, ws.p); err != nil {
			return stats, err
		}
		pap := floats.Dot(ws.p, ws.ap)
		if pap == 0 {
			break // breakdown: p is a null direction
		}
		alpha := rz / pap
		floats.AddScaled(x, alpha, ws.p)
		floats.AddScaled(ws.r, -alpha, ws.ap)

		stats.Residual = floats.Norm(ws.r, 2) / bnorm
		if stats.Residual <= tol {
			return stats, nil
		}

		if err := applyM(ws.z, ws.r); err != nil {
			return stats, err
		}
		rzNext := floats.Dot(ws.r, ws.z)
		beta := rzNext / rz
		rz = rzNext
		for i := range ws.p {
			ws.p[i] = ws.z[i] + beta*ws.p[i]
		}
	}

	return stats, fmt.Errorf("cg: %d iterations, residual %.3g: %w",
		stats.Iterations, stats.Residual, solver.ErrIterationLimit)
}
