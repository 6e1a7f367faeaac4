// SPDX-License-Identifier: MIT

package krylov

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/linsolve/operator"
	"github.com/katalvlaran/linsolve/solver"
)

// gmresWorkspace holds all GMRES buffers, sized once and reused across
// Apply calls on the same cache.
type gmresWorkspace struct {
	n, m int
	v    [][]float64 // Krylov basis, m+1 vectors of length n
	z    [][]float64 // preconditioned basis (right preconditioning only)
	h    [][]float64 // Hessenberg columns: h[j] has length j+2
	cs   []float64   // Givens cosines
	sn   []float64   // Givens sines
	g    []float64   // rotated residual vector, length m+1
	y    []float64   // triangular solve output, length m
	r    []float64   // residual, length n
	w    []float64   // operator output scratch, length n
}

func newGMRESWorkspace(n, m int, precond bool) *gmresWorkspace {
	ws := &gmresWorkspace{
		n: n, m: m,
		v:  make([][]float64, m+1),
		h:  make([][]float64, m),
		cs: make([]float64, m),
		sn: make([]float64, m),
		g:  make([]float64, m+1),
		y:  make([]float64, m),
		r:  make([]float64, n),
		w:  make([]float64, n),
	}
	for i := range ws.v {
		ws.v[i] = make([]float64, n)
	}
	for j := range ws.h {
		ws.h[j] = make([]float64, j+2)
	}
	if precond {
		ws.z = make([][]float64, m)
		for i := range ws.z {
			ws.z[i] = make([]float64, n)
		}
	}

	return ws
}

// gmres runs restarted GMRES(m) on op*x = b, starting from and writing back
// into x. Right preconditioning when set: the iteration solves
// (A M^{-1}) u = b and returns x = M^{-1} u, so the reported residual is the
// true residual of the original system.
//
// Returns ErrIterationLimit (with the best iterate in x and honest Stats)
// when the bound is hit before the tolerance.
func gmres(op operator.Operator, b, x []float64, s Settings, ws *gmresWorkspace) (Stats, error) {
	n := len(b)
	tol := s.tolerance()
	maxit := s.maxIter(n)

	bnorm := floats.Norm(b, 2)
	if bnorm == 0 {
		// Homogeneous system: the zero vector is exact.
		for i := range x {
			x[i] = 0
		}

		return Stats{}, nil
	}

	stats := Stats{}
	for {
		// r = b - A*x.
		if err := op.MulVec(ws.w, x); err != nil {
			return stats, err
		}
		copy(ws.r, b)
		floats.Sub(ws.r, ws.w)
		beta := floats.Norm(ws.r, 2)
		stats.Residual = beta / bnorm
		if stats.Residual <= tol {
			return stats, nil
		}
		if stats.Iterations >= maxit {
			return stats, fmt.Errorf("gmres: %d iterations, residual %.3g: %w",
				stats.Iterations, stats.Residual, solver.ErrIterationLimit)
		}

		// Arnoldi with incremental Givens QR of the Hessenberg matrix.
		for i := range ws.g {
			ws.g[i] = 0
		}
		ws.g[0] = beta
		floats.ScaleTo(ws.v[0], 1/beta, ws.r)

		j := 0
		for ; j < ws.m && stats.Iterations < maxit; j++ {
			stats.Iterations++

			src := ws.v[j]
			if s.Precondition != nil {
				if err := s.Precondition(ws.z[j], ws.v[j]); err != nil {
					return stats, err
				}
				src = ws.z[j]
			}
			if err := op.MulVec(ws.w, src); err != nil {
				return stats, err
			}

			// Modified Gram-Schmidt.
			h := ws.h[j]
			for i := 0; i <= j; i++ {
				h[i] = floats.Dot(ws.w, ws.v[i])
				floats.AddScaled(ws.w, -h[i], ws.v[i])
			}
			wnorm := floats.Norm(ws.w, 2)
			h[j+1] = wnorm
			lucky := wnorm == 0 // exact solution inside the current span
			if !lucky {
				floats.ScaleTo(ws.v[j+1], 1/wnorm, ws.w)
			}

			// Apply accumulated rotations, then the new one.
			for i := 0; i < j; i++ {
				h[i], h[i+1] = ws.cs[i]*h[i]+ws.sn[i]*h[i+1],
					-ws.sn[i]*h[i]+ws.cs[i]*h[i+1]
			}
			ws.cs[j], ws.sn[j] = givens(h[j], h[j+1])
			h[j] = ws.cs[j]*h[j] + ws.sn[j]*h[j+1]
			h[j+1] = 0
			ws.g[j+1] = -ws.sn[j] * ws.g[j]
			ws.g[j] *= ws.cs[j]

			if math.Abs(ws.g[j+1])/bnorm <= tol || lucky {
				j++

				break
			}
		}

		// y = R^{-1} g over the first j columns, then x += (M^{-1})V y.
		for i := j - 1; i >= 0; i-- {
			acc := ws.g[i]
			for k := i + 1; k < j; k++ {
				acc -= ws.h[k][i] * ws.y[k]
			}
			ws.y[i] = acc / ws.h[i][i]
		}
		basis := ws.v
		if s.Precondition != nil {
			basis = ws.z
		}
		for i := 0; i < j; i++ {
			floats.AddScaled(x, ws.y[i], basis[i])
		}
	}
}

// givens returns the rotation (c, s) zeroing b against a.
func givens(a, b float64) (c, s float64) {
	if b == 0 {
		return 1, 0
	}
	if math.Abs(b) > math.Abs(a) {
		t := a / b
		s = 1 / math.Sqrt(1+t*t)

		return s * t, s
	}
	t := b / a
	c = 1 / math.Sqrt(1+t*t)

	return c, c * t
}
