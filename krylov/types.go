// SPDX-License-Identifier: MIT

package krylov

// DEFAULTS - single source of truth for iterative zero-value behavior.
const (
	// DefaultTolerance is the relative residual threshold |r| / |b| below
	// which an iteration is declared converged.
	DefaultTolerance = 1e-8

	// DefaultRestart is the GMRES restart window: the Krylov basis is
	// rebuilt after this many inner steps to bound memory at O(restart*n).
	DefaultRestart = 30

	// maxIterFactor scales the default iteration bound: 2*n total
	// operator applications before ErrIterationLimit.
	maxIterFactor = 2
)

// Preconditioner applies an approximate inverse: dst = M^{-1} * r.
// dst and r never alias. A nil Preconditioner means identity.
type Preconditioner func(dst, r []float64) error

// Settings configures one iterative strategy instance. The zero value is
// fully usable: every field falls back to its documented default.
type Settings struct {
	// Tolerance is the relative residual target; 0 means DefaultTolerance.
	Tolerance float64

	// MaxIterations bounds the total operator applications across restarts;
	// 0 means maxIterFactor times the system dimension.
	MaxIterations int

	// Restart is the GMRES inner window; 0 means DefaultRestart. Ignored by
	// CG and BiCGStab.
	Restart int

	// Precondition, when non-nil, right-preconditions the iteration.
	Precondition Preconditioner
}

// Stats reports the outcome of the most recent iteration run.
type Stats struct {
	Iterations int
	Residual   float64 // final relative residual |r| / |b|
}

// tolerance resolves the effective relative residual target.
func (s Settings) tolerance() float64 {
	if s.Tolerance > 0 {
		return s.Tolerance
	}

	return DefaultTolerance
}

// maxIter resolves the effective iteration bound for dimension n.
func (s Settings) maxIter(n int) int {
	if s.MaxIterations > 0 {
		return s.MaxIterations
	}

	return maxIterFactor * n
}

// restart resolves the effective GMRES window for dimension n.
func (s Settings) restart(n int) int {
	m := s.Restart
	if m <= 0 {
		m = DefaultRestart
	}
	if m > n {
		m = n
	}

	return m
}
