// SPDX-License-Identifier: MIT

package linsolve

import (
	"github.com/katalvlaran/linsolve/operator"
	"github.com/katalvlaran/linsolve/solver"

	// Arm the default registry with every built-in backend.
	_ "github.com/katalvlaran/linsolve/direct"
	_ "github.com/katalvlaran/linsolve/krylov"
)

// Bind creates a solve cache for op and rhs against the fully armed default
// registry. See solver.Bind for option and error semantics.
func Bind(op operator.Operator, rhs []float64, opts ...solver.BindOption) (*solver.Cache, error) {
	return solver.Bind(op, rhs, opts...)
}

// Solve is the one-shot convenience: bind, solve once, release.
//
// The returned record's Solution is an owned copy (the cache and its buffer
// are gone) and its Cache field is nil. Callers planning a second solve
// against the same operator should Bind instead - that is the entire point
// of the cache.
func Solve(op operator.Operator, rhs []float64, opts ...solver.BindOption) (solver.Record, error) {
	cache, err := Bind(op, rhs, opts...)
	if err != nil {
		return solver.Record{}, err
	}
	defer cache.Release()

	rec, err := cache.Solve()
	if err != nil {
		return solver.Record{}, err
	}
	rec.Solution = append([]float64(nil), rec.Solution...)
	rec.Cache = nil

	return rec, nil
}

// Strategies lists the names of every backend registered in the default
// registry, ascending.
func Strategies() []string {
	return solver.DefaultRegistry.Names()
}
