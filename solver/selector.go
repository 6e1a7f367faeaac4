// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"

	"github.com/katalvlaran/linsolve/operator"
)

// Select resolves the default strategy for op - the polyalgorithm decision.
// It runs exactly once per cache, at bind time; the choice is pinned for the
// cache lifetime and never revisited on mutation.
//
// Decision order (first match wins):
//  1. op implements operator.NativeSolver -> the passthrough strategy.
//  2. KindDense with dimension <= DefaultDenseBlockedLimit -> blocked LU,
//     falling back to plain dense LU above the limit (pivoted, never naive).
//  3. Structure-revealing kinds -> their dedicated backend: diagonal,
//     tridiagonal (Thomas), triangular substitution; symmetric picks
//     Cholesky when the operator carries a positive-definite hint and the
//     robust LDL factorization otherwise.
//  4. KindSparse -> the pattern-reusing sparse LU.
//  5. KindAbstract (no concrete storage) -> restarted GMRES, the only
//     default that needs nothing beyond MulVec.
//
// Preferred names missing from the registry fall through to the next
// candidate, then to the highest-priority registration for the kind; if
// nothing can serve the kind, ErrNoStrategy.
//
// Determinism: identical operator traits always yield the same choice.
func (r *Registry) Select(op operator.Operator) (Strategy, error) {
	if op == nil {
		return nil, fmt.Errorf("Select: %w", operator.ErrNilOperator)
	}
	if _, ok := op.(operator.NativeSolver); ok {
		if reg, found := r.Lookup(NameNative); found {
			return reg.New(), nil
		}
	}

	for _, name := range preferredNames(op) {
		if reg, found := r.Lookup(name); found {
			return reg.New(), nil
		}
	}

	// Preferred backends absent (private registry): fall back to the best
	// registration declared for the kind.
	if lst := r.ForKind(op.Kind()); len(lst) > 0 {
		return lst[0].New(), nil
	}

	return nil, fmt.Errorf("Select(%s): %w", op.Kind(), ErrNoStrategy)
}

// preferredNames returns the ordered backend candidates for op's traits.
func preferredNames(op operator.Operator) []string {
	switch op.Kind() {
	case operator.KindDense:
		rows, _ := op.Dims()
		if rows <= DefaultDenseBlockedLimit {
			return []string{NameDenseBlocked, NameDenseLU}
		}

		return []string{NameDenseLU, NameDenseBlocked}
	case operator.KindSymmetric:
		if sym, ok := op.(*operator.Symmetric); ok && sym.PositiveDefinite() {
			return []string{NameCholesky, NameLDL}
		}

		return []string{NameLDL, NameCholesky}
	case operator.KindDiagonal:
		return []string{NameDiagonal}
	case operator.KindTridiagonal:
		return []string{NameTridiagonal}
	case operator.KindTriangular:
		return []string{NameTriangular}
	case operator.KindSparse:
		return []string{NameSparseLU}
	case operator.KindAbstract:
		return []string{NameGMRES}
	default:
		return nil
	}
}
