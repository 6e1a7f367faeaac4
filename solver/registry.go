// SPDX-License-Identifier: MIT

// Package solver: the backend registry - the extension point external
// strategy libraries plug into.
//
// Process-wide state model: backends register during their package init
// (library registration phase); after init the registry is treated as
// read-only for the lifetime of the process. No per-solve mutation occurs,
// so lookups require no locking.
package solver

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/linsolve/operator"
)

// Canonical registry names of the built-in backends. The selector keys its
// decisions on these; external backends may register additional names.
const (
	NameNative       = "native/passthrough"
	NameDenseLU      = "dense/lu"
	NameDenseBlocked = "dense/lu-blocked"
	NameDenseQR      = "dense/qr"
	NameDenseSVD     = "dense/svd"
	NameCholesky     = "symmetric/cholesky"
	NameLDL          = "symmetric/ldl"
	NameDiagonal     = "structured/diagonal"
	NameTridiagonal  = "structured/tridiagonal"
	NameTriangular   = "structured/triangular"
	NameSparseLU     = "sparse/lu"
	NameGMRES        = "krylov/gmres"
	NameCG           = "krylov/cg"
	NameBiCGStab     = "krylov/bicgstab"
	NameUserFunction = "user/function"
)

// Registration describes one backend: its stable name, the operator trait
// categories it can serve, a priority for intra-kind ordering (higher wins,
// name ascending breaks ties - deterministic), and a factory producing a
// fresh strategy instance with default configuration.
type Registration struct {
	Name     string
	Kinds    []operator.Kind
	Priority int
	New      func() Strategy
}

// Registry maps operator trait categories to registered backends.
// The zero value is not usable; call NewRegistry.
type Registry struct {
	byName map[string]Registration
	byKind map[operator.Kind][]Registration
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Registration),
		byKind: make(map[operator.Kind][]Registration),
	}
}

// DefaultRegistry is the process-wide registry the built-in backends
// register into and Bind consults unless WithRegistry overrides it.
var DefaultRegistry = NewRegistry()

// Register adds a backend to the registry.
//
// Errors: ErrBadRegistration on empty name, nil factory or empty kind list;
// ErrDuplicateStrategy when the name is already taken.
//
// Determinism: per-kind lists are re-sorted on every insert by priority
// descending, then name ascending, so iteration order never depends on
// registration order.
func (r *Registry) Register(reg Registration) error {
	if reg.Name == "" || reg.New == nil || len(reg.Kinds) == 0 {
		return fmt.Errorf("Register(%q): %w", reg.Name, ErrBadRegistration)
	}
	if _, dup := r.byName[reg.Name]; dup {
		return fmt.Errorf("Register(%q): %w", reg.Name, ErrDuplicateStrategy)
	}
	r.byName[reg.Name] = reg
	for _, k := range reg.Kinds {
		lst := append(r.byKind[k], reg)
		sort.Slice(lst, func(i, j int) bool {
			if lst[i].Priority != lst[j].Priority {
				return lst[i].Priority > lst[j].Priority
			}

			return lst[i].Name < lst[j].Name
		})
		r.byKind[k] = lst
	}

	return nil
}

// MustRegister is Register that panics on error. Intended for package-init
// registration of built-in backends, where failure is a programmer error.
func (r *Registry) MustRegister(reg Registration) {
	if err := r.Register(reg); err != nil {
		panic(err)
	}
}

// Lookup returns the registration with the given name.
func (r *Registry) Lookup(name string) (Registration, bool) {
	reg, ok := r.byName[name]

	return reg, ok
}

// ForKind returns the registrations able to serve kind, ordered by priority
// descending then name ascending. The returned slice is shared; callers must
// not mutate it.
func (r *Registry) ForKind(kind operator.Kind) []Registration {
	return r.byKind[kind]
}

// Names returns all registered backend names in ascending order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.byName))
	for name := range r.byName {
		out = append(out, name)
	}
	sort.Strings(out)

	return out
}

// Register adds a backend to DefaultRegistry.
func Register(reg Registration) error { return DefaultRegistry.Register(reg) }

// MustRegister adds a backend to DefaultRegistry, panicking on error.
func MustRegister(reg Registration) { DefaultRegistry.MustRegister(reg) }
