// SPDX-License-Identifier: MIT

// Package solver: functional configuration for Bind and SetOperator.
// This file defines:
//   - BindOption / bindOptions (bind-time configuration),
//   - MutateOption / mutateOptions (SetOperator configuration),
//   - documented defaults (constants),
//   - WithX constructors,
//   - gather helpers (internal) that enforce invariants.
//
// Design goals:
//   - Deterministic behavior: no global state beyond the registry, no
//     implicit randomness.
//   - No dead switches: each flag impacts behavior and is covered by tests.
//   - Reusability: option state is unexported; public APIs consume ...Option.
package solver

// DEFAULTS - single source of truth for zero-value behavior.
const (
	// DefaultAssumeSamePattern is the SetOperator default: sparse
	// pattern-reusing backends assume the replacement operator shares the
	// previous nonzero pattern. This is the deliberate, caller-visible
	// escape hatch trading safety for speed; WithFreshPattern() flips it
	// for one mutation.
	DefaultAssumeSamePattern = true

	// DefaultDenseBlockedLimit is the largest dense dimension for which the
	// selector prefers the recursive blocked LU backend over the plain
	// dense LU (rule 2 of the selection order).
	DefaultDenseBlockedLimit = 512
)

// BindOption configures Bind. Safe to apply repeatedly; last-writer-wins.
type BindOption func(*bindOptions)

// bindOptions stores the effective bind configuration.
type bindOptions struct {
	strategy Strategy  // nil -> selector decides
	metrics  Metrics   // nil -> NoopMetrics
	guess    []float64 // nil -> zero initial guess
	registry *Registry
	params   any
}

// WithStrategy pins an explicit strategy, overriding the selector.
// Explicit choice always wins; passing nil keeps selector behavior.
func WithStrategy(s Strategy) BindOption {
	return func(o *bindOptions) { o.strategy = s }
}

// WithMetrics attaches a Metrics implementation to the cache.
// nil restores the Noop default.
func WithMetrics(m Metrics) BindOption {
	return func(o *bindOptions) { o.metrics = m }
}

// WithGuess seeds the initial guess at bind time - the warm start for
// iterative strategies and the in-place input for Func strategies. Bind
// validates the length against the operator's column count and copies the
// values; the caller keeps ownership of g. nil keeps the zero default.
// SetGuess re-seeds an existing cache.
func WithGuess(g []float64) BindOption {
	return func(o *bindOptions) { o.guess = g }
}

// WithParams sets the opaque parameter context forwarded to function-based
// strategies through Problem.Params.
func WithParams(v any) BindOption {
	return func(o *bindOptions) { o.params = v }
}

// WithRegistry resolves the default strategy against reg instead of
// DefaultRegistry. Intended for tests and embedders composing private
// backend sets; nil keeps the default.
func WithRegistry(reg *Registry) BindOption {
	return func(o *bindOptions) { o.registry = reg }
}

// gatherBindOptions applies setters on top of defaults.
func gatherBindOptions(opts ...BindOption) bindOptions {
	o := bindOptions{}
	for _, set := range opts {
		set(&o)
	}
	if o.metrics == nil {
		o.metrics = NoopMetrics{}
	}
	if o.registry == nil {
		o.registry = DefaultRegistry
	}

	return o
}

// MutateOption configures a single SetOperator call.
type MutateOption func(*mutateOptions)

type mutateOptions struct {
	samePattern bool
}

// WithFreshPattern declares that the replacement operator does NOT share the
// previous nonzero pattern: the next Prepare receives no previous state and
// pattern-reusing sparse backends rebuild symbolic+numeric from scratch.
//
// The flag applies to the one SetOperator call it is passed to; subsequent
// mutations revert to the same-pattern default.
func WithFreshPattern() MutateOption {
	return func(o *mutateOptions) { o.samePattern = false }
}

func gatherMutateOptions(opts ...MutateOption) mutateOptions {
	o := mutateOptions{samePattern: DefaultAssumeSamePattern}
	for _, set := range opts {
		set(&o)
	}

	return o
}
