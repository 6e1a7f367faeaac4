// SPDX-License-Identifier: MIT

package solver

// Metrics exposes solve-cache observability hooks.
// A NoopMetrics implementation is provided and used by default; the
// metrics/prom package ships a Prometheus adapter.
//
// All hooks are called synchronously on the solving goroutine; adapters must
// be cheap and safe for concurrent use across distinct caches.
type Metrics interface {
	// Prepare records a full backend Prepare for the named strategy.
	Prepare(strategy string)

	// Reuse records a solve that skipped Prepare because cached backend
	// state was still valid.
	Reuse(strategy string)

	// Apply records one Apply invocation for the named strategy.
	Apply(strategy string)

	// Failure records a failed Prepare/Apply with a coarse reason label
	// ("singular", "pattern-mismatch", "shape", "unsupported", "other").
	Failure(strategy, reason string)
}

// NoopMetrics is a drop-in Metrics implementation that does nothing.
// Safe for concurrent use; the default when no backend is configured.
type NoopMetrics struct{}

func (NoopMetrics) Prepare(string)         {}
func (NoopMetrics) Reuse(string)           {}
func (NoopMetrics) Apply(string)           {}
func (NoopMetrics) Failure(string, string) {}

// Ensure NoopMetrics implements the Metrics interface at compile time.
var _ Metrics = NoopMetrics{}
