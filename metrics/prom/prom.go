// SPDX-License-Identifier: MIT

// Package prom adapts the solver.Metrics seam to Prometheus counters.
//
// The adapter is intentionally thin: four counter vectors keyed by strategy
// name (failures additionally by coarse reason), registered once at
// construction. Attach one adapter to any number of caches via
// solver.WithMetrics; the underlying counters are safe for concurrent use.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/linsolve/solver"
)

// Adapter implements solver.Metrics on Prometheus counter vectors.
type Adapter struct {
	prepares *prometheus.CounterVec
	reuses   *prometheus.CounterVec
	applies  *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// New builds an Adapter and registers its collectors with reg (nil means
// prometheus.DefaultRegisterer). namespace/subsystem follow the usual
// Prometheus naming conventions; constLabels may be nil.
//
// Registration panics on metric name collisions, matching MustRegister
// semantics: collisions are configuration errors, not runtime conditions.
func New(reg prometheus.Registerer, namespace, subsystem string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	opts := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: constLabels,
		}
	}

	a := &Adapter{
		prepares: prometheus.NewCounterVec(
			opts("prepares_total", "Full strategy preparations (factorizations)."),
			[]string{"strategy"}),
		reuses: prometheus.NewCounterVec(
			opts("reuses_total", "Solves that reused cached strategy state."),
			[]string{"strategy"}),
		applies: prometheus.NewCounterVec(
			opts("applies_total", "Strategy apply invocations."),
			[]string{"strategy"}),
		failures: prometheus.NewCounterVec(
			opts("failures_total", "Failed prepare/apply calls by coarse reason."),
			[]string{"strategy", "reason"}),
	}
	reg.MustRegister(a.prepares, a.reuses, a.applies, a.failures)

	return a
}

// Prepare implements solver.Metrics.
func (a *Adapter) Prepare(strategy string) { a.prepares.WithLabelValues(strategy).Inc() }

// Reuse implements solver.Metrics.
func (a *Adapter) Reuse(strategy string) { a.reuses.WithLabelValues(strategy).Inc() }

// Apply implements solver.Metrics.
func (a *Adapter) Apply(strategy string) { a.applies.WithLabelValues(strategy).Inc() }

// Failure implements solver.Metrics.
func (a *Adapter) Failure(strategy, reason string) {
	a.failures.WithLabelValues(strategy, reason).Inc()
}

var _ solver.Metrics = (*Adapter)(nil)
