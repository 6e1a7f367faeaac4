// SPDX-License-Identifier: MIT

// Command bench exercises solve-cache reuse under parallel load: a set of
// independent caches, each solving the same system dimension with a drifting
// right-hand side, optionally exporting Prometheus counters while running.
//
// The interesting number it prints is solves per prepare - the reuse ratio
// the cache design exists to maximize.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/linsolve"
	"github.com/katalvlaran/linsolve/metrics/prom"
	"github.com/katalvlaran/linsolve/operator"
	"github.com/katalvlaran/linsolve/solver"
)

func main() {
	var (
		dim     = flag.Int("dim", 200, "system dimension")
		caches  = flag.Int("caches", 4, "parallel independent caches")
		solves  = flag.Int("solves", 1000, "solves per cache")
		refresh = flag.Int("refresh", 100, "operator mutation every N solves (0 disables)")
		kind    = flag.String("kind", "dense", "operator kind: dense|tridiagonal|sparse")
		listen  = flag.String("listen", "", "Prometheus listen address (empty disables)")
	)
	flag.Parse()

	var metrics solver.Metrics = solver.NoopMetrics{}
	if *listen != "" {
		reg := prometheus.NewRegistry()
		metrics = prom.New(reg, "linsolve", "bench", nil)
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			log.Printf("metrics on http://%s/metrics", *listen)
			if err := http.ListenAndServe(*listen, mux); err != nil {
				log.Printf("metrics server: %v", err)
			}
		}()
	}

	start := time.Now()
	var g errgroup.Group
	for c := 0; c < *caches; c++ {
		seed := int64(c + 1)
		g.Go(func() error {
			return runCache(*kind, *dim, *solves, *refresh, seed, metrics)
		})
	}
	if err := g.Wait(); err != nil {
		log.Printf("bench: %v", err)
		os.Exit(1)
	}

	total := *caches * *solves
	elapsed := time.Since(start)
	fmt.Printf("%d solves across %d caches in %v (%.0f solves/s)\n",
		total, *caches, elapsed, float64(total)/elapsed.Seconds())
}

// runCache drives one cache through the solve/mutate loop.
func runCache(kind string, dim, solves, refresh int, seed int64, m solver.Metrics) error {
	rng := rand.New(rand.NewSource(seed))

	op, err := buildOperator(kind, dim, rng)
	if err != nil {
		return err
	}
	rhs := randVec(dim, rng)

	cache, err := linsolve.Bind(op, rhs, solver.WithMetrics(m))
	if err != nil {
		return fmt.Errorf("bind: %w", err)
	}
	defer cache.Release()

	for i := 0; i < solves; i++ {
		if refresh > 0 && i > 0 && i%refresh == 0 {
			// Same-pattern coefficient drift; the cache goes Stale and
			// refactorizes on the next solve.
			op, err = buildOperator(kind, dim, rng)
			if err != nil {
				return err
			}
			if err = cache.SetOperator(op); err != nil {
				return fmt.Errorf("mutate: %w", err)
			}
		}
		if err = cache.SetRHS(randVec(dim, rng)); err != nil {
			return err
		}
		if _, err = cache.Solve(); err != nil {
			return fmt.Errorf("solve %d: %w", i, err)
		}
	}

	return nil
}

// buildOperator assembles a diagonally dominant system of the given kind,
// guaranteed nonsingular for any seed.
func buildOperator(kind string, n int, rng *rand.Rand) (operator.Operator, error) {
	switch kind {
	case "dense":
		data := make([]float64, n*n)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				data[i*n+j] = rng.NormFloat64()
			}
			data[i*n+i] += float64(n)
		}

		return operator.DenseOf(n, n, data)
	case "tridiagonal":
		sub, diag, super := randVec(n-1, rng), randVec(n, rng), randVec(n-1, rng)
		for i := range diag {
			diag[i] += 4
		}

		return operator.NewTridiagonal(sub, diag, super)
	case "sparse":
		// Tridiagonal pattern in CSR form: exercises the sparse LU's
		// pinned-pivot refactorization path.
		var is, js []int
		var vs []float64
		for i := 0; i < n; i++ {
			for _, j := range []int{i - 1, i, i + 1} {
				if j < 0 || j >= n {
					continue
				}
				v := rng.NormFloat64()
				if i == j {
					v += 4
				}
				is, js, vs = append(is, i), append(js, j), append(vs, v)
			}
		}

		return operator.CSRFromTriplets(n, n, is, js, vs)
	default:
		return nil, fmt.Errorf("unknown operator kind %q", kind)
	}
}

func randVec(n int, rng *rand.Rand) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = rng.NormFloat64()
	}

	return v
}
