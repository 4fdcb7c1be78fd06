// Package telemetry provides opt-in, low-overhead telemetry for benchmark
// runs. It is designed to be safe to call from the harness loop: when
// disabled, all public functions are no-ops. Nothing here is ever called from
// inside a run's timed window.
package telemetry

import (
	"math"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config controls the behavior of the telemetry module.
//
// Notes:
//   - MetricsAddr, when non-empty, starts a dedicated HTTP server that serves /metrics.
//     If you already expose Prometheus elsewhere, leave it empty and register promhttp yourself.
//   - LogInterval drives the exporter (see exporter.go). If LogInterval == 0, the
//     exporter loop is disabled.
type Config struct {
	Enabled     bool
	MetricsAddr string        // e.g., ":9090". Empty to disable standalone metrics endpoint
	LogInterval time.Duration // e.g., 10*time.Second; 0 disables exporter logging
}

var (
	modEnabled atomic.Bool

	// Prometheus metrics: global only (no unbounded label cardinality).
	runsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "histobench_runs_total",
		Help: "Total benchmark runs that completed (ok or failed)",
	})
	runFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "histobench_run_failures_total",
		Help: "Total runs whose final totals lost updates (conservation check failed)",
	})
	runAbortsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "histobench_run_aborts_total",
		Help: "Total runs aborted by a worker fault before producing a result",
	})
	rollsFilledTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "histobench_rolls_filled_total",
		Help: "Total samples filled across ok runs",
	})
	nsPerSampleHist = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "histobench_ns_per_sample",
		Help:    "Distribution of ns/sample across ok runs",
		Buckets: []float64{0.5, 1, 2, 4, 8, 16, 32, 64, 128, 256, 512},
	})
	fastestNsPerSample = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "histobench_fastest_ns_per_sample",
		Help: "Best (lowest) ns/sample observed among ok runs since process start",
	})
)

func init() {
	// Register metrics eagerly. If no Prometheus endpoint is exposed, the registration is harmless.
	prometheus.MustRegister(runsTotal, runFailuresTotal, runAbortsTotal, rollsFilledTotal, nsPerSampleHist, fastestNsPerSample)
}

// Enable configures the module. Safe to call multiple times; subsequent calls replace config.
func Enable(cfg Config) {
	modEnabled.Store(cfg.Enabled)

	// Start/stop exporter loop according to config.
	startOrUpdateExporter(cfg)

	// Optionally start a tiny HTTP server just for /metrics.
	if cfg.MetricsAddr != "" {
		startMetricsEndpoint(cfg.MetricsAddr)
	}
}

// Enabled reports whether the telemetry module is active.
func Enabled() bool { return modEnabled.Load() }

// ObserveRun records one completed run. Call after the timed window closes and
// the conservation check has decided the status.
//
// A failed run contributes to the failure counter only; its timing is invalid
// and never reaches the latency histogram.
func ObserveRun(status string, nsPerSample float64, rolls int64) {
	if !modEnabled.Load() {
		return
	}
	runsTotal.Inc()
	runsInternal.Add(1)
	if status != "ok" {
		runFailuresTotal.Inc()
		failedInternal.Add(1)
		return
	}
	rollsFilledTotal.Add(float64(rolls))
	nsPerSampleHist.Observe(nsPerSample)
	updateFastest(nsPerSample)
}

// ObserveAbort records runs that never produced a result because a worker
// faulted mid-fill.
func ObserveAbort(n int) {
	if !modEnabled.Load() || n <= 0 {
		return
	}
	runAbortsTotal.Add(float64(n))
	abortsInternal.Add(int64(n))
}

// fastestBits holds math.Float64bits of the best ns/sample; zero means unset.
var fastestBits atomic.Uint64

func updateFastest(ns float64) {
	for {
		cur := fastestBits.Load()
		if cur != 0 && math.Float64frombits(cur) <= ns {
			return
		}
		if fastestBits.CompareAndSwap(cur, math.Float64bits(ns)) {
			fastestNsPerSample.Set(ns)
			return
		}
	}
}

// startMetricsEndpoint exposes /metrics on the given addr in a background goroutine.
// Safe to call multiple times; only one server per unique addr will be started (best-effort).
func startMetricsEndpoint(addr string) {
	// To keep it simple and dependency-free, we do not deduplicate addr strictly.
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		_ = server.ListenAndServe()
	}()
}
