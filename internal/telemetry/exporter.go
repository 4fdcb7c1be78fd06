package telemetry

import (
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// Internal aggregates and exporter loop. Prometheus counters cannot be read
// back cheaply, so the exporter keeps its own shadow counters.

var (
	runsInternal   atomic.Int64
	failedInternal atomic.Int64
	abortsInternal atomic.Int64

	exporterMu   sync.Mutex
	exporterStop chan struct{}
	exporterDone chan struct{}
)

func startOrUpdateExporter(cfg Config) {
	exporterMu.Lock()
	defer exporterMu.Unlock()

	// Stop previous loop if running
	if exporterStop != nil {
		close(exporterStop)
		<-exporterDone
		exporterStop, exporterDone = nil, nil
	}
	if !cfg.Enabled || cfg.LogInterval <= 0 {
		return
	}
	// Start new loop
	exporterStop = make(chan struct{})
	exporterDone = make(chan struct{})
	go exporterLoop(cfg.LogInterval, exporterStop, exporterDone)
}

func exporterLoop(interval time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			publishSnapshot()
		case <-stop:
			return
		}
	}
}

func publishSnapshot() {
	attrs := []any{
		"runs", runsInternal.Load(),
		"failed", failedInternal.Load(),
		"aborted", abortsInternal.Load(),
	}
	if bits := fastestBits.Load(); bits != 0 {
		attrs = append(attrs, "fastest_ns_per_sample", math.Float64frombits(bits))
	}
	slog.Info("run telemetry", attrs...)
}
