package benchmarks

import (
	"runtime"
	"sync/atomic"
	"testing"

	"histobench"
)

// ---- 1) HOT-BIN: every sample lands in the first bin ----

func BenchmarkHotBin_Mutex(b *testing.B) {
	h := histobench.NewMutexHistogram(benchBins)
	batch := make([]float64, benchBatchLen) // all zeros -> bin 0
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			h.Fill(batch, 0)
		}
	})
}

func BenchmarkHotBin_Atomic(b *testing.B) {
	h := histobench.NewAtomicHistogram(benchBins)
	batch := make([]float64, benchBatchLen)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			h.Fill(batch, 0)
		}
	})
}

// CAS rendition of the dense atomic store: same hot bin, but every increment
// loops until its CompareAndSwap wins. Under contention the retries pile up,
// which is why the real store uses Add.
func BenchmarkHotBin_CAS(b *testing.B) {
	h := NewCASHistogram(benchBins)
	batch := make([]float64, benchBatchLen)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			h.Fill(batch, 0)
		}
	})
}

func BenchmarkHotBin_Bucketized(b *testing.B) {
	h := histobench.NewBucketedHistogram(benchBins, 8, histobench.PolicyMutex)
	batch := make([]float64, benchBatchLen)
	nextID := workerIDs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		worker := nextID()
		for pb.Next() {
			h.Fill(batch, worker)
		}
	})
}

// ---- 2) UNIFORM: samples spread over every bin ----

func BenchmarkUniform_CAS(b *testing.B) {
	h := NewCASHistogram(benchBins)
	batch := uniformBatch(2)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			h.Fill(batch, 0)
		}
	})
}

func BenchmarkUniform_WorkerLocal(b *testing.B) {
	// RunParallel spawns GOMAXPROCS goroutines by default; one private store
	// each, ids handed out by the counter.
	h := histobench.NewWorkerLocalHistogram(benchBins, runtime.GOMAXPROCS(0))
	batch := uniformBatch(2)
	nextID := workerIDs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		worker := nextID()
		for pb.Next() {
			h.Fill(batch, worker)
		}
	})
}

func BenchmarkUniform_Bucketized_MutexInner(b *testing.B) {
	h := histobench.NewBucketedHistogram(benchBins, 8, histobench.PolicyMutex)
	batch := uniformBatch(2)
	nextID := workerIDs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		worker := nextID()
		for pb.Next() {
			h.Fill(batch, worker)
		}
	})
}

func BenchmarkUniform_Bucketized_AtomicInner(b *testing.B) {
	h := histobench.NewBucketedHistogram(benchBins, 8, histobench.PolicyAtomic)
	batch := uniformBatch(2)
	nextID := workerIDs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		worker := nextID()
		for pb.Next() {
			h.Fill(batch, worker)
		}
	})
}

// --- tiny locals to avoid importing the runner's helpers in test ---

// workerIDs returns a generator that hands each parallel goroutine its own
// id, the way the runner's partition plan would.
func workerIDs() func() int {
	var ctr atomic.Int64
	return func() int { return int(ctr.Add(1) - 1) }
}
