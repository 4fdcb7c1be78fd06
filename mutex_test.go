// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package histobench

import (
	"math/rand/v2"
	"sync"
	"testing"
)

// TestMutexHistogram_MatchesRawSequential feeds the same batches to the raw
// baseline and the mutex-guarded variant and expects identical distributions:
// the lock must change contention behavior only, never placement.
func TestMutexHistogram_MatchesRawSequential(t *testing.T) {
	raw := NewHistogram(16)
	m := NewMutexHistogram(16)
	rng := rand.New(rand.NewPCG(5, 1))
	for b := 0; b < 50; b++ {
		batch := make([]float64, 32)
		for i := range batch {
			batch[i] = rng.Float64()
		}
		raw.Fill(batch, 0)
		m.Fill(batch, 0)
	}
	assertCounts(t, m.Counts(), raw.Counts())
	if m.Total() != raw.Total() {
		t.Errorf("Total() = %d, want %d", m.Total(), raw.Total())
	}
}

// TestMutexHistogram_Concurrent validates additive correctness under
// contention: many goroutines fill batches into one shared store and the
// final total must be exact, with no lost updates.
// Run with `go test -race ./...` to also exercise the lock discipline.
func TestMutexHistogram_Concurrent(t *testing.T) {
	t.Parallel()

	m := NewMutexHistogram(8)
	numGoroutines := 100
	batchesPerGoroutine := 50
	batchSize := 20

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for g := 0; g < numGoroutines; g++ {
		go func(worker int) {
			defer wg.Done()
			rng := rand.New(rand.NewPCG(99, uint64(worker)+1))
			batch := make([]float64, batchSize)
			for b := 0; b < batchesPerGoroutine; b++ {
				for i := range batch {
					batch[i] = rng.Float64()
				}
				m.Fill(batch, worker)
			}
		}(g)
	}
	wg.Wait()

	want := int64(numGoroutines * batchesPerGoroutine * batchSize)
	if got := m.Total(); got != want {
		t.Errorf("Total() after concurrent fills = %d, want %d", got, want)
	}
}

// TestMutexHistogram_AddInto checks the bucket-merge hook: folding into an
// accumulator copies the counters without disturbing the source.
func TestMutexHistogram_AddInto(t *testing.T) {
	m := NewMutexHistogram(4)
	m.Fill([]float64{0.1, 0.4, 0.8}, 0)

	acc := NewHistogram(4)
	m.addInto(acc)
	m.addInto(acc) // folding twice doubles, source untouched

	assertCounts(t, acc.Counts(), []int64{2, 2, 0, 2})
	assertCounts(t, m.Counts(), []int64{1, 1, 0, 1})
}
