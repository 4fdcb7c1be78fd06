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

// WorkerLocalHistogram gives every worker its own private plain histogram,
// filled with no synchronization at all; the fill hot path is identical to the
// raw baseline. The cost of sharing is paid exactly once per worker, in Merge,
// which folds every private store into the shared accumulator element-wise, so
// synchronization cost scales with worker count, not sample count.
//
// During the fill phase no goroutine may touch another worker's store. Merge
// must be called single-threaded after the join barrier; Counts and Total are
// only valid after Merge.
type WorkerLocalHistogram struct {
	locals []*Histogram
	acc    *Histogram
}

// NewWorkerLocalHistogram creates private histograms for the given number of
// workers plus one shared accumulator. Worker counts below 1 are clamped to 1.
func NewWorkerLocalHistogram(bins, workers int) *WorkerLocalHistogram {
	if workers < 1 {
		workers = 1
	}
	locals := make([]*Histogram, workers)
	for i := range locals {
		locals[i] = NewHistogram(bins)
	}
	return &WorkerLocalHistogram{locals: locals, acc: NewHistogram(bins)}
}

// Workers returns the number of private stores.
func (w *WorkerLocalHistogram) Workers() int { return len(w.locals) }

// Fill applies one batch to the calling worker's private store. The worker
// index is reduced modulo the store count so an oversubscribed caller still
// lands on a valid store (two workers sharing an index would race; the plan
// never assigns one).
func (w *WorkerLocalHistogram) Fill(batch []float64, worker int) {
	w.locals[worker%len(w.locals)].fill(batch)
}

// Merge folds every private store into the accumulator, once each. Order does
// not matter: element-wise addition is commutative and associative.
func (w *WorkerLocalHistogram) Merge() {
	for _, l := range w.locals {
		w.acc.AddFrom(l)
	}
}

// Counts returns a copy of the accumulator's per-bin counters. Valid only
// after Merge.
func (w *WorkerLocalHistogram) Counts() []int64 { return w.acc.Counts() }

// Total returns the accumulator's sample count. Valid only after Merge.
func (w *WorkerLocalHistogram) Total() int64 { return w.acc.Total() }
