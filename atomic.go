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

import "sync/atomic"

// AtomicHistogram makes each bin an independently-incrementable atomic
// counter. Fill performs one atomic add per sample directly on the target bin
// with no histogram-wide critical section, so it never blocks; same-bin
// increments serialize in hardware, cross-bin increments are fully
// independent. The bins stay densely packed (no per-bin padding): adjacent
// counters sharing a cache line is part of what this discipline measures.
//
// Increments carry no cross-bin ordering. The final totals are safe to read
// only after the caller has observed a join barrier covering every writer.
type AtomicHistogram struct {
	bins []atomic.Int64
}

// NewAtomicHistogram creates a zero-initialized atomic-per-bin histogram.
// Bin counts below 1 are clamped to 1.
func NewAtomicHistogram(bins int) *AtomicHistogram {
	if bins < 1 {
		bins = 1
	}
	return &AtomicHistogram{bins: make([]atomic.Int64, bins)}
}

// Fill applies one batch of samples, one atomic add each. Batching amortizes
// only dispatch overhead here; every sample still pays its own atomic.
func (a *AtomicHistogram) Fill(batch []float64, _ int) {
	n := len(a.bins)
	for _, s := range batch {
		a.bins[BinIndex(s, n)].Add(1)
	}
}

// Merge is a no-op: the shared store already holds the final totals.
func (a *AtomicHistogram) Merge() {}

// Counts returns a copy of the per-bin counters. Only meaningful after all
// writers have been joined.
func (a *AtomicHistogram) Counts() []int64 {
	out := make([]int64, len(a.bins))
	for i := range a.bins {
		out[i] = a.bins[i].Load()
	}
	return out
}

// Total returns the sum of all bin counters. Only meaningful after all
// writers have been joined.
func (a *AtomicHistogram) Total() int64 {
	var sum int64
	for i := range a.bins {
		sum += a.bins[i].Load()
	}
	return sum
}

// addInto folds this histogram's counters into acc. Used by the bucketized
// discipline's merge step, which runs after the join barrier.
func (a *AtomicHistogram) addInto(acc *Histogram) {
	for i := range a.bins {
		acc.bins[i] += a.bins[i].Load()
	}
}
