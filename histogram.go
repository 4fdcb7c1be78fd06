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

// Package histobench provides five interchangeable disciplines for filling a
// fixed-resolution histogram of [0,1) samples from concurrent workers: an
// unsynchronized baseline, a mutex-guarded variant, an atomic-per-bin variant,
// a worker-local variant merged after the join barrier, and a bucketized
// hybrid with a configurable inner discipline. All five preserve the same
// contract: every sample lands in exactly one bin exactly once, so the sum of
// all bins always equals the number of samples filled.
package histobench

// Histogram is a fixed-size array of int64 bin counters partitioning [0,1)
// into equal-width intervals, with no internal synchronization. It is the raw
// sequential baseline and the private storage unit inside the worker-local and
// bucketized disciplines. Not safe for concurrent callers.
type Histogram struct {
	bins []int64
}

// NewHistogram creates a zero-initialized histogram with the given number of
// bins. Counts below 1 are clamped to 1.
func NewHistogram(bins int) *Histogram {
	if bins < 1 {
		bins = 1
	}
	return &Histogram{bins: make([]int64, bins)}
}

// BinIndex maps a sample to its bin: floor(sample*bins), clamped to bins-1 so
// the top edge stays in range. The caller guarantees
// sample >= 0; a negative sample is a programming error and will fault on the
// subsequent slice access rather than be silently tolerated.
func BinIndex(sample float64, bins int) int {
	i := int(sample * float64(bins))
	if i >= bins {
		i = bins - 1
	}
	return i
}

// fill is the un-dispatched hot loop shared by every discipline that stores
// into a plain bin array.
func (h *Histogram) fill(batch []float64) {
	n := len(h.bins)
	for _, s := range batch {
		h.bins[BinIndex(s, n)]++
	}
}

// Fill applies one batch of samples by ordinary non-atomic addition. The
// worker argument is part of the common fill signature and is ignored here.
func (h *Histogram) Fill(batch []float64, _ int) {
	h.fill(batch)
}

// AddFrom merges another histogram into this one by element-wise addition.
// Both histograms must have the same bin count. The operation is commutative
// and associative: folding any set of histograms in any order yields identical
// per-bin totals.
func (h *Histogram) AddFrom(o *Histogram) {
	for i, c := range o.bins {
		h.bins[i] += c
	}
}

// Merge is a no-op: a plain histogram has nothing to fold.
func (h *Histogram) Merge() {}

// Bins returns the number of bins.
func (h *Histogram) Bins() int { return len(h.bins) }

// Counts returns a copy of the per-bin counters.
func (h *Histogram) Counts() []int64 {
	out := make([]int64, len(h.bins))
	copy(out, h.bins)
	return out
}

// Total returns the sum of all bin counters, i.e. the number of samples filled.
func (h *Histogram) Total() int64 {
	var sum int64
	for _, c := range h.bins {
		sum += c
	}
	return sum
}
