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

// Policy selects the synchronization discipline inside each bucket of a
// BucketedHistogram.
type Policy string

const (
	// PolicyMutex guards each bucket with one exclusive lock.
	PolicyMutex Policy = "mutex"
	// PolicyAtomic makes each bucket's bins independent atomic counters.
	PolicyAtomic Policy = "atomic"
)

// bucket is the synchronized store shared by the subset of workers routed to
// it. Both inner policies satisfy it.
type bucket interface {
	Fill(batch []float64, worker int)
	addInto(acc *Histogram)
}

// BucketedHistogram interpolates between one fully shared store and one store
// per worker: a fixed array of independently-synchronized histograms, with
// each worker statically routed to bucket worker%buckets. Contention is scoped
// to the workers sharing a bucket; cross-bucket fills are fully independent.
// After the join barrier, Merge folds all buckets into one accumulator.
//
// Degenerate shapes: one bucket behaves like a single shared MutexHistogram
// (or AtomicHistogram, per policy); as many buckets as workers behaves like
// WorkerLocalHistogram with the inner synchronization as pure overhead.
//
// The static routing is a known limitation: when the worker count is not a
// multiple of the bucket count, load across buckets is imbalanced and stays
// that way for the whole run.
type BucketedHistogram struct {
	buckets []bucket
	acc     *Histogram
	policy  Policy
}

// NewBucketedHistogram creates a bucketized histogram with the given bucket
// count and inner policy. Bucket counts below 1 are clamped to 1; an unknown
// policy falls back to PolicyMutex.
func NewBucketedHistogram(bins, buckets int, policy Policy) *BucketedHistogram {
	if buckets < 1 {
		buckets = 1
	}
	if policy != PolicyAtomic {
		policy = PolicyMutex
	}
	bs := make([]bucket, buckets)
	for i := range bs {
		if policy == PolicyAtomic {
			bs[i] = NewAtomicHistogram(bins)
		} else {
			bs[i] = NewMutexHistogram(bins)
		}
	}
	return &BucketedHistogram{buckets: bs, acc: NewHistogram(bins), policy: policy}
}

// Buckets returns the bucket count.
func (b *BucketedHistogram) Buckets() int { return len(b.buckets) }

// InnerPolicy returns the effective inner discipline.
func (b *BucketedHistogram) InnerPolicy() Policy { return b.policy }

// Fill routes the batch to the calling worker's statically assigned bucket.
func (b *BucketedHistogram) Fill(batch []float64, worker int) {
	b.buckets[worker%len(b.buckets)].Fill(batch, worker)
}

// Merge folds every bucket into the accumulator, once each, reusing the same
// element-wise addition as the worker-local discipline. Must run after the
// join barrier, single-threaded.
func (b *BucketedHistogram) Merge() {
	for _, bk := range b.buckets {
		bk.addInto(b.acc)
	}
}

// Counts returns a copy of the accumulator's per-bin counters. Valid only
// after Merge.
func (b *BucketedHistogram) Counts() []int64 { return b.acc.Counts() }

// Total returns the accumulator's sample count. Valid only after Merge.
func (b *BucketedHistogram) Total() int64 { return b.acc.Total() }
