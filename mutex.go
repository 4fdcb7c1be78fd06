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

import "sync"

// MutexHistogram guards one plain histogram behind a single exclusive lock.
// Fill acquires the lock once per batch, so the per-acquisition cost is
// amortized over the batch size; concurrent callers serialize entirely and
// batches never interleave.
type MutexHistogram struct {
	mu sync.Mutex
	h  *Histogram
}

// NewMutexHistogram creates a zero-initialized mutex-guarded histogram.
func NewMutexHistogram(bins int) *MutexHistogram {
	return &MutexHistogram{h: NewHistogram(bins)}
}

// Fill applies one batch of samples inside a single critical section.
func (m *MutexHistogram) Fill(batch []float64, _ int) {
	m.mu.Lock()
	m.h.fill(batch)
	m.mu.Unlock()
}

// Merge is a no-op: the shared store already holds the final totals.
func (m *MutexHistogram) Merge() {}

// Counts returns a copy of the per-bin counters, taken under the lock.
func (m *MutexHistogram) Counts() []int64 {
	m.mu.Lock()
	out := m.h.Counts()
	m.mu.Unlock()
	return out
}

// Total returns the sum of all bin counters, taken under the lock.
func (m *MutexHistogram) Total() int64 {
	m.mu.Lock()
	sum := m.h.Total()
	m.mu.Unlock()
	return sum
}

// addInto folds this histogram's counters into acc under the lock. Used by the
// bucketized discipline's merge step.
func (m *MutexHistogram) addInto(acc *Histogram) {
	m.mu.Lock()
	acc.AddFrom(m.h)
	m.mu.Unlock()
}
