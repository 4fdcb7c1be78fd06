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

// Package workload produces the benchmark input: seeded uniform [0,1) sample
// streams, statically partitioned across workers and cut into fixed-size
// batches. Every sample a run will ever see is determined by (seed, rolls,
// workers) alone; the batch size only changes how samples are grouped, never
// which samples exist.
package workload

// Plan statically partitions a run's total sample count across workers.
// Worker w receives a contiguous share of rolls (the division remainder is
// spread over the lowest worker indices) and draws them from its own seeded
// stream, so shares and streams are fixed before any goroutine starts and
// workers never coordinate over input.
type Plan struct {
	rolls     int64
	batchSize int
	workers   int
	seed      uint64
}

// NewPlan builds a plan for rolls total samples in batches of batchSize
// across the given worker count. Non-positive batch sizes and worker counts
// are clamped to 1, negative rolls to 0.
func NewPlan(rolls int64, batchSize, workers int, seed uint64) Plan {
	if rolls < 0 {
		rolls = 0
	}
	if batchSize < 1 {
		batchSize = 1
	}
	if workers < 1 {
		workers = 1
	}
	return Plan{rolls: rolls, batchSize: batchSize, workers: workers, seed: seed}
}

// Rolls returns the total sample count.
func (p Plan) Rolls() int64 { return p.rolls }

// BatchSize returns the batch size.
func (p Plan) BatchSize() int { return p.batchSize }

// Workers returns the worker count.
func (p Plan) Workers() int { return p.workers }

// Seed returns the RNG seed.
func (p Plan) Seed() uint64 { return p.seed }

// WorkerShare returns the number of samples assigned to the given worker.
// Shares differ by at most one and always sum to Rolls exactly.
func (p Plan) WorkerShare(worker int) int64 {
	if worker < 0 || worker >= p.workers {
		return 0
	}
	base := p.rolls / int64(p.workers)
	if int64(worker) < p.rolls%int64(p.workers) {
		base++
	}
	return base
}

// Batches returns the total number of fill calls the plan produces across all
// workers (each worker's share rounded up to whole batches).
func (p Plan) Batches() int64 {
	var n int64
	bs := int64(p.batchSize)
	for w := 0; w < p.workers; w++ {
		n += (p.WorkerShare(w) + bs - 1) / bs
	}
	return n
}

// Stream returns the batch stream for one worker. Streams are independent;
// each worker must use only its own.
func (p Plan) Stream(worker int) *Stream {
	return &Stream{
		src:       NewSource(p.seed, uint64(worker)),
		remaining: p.WorkerShare(worker),
		buf:       make([]float64, p.batchSize),
	}
}

// Stream hands out one worker's share of samples as successive batches. The
// returned slice is reused between calls: consume it fully before calling
// Next again. The final batch is shorter when the share is not a multiple of
// the batch size, so the share is delivered exactly.
type Stream struct {
	src       *Source
	remaining int64
	buf       []float64
}

// Next returns the next batch and true, or nil and false once the share is
// exhausted.
func (s *Stream) Next() ([]float64, bool) {
	if s.remaining <= 0 {
		return nil, false
	}
	n := int64(len(s.buf))
	if s.remaining < n {
		n = s.remaining
	}
	s.remaining -= n
	batch := s.buf[:n]
	s.src.Fill(batch)
	return batch, true
}

// Remaining returns how many samples the stream has not yet handed out.
func (s *Stream) Remaining() int64 { return s.remaining }
