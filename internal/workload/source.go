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

package workload

import "math/rand/v2"

// Source is a seeded stream of uniform [0,1) samples. Each (seed, stream)
// pair yields its own reproducible PCG sequence; distinct streams are
// statistically independent. A Source is single-goroutine.
type Source struct {
	rng *rand.Rand
}

// NewSource returns the sample stream for the given seed and stream index.
// Stream indices are offset by one so stream 0 and an unrelated plain
// NewPCG(seed, 0) consumer never collide.
func NewSource(seed, stream uint64) *Source {
	return &Source{rng: rand.New(rand.NewPCG(seed, stream+1))}
}

// Next returns the next uniform sample in [0,1).
func (s *Source) Next() float64 {
	return s.rng.Float64()
}

// Fill overwrites dst with the next len(dst) samples.
func (s *Source) Fill(dst []float64) {
	for i := range dst {
		dst[i] = s.rng.Float64()
	}
}
