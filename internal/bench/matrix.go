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

package bench

// MatrixRuns expands base parameters over the requested strategies and
// modes, one Params per run, in a stable order (mode-major, then strategy).
// The raw baseline is skipped in parallel mode: it has nothing to
// synchronize with, so a parallel raw run could only demonstrate data races.
// Requesting it explicitly through Run still fails validation; the matrix
// just leaves it out.
func MatrixRuns(base Params, strategies []Strategy, modes []Mode) []Params {
	out := make([]Params, 0, len(strategies)*len(modes))
	for _, m := range modes {
		for _, s := range strategies {
			if s == StrategyRaw && m == ModeParallel {
				continue
			}
			p := base
			p.Strategy = s
			p.Mode = m
			if s != StrategyBucketized {
				// Bucket settings only mean something to the bucketized
				// filler; clearing them keeps run records honest.
				p.Buckets = 0
				p.BucketPolicy = ""
			}
			out = append(out, p)
		}
	}
	return out
}
