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

import (
	"fmt"
	"time"
)

// Status reports whether a completed run kept the conservation invariant.
type Status string

const (
	// StatusOK means every sample was counted exactly once.
	StatusOK Status = "ok"
	// StatusFailed means the final totals lost or duplicated updates; the
	// run's timing is invalidated.
	StatusFailed Status = "failed"
)

// Result describes one completed run. A failed run carries a zero
// NsPerSample: a correctness failure is never allowed to masquerade as a
// performance number.
type Result struct {
	Strategy Strategy
	Mode     Mode
	Workers  int

	// Rolls is the sample count the run was asked to fill.
	Rolls int64
	// Filled is the post-merge sum of all bins.
	Filled int64
	// Elapsed covers spawn, fill, join, and merge.
	Elapsed time.Duration
	// NsPerSample is Elapsed divided by Rolls; zero when Status is failed.
	NsPerSample float64

	Status Status
}

// OK reports whether the run kept its invariants.
func (r Result) OK() bool { return r.Status == StatusOK }

// String renders the machine-readable result line.
func (r Result) String() string {
	return fmt.Sprintf("strategy=%s mode=%s workers=%d ns_per_sample=%.2f status=%s",
		r.Strategy, r.Mode, r.Workers, r.NsPerSample, r.Status)
}
