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

// Package results provides recorder backends for completed benchmark runs.
//
// Every backend consumes the same RunRecord shape, keyed by a unique run ID
// (run_id). The goal is that if a recording is retried (crash, timeout,
// duplicate delivery), applying it again is a no-op on backends that can
// deduplicate.
package results

import "context"

// RunRecord is the backend-facing shape for a single completed run.
//
// Fields:
//   - RunID: globally unique idempotency key for this run. Re-using the same
//     id for a retried recording makes the operation a no-op on deduplicating
//     backends.
//   - Strategy/Mode/Workers and the workload fields pin down exactly which
//     configuration produced the timing, so records from different sweeps can
//     be compared later.
//   - NsPerSample: zero when Status is "failed"; a run that lost updates has
//     no valid timing.
//
// Callers are responsible for reusing the same RunRecord across retries of
// the same run; rebuilding it mints a fresh RunID and defeats deduplication.
type RunRecord struct {
	RunID        string  `json:"run_id"`
	Strategy     string  `json:"strategy"`
	Mode         string  `json:"mode"`
	Workers      int     `json:"workers"`
	Bins         int     `json:"bins"`
	Rolls        int64   `json:"rolls"`
	BatchSize    int     `json:"batch_size"`
	Buckets      int     `json:"buckets,omitempty"`
	BucketPolicy string  `json:"bucket_policy,omitempty"`
	Seed         uint64  `json:"seed"`
	ElapsedNs    int64   `json:"elapsed_ns"`
	NsPerSample  float64 `json:"ns_per_sample"`
	Status       string  `json:"status"`
	TsUnixMs     int64   `json:"ts_unix_ms"`
}

// Recorder defines the minimal API supported by all backends.
// Implementations must treat a duplicate RunID as a no-op where the backend
// makes that possible, and must be safe to retry.
//
// The method accepts a context to allow timeouts and cancellation.
// Implementations should batch efficiently where backends support it.
type Recorder interface {
	Record(ctx context.Context, recs []RunRecord) error
}
