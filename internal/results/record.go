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

package results

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"histobench/internal/bench"
)

// NewRunRecord flattens one completed run into its durable record shape and
// stamps it with a fresh random RunID and the current wall-clock time.
//
// Build the record once per run and hand the same value to every retry:
// the RunID is the idempotency key.
func NewRunRecord(p bench.Params, res bench.Result) RunRecord {
	return RunRecord{
		RunID:        newRunID(),
		Strategy:     string(res.Strategy),
		Mode:         string(res.Mode),
		Workers:      res.Workers,
		Bins:         p.Bins,
		Rolls:        p.Rolls,
		BatchSize:    p.BatchSize,
		Buckets:      p.Buckets,
		BucketPolicy: string(p.BucketPolicy),
		Seed:         p.Seed,
		ElapsedNs:    res.Elapsed.Nanoseconds(),
		NsPerSample:  res.NsPerSample,
		Status:       string(res.Status),
		TsUnixMs:     time.Now().UnixMilli(),
	}
}

func newRunID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	dst := make([]byte, 32)
	hex.Encode(dst, b[:])
	return string(dst)
}
