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
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// NewStdoutRecorder creates a simple recorder that prints run records to the
// console and keeps totals for an end-of-process summary. This is the default
// backend for interactive use.
func NewStdoutRecorder() *StdoutRecorder {
	return &StdoutRecorder{best: make(map[string]float64)}
}

type StdoutRecorder struct {
	mu           sync.Mutex
	totalRuns    int64
	totalFailed  int64
	totalBatches int64
	// best holds the minimum ns/sample per strategy/mode among ok runs.
	best map[string]float64
}

var timingNoteOnce sync.Once

// Record prints each record and accumulates totals for the final summary.
func (r *StdoutRecorder) Record(ctx context.Context, recs []RunRecord) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if len(recs) == 0 {
		return nil
	}
	fmt.Printf("[%s] Recording batch of %d runs...\n", time.Now().Format(time.RFC3339), len(recs))
	timingNoteOnce.Do(func() {
		yellow := "\x1b[33m"
		reset := "\x1b[0m"
		fmt.Printf("%s[%s] Timing note: ns_per_sample covers spawn, fill, join, and merge; a failed run reports zero and is excluded from the fastest table.%s\n", yellow, time.Now().Format(time.RFC3339), reset)
	})
	for _, rec := range recs {
		fmt.Printf("  - STRATEGY: %-12s MODE: %-4s WORKERS: %-3d NS/SAMPLE: %10.2f STATUS: %s\n",
			rec.Strategy, rec.Mode, rec.Workers, rec.NsPerSample, rec.Status)
	}

	r.mu.Lock()
	for _, rec := range recs {
		r.totalRuns++
		if rec.Status != "ok" {
			r.totalFailed++
			continue
		}
		k := rec.Strategy + "/" + rec.Mode
		if cur, ok := r.best[k]; !ok || rec.NsPerSample < cur {
			r.best[k] = rec.NsPerSample
		}
	}
	r.totalBatches++
	r.mu.Unlock()

	return nil
}

// PrintFinalSummary prints a single yellow summary once at the end of the process.
func (r *StdoutRecorder) PrintFinalSummary() {
	r.mu.Lock()
	totalRuns := r.totalRuns
	totalFailed := r.totalFailed
	totalBatches := r.totalBatches
	best := make(map[string]float64, len(r.best))
	for k, v := range r.best {
		best[k] = v
	}
	r.mu.Unlock()

	keys := make([]string, 0, len(best))
	for k := range best {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	yellow := "\x1b[33m"
	reset := "\x1b[0m"
	now := time.Now().Format(time.RFC3339)

	sep := strings.Repeat("-", 60)
	fmt.Printf("%s[%s] Final run summary\n", yellow, now)
	fmt.Println(sep)
	fmt.Printf("%-18s %12s\n", "Metric", "Value")
	fmt.Println(sep)
	fmt.Printf("%-18s %12d\n", "Runs", totalRuns)
	fmt.Printf("%-18s %12d\n", "Failed", totalFailed)
	fmt.Printf("%-18s %12d\n", "Batches", totalBatches)
	fmt.Println(sep)

	if len(keys) > 0 {
		fmt.Printf("Fastest fill per strategy (ns/sample)\n")
		fmt.Println(sep)
		fmt.Printf("%-30s %24s\n", "Strategy/Mode", "Best")
		fmt.Println(sep)
		for _, k := range keys {
			fmt.Printf("%-30s %24.2f\n", k, best[k])
		}
		fmt.Println(sep)
	}

	fmt.Println("A failed run carries no timing: correctness is checked before speed is reported.")
	fmt.Print(reset)
}
