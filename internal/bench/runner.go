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
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"histobench/internal/workload"
)

// Run executes one timed run for the given parameters: build the strategy
// state, fill the planned workload, join, merge, verify conservation. The
// returned error covers configuration problems and worker faults; a run that
// completes but loses updates is not an error, it comes back as a Result
// with StatusFailed.
//
// There is no cancellation path: a run always executes its fixed workload to
// completion.
func Run(p Params) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	return runFiller(p, newFiller(p))
}

// runFiller drives a prepared strategy through the timed window. The window
// opens before the first worker starts and closes after the merge: the merge
// is part of what a discipline pays for, so it is measured.
func runFiller(p Params, f Filler) (Result, error) {
	plan := workload.NewPlan(p.Rolls, p.BatchSize, p.Workers, p.Seed)

	start := time.Now()
	switch p.Mode {
	case ModeSequential:
		if err := fillWorker(f, plan, 0); err != nil {
			return Result{}, err
		}
	default:
		var g errgroup.Group
		for w := 0; w < p.Workers; w++ {
			g.Go(func() error {
				return fillWorker(f, plan, w)
			})
		}
		// Join barrier: establishes the happens-before edge from every
		// worker's last write to the merge and the final read.
		if err := g.Wait(); err != nil {
			return Result{}, fmt.Errorf("run %s/%s aborted: %w", p.Strategy, p.Mode, err)
		}
	}
	f.Merge()
	elapsed := time.Since(start)

	res := Result{
		Strategy: p.Strategy,
		Mode:     p.Mode,
		Workers:  p.Workers,
		Rolls:    p.Rolls,
		Filled:   f.Total(),
		Elapsed:  elapsed,
		Status:   StatusOK,
	}
	if res.Filled != p.Rolls {
		res.Status = StatusFailed
		slog.Error("histogram fill lost updates",
			"strategy", p.Strategy, "mode", p.Mode, "workers", p.Workers,
			"expected", p.Rolls, "filled", res.Filled)
		return res, nil
	}
	res.NsPerSample = float64(elapsed.Nanoseconds()) / float64(p.Rolls)
	return res, nil
}

// fillWorker streams one worker's share of batches into the strategy. A
// panic inside the fill phase (an out-of-range bin index would surface here)
// is converted into an error so the whole run aborts instead of continuing
// with partial results.
func fillWorker(f Filler, plan workload.Plan, worker int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker %d: %v", worker, r)
		}
	}()
	stream := plan.Stream(worker)
	for {
		batch, ok := stream.Next()
		if !ok {
			return nil
		}
		f.Fill(batch, worker)
	}
}
