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

// Package bench orchestrates timed histogram-fill runs: it partitions the
// workload across workers, drives one synchronization discipline through its
// fill phase inside a structured spawn/join scope, merges where the
// discipline requires it, and verifies that no update was lost before
// reporting a throughput number.
package bench

import (
	"fmt"
	"runtime"

	"histobench"
)

// Strategy selects which synchronization discipline a run measures.
type Strategy string

const (
	// StrategyRaw is the unsynchronized baseline; sequential mode only.
	StrategyRaw Strategy = "raw"
	// StrategyMutex serializes whole batches behind one lock.
	StrategyMutex Strategy = "mutex"
	// StrategyAtomic pays one atomic add per sample.
	StrategyAtomic Strategy = "atomic"
	// StrategyWorkerLocal fills private stores and merges after the join.
	StrategyWorkerLocal Strategy = "workerlocal"
	// StrategyBucketized shares each store among a static subset of workers.
	StrategyBucketized Strategy = "bucketized"
)

// AllStrategies lists every discipline in reporting order.
func AllStrategies() []Strategy {
	return []Strategy{StrategyRaw, StrategyMutex, StrategyAtomic, StrategyWorkerLocal, StrategyBucketized}
}

// ParseStrategy maps a selector string to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyRaw, StrategyMutex, StrategyAtomic, StrategyWorkerLocal, StrategyBucketized:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("unknown strategy: %q", s)
	}
}

// Mode selects how the fill phase executes.
type Mode string

const (
	// ModeSequential runs the single worker inline, no goroutines.
	ModeSequential Mode = "seq"
	// ModeParallel spawns one goroutine per worker inside a join scope.
	ModeParallel Mode = "par"
)

// Params fixes everything about one run before it starts. Zero values for
// Workers, Buckets, and BucketPolicy are filled in by Validate.
type Params struct {
	Strategy Strategy
	Mode     Mode

	// Bins is the histogram resolution over [0,1).
	Bins int
	// Rolls is the total number of samples the run fills.
	Rolls int64
	// BatchSize is the number of samples per fill call.
	BatchSize int
	// Buckets is the partition count for the bucketized strategy.
	Buckets int
	// BucketPolicy is the bucketized strategy's inner discipline.
	BucketPolicy histobench.Policy
	// Workers is the worker count; 0 means GOMAXPROCS in parallel mode.
	// Sequential mode always uses exactly one worker.
	Workers int
	// Seed feeds the deterministic sample streams.
	Seed uint64
}

// Validate applies defaults and rejects configurations that cannot produce a
// meaningful run. It mutates the receiver so callers see the effective
// parameters.
func (p *Params) Validate() error {
	if _, err := ParseStrategy(string(p.Strategy)); err != nil {
		return err
	}
	switch p.Mode {
	case ModeSequential:
		p.Workers = 1
	case ModeParallel:
		if p.Strategy == StrategyRaw {
			return fmt.Errorf("strategy %q has no synchronization and only runs in mode %q", StrategyRaw, ModeSequential)
		}
		if p.Workers <= 0 {
			p.Workers = runtime.GOMAXPROCS(0)
		}
	default:
		return fmt.Errorf("unknown mode: %q", p.Mode)
	}
	if p.Bins < 1 {
		return fmt.Errorf("bins must be >= 1, got %d", p.Bins)
	}
	if p.Rolls < 1 {
		return fmt.Errorf("rolls must be >= 1, got %d", p.Rolls)
	}
	if p.BatchSize < 1 {
		return fmt.Errorf("batch size must be >= 1, got %d", p.BatchSize)
	}
	if p.Strategy == StrategyBucketized {
		if p.Buckets <= 0 {
			p.Buckets = 8
		}
		if p.BucketPolicy == "" {
			p.BucketPolicy = histobench.PolicyMutex
		}
		if p.BucketPolicy != histobench.PolicyMutex && p.BucketPolicy != histobench.PolicyAtomic {
			return fmt.Errorf("unknown bucket policy: %q", p.BucketPolicy)
		}
	}
	return nil
}

// Filler is the capability surface the harness drives: apply one batch on
// behalf of a worker, fold private state after the join barrier, and expose
// the final totals. The five disciplines in package histobench implement it.
type Filler interface {
	Fill(batch []float64, worker int)
	Merge()
	Counts() []int64
	Total() int64
}

// newFiller builds the zero-initialized strategy state for validated params.
func newFiller(p Params) Filler {
	switch p.Strategy {
	case StrategyMutex:
		return histobench.NewMutexHistogram(p.Bins)
	case StrategyAtomic:
		return histobench.NewAtomicHistogram(p.Bins)
	case StrategyWorkerLocal:
		return histobench.NewWorkerLocalHistogram(p.Bins, p.Workers)
	case StrategyBucketized:
		return histobench.NewBucketedHistogram(p.Bins, p.Buckets, p.BucketPolicy)
	default:
		return histobench.NewHistogram(p.Bins)
	}
}
