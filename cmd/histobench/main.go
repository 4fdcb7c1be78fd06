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

// Package main provides the entry point for the histobench CLI.
//
// The tool fills the same fixed-resolution histogram under every requested
// synchronization strategy and prints one result line per run, so the cost
// of each discipline can be read side by side on the same workload. Each
// run checks the conservation invariant (every sample counted exactly once)
// before it is allowed to report a timing; a run that lost updates prints
// status=failed with no ns/sample figure.
//
// This file is responsible for orchestrating a sweep:
// 1. Expanding the requested strategies and modes into a run matrix.
// 2. Executing each run and feeding its result to telemetry.
// 3. Recording completed runs through a pluggable backend (stdout, JSONL,
//    Redis, Kafka, Mongo).
// 4. Printing an end-of-sweep comparison table with a raw-baseline column.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"histobench"
	"histobench/internal/bench"
	"histobench/internal/results"
	"histobench/internal/telemetry"
)

func init() {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: "15:04:05",
		}),
	))
}

func main() {
	var (
		strategiesStr = flag.String("strategies", "all", "comma-separated strategies to run (raw|mutex|atomic|workerlocal|bucketized), or all")
		modeStr       = flag.String("mode", "both", "seq|par|both")
		bins          = flag.Int("bins", 100, "histogram bins over [0,1)")
		rolls         = flag.Int64("rolls", 1_000_000, "samples per run")
		batchSize     = flag.Int("batch", 32, "samples handed to the filler per call")
		workers       = flag.Int("workers", 0, "parallel workers; 0 = GOMAXPROCS")
		seed          = flag.Uint64("seed", 42, "PRNG seed; same seed, same histogram")
		repeat        = flag.Int("repeat", 1, "repetitions of the full run matrix")

		// Bucketized strategy
		buckets      = flag.Int("buckets", 8, "shard count for the bucketized strategy")
		bucketPolicy = flag.String("bucket_policy", "mutex", "bucketized shard discipline: mutex|atomic")

		// Recording
		recordBackend = flag.String("record", "stdout", "run recorder backend: stdout|none|jsonl|redis|kafka|mongo|postgres")
		jsonlPath     = flag.String("jsonl_path", "histobench_runs.jsonl", "output path for -record=jsonl")
		redisAddr     = flag.String("redis_addr", "", "Redis address for -record=redis; empty uses the logging demo client")
		kafkaBrokers  = flag.String("kafka_brokers", "", "comma-separated brokers for -record=kafka; empty uses the logging demo producer")
		kafkaTopic    = flag.String("kafka_topic", "histobench-runs", "topic for -record=kafka")
		mongoURI      = flag.String("mongo_uri", "", "MongoDB URI for -record=mongo; empty uses the logging demo inserter")

		// Telemetry (opt-in)
		telemetryOn = flag.Bool("telemetry", false, "enable in-process run telemetry (opt-in)")
		metricsAddr = flag.String("metrics_addr", "", "if non-empty, expose Prometheus /metrics on this address (e.g., :9090)")
		logInterval = flag.Duration("telemetry_log_interval", 15*time.Second, "if > 0, periodically log a telemetry summary. 0 disables.")

		// Harness
		pprofOn    = flag.Bool("pprof", false, "enable pprof on localhost:6060")
		cpuProfile = flag.String("cpuprofile", "", "write a CPU profile of the sweep to this file")
		hold       = flag.Bool("hold", false, "keep the process alive after the sweep until interrupted (for scraping /metrics)")
	)
	flag.Parse()

	if *pprofOn {
		go func() { _ = http.ListenAndServe("localhost:6060", nil) }()
	}

	// Clamp nonsensical values back to usable defaults rather than erroring.
	if *bins < 1 {
		*bins = 1
	}
	if *rolls < 1 {
		*rolls = 1
	}
	if *batchSize < 1 {
		*batchSize = 1
	}
	if *buckets < 1 {
		*buckets = 8
	}
	if *repeat < 1 {
		*repeat = 1
	}

	strategies, err := parseStrategies(*strategiesStr)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	modes, ok := parseModes(*modeStr)
	if !ok {
		fmt.Println("-mode must be one of: seq|par|both")
		os.Exit(2)
	}
	pol := histobench.Policy(strings.ToLower(*bucketPolicy))
	if pol != histobench.PolicyMutex && pol != histobench.PolicyAtomic {
		fmt.Println("-bucket_policy must be one of: mutex|atomic")
		os.Exit(2)
	}

	// Initialize run telemetry (no-op if disabled).
	telemetry.Enable(telemetry.Config{
		Enabled:     *telemetryOn,
		MetricsAddr: *metricsAddr,
		LogInterval: *logInterval,
	})

	// 1. Build the recorder backend and start the background recording
	// service so run records never block the sweep loop.
	rec, err := results.BuildRecorder(*recordBackend, results.Options{
		RedisAddr:    *redisAddr,
		KafkaBrokers: splitList(*kafkaBrokers),
		KafkaTopic:   *kafkaTopic,
		MongoURI:     *mongoURI,
		JSONLPath:    *jsonlPath,
	})
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	svc := results.NewService(rec, results.ServiceOptions{})
	svc.Start()

	// 2. Expand the run matrix. The raw baseline is sequential-only; the
	// matrix leaves it out of parallel mode on its own.
	base := bench.Params{
		Bins:         *bins,
		Rolls:        *rolls,
		BatchSize:    *batchSize,
		Workers:      *workers,
		Buckets:      *buckets,
		BucketPolicy: pol,
		Seed:         *seed,
	}
	runs := bench.MatrixRuns(base, strategies, modes)
	if len(runs) == 0 {
		fmt.Println("the requested strategies and mode expand to zero runs")
		os.Exit(2)
	}

	effWorkers := *workers
	if effWorkers <= 0 {
		effWorkers = runtime.GOMAXPROCS(0)
	}
	slog.Info("histogram fill sweep",
		"bins", *bins,
		"rolls", *rolls,
		"batch", *batchSize,
		"workers", effWorkers,
		"seed", *seed,
		"runs", len(runs)*(*repeat),
	)

	var profFile *os.File
	if *cpuProfile != "" {
		profFile, err = os.Create(*cpuProfile)
		if err != nil {
			slog.Error("create cpu profile", "path", *cpuProfile, "err", err)
			os.Exit(1)
		}
		if err := pprof.StartCPUProfile(profFile); err != nil {
			slog.Error("start cpu profile", "err", err)
			os.Exit(1)
		}
	}

	// 3. Run the sweep. Aborted runs (worker panics) are logged and counted
	// but do not stop the remaining runs; their strategies simply report
	// nothing.
	stats := make(map[string]*sweepStat)
	order := make([]string, 0, len(runs))
	var failed, aborted int
	for rep := 0; rep < *repeat; rep++ {
		for _, p := range runs {
			res, runErr := bench.Run(p)
			if runErr != nil {
				aborted++
				telemetry.ObserveAbort(1)
				slog.Error("run aborted", "strategy", p.Strategy, "mode", p.Mode, "err", runErr)
				continue
			}
			fmt.Println(statusLine(res))
			telemetry.ObserveRun(string(res.Status), res.NsPerSample, res.Rolls)
			svc.Ingest(results.NewRunRecord(p, res))
			if !res.OK() {
				failed++
				continue
			}
			key := string(res.Strategy) + "/" + string(res.Mode)
			st, seen := stats[key]
			if !seen {
				st = &sweepStat{minNs: res.NsPerSample, maxNs: res.NsPerSample}
				stats[key] = st
				order = append(order, key)
			}
			st.runs++
			st.sumNs += res.NsPerSample
			if res.NsPerSample < st.minNs {
				st.minNs = res.NsPerSample
			}
			if res.NsPerSample > st.maxNs {
				st.maxNs = res.NsPerSample
			}
		}
	}

	if profFile != nil {
		pprof.StopCPUProfile()
		_ = profFile.Close()
		slog.Info("cpu profile written", "path", *cpuProfile)
	}

	// 4. Drain the recorder before reporting, so the final summary covers
	// every ingested run.
	svc.Stop()
	if sr, isStdout := rec.(*results.StdoutRecorder); isStdout {
		sr.PrintFinalSummary()
	}
	if c, isCloser := rec.(io.Closer); isCloser {
		_ = c.Close()
	}

	printComparison(order, stats)

	if *hold {
		slog.Info("sweep complete; holding until interrupted", "metrics_addr", *metricsAddr)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
	}

	if failed > 0 || aborted > 0 {
		slog.Error("sweep finished with bad runs", "failed", failed, "aborted", aborted)
		os.Exit(1)
	}
}

// sweepStat aggregates the ok runs of one strategy/mode cell across repeats.
type sweepStat struct {
	runs  int
	sumNs float64
	minNs float64
	maxNs float64
}

// parseStrategies expands a comma-separated list ("all" or empty means
// every strategy) into validated Strategy values, order preserved.
func parseStrategies(s string) ([]bench.Strategy, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return bench.AllStrategies(), nil
	}
	parts := strings.Split(s, ",")
	out := make([]bench.Strategy, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		st, err := bench.ParseStrategy(part)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("-strategies expanded to an empty list")
	}
	return out, nil
}

func parseModes(s string) ([]bench.Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "seq":
		return []bench.Mode{bench.ModeSequential}, true
	case "par":
		return []bench.Mode{bench.ModeParallel}, true
	case "both", "":
		return []bench.Mode{bench.ModeSequential, bench.ModeParallel}, true
	}
	return nil, false
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
)

// statusLine renders a run's result line with the status colorized when the
// terminal allows it (NO_COLOR opts out).
func statusLine(res bench.Result) string {
	line := res.String()
	if os.Getenv("NO_COLOR") != "" {
		return line
	}
	if res.OK() {
		return strings.Replace(line, "status=ok", "status="+ansiGreen+"ok"+ansiReset, 1)
	}
	return strings.Replace(line, "status=failed", "status="+ansiBold+ansiRed+"failed"+ansiReset, 1)
}

// printComparison renders the end-of-sweep table plus one machine-readable
// Summary line per strategy/mode cell for scripts.
func printComparison(order []string, stats map[string]*sweepStat) {
	if len(order) == 0 {
		return
	}
	baseline := 0.0
	if st, ok := stats["raw/seq"]; ok && st.runs > 0 {
		baseline = st.sumNs / float64(st.runs)
	}

	sep := strings.Repeat("-", 86)
	fmt.Println()
	fmt.Println(sep)
	fmt.Println("Sweep results (ns per sample; merge included, lower is better)")
	fmt.Println(sep)
	fmt.Printf("%-24s %5s %10s %10s %10s %12s %9s\n",
		"Strategy/Mode", "Runs", "Mean", "Min", "Max", "Samples/s", "vs raw")
	for _, key := range order {
		st := stats[key]
		mean := st.sumNs / float64(st.runs)
		rel := "-"
		if baseline > 0 {
			rel = fmt.Sprintf("%.2fx", mean/baseline)
		}
		fmt.Printf("%-24s %5d %10.2f %10.2f %10.2f %12s %9s\n",
			key, st.runs, mean, st.minNs, st.maxNs, humanRate(1e9/mean), rel)
	}
	fmt.Println(sep)

	// Machine-readable one-line summaries for scripts
	for _, key := range order {
		st := stats[key]
		mean := st.sumNs / float64(st.runs)
		strategy, mode, _ := strings.Cut(key, "/")
		fmt.Printf("Summary: strategy=%s mode=%s runs=%d mean_ns_per_sample=%.2f min_ns_per_sample=%.2f max_ns_per_sample=%.2f\n",
			strategy, mode, st.runs, mean, st.minNs, st.maxNs)
	}
}

func humanRate(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.1fk", v/1_000)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
