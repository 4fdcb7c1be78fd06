package bench

import (
	"runtime"
	"strings"
	"testing"

	"histobench"
)

// validBase returns a small, valid parameter set tests can mutate.
func validBase() Params {
	return Params{
		Strategy:  StrategyMutex,
		Mode:      ModeParallel,
		Bins:      10,
		Rolls:     1000,
		BatchSize: 32,
		Seed:      1,
	}
}

// TestParams_Validate covers defaulting and every rejection path, with the
// error message naming the offending field.
func TestParams_Validate(t *testing.T) {
	t.Run("DefaultsWorkersForParallel", func(t *testing.T) {
		p := validBase()
		if err := p.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Workers != runtime.GOMAXPROCS(0) {
			t.Errorf("Workers = %d, want GOMAXPROCS (%d)", p.Workers, runtime.GOMAXPROCS(0))
		}
	})

	t.Run("SequentialForcesOneWorker", func(t *testing.T) {
		p := validBase()
		p.Mode = ModeSequential
		p.Workers = 16
		if err := p.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Workers != 1 {
			t.Errorf("Workers = %d, want 1 in sequential mode", p.Workers)
		}
	})

	t.Run("BucketizedDefaults", func(t *testing.T) {
		p := validBase()
		p.Strategy = StrategyBucketized
		if err := p.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Buckets != 8 || p.BucketPolicy != histobench.PolicyMutex {
			t.Errorf("bucketized defaults = (%d, %q), want (8, %q)", p.Buckets, p.BucketPolicy, histobench.PolicyMutex)
		}
	})

	rejections := []struct {
		name    string
		mutate  func(*Params)
		wantSub string
	}{
		{"UnknownStrategy", func(p *Params) { p.Strategy = "zigzag" }, "unknown strategy"},
		{"UnknownMode", func(p *Params) { p.Mode = "turbo" }, "unknown mode"},
		{"RawParallel", func(p *Params) { p.Strategy = StrategyRaw }, "only runs in mode"},
		{"ZeroBins", func(p *Params) { p.Bins = 0 }, "bins must be >= 1"},
		{"ZeroRolls", func(p *Params) { p.Rolls = 0 }, "rolls must be >= 1"},
		{"ZeroBatch", func(p *Params) { p.BatchSize = 0 }, "batch size must be >= 1"},
		{"BogusBucketPolicy", func(p *Params) {
			p.Strategy = StrategyBucketized
			p.BucketPolicy = "spin"
		}, "unknown bucket policy"},
	}
	for _, tc := range rejections {
		t.Run(tc.name, func(t *testing.T) {
			p := validBase()
			tc.mutate(&p)
			err := p.Validate()
			if err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Errorf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}

// TestParseStrategy accepts each known selector and rejects the rest.
func TestParseStrategy(t *testing.T) {
	for _, s := range AllStrategies() {
		got, err := ParseStrategy(string(s))
		if err != nil || got != s {
			t.Errorf("ParseStrategy(%q) = (%q, %v), want (%q, nil)", s, got, err, s)
		}
	}
	if _, err := ParseStrategy("nope"); err == nil {
		t.Errorf("ParseStrategy(\"nope\") succeeded, want error")
	}
}

// TestMatrixRuns checks the expansion order and the raw-in-parallel
// exclusion.
func TestMatrixRuns(t *testing.T) {
	base := validBase()
	base.Buckets = 4
	base.BucketPolicy = histobench.PolicyAtomic
	runs := MatrixRuns(base, AllStrategies(), []Mode{ModeSequential, ModeParallel})

	// 5 sequential + 4 parallel (raw excluded).
	if len(runs) != 9 {
		t.Fatalf("len(runs) = %d, want 9", len(runs))
	}
	for i, p := range runs[:5] {
		if p.Mode != ModeSequential {
			t.Errorf("run %d mode = %q, want %q", i, p.Mode, ModeSequential)
		}
	}
	for i, p := range runs[5:] {
		if p.Mode != ModeParallel {
			t.Errorf("run %d mode = %q, want %q", 5+i, p.Mode, ModeParallel)
		}
		if p.Strategy == StrategyRaw {
			t.Errorf("raw baseline expanded into parallel mode")
		}
	}
	for i, p := range runs {
		switch p.Strategy {
		case StrategyBucketized:
			if p.Buckets != 4 || p.BucketPolicy != histobench.PolicyAtomic {
				t.Errorf("run %d lost bucket settings: %d/%q", i, p.Buckets, p.BucketPolicy)
			}
		default:
			if p.Buckets != 0 || p.BucketPolicy != "" {
				t.Errorf("run %d (%s) kept bucket settings %d/%q", i, p.Strategy, p.Buckets, p.BucketPolicy)
			}
		}
	}
}

// TestResult_String pins the shape of the per-run report line.
func TestResult_String(t *testing.T) {
	r := Result{Strategy: StrategyAtomic, Mode: ModeParallel, Workers: 8, NsPerSample: 12.345, Status: StatusOK}
	got := r.String()
	want := "strategy=atomic mode=par workers=8 ns_per_sample=12.35 status=ok"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
