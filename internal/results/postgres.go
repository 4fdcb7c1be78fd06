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
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Postgres schema (reference):
//
// CREATE TABLE IF NOT EXISTS runs (
//   run_id TEXT PRIMARY KEY,
//   strategy TEXT NOT NULL,
//   mode TEXT NOT NULL,
//   workers INT NOT NULL,
//   bins INT NOT NULL,
//   rolls BIGINT NOT NULL,
//   batch_size INT NOT NULL,
//   buckets INT,
//   bucket_policy TEXT,
//   seed BIGINT NOT NULL,
//   elapsed_ns BIGINT NOT NULL,
//   ns_per_sample DOUBLE PRECISION NOT NULL,
//   status TEXT NOT NULL,
//   ts TIMESTAMPTZ NOT NULL DEFAULT now()
// );
// CREATE INDEX IF NOT EXISTS idx_runs_strategy ON runs(strategy);
//
// Idempotency comes from the primary key: a retried INSERT for a known
// run_id is a no-op via ON CONFLICT DO NOTHING.

// PostgresRecorder appends run records idempotently using the schema above.
type PostgresRecorder struct {
	db *sql.DB
	// Optional: per-call timeout fallback if ctx has no deadline
	defaultTimeout time.Duration
}

// NewPostgresRecorder creates a recorder over an existing *sql.DB. The caller
// owns the pool and the schema.
func NewPostgresRecorder(db *sql.DB) *PostgresRecorder {
	return &PostgresRecorder{db: db, defaultTimeout: 10 * time.Second}
}

// Record inserts the provided records within a single transaction.
// Each record remains idempotent: if the run_id already exists, the insert is skipped.
func (p *PostgresRecorder) Record(ctx context.Context, recs []RunRecord) error {
	if len(recs) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	// Provide a default timeout if caller didn't bound it.
	if _, ok := ctx.Deadline(); !ok && p.defaultTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.defaultTimeout)
		defer cancel()
	}

	tx, err := p.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	// Ensure rollback on any failure.
	defer func() {
		_ = tx.Rollback()
	}()

	for _, rec := range recs {
		if rec.RunID == "" {
			return errors.New("RunRecord.RunID must be set")
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO runs(run_id, strategy, mode, workers, bins, rolls, batch_size, buckets, bucket_policy, seed, elapsed_ns, ns_per_sample, status)
			   VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13) ON CONFLICT DO NOTHING`,
			rec.RunID, rec.Strategy, rec.Mode, rec.Workers, rec.Bins, rec.Rolls, rec.BatchSize,
			rec.Buckets, rec.BucketPolicy, int64(rec.Seed), rec.ElapsedNs, rec.NsPerSample, rec.Status); err != nil {
			return fmt.Errorf("insert runs(%s): %w", rec.RunID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	return nil
}
