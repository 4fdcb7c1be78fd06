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
	"errors"
	"fmt"
	"time"
)

// MongoInserter is a minimal abstraction over a MongoDB collection.
// Implementations must write one document per run, keyed by the run ID, and
// must treat a duplicate run ID as a no-op so retried batches cannot
// duplicate history.
type MongoInserter interface {
	UpsertRun(ctx context.Context, rec RunRecord) error
}

// MongoRecorder persists run records as one document per run with the run ID
// as the document _id. Idempotency comes for free from the upsert: a retried
// record matches the existing _id and inserts nothing.
type MongoRecorder struct {
	inserter       MongoInserter
	defaultTimeout time.Duration
}

func NewMongoRecorder(ins MongoInserter) *MongoRecorder {
	return &MongoRecorder{inserter: ins, defaultTimeout: 10 * time.Second}
}

// Record upserts each record in order and stops at the first failure, so a
// retried batch re-walks the already-applied prefix as no-ops.
func (m *MongoRecorder) Record(ctx context.Context, recs []RunRecord) error {
	if len(recs) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); !ok && m.defaultTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.defaultTimeout)
		defer cancel()
	}
	for _, rec := range recs {
		if rec.RunID == "" {
			return errors.New("RunRecord.RunID must be set")
		}
		if err := m.inserter.UpsertRun(ctx, rec); err != nil {
			return fmt.Errorf("mongo upsert run=%s: %w", rec.RunID, err)
		}
	}
	return nil
}
