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
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// KafkaProducer is a minimal abstraction over a Kafka client.
// Implementations should enable idempotent production.
//
// Requirements:
//   - Idempotent producer ON (enable.idempotence=true)
//   - Use RunID as the Kafka message key so broker dedup + per-run ordering are preserved
//   - Acks=all is recommended
type KafkaProducer interface {
	Produce(ctx context.Context, topic string, key []byte, value []byte, headers map[string]string) error
}

// KafkaRecorder publishes run records as Kafka messages (WAL or primary store).
// Idempotency comes from:
//   - Producer retries are deduplicated by the broker when idempotence is enabled
//   - Consumers must track applied RunIDs and ignore duplicates
//
// This recorder does not apply state locally; it delegates materialization to
// downstream consumers.
type KafkaRecorder struct {
	producer       KafkaProducer
	topic          string
	defaultTimeout time.Duration
}

func NewKafkaRecorder(p KafkaProducer, topic string) *KafkaRecorder {
	return &KafkaRecorder{producer: p, topic: topic, defaultTimeout: 10 * time.Second}
}

// Record publishes each record as one message. Message key: RunID (bytes);
// payload: the JSON-encoded RunRecord.
func (k *KafkaRecorder) Record(ctx context.Context, recs []RunRecord) error {
	if len(recs) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); !ok && k.defaultTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, k.defaultTimeout)
		defer cancel()
	}
	for _, rec := range recs {
		if rec.RunID == "" {
			return errors.New("RunRecord.RunID must be set")
		}
		b, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal run record: %w", err)
		}
		headers := map[string]string{"content-type": "application/json"}
		if err := k.producer.Produce(ctx, k.topic, []byte(rec.RunID), b, headers); err != nil {
			return fmt.Errorf("kafka produce run=%s: %w", rec.RunID, err)
		}
	}
	return nil
}
