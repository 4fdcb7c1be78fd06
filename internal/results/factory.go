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

// NopRecorder discards every record. Selected with the "none" backend.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, []RunRecord) error { return nil }

// BuildRecorder constructs a Recorder based on a string selector.
// Supported backends:
//   - "stdout": console printer with an end-of-process summary (default)
//   - "none": discard records
//   - "jsonl": append to a JSONL file (opts.JSONLPath, default "histobench_runs.jsonl")
//   - "redis": idempotent Redis backend; logging client unless opts.RedisAddr is set
//   - "kafka": Kafka backend; logging producer unless opts.KafkaBrokers is set
//   - "mongo": one document per run; logging inserter unless opts.MongoURI is set
//   - "postgres": not wired for the demo (returns error to avoid hidden nil DB usage)
//
// The purpose is to let users try different backends without requiring
// infrastructure. For production, supply real clients and wire them directly.
func BuildRecorder(backend string, opts Options) (Recorder, error) {
	switch backend {
	case "", "stdout":
		return NewStdoutRecorder(), nil
	case "none":
		return NopRecorder{}, nil
	case "jsonl":
		path := opts.JSONLPath
		if path == "" {
			path = "histobench_runs.jsonl"
		}
		return NewRunFileSink(path)
	case "redis":
		ttl := opts.RedisMarkerTTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		var evaler RedisEvaler
		if opts.RedisAddr != "" {
			// Use a real Redis client when address is provided.
			evaler = NewGoRedisEvaler(opts.RedisAddr)
		} else {
			// Fallback to logging client for dependency-free demo.
			evaler = LoggingRedisEvaler{}
		}
		return NewRedisRecorder(evaler, ttl), nil
	case "kafka":
		topic := opts.KafkaTopic
		if topic == "" {
			topic = "histobench-runs"
		}
		var producer KafkaProducer
		if len(opts.KafkaBrokers) > 0 {
			// Use a real producer when brokers are provided.
			producer = NewKafkaGoProducer(opts.KafkaBrokers)
		} else {
			producer = LoggingKafkaProducer{}
		}
		return NewKafkaRecorder(producer, topic), nil
	case "mongo":
		var inserter MongoInserter
		if opts.MongoURI != "" {
			database := opts.MongoDatabase
			if database == "" {
				database = "histobench"
			}
			collection := opts.MongoCollection
			if collection == "" {
				collection = "runs"
			}
			real, err := NewMongoGoInserter(opts.MongoURI, database, collection)
			if err != nil {
				return nil, err
			}
			inserter = real
		} else {
			inserter = LoggingMongoInserter{}
		}
		return NewMongoRecorder(inserter), nil
	case "postgres":
		return nil, errors.New("postgres backend is not enabled in the demo build; please wire a real *sql.DB and create the runs table")
	default:
		return nil, fmt.Errorf("unknown recorder backend: %s", backend)
	}
}
