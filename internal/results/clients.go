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
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	kafka "github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"
)

// LoggingRedisEvaler is a tiny demo client that just logs the Lua evaluation.
// It lets the demo select the Redis backend without needing a real Redis.
// Not for production use.

type LoggingRedisEvaler struct{}

func (LoggingRedisEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) (interface{}, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	fmt.Printf("[redis-demo] EVAL script(len=%d) KEYS=%v ARGS=%v\n", len(script), keys, args)
	return int64(1), nil // pretend we recorded it
}

// GoRedisEvaler is a production-ready Redis client wrapper implementing RedisEvaler.
// It uses github.com/redis/go-redis/v9 under the hood.
// Use NewGoRedisEvaler to construct it with an address like "127.0.0.1:6379".

type GoRedisEvaler struct{ c *redis.Client }

func NewGoRedisEvaler(addr string) *GoRedisEvaler {
	opt := &redis.Options{Addr: addr}
	return &GoRedisEvaler{c: redis.NewClient(opt)}
}

func (g *GoRedisEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) (interface{}, error) {
	return g.c.Eval(ctx, script, keys, args...).Result()
}

// LoggingKafkaProducer is a tiny demo producer that logs the produced message.
// It enables selecting the Kafka backend without a real broker.
// Not for production use.

type LoggingKafkaProducer struct{}

func (LoggingKafkaProducer) Produce(ctx context.Context, topic string, key []byte, value []byte, headers map[string]string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if headers == nil {
		headers = map[string]string{}
	}
	fmt.Printf("[kafka-demo] TOPIC=%s KEY=%s VALUE=%s HEADERS=%v\n", topic, string(key), truncate(string(value), 256), headers)
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

// KafkaGoProducer is a production-ready producer wrapper implementing
// KafkaProducer. It uses github.com/segmentio/kafka-go under the hood with
// acks=all; the writer is shared and safe for concurrent use.
// Use NewKafkaGoProducer with broker addresses like "127.0.0.1:9092".

type KafkaGoProducer struct{ w *kafka.Writer }

func NewKafkaGoProducer(brokers []string) *KafkaGoProducer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &KafkaGoProducer{w: w}
}

func (p *KafkaGoProducer) Produce(ctx context.Context, topic string, key []byte, value []byte, headers map[string]string) error {
	msg := kafka.Message{Topic: topic, Key: key, Value: value}
	for k, v := range headers {
		msg.Headers = append(msg.Headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return p.w.WriteMessages(ctx, msg)
}

// Close flushes and releases the underlying writer.
func (p *KafkaGoProducer) Close() error { return p.w.Close() }

// LoggingMongoInserter is a tiny demo inserter that logs the upsert.
// It enables selecting the Mongo backend without a real server.
// Not for production use.

type LoggingMongoInserter struct{}

func (LoggingMongoInserter) UpsertRun(ctx context.Context, rec RunRecord) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	payload, _ := json.Marshal(rec)
	fmt.Printf("[mongo-demo] UPSERT _id=%s DOC=%s\n", rec.RunID, truncate(string(payload), 256))
	return nil
}

// MongoGoInserter is a production-ready inserter wrapper implementing
// MongoInserter. It uses go.mongodb.org/mongo-driver under the hood; the
// upsert filters on _id=RunID with $setOnInsert, so a retried run changes
// nothing. Use NewMongoGoInserter with a URI like "mongodb://127.0.0.1:27017".

type MongoGoInserter struct{ coll *mongo.Collection }

func NewMongoGoInserter(uri, database, collection string) (*MongoGoInserter, error) {
	client, err := mongo.Connect(context.Background(), mongoopts.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	return &MongoGoInserter{coll: client.Database(database).Collection(collection)}, nil
}

func (m *MongoGoInserter) UpsertRun(ctx context.Context, rec RunRecord) error {
	doc := bson.M{
		"strategy":      rec.Strategy,
		"mode":          rec.Mode,
		"workers":       rec.Workers,
		"bins":          rec.Bins,
		"rolls":         rec.Rolls,
		"batch_size":    rec.BatchSize,
		"seed":          int64(rec.Seed), // BSON has no unsigned 64-bit type
		"elapsed_ns":    rec.ElapsedNs,
		"ns_per_sample": rec.NsPerSample,
		"status":        rec.Status,
		"ts_unix_ms":    rec.TsUnixMs,
	}
	if rec.Buckets > 0 {
		doc["buckets"] = rec.Buckets
		doc["bucket_policy"] = rec.BucketPolicy
	}
	_, err := m.coll.UpdateOne(ctx,
		bson.M{"_id": rec.RunID},
		bson.M{"$setOnInsert": doc},
		mongoopts.Update().SetUpsert(true))
	return err
}

// Options holds minimal knobs for building recorders.

type Options struct {
	RedisMarkerTTL  time.Duration
	RedisAddr       string
	KafkaBrokers    []string
	KafkaTopic      string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	JSONLPath       string
}
