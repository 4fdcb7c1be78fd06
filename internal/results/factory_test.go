package results

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestBuildRecorder_DefaultStdout(t *testing.T) {
	r, err := BuildRecorder("", Options{})
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if _, ok := r.(*StdoutRecorder); !ok {
		t.Fatalf("expected *StdoutRecorder, got %T", r)
	}
}

func TestBuildRecorder_None(t *testing.T) {
	r, err := BuildRecorder("none", Options{})
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if _, ok := r.(NopRecorder); !ok {
		t.Fatalf("expected NopRecorder, got %T", r)
	}
	if err := r.Record(context.Background(), []RunRecord{{RunID: "r"}}); err != nil {
		t.Fatalf("nop record failed: %v", err)
	}
}

func TestBuildRecorder_JSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.jsonl")
	r, err := BuildRecorder("jsonl", Options{JSONLPath: path})
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	sink, ok := r.(*RunFileSink)
	if !ok {
		t.Fatalf("expected *RunFileSink, got %T", r)
	}
	defer sink.Close()
	if err := sink.Record(context.Background(), []RunRecord{{RunID: "r1", Strategy: "mutex"}}); err != nil {
		t.Fatalf("record failed: %v", err)
	}
}

func TestBuildRecorder_RedisLoggingAndReal(t *testing.T) {
	// Logging client path (no RedisAddr)
	r, err := BuildRecorder("redis", Options{RedisMarkerTTL: time.Hour})
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if r == nil {
		t.Fatalf("nil recorder")
	}
	// Real client path (addr provided) -> cannot actually hit redis but Build should succeed
	r2, err := BuildRecorder("redis", Options{RedisAddr: "127.0.0.1:0"})
	if err != nil || r2 == nil {
		t.Fatalf("unexpected: %v %v", r2, err)
	}
}

func TestBuildRecorder_Kafka(t *testing.T) {
	r, err := BuildRecorder("kafka", Options{KafkaTopic: "t"})
	if err != nil || r == nil {
		t.Fatalf("unexpected: %v %v", r, err)
	}
	// Real producer path (brokers provided) -> construction only, no broker contact
	r2, err := BuildRecorder("kafka", Options{KafkaBrokers: []string{"127.0.0.1:0"}})
	if err != nil || r2 == nil {
		t.Fatalf("unexpected: %v %v", r2, err)
	}
}

func TestBuildRecorder_Mongo(t *testing.T) {
	r, err := BuildRecorder("mongo", Options{})
	if err != nil || r == nil {
		t.Fatalf("unexpected: %v %v", r, err)
	}
	if _, ok := r.(*MongoRecorder); !ok {
		t.Fatalf("expected *MongoRecorder, got %T", r)
	}
	// Real inserter path (URI provided) -> construction only, no server contact
	r2, err := BuildRecorder("mongo", Options{MongoURI: "mongodb://127.0.0.1:27017"})
	if err != nil || r2 == nil {
		t.Fatalf("unexpected: %v %v", r2, err)
	}
}

func TestBuildRecorder_PostgresReturnsError(t *testing.T) {
	r, err := BuildRecorder("postgres", Options{})
	if err == nil || r != nil {
		t.Fatalf("expected error for postgres backend")
	}
}

func TestBuildRecorder_UnknownBackend(t *testing.T) {
	_, err := BuildRecorder("does-not-exist", Options{})
	if err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
