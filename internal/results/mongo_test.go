package results

import (
	"context"
	"errors"
	"testing"
)

type fakeMongoInserter struct {
	calls     []RunRecord
	returnErr error
}

func (f *fakeMongoInserter) UpsertRun(ctx context.Context, rec RunRecord) error {
	if f.returnErr != nil {
		return f.returnErr
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	f.calls = append(f.calls, rec)
	return nil
}

func TestMongoRecorder_Success(t *testing.T) {
	fm := &fakeMongoInserter{}
	m := NewMongoRecorder(fm)
	recs := []RunRecord{
		{RunID: "id-1", Strategy: "mutex", Mode: "par", Workers: 4, NsPerSample: 8.5, Status: "ok"},
		{RunID: "id-2", Strategy: "bucketized", Mode: "par", Workers: 4, Buckets: 8, BucketPolicy: "atomic", Status: "ok"},
	}
	if err := m.Record(context.Background(), recs); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if len(fm.calls) != 2 {
		t.Fatalf("expected 2 upserts, got %d", len(fm.calls))
	}
	if fm.calls[0].RunID != "id-1" || fm.calls[1].RunID != "id-2" {
		t.Fatalf("order/ids mismatch: %+v", fm.calls)
	}
	if fm.calls[1].BucketPolicy != "atomic" {
		t.Fatalf("bucket fields lost: %+v", fm.calls[1])
	}
}

func TestMongoRecorder_Empty(t *testing.T) {
	fm := &fakeMongoInserter{}
	m := NewMongoRecorder(fm)
	if err := m.Record(context.Background(), nil); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestMongoRecorder_MissingRunID(t *testing.T) {
	fm := &fakeMongoInserter{}
	m := NewMongoRecorder(fm)
	err := m.Record(context.Background(), []RunRecord{{Strategy: "mutex"}})
	if err == nil || err.Error() != "RunRecord.RunID must be set" {
		t.Fatalf("expected run id error, got %v", err)
	}
}

func TestMongoRecorder_ContextCancel(t *testing.T) {
	fm := &fakeMongoInserter{}
	m := NewMongoRecorder(fm)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := m.Record(ctx, []RunRecord{{RunID: "r", Strategy: "mutex"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}

func TestMongoRecorder_InserterError(t *testing.T) {
	fm := &fakeMongoInserter{returnErr: errors.New("down")}
	m := NewMongoRecorder(fm)
	err := m.Record(context.Background(), []RunRecord{{RunID: "r", Strategy: "mutex"}})
	if err == nil || err.Error() != "mongo upsert run=r: down" {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestLoggingMongoInserter(t *testing.T) {
	ins := LoggingMongoInserter{}
	if err := ins.UpsertRun(context.Background(), RunRecord{RunID: "r1", Strategy: "raw"}); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := ins.UpsertRun(ctx, RunRecord{RunID: "r2"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}
