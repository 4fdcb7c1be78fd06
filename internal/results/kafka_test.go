package results

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

type fakeKafkaProducer struct {
	calls []struct {
		topic   string
		key     []byte
		value   []byte
		headers map[string]string
	}
	returnErr error
}

func (f *fakeKafkaProducer) Produce(ctx context.Context, topic string, key []byte, value []byte, headers map[string]string) error {
	if f.returnErr != nil {
		return f.returnErr
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	cp := struct {
		topic   string
		key     []byte
		value   []byte
		headers map[string]string
	}{
		topic:   topic,
		key:     append([]byte(nil), key...),
		value:   append([]byte(nil), value...),
		headers: mapCopy(headers),
	}
	f.calls = append(f.calls, cp)
	return nil
}

func mapCopy(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func TestKafkaRecorder_Success(t *testing.T) {
	fk := &fakeKafkaProducer{}
	k := NewKafkaRecorder(fk, "topic-1")
	recs := []RunRecord{{RunID: "id-1", Strategy: "atomic", Mode: "par", Workers: 4, NsPerSample: 2.25, Status: "ok"}}
	if err := k.Record(context.Background(), recs); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if len(fk.calls) != 1 {
		t.Fatalf("expected 1 produce, got %d", len(fk.calls))
	}
	c := fk.calls[0]
	if c.topic != "topic-1" {
		t.Fatalf("topic mismatch: %s", c.topic)
	}
	if string(c.key) != "id-1" {
		t.Fatalf("key mismatch: %s", string(c.key))
	}
	var msg RunRecord
	if err := json.Unmarshal(c.value, &msg); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if msg.RunID != "id-1" || msg.Strategy != "atomic" || msg.Workers != 4 {
		t.Fatalf("msg mismatch: %+v", msg)
	}
	if c.headers["content-type"] != "application/json" {
		t.Fatalf("missing/ct header: %v", c.headers)
	}
}

func TestKafkaRecorder_Empty(t *testing.T) {
	fk := &fakeKafkaProducer{}
	k := NewKafkaRecorder(fk, "t")
	if err := k.Record(context.Background(), nil); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestKafkaRecorder_MissingRunID(t *testing.T) {
	fk := &fakeKafkaProducer{}
	k := NewKafkaRecorder(fk, "t")
	err := k.Record(context.Background(), []RunRecord{{Strategy: "mutex"}})
	if err == nil || err.Error() != "RunRecord.RunID must be set" {
		t.Fatalf("expected run id error, got %v", err)
	}
}

func TestKafkaRecorder_ContextCancel(t *testing.T) {
	fk := &fakeKafkaProducer{}
	k := NewKafkaRecorder(fk, "t")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := k.Record(ctx, []RunRecord{{RunID: "r", Strategy: "mutex"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}

func TestKafkaRecorder_ProducerError(t *testing.T) {
	fk := &fakeKafkaProducer{returnErr: errors.New("nope")}
	k := NewKafkaRecorder(fk, "t")
	err := k.Record(context.Background(), []RunRecord{{RunID: "r", Strategy: "mutex"}})
	if err == nil || err.Error() != "kafka produce run=r: nope" {
		t.Fatalf("unexpected err: %v", err)
	}
}
