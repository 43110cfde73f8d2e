package mq

import (
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

func TestKafkaMessageHeaders(t *testing.T) {
	ts := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	in := &Message{
		ID:         "run-122000",
		Body:       []byte(`{"status":"ready"}`),
		Headers:    map[string]string{"contest": "c1"},
		Timestamp:  ts,
		RetryCount: 2,
		MaxRetries: 5,
	}
	km := toKafkaMessage("judge.status.final", in)
	if km.Topic != "judge.status.final" || string(km.Key) != "run-122000" {
		t.Fatalf("unexpected kafka message: topic=%s key=%s", km.Topic, km.Key)
	}

	out := fromKafkaMessage(km)
	if out.ID != in.ID || string(out.Body) != string(in.Body) {
		t.Fatalf("unexpected decoded message: %+v", out)
	}
	if !out.Timestamp.Equal(ts) {
		t.Fatalf("unexpected timestamp: %v", out.Timestamp)
	}
	if out.RetryCount != 2 || out.MaxRetries != 5 {
		t.Fatalf("unexpected retry state: %d/%d", out.RetryCount, out.MaxRetries)
	}
	if v, ok := out.GetHeader("contest"); !ok || v != "c1" {
		t.Fatalf("expected contest header, got %q", v)
	}
	if _, ok := out.GetHeader(headerID); ok {
		t.Fatalf("reserved headers must not leak into Headers")
	}
}

func TestFromKafkaMessageFallsBackToKey(t *testing.T) {
	m := fromKafkaMessage(kafka.Message{Key: []byte("k1"), Value: []byte("v")})
	if m.ID != "k1" {
		t.Fatalf("expected key as id, got %q", m.ID)
	}
}

func TestSubscribeOptionsDefaults(t *testing.T) {
	var opts SubscribeOptions
	opts.SetDefaults()
	if opts.Concurrency != 1 || opts.MaxRetries != 3 || opts.RetryDelay != time.Second {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
}

func TestNewKafkaQueueRequiresBrokers(t *testing.T) {
	if _, err := NewKafkaQueue(KafkaConfig{}); err == nil {
		t.Fatalf("expected error without brokers")
	}
}
