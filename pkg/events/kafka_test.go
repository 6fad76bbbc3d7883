package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisherPublishBillCreated(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaPublisherWithWriter(w)

	event := BillCreatedEvent{
		EventID:   uuid.New(),
		BillID:    42,
		UserID:    uuid.New(),
		ItemCount: 2,
		Subtotal:  "254.00",
		Discount:  "25.40",
		Total:     "228.60",
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	if err := p.PublishBillCreated(context.Background(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.msgs))
	}
	msg := w.msgs[0]
	if string(msg.Key) != "42" {
		t.Errorf("expected key 42, got %q", msg.Key)
	}

	var decoded BillCreatedEvent
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Total != "228.60" || decoded.BillID != 42 {
		t.Errorf("unexpected payload %+v", decoded)
	}

	found := false
	for _, h := range msg.Headers {
		if h.Key == headerEventType && string(h.Value) == typeBillCreated {
			found = true
		}
	}
	if !found {
		t.Error("missing event_type header")
	}

	if err := p.Close(); err != nil || !w.closed {
		t.Error("expected writer to be closed")
	}
}

func TestKafkaPublisherWriteError(t *testing.T) {
	p := NewKafkaPublisherWithWriter(&fakeWriter{err: errors.New("broker down")})
	if err := p.PublishBillCreated(context.Background(), BillCreatedEvent{BillID: 1}); err == nil {
		t.Fatal("expected error")
	}
}
