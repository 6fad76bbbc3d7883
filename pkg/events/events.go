package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BillCreatedEvent is published once a bill has been committed
type BillCreatedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	BillID     uint      `json:"bill_id"`
	UserID     uuid.UUID `json:"user_id"`
	ItemCount  int       `json:"item_count"`
	Subtotal   string    `json:"subtotal"`
	Discount   string    `json:"discount"`
	Total      string    `json:"total"`
	InvoiceKey string    `json:"invoice_key"`
	CreatedAt  time.Time `json:"created_at"`
}

// Publisher delivers bill events to downstream consumers
type Publisher interface {
	PublishBillCreated(ctx context.Context, event BillCreatedEvent) error
	Close() error
}

// NullPublisher drops every event; used when no broker is configured
type NullPublisher struct{}

// NewNullPublisher creates a publisher that discards events
func NewNullPublisher() *NullPublisher {
	return &NullPublisher{}
}

func (p *NullPublisher) PublishBillCreated(ctx context.Context, event BillCreatedEvent) error {
	return nil
}

func (p *NullPublisher) Close() error {
	return nil
}
