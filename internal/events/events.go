// internal/events/events.go

// Package events publishes order lifecycle events.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shopfront/storefront-api/internal/models"
)

type Type string

const (
	OrderCreated Type = "order.created"
	OrderUpdated Type = "order.updated"
	OrderPaid    Type = "order.paid"
)

type OrderEvent struct {
	ID            uuid.UUID            `json:"id"`
	Type          Type                 `json:"type"`
	OrderID       uuid.UUID            `json:"orderId"`
	UserID        uuid.UUID            `json:"userId"`
	Status        models.OrderStatus   `json:"status"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	TotalAmount   int64                `json:"totalAmount"`
	TotalItems    int                  `json:"totalItems"`
	OccurredAt    time.Time            `json:"occurredAt"`
}

func NewOrderEvent(t Type, order *models.Order) OrderEvent {
	return OrderEvent{
		ID:            uuid.New(),
		Type:          t,
		OrderID:       order.ID,
		UserID:        order.UserID,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		TotalAmount:   order.TotalAmount,
		TotalItems:    order.TotalItems,
		OccurredAt:    time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

// Noop discards events. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, OrderEvent) error { return nil }
func (Noop) Close() error                              { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []OrderEvent
}

func (r *Recorder) Publish(_ context.Context, event OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []OrderEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]OrderEvent(nil), r.events...)
}

// Types returns the recorded event types in publish order.
func (r *Recorder) Types() []Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Type, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}
