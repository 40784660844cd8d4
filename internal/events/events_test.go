// internal/events/events_test.go
package events

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/shopfront/storefront-api/internal/models"
)

func TestNewOrderEvent(t *testing.T) {
	order := &models.Order{
		UserID:        uuid.New(),
		TotalAmount:   1600,
		TotalItems:    2,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
	}
	order.ID = uuid.New()

	event := NewOrderEvent(OrderCreated, order)
	assert.Equal(t, OrderCreated, event.Type)
	assert.Equal(t, order.ID, event.OrderID)
	assert.Equal(t, order.UserID, event.UserID)
	assert.Equal(t, int64(1600), event.TotalAmount)
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.False(t, event.OccurredAt.IsZero())
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	order := &models.Order{}
	assert.NoError(t, r.Publish(context.Background(), NewOrderEvent(OrderCreated, order)))
	assert.NoError(t, r.Publish(context.Background(), NewOrderEvent(OrderPaid, order)))

	assert.Equal(t, []Type{OrderCreated, OrderPaid}, r.Types())
	assert.Len(t, r.Events(), 2)
	assert.NoError(t, Noop{}.Publish(context.Background(), NewOrderEvent(OrderUpdated, order)))
}
