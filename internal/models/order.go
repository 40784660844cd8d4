// internal/models/order.go
package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"
)

type Order struct {
	BaseModel
	UserID          uuid.UUID     `json:"user" gorm:"type:uuid;not null;index"`
	Items           OrderItems    `json:"items" gorm:"type:jsonb;not null"`
	TotalAmount     int64         `json:"totalAmount" gorm:"not null"`
	TotalItems      int           `json:"totalItems" gorm:"not null"`
	SelectedAddress Address       `json:"selectedAddress" gorm:"type:jsonb"`
	PaymentMethod   PaymentMethod `json:"paymentMethod" gorm:"type:varchar(10);not null"`
	Status          OrderStatus   `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	PaymentStatus   PaymentStatus `json:"paymentStatus" gorm:"type:varchar(20);default:'pending';index"`
	GatewayOrderID  string        `json:"razorpayOrderId,omitempty" gorm:"size:64;index"`
	SessionToken    string        `json:"sessionToken,omitempty" gorm:"size:64;index"`
}

// OrderItem references a product; Product is attached at read time with the
// catalog's current price and discount.
type OrderItem struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
	Product   *Product  `json:"product,omitempty"`
}

type storedOrderItem struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

type OrderItems []OrderItem

func (items OrderItems) Value() (driver.Value, error) {
	stored := make([]storedOrderItem, len(items))
	for i, item := range items {
		stored[i] = storedOrderItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return json.Marshal(stored)
}

func (items *OrderItems) Scan(value interface{}) error {
	var stored []storedOrderItem
	if err := scanJSON(value, &stored); err != nil {
		return err
	}
	out := make(OrderItems, len(stored))
	for i, s := range stored {
		out[i] = OrderItem{ProductID: s.ProductID, Quantity: s.Quantity}
	}
	*items = out
	return nil
}

// ProductIDs returns the referenced product ids in item order.
func (items OrderItems) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	return ids
}
