// internal/models/user.go
package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"
)

type User struct {
	BaseModel
	Email     string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Name      string    `json:"name,omitempty" gorm:"size:255"`
	Role      UserRole  `json:"role" gorm:"type:varchar(20);not null;default:'customer'"`
	Addresses Addresses `json:"addresses" gorm:"type:jsonb"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

type Address struct {
	Name    string `json:"name" bson:"name" validate:"required"`
	Email   string `json:"email" bson:"email" validate:"required,email"`
	Phone   string `json:"phone" bson:"phone" validate:"required"`
	Street  string `json:"street" bson:"street" validate:"required"`
	City    string `json:"city" bson:"city" validate:"required"`
	State   string `json:"state" bson:"state" validate:"required"`
	PinCode string `json:"pinCode" bson:"pinCode" validate:"required"`
}

func (a Address) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *Address) Scan(value interface{}) error {
	return scanJSON(value, a)
}

type Addresses []Address

func (a Addresses) Value() (driver.Value, error) {
	if a == nil {
		return json.Marshal([]Address{})
	}
	return json.Marshal([]Address(a))
}

func (a *Addresses) Scan(value interface{}) error {
	return scanJSON(value, a)
}

type CartItem struct {
	BaseModel
	UserID    uuid.UUID `json:"user" gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product"`
	ProductID uuid.UUID `json:"productId" gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product"`
	Quantity  int       `json:"quantity" gorm:"not null;default:1"`

	Product *Product `json:"product,omitempty" gorm:"-"`
}
