// internal/models/product.go
package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/shopfront/storefront-api/internal/pricing"
)

type Product struct {
	BaseModel
	Title              string         `json:"title" gorm:"size:255;not null;uniqueIndex"`
	Description        string         `json:"description" gorm:"type:text;not null"`
	Price              float64        `json:"price" gorm:"type:decimal(10,2);not null"`
	DiscountPercentage float64        `json:"discountPercentage" gorm:"type:decimal(5,2);not null;default:0"`
	Rating             float64        `json:"rating" gorm:"type:decimal(3,2);default:0"`
	Stock              int            `json:"stock" gorm:"default:0"`
	Brand              string         `json:"brand" gorm:"size:100;not null;index"`
	Category           string         `json:"category" gorm:"size:100;not null;index"`
	Thumbnail          string         `json:"thumbnail" gorm:"type:text;not null"`
	Images             pq.StringArray `json:"images" gorm:"type:text[]"`
	Highlights         pq.StringArray `json:"highlights,omitempty" gorm:"type:text[]"`
	Colors             Variants       `json:"colors,omitempty" gorm:"type:jsonb"`
	Sizes              Variants       `json:"sizes,omitempty" gorm:"type:jsonb"`
	Deleted            bool           `json:"deleted" gorm:"default:false;index"`

	// Derived from Price and DiscountPercentage, never persisted.
	DiscountPrice int64 `json:"discountPrice" gorm:"-"`
}

// ComputeDiscountPrice refreshes the derived DiscountPrice field.
func (p *Product) ComputeDiscountPrice() {
	p.DiscountPrice = pricing.DiscountPrice(p.Price, p.DiscountPercentage)
}

func (p *Product) AfterFind(tx *gorm.DB) error {
	p.ComputeDiscountPrice()
	return nil
}

func (p *Product) AfterSave(tx *gorm.DB) error {
	p.ComputeDiscountPrice()
	return nil
}

type Brand struct {
	BaseModel
	Label string `json:"label" gorm:"size:100;not null"`
	Value string `json:"value" gorm:"size:100;not null;uniqueIndex"`
}

type Category struct {
	BaseModel
	Label string `json:"label" gorm:"size:100;not null"`
	Value string `json:"value" gorm:"size:100;not null;uniqueIndex"`
}
