// internal/store/mongo/documents.go
package mongo

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopfront/storefront-api/internal/models"
)

// Documents keep ids as strings so _id ordering matches the other backends.

type productDoc struct {
	ID                 string                   `bson:"_id"`
	Title              string                   `bson:"title"`
	Description        string                   `bson:"description"`
	Price              float64                  `bson:"price"`
	DiscountPercentage float64                  `bson:"discountPercentage"`
	Rating             float64                  `bson:"rating"`
	Stock              int                      `bson:"stock"`
	Brand              string                   `bson:"brand"`
	Category           string                   `bson:"category"`
	Thumbnail          string                   `bson:"thumbnail"`
	Images             []string                 `bson:"images"`
	Highlights         []string                 `bson:"highlights,omitempty"`
	Colors             []map[string]interface{} `bson:"colors,omitempty"`
	Sizes              []map[string]interface{} `bson:"sizes,omitempty"`
	Deleted            bool                     `bson:"deleted"`
	CreatedAt          time.Time                `bson:"createdAt"`
	UpdatedAt          time.Time                `bson:"updatedAt"`
}

func toProductDoc(p *models.Product) productDoc {
	return productDoc{
		ID:                 p.ID.String(),
		Title:              p.Title,
		Description:        p.Description,
		Price:              p.Price,
		DiscountPercentage: p.DiscountPercentage,
		Rating:             p.Rating,
		Stock:              p.Stock,
		Brand:              p.Brand,
		Category:           p.Category,
		Thumbnail:          p.Thumbnail,
		Images:             p.Images,
		Highlights:         p.Highlights,
		Colors:             fromVariants(p.Colors),
		Sizes:              fromVariants(p.Sizes),
		Deleted:            p.Deleted,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func (d productDoc) model() models.Product {
	p := models.Product{
		Title:              d.Title,
		Description:        d.Description,
		Price:              d.Price,
		DiscountPercentage: d.DiscountPercentage,
		Rating:             d.Rating,
		Stock:              d.Stock,
		Brand:              d.Brand,
		Category:           d.Category,
		Thumbnail:          d.Thumbnail,
		Images:             d.Images,
		Highlights:         d.Highlights,
		Colors:             toVariants(d.Colors),
		Sizes:              toVariants(d.Sizes),
		Deleted:            d.Deleted,
	}
	p.ID = parseID(d.ID)
	p.CreatedAt = d.CreatedAt
	p.UpdatedAt = d.UpdatedAt
	p.ComputeDiscountPrice()
	return p
}

func fromVariants(v models.Variants) []map[string]interface{} {
	if v == nil {
		return nil
	}
	out := make([]map[string]interface{}, len(v))
	for i, m := range v {
		out[i] = m
	}
	return out
}

func toVariants(v []map[string]interface{}) models.Variants {
	if v == nil {
		return nil
	}
	out := make(models.Variants, len(v))
	for i, m := range v {
		out[i] = m
	}
	return out
}

type orderItemDoc struct {
	ProductID string `bson:"productId"`
	Quantity  int    `bson:"quantity"`
}

type orderDoc struct {
	ID              string               `bson:"_id"`
	UserID          string               `bson:"userId"`
	Items           []orderItemDoc       `bson:"items"`
	TotalAmount     int64                `bson:"totalAmount"`
	TotalItems      int                  `bson:"totalItems"`
	SelectedAddress models.Address       `bson:"selectedAddress"`
	PaymentMethod   models.PaymentMethod `bson:"paymentMethod"`
	Status          models.OrderStatus   `bson:"status"`
	PaymentStatus   models.PaymentStatus `bson:"paymentStatus"`
	GatewayOrderID  string               `bson:"gatewayOrderId,omitempty"`
	SessionToken    string               `bson:"sessionToken,omitempty"`
	CreatedAt       time.Time            `bson:"createdAt"`
	UpdatedAt       time.Time            `bson:"updatedAt"`
}

func toOrderDoc(o *models.Order) orderDoc {
	items := make([]orderItemDoc, len(o.Items))
	for i, item := range o.Items {
		items[i] = orderItemDoc{ProductID: item.ProductID.String(), Quantity: item.Quantity}
	}
	return orderDoc{
		ID:              o.ID.String(),
		UserID:          o.UserID.String(),
		Items:           items,
		TotalAmount:     o.TotalAmount,
		TotalItems:      o.TotalItems,
		SelectedAddress: o.SelectedAddress,
		PaymentMethod:   o.PaymentMethod,
		Status:          o.Status,
		PaymentStatus:   o.PaymentStatus,
		GatewayOrderID:  o.GatewayOrderID,
		SessionToken:    o.SessionToken,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func (d orderDoc) model() models.Order {
	items := make(models.OrderItems, len(d.Items))
	for i, item := range d.Items {
		items[i] = models.OrderItem{ProductID: parseID(item.ProductID), Quantity: item.Quantity}
	}
	o := models.Order{
		UserID:          parseID(d.UserID),
		Items:           items,
		TotalAmount:     d.TotalAmount,
		TotalItems:      d.TotalItems,
		SelectedAddress: d.SelectedAddress,
		PaymentMethod:   d.PaymentMethod,
		Status:          d.Status,
		PaymentStatus:   d.PaymentStatus,
		GatewayOrderID:  d.GatewayOrderID,
		SessionToken:    d.SessionToken,
	}
	o.ID = parseID(d.ID)
	o.CreatedAt = d.CreatedAt
	o.UpdatedAt = d.UpdatedAt
	return o
}

type userDoc struct {
	ID        string           `bson:"_id"`
	Email     string           `bson:"email"`
	Name      string           `bson:"name,omitempty"`
	Role      models.UserRole  `bson:"role"`
	Addresses []models.Address `bson:"addresses"`
	CreatedAt time.Time        `bson:"createdAt"`
	UpdatedAt time.Time        `bson:"updatedAt"`
}

func toUserDoc(u *models.User) userDoc {
	addresses := []models.Address(u.Addresses)
	if addresses == nil {
		addresses = []models.Address{}
	}
	return userDoc{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Addresses: addresses,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (d userDoc) model() models.User {
	u := models.User{
		Email:     d.Email,
		Name:      d.Name,
		Role:      d.Role,
		Addresses: models.Addresses(d.Addresses),
	}
	u.ID = parseID(d.ID)
	u.CreatedAt = d.CreatedAt
	u.UpdatedAt = d.UpdatedAt
	return u
}

type cartItemDoc struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"userId"`
	ProductID string    `bson:"productId"`
	Quantity  int       `bson:"quantity"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (d cartItemDoc) model() models.CartItem {
	item := models.CartItem{
		UserID:    parseID(d.UserID),
		ProductID: parseID(d.ProductID),
		Quantity:  d.Quantity,
	}
	item.ID = parseID(d.ID)
	item.CreatedAt = d.CreatedAt
	item.UpdatedAt = d.UpdatedAt
	return item
}

type lookupDoc struct {
	ID        string    `bson:"_id"`
	Label     string    `bson:"label"`
	Value     string    `bson:"value"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (d lookupDoc) base() models.BaseModel {
	return models.BaseModel{ID: parseID(d.ID), CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
}

func parseID(raw string) uuid.UUID {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}
