// internal/store/store.go

// Package store defines the persistence contracts shared by the postgres,
// mongo and memory backends. All backends are constructed explicitly and
// handed to services; there is no package level connection.
package store

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"

	"github.com/shopfront/storefront-api/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")

	// ErrUnsupportedSort is returned when a derived field reaches a stored-field sort.
	ErrUnsupportedSort = errors.New("sort field is not stored")
)

// SortField names a sortable product or order attribute using the API names.
type SortField string

const (
	FieldID                 SortField = "id"
	FieldTitle              SortField = "title"
	FieldPrice              SortField = "price"
	FieldDiscountPercentage SortField = "discountPercentage"
	FieldRating             SortField = "rating"
	FieldStock              SortField = "stock"
	FieldBrand              SortField = "brand"
	FieldCategory           SortField = "category"
	FieldCreatedAt          SortField = "createdAt"

	// FieldDiscountPrice is derived and has no stored column.
	FieldDiscountPrice SortField = "discountPrice"

	FieldTotalAmount SortField = "totalAmount"
	FieldTotalItems  SortField = "totalItems"
	FieldStatus      SortField = "status"
)

type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

type Sort struct {
	Field     SortField
	Direction Direction
}

// Page is an offset window. A zero Limit means no limit.
type Page struct {
	Offset int
	Limit  int
}

type ProductFilter struct {
	Categories     []string
	Brands         []string
	IncludeDeleted bool
}

type OrderFilter struct {
	UserID *uuid.UUID
}

type OrderUpdate struct {
	Status        *models.OrderStatus
	PaymentStatus *models.PaymentStatus
}

type ProductStore interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetProducts(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	GetProductByTitle(ctx context.Context, title string) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	SoftDeleteProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)

	CountProducts(ctx context.Context, filter ProductFilter) (int64, error)
	// FindProducts orders by stored attributes only.
	FindProducts(ctx context.Context, filter ProductFilter, sorts []Sort, page Page) ([]models.Product, error)
	// FindProductsByDiscountPrice materializes the derived price per matching
	// row, orders on it (ties broken by id ascending) and then pages.
	FindProductsByDiscountPrice(ctx context.Context, filter ProductFilter, dir Direction, page Page) ([]models.Product, error)

	// EachProduct visits every product, deleted ones included.
	EachProduct(ctx context.Context, fn func(*models.Product) error) error
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetOrderByGatewayID(ctx context.Context, gatewayOrderID string) (*models.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter, sorts []Sort, page Page) ([]models.Order, int64, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, update OrderUpdate) (*models.Order, error)
	SetGatewayOrderID(ctx context.Context, id uuid.UUID, gatewayOrderID string) error
	// MarkOrderPaid moves the order owning gatewayOrderID to received/received.
	// changed is false when the order was already marked.
	MarkOrderPaid(ctx context.Context, gatewayOrderID string) (order *models.Order, changed bool, err error)
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ReplaceAddresses(ctx context.Context, id uuid.UUID, addresses models.Addresses) (*models.User, error)
}

type CartStore interface {
	// AddCartItem inserts the item or increments the quantity of the user's
	// existing line for the same product.
	AddCartItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	GetCartItem(ctx context.Context, id uuid.UUID) (*models.CartItem, error)
	ListCartItems(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	UpdateCartItemQuantity(ctx context.Context, id uuid.UUID, quantity int) (*models.CartItem, error)
	DeleteCartItem(ctx context.Context, id uuid.UUID) error
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

type LookupStore interface {
	ListBrands(ctx context.Context) ([]models.Brand, error)
	CreateBrand(ctx context.Context, brand *models.Brand) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
}

// Store is the full persistence surface of the storefront.
type Store interface {
	ProductStore
	OrderStore
	UserStore
	CartStore
	LookupStore

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Window converts a 1-indexed page number and page size into an offset window.
// A page whose offset does not fit in an int lies past any result set and
// gets the maximum offset.
func Window(page, size int) Page {
	if page < 1 || size < 1 {
		return Page{}
	}
	if page-1 > math.MaxInt/size {
		return Page{Offset: math.MaxInt, Limit: size}
	}
	return Page{Offset: (page - 1) * size, Limit: size}
}
