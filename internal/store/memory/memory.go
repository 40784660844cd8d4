// internal/store/memory/memory.go

// Package memory is an in-process store used by tests and local development.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shopfront/storefront-api/internal/models"
	"github.com/shopfront/storefront-api/internal/store"
)

type Store struct {
	mu         sync.RWMutex
	products   map[uuid.UUID]models.Product
	orders     map[uuid.UUID]models.Order
	users      map[uuid.UUID]models.User
	cart       map[uuid.UUID]models.CartItem
	brands     []models.Brand
	categories []models.Category

	now func() time.Time
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		products: make(map[uuid.UUID]models.Product),
		orders:   make(map[uuid.UUID]models.Order),
		users:    make(map[uuid.UUID]models.User),
		cart:     make(map[uuid.UUID]models.CartItem),
		now:      time.Now,
	}
}

func (s *Store) Ping(ctx context.Context) error  { return ctx.Err() }
func (s *Store) Close(ctx context.Context) error { return nil }

// Products

func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if p.Title == product.Title {
			return store.ErrDuplicate
		}
	}
	product.Touch(s.now())
	product.ComputeDiscountPrice()
	s.products[product.ID] = cloneProduct(*product)
	return nil
}

func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := cloneProduct(p)
	return &out, nil
}

func (s *Store) GetProducts(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := s.products[id]; ok {
			out = append(out, cloneProduct(p))
		}
	}
	return out, nil
}

func (s *Store) GetProductByTitle(ctx context.Context, title string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.Title == title {
			out := cloneProduct(p)
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) UpdateProduct(ctx context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.products[product.ID]
	if !ok {
		return store.ErrNotFound
	}
	for id, p := range s.products {
		if id != product.ID && p.Title == product.Title {
			return store.ErrDuplicate
		}
	}
	product.CreatedAt = existing.CreatedAt
	product.Touch(s.now())
	product.ComputeDiscountPrice()
	s.products[product.ID] = cloneProduct(*product)
	return nil
}

func (s *Store) SoftDeleteProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	p.Deleted = true
	p.Touch(s.now())
	s.products[id] = p
	out := cloneProduct(p)
	return &out, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	delete(s.products, id)
	return &p, nil
}

func (s *Store) CountProducts(ctx context.Context, filter store.ProductFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.matching(filter))), nil
}

func (s *Store) FindProducts(ctx context.Context, filter store.ProductFilter, sorts []store.Sort, page store.Page) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, srt := range sorts {
		if srt.Field == store.FieldDiscountPrice {
			return nil, store.ErrUnsupportedSort
		}
	}
	s.mu.RLock()
	rows := s.matching(filter)
	s.mu.RUnlock()

	sort.SliceStable(rows, func(i, j int) bool {
		return lessProducts(&rows[i], &rows[j], sorts)
	})
	return window(rows, page), nil
}

func (s *Store) FindProductsByDiscountPrice(ctx context.Context, filter store.ProductFilter, dir store.Direction, page store.Page) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	rows := s.matching(filter)
	s.mu.RUnlock()

	for i := range rows {
		rows[i].ComputeDiscountPrice()
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].DiscountPrice, rows[j].DiscountPrice
		if a != b {
			if dir == store.Descending {
				return a > b
			}
			return a < b
		}
		return lessID(rows[i].ID, rows[j].ID)
	})
	return window(rows, page), nil
}

func (s *Store) EachProduct(ctx context.Context, fn func(*models.Product) error) error {
	s.mu.RLock()
	rows := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		rows = append(rows, cloneProduct(p))
	}
	s.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool { return lessID(rows[i].ID, rows[j].ID) })
	for i := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(&rows[i]); err != nil {
			return err
		}
	}
	return nil
}

// matching must be called with the read lock held.
func (s *Store) matching(filter store.ProductFilter) []models.Product {
	rows := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if !filter.IncludeDeleted && p.Deleted {
			continue
		}
		if len(filter.Categories) > 0 && !contains(filter.Categories, p.Category) {
			continue
		}
		if len(filter.Brands) > 0 && !contains(filter.Brands, p.Brand) {
			continue
		}
		p = cloneProduct(p)
		p.ComputeDiscountPrice()
		rows = append(rows, p)
	}
	return rows
}

func lessProducts(a, b *models.Product, sorts []store.Sort) bool {
	for _, srt := range sorts {
		c := compareProductField(a, b, srt.Field)
		if c == 0 {
			continue
		}
		if srt.Direction == store.Descending {
			return c > 0
		}
		return c < 0
	}
	return lessID(a.ID, b.ID)
}

func compareProductField(a, b *models.Product, field store.SortField) int {
	switch field {
	case store.FieldPrice:
		return compareFloat(a.Price, b.Price)
	case store.FieldDiscountPercentage:
		return compareFloat(a.DiscountPercentage, b.DiscountPercentage)
	case store.FieldRating:
		return compareFloat(a.Rating, b.Rating)
	case store.FieldStock:
		return compareInt(int64(a.Stock), int64(b.Stock))
	case store.FieldTitle:
		return strings.Compare(a.Title, b.Title)
	case store.FieldBrand:
		return strings.Compare(a.Brand, b.Brand)
	case store.FieldCategory:
		return strings.Compare(a.Category, b.Category)
	case store.FieldCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case store.FieldID:
		return strings.Compare(a.ID.String(), b.ID.String())
	}
	return 0
}

// Orders

func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order.Touch(s.now())
	s.orders[order.ID] = cloneOrder(*order)
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := cloneOrder(o)
	return &out, nil
}

func (s *Store) GetOrderByGatewayID(ctx context.Context, gatewayOrderID string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.orders {
		if gatewayOrderID != "" && o.GatewayOrderID == gatewayOrderID {
			out := cloneOrder(o)
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListOrders(ctx context.Context, filter store.OrderFilter, sorts []store.Sort, page store.Page) ([]models.Order, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	s.mu.RLock()
	rows := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if filter.UserID != nil && o.UserID != *filter.UserID {
			continue
		}
		rows = append(rows, cloneOrder(o))
	}
	s.mu.RUnlock()

	sort.SliceStable(rows, func(i, j int) bool {
		for _, srt := range sorts {
			c := compareOrderField(&rows[i], &rows[j], srt.Field)
			if c == 0 {
				continue
			}
			if srt.Direction == store.Descending {
				return c > 0
			}
			return c < 0
		}
		return lessID(rows[i].ID, rows[j].ID)
	})
	return window(rows, page), int64(len(rows)), nil
}

func compareOrderField(a, b *models.Order, field store.SortField) int {
	switch field {
	case store.FieldTotalAmount:
		return compareInt(a.TotalAmount, b.TotalAmount)
	case store.FieldTotalItems:
		return compareInt(int64(a.TotalItems), int64(b.TotalItems))
	case store.FieldStatus:
		return strings.Compare(string(a.Status), string(b.Status))
	case store.FieldCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case store.FieldID:
		return strings.Compare(a.ID.String(), b.ID.String())
	}
	return 0
}

func (s *Store) UpdateOrder(ctx context.Context, id uuid.UUID, update store.OrderUpdate) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if update.Status != nil {
		o.Status = *update.Status
	}
	if update.PaymentStatus != nil {
		o.PaymentStatus = *update.PaymentStatus
	}
	o.Touch(s.now())
	s.orders[id] = o
	out := cloneOrder(o)
	return &out, nil
}

func (s *Store) SetGatewayOrderID(ctx context.Context, id uuid.UUID, gatewayOrderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return store.ErrNotFound
	}
	o.GatewayOrderID = gatewayOrderID
	o.Touch(s.now())
	s.orders[id] = o
	return nil
}

func (s *Store) MarkOrderPaid(ctx context.Context, gatewayOrderID string) (*models.Order, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, o := range s.orders {
		if gatewayOrderID == "" || o.GatewayOrderID != gatewayOrderID {
			continue
		}
		if o.PaymentStatus == models.PaymentStatusReceived {
			out := cloneOrder(o)
			return &out, false, nil
		}
		o.PaymentStatus = models.PaymentStatusReceived
		o.Status = models.OrderStatusReceived
		o.Touch(s.now())
		s.orders[id] = o
		out := cloneOrder(o)
		return &out, true, nil
	}
	return nil, false, store.ErrNotFound
}

// Users

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return store.ErrDuplicate
		}
	}
	user.Touch(s.now())
	if user.Role == "" {
		user.Role = models.UserRoleCustomer
	}
	s.users[user.ID] = cloneUser(*user)
	return nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := cloneUser(u)
	return &out, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			out := cloneUser(u)
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ReplaceAddresses(ctx context.Context, id uuid.UUID, addresses models.Addresses) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	u.Addresses = append(models.Addresses{}, addresses...)
	u.Touch(s.now())
	s.users[id] = u
	out := cloneUser(u)
	return &out, nil
}

// Cart

func (s *Store) AddCartItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.cart {
		if existing.UserID == item.UserID && existing.ProductID == item.ProductID {
			existing.Quantity += item.Quantity
			existing.Touch(s.now())
			s.cart[id] = existing
			out := existing
			return &out, nil
		}
	}
	item.Touch(s.now())
	stored := *item
	stored.Product = nil
	s.cart[item.ID] = stored
	return &stored, nil
}

func (s *Store) GetCartItem(ctx context.Context, id uuid.UUID) (*models.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.cart[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &item, nil
}

func (s *Store) ListCartItems(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.CartItem, 0)
	for _, item := range s.cart {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return lessID(out[i].ID, out[j].ID)
	})
	return out, nil
}

func (s *Store) UpdateCartItemQuantity(ctx context.Context, id uuid.UUID, quantity int) (*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.cart[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	item.Quantity = quantity
	item.Touch(s.now())
	s.cart[id] = item
	return &item, nil
}

func (s *Store) DeleteCartItem(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cart[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.cart, id)
	return nil
}

func (s *Store) ClearCart(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, item := range s.cart {
		if item.UserID == userID {
			delete(s.cart, id)
		}
	}
	return nil
}

// Brands and categories

func (s *Store) ListBrands(ctx context.Context) ([]models.Brand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Brand{}, s.brands...), nil
}

func (s *Store) CreateBrand(ctx context.Context, brand *models.Brand) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.brands {
		if b.Value == brand.Value {
			return store.ErrDuplicate
		}
	}
	brand.Touch(s.now())
	s.brands = append(s.brands, *brand)
	return nil
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Category{}, s.categories...), nil
}

func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if c.Value == category.Value {
			return store.ErrDuplicate
		}
	}
	category.Touch(s.now())
	s.categories = append(s.categories, *category)
	return nil
}

// helpers

func window[T any](rows []T, page store.Page) []T {
	if page.Offset < 0 || page.Offset >= len(rows) {
		return []T{}
	}
	rows = rows[page.Offset:]
	if page.Limit > 0 && page.Limit < len(rows) {
		rows = rows[:page.Limit]
	}
	return rows
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func lessID(a, b uuid.UUID) bool {
	return a.String() < b.String()
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cloneProduct(p models.Product) models.Product {
	p.Images = append([]string(nil), p.Images...)
	p.Highlights = append([]string(nil), p.Highlights...)
	p.Colors = append(models.Variants(nil), p.Colors...)
	p.Sizes = append(models.Variants(nil), p.Sizes...)
	return p
}

func cloneOrder(o models.Order) models.Order {
	items := make(models.OrderItems, len(o.Items))
	for i, item := range o.Items {
		items[i] = models.OrderItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	o.Items = items
	return o
}

func cloneUser(u models.User) models.User {
	u.Addresses = append(models.Addresses{}, u.Addresses...)
	return u
}
