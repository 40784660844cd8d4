// internal/store/postgres/postgres.go

// Package postgres implements the store contracts on gorm and postgres.
package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopfront/storefront-api/internal/database"
	"github.com/shopfront/storefront-api/internal/models"
	"github.com/shopfront/storefront-api/internal/store"
)

type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	database.Close(s.db)
	return nil
}

var productColumns = map[store.SortField]string{
	store.FieldID:                 "id",
	store.FieldTitle:              "title",
	store.FieldPrice:              "price",
	store.FieldDiscountPercentage: "discount_percentage",
	store.FieldRating:             "rating",
	store.FieldStock:              "stock",
	store.FieldBrand:              "brand",
	store.FieldCategory:           "category",
	store.FieldCreatedAt:          "created_at",
}

var orderColumns = map[store.SortField]string{
	store.FieldID:          "id",
	store.FieldTotalAmount: "total_amount",
	store.FieldTotalItems:  "total_items",
	store.FieldStatus:      "status",
	store.FieldCreatedAt:   "created_at",
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return store.ErrDuplicate
	}
	return err
}

func productFilter(filter store.ProductFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !filter.IncludeDeleted {
			db = db.Where("deleted = ?", false)
		}
		if len(filter.Categories) > 0 {
			db = db.Where("category IN ?", filter.Categories)
		}
		if len(filter.Brands) > 0 {
			db = db.Where("brand IN ?", filter.Brands)
		}
		return db
	}
}

func paginate(page store.Page) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page.Offset > 0 {
			db = db.Offset(page.Offset)
		}
		if page.Limit > 0 {
			db = db.Limit(page.Limit)
		}
		return db
	}
}

func orderBy(columns map[store.SortField]string, sorts []store.Sort) (clause.OrderBy, error) {
	var order clause.OrderBy
	hasID := false
	for _, srt := range sorts {
		column, ok := columns[srt.Field]
		if !ok {
			return order, store.ErrUnsupportedSort
		}
		hasID = hasID || column == "id"
		order.Columns = append(order.Columns, clause.OrderByColumn{
			Column: clause.Column{Name: column},
			Desc:   srt.Direction == store.Descending,
		})
	}
	if !hasID {
		order.Columns = append(order.Columns, clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	}
	return order, nil
}

// Products

func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	return translate(s.db.WithContext(ctx).Create(product).Error)
}

func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (s *Store) GetProducts(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, translate(err)
}

func (s *Store) GetProductByTitle(ctx context.Context, title string) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "title = ?", title).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (s *Store) UpdateProduct(ctx context.Context, product *models.Product) error {
	result := s.db.WithContext(ctx).Model(product).
		Select("*").Omit("id", "created_at").
		Updates(product)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) SoftDeleteProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	result := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"deleted": true, "updated_at": time.Now()})
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetProduct(ctx, id)
}

func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Delete(&product).Error
	if err != nil {
		return nil, translate(err)
	}
	if product.ID == uuid.Nil {
		return nil, store.ErrNotFound
	}
	product.ComputeDiscountPrice()
	return &product, nil
}

func (s *Store) CountProducts(ctx context.Context, filter store.ProductFilter) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&models.Product{}).
		Scopes(productFilter(filter)).
		Count(&total).Error
	return total, translate(err)
}

func (s *Store) FindProducts(ctx context.Context, filter store.ProductFilter, sorts []store.Sort, page store.Page) ([]models.Product, error) {
	order, err := orderBy(productColumns, sorts)
	if err != nil {
		return nil, err
	}

	var products []models.Product
	err = s.db.WithContext(ctx).
		Scopes(productFilter(filter), paginate(page)).
		Clauses(order).
		Find(&products).Error
	return products, translate(err)
}

func (s *Store) FindProductsByDiscountPrice(ctx context.Context, filter store.ProductFilter, dir store.Direction, page store.Page) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Scopes(productFilter(filter), paginate(page)).
		Order(database.DiscountPriceExpr + " " + strings.ToUpper(dir.String())).
		Order("id ASC").
		Find(&products).Error
	return products, translate(err)
}

func (s *Store) EachProduct(ctx context.Context, fn func(*models.Product) error) error {
	var batch []models.Product
	result := s.db.WithContext(ctx).Order("id").FindInBatches(&batch, 200, func(tx *gorm.DB, _ int) error {
		for i := range batch {
			if err := fn(&batch[i]); err != nil {
				return err
			}
		}
		return nil
	})
	return translate(result.Error)
}

// Orders

func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	return translate(s.db.WithContext(ctx).Create(order).Error)
}

func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (s *Store) GetOrderByGatewayID(ctx context.Context, gatewayOrderID string) (*models.Order, error) {
	if gatewayOrderID == "" {
		return nil, store.ErrNotFound
	}
	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, "gateway_order_id = ?", gatewayOrderID).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (s *Store) ListOrders(ctx context.Context, filter store.OrderFilter, sorts []store.Sort, page store.Page) ([]models.Order, int64, error) {
	order, err := orderBy(orderColumns, sorts)
	if err != nil {
		return nil, 0, err
	}

	query := s.db.WithContext(ctx).Model(&models.Order{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var orders []models.Order
	if err := query.Scopes(paginate(page)).Clauses(order).Find(&orders).Error; err != nil {
		return nil, 0, translate(err)
	}
	return orders, total, nil
}

func (s *Store) UpdateOrder(ctx context.Context, id uuid.UUID, update store.OrderUpdate) (*models.Order, error) {
	fields := map[string]interface{}{"updated_at": time.Now()}
	if update.Status != nil {
		fields["status"] = *update.Status
	}
	if update.PaymentStatus != nil {
		fields["payment_status"] = *update.PaymentStatus
	}

	result := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetOrder(ctx, id)
}

func (s *Store) SetGatewayOrderID(ctx context.Context, id uuid.UUID, gatewayOrderID string) error {
	result := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"gateway_order_id": gatewayOrderID, "updated_at": time.Now()})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) MarkOrderPaid(ctx context.Context, gatewayOrderID string) (*models.Order, bool, error) {
	if gatewayOrderID == "" {
		return nil, false, store.ErrNotFound
	}

	result := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("gateway_order_id = ? AND payment_status <> ?", gatewayOrderID, models.PaymentStatusReceived).
		Updates(map[string]interface{}{
			"payment_status": models.PaymentStatusReceived,
			"status":         models.OrderStatusReceived,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return nil, false, translate(result.Error)
	}

	order, err := s.GetOrderByGatewayID(ctx, gatewayOrderID)
	if err != nil {
		return nil, false, err
	}
	return order, result.RowsAffected > 0, nil
}

// Users

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.Role == "" {
		user.Role = models.UserRoleCustomer
	}
	return translate(s.db.WithContext(ctx).Create(user).Error)
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "LOWER(email) = LOWER(?)", email).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) ReplaceAddresses(ctx context.Context, id uuid.UUID, addresses models.Addresses) (*models.User, error) {
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"addresses": addresses, "updated_at": time.Now()})
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetUser(ctx, id)
}

// Cart

func (s *Store) AddCartItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	var saved models.CartItem
	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		var existing models.CartItem
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).
			First(&existing).Error
		switch {
		case err == nil:
			existing.Quantity += item.Quantity
			if err := tx.Model(&existing).Update("quantity", existing.Quantity).Error; err != nil {
				return err
			}
			saved = existing
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(item).Error; err != nil {
				return err
			}
			saved = *item
			saved.Product = nil
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, translate(err)
	}
	return &saved, nil
}

func (s *Store) GetCartItem(ctx context.Context, id uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (s *Store) ListCartItems(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	items := []models.CartItem{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at, id").
		Find(&items).Error
	return items, translate(err)
}

func (s *Store) UpdateCartItemQuantity(ctx context.Context, id uuid.UUID, quantity int) (*models.CartItem, error) {
	result := s.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"quantity": quantity, "updated_at": time.Now()})
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetCartItem(ctx, id)
}

func (s *Store) DeleteCartItem(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return translate(s.db.WithContext(ctx).Delete(&models.CartItem{}, "user_id = ?", userID).Error)
}

// Brands and categories

func (s *Store) ListBrands(ctx context.Context) ([]models.Brand, error) {
	brands := []models.Brand{}
	err := s.db.WithContext(ctx).Order("label").Find(&brands).Error
	return brands, translate(err)
}

func (s *Store) CreateBrand(ctx context.Context, brand *models.Brand) error {
	return translate(s.db.WithContext(ctx).Create(brand).Error)
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := s.db.WithContext(ctx).Order("label").Find(&categories).Error
	return categories, translate(err)
}

func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	return translate(s.db.WithContext(ctx).Create(category).Error)
}
