// internal/store/mongo/mongo.go

// Package mongo implements the store contracts on MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/shopfront/storefront-api/internal/config"
	"github.com/shopfront/storefront-api/internal/models"
	"github.com/shopfront/storefront-api/internal/store"
)

const (
	productsCollection   = "products"
	ordersCollection     = "orders"
	usersCollection      = "users"
	cartCollection       = "cart_items"
	brandsCollection     = "brands"
	categoriesCollection = "categories"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
	now    func() time.Time
}

var _ store.Store = (*Store)(nil)

func Connect(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout())
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	s := &Store{client: client, db: client.Database(cfg.Database), now: time.Now}
	if err := s.EnsureIndexes(ctx); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}

	logrus.WithField("database", cfg.Database).Info("Mongo connection established")
	return s, nil
}

// EnsureIndexes creates the uniqueness constraints and listing indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		productsCollection: {
			{Keys: bson.D{{Key: "title", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "brand", Value: 1}, {Key: "deleted", Value: 1}}},
			{Keys: bson.D{{Key: "price", Value: 1}}},
		},
		ordersCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "gatewayOrderId", Value: 1}}, Options: options.Index().SetSparse(true)},
		},
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).
				SetCollation(&options.Collation{Locale: "en", Strength: 2})},
		},
		cartCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "productId", Value: 1}}, Options: unique},
		},
		brandsCollection: {
			{Keys: bson.D{{Key: "value", Value: 1}}, Options: unique},
		},
		categoriesCollection: {
			{Keys: bson.D{{Key: "value", Value: 1}}, Options: unique},
		},
	}

	for name, specs := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", name, err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return store.ErrDuplicate
	}
	return err
}

var productFields = map[store.SortField]string{
	store.FieldID:                 "_id",
	store.FieldTitle:              "title",
	store.FieldPrice:              "price",
	store.FieldDiscountPercentage: "discountPercentage",
	store.FieldRating:             "rating",
	store.FieldStock:              "stock",
	store.FieldBrand:              "brand",
	store.FieldCategory:           "category",
	store.FieldCreatedAt:          "createdAt",
}

var orderFields = map[store.SortField]string{
	store.FieldID:          "_id",
	store.FieldTotalAmount: "totalAmount",
	store.FieldTotalItems:  "totalItems",
	store.FieldStatus:      "status",
	store.FieldCreatedAt:   "createdAt",
}

func sortDoc(fields map[store.SortField]string, sorts []store.Sort) (bson.D, error) {
	doc := bson.D{}
	hasID := false
	for _, srt := range sorts {
		name, ok := fields[srt.Field]
		if !ok {
			return nil, store.ErrUnsupportedSort
		}
		hasID = hasID || name == "_id"
		doc = append(doc, bson.E{Key: name, Value: direction(srt.Direction)})
	}
	if !hasID {
		doc = append(doc, bson.E{Key: "_id", Value: 1})
	}
	return doc, nil
}

func direction(d store.Direction) int {
	if d == store.Descending {
		return -1
	}
	return 1
}

func productMatch(filter store.ProductFilter) bson.M {
	match := bson.M{}
	if !filter.IncludeDeleted {
		match["deleted"] = bson.M{"$ne": true}
	}
	if len(filter.Categories) > 0 {
		match["category"] = bson.M{"$in": filter.Categories}
	}
	if len(filter.Brands) > 0 {
		match["brand"] = bson.M{"$in": filter.Brands}
	}
	return match
}

// discountPriceExpr rounds half away from zero. $round rounds half to even,
// so it is built from $floor on a decimal value instead.
var discountPriceExpr = bson.M{
	"$floor": bson.M{
		"$add": bson.A{
			bson.M{"$multiply": bson.A{
				bson.M{"$toDecimal": "$price"},
				bson.M{"$subtract": bson.A{
					1,
					bson.M{"$divide": bson.A{
						bson.M{"$toDecimal": bson.M{"$ifNull": bson.A{"$discountPercentage", 0}}},
						100,
					}},
				}},
			}},
			bson.M{"$toDecimal": "0.5"},
		},
	},
}

// Products

func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	product.Touch(s.now())
	if _, err := s.collection(productsCollection).InsertOne(ctx, toProductDoc(product)); err != nil {
		return translate(err)
	}
	product.ComputeDiscountPrice()
	return nil
}

func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var doc productDoc
	if err := s.collection(productsCollection).FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	p := doc.model()
	return &p, nil
}

func (s *Store) GetProducts(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}
	return s.findProducts(ctx, bson.M{"_id": bson.M{"$in": keys}}, options.Find())
}

func (s *Store) GetProductByTitle(ctx context.Context, title string) (*models.Product, error) {
	var doc productDoc
	if err := s.collection(productsCollection).FindOne(ctx, bson.M{"title": title}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	p := doc.model()
	return &p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = s.now()
	doc := toProductDoc(product)
	result, err := s.collection(productsCollection).UpdateByID(ctx, doc.ID, bson.M{"$set": bson.M{
		"title":              doc.Title,
		"description":        doc.Description,
		"price":              doc.Price,
		"discountPercentage": doc.DiscountPercentage,
		"rating":             doc.Rating,
		"stock":              doc.Stock,
		"brand":              doc.Brand,
		"category":           doc.Category,
		"thumbnail":          doc.Thumbnail,
		"images":             doc.Images,
		"highlights":         doc.Highlights,
		"colors":             doc.Colors,
		"sizes":              doc.Sizes,
		"deleted":            doc.Deleted,
		"updatedAt":          doc.UpdatedAt,
	}})
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return store.ErrNotFound
	}
	product.ComputeDiscountPrice()
	return nil
}

func (s *Store) SoftDeleteProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var doc productDoc
	err := s.collection(productsCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": bson.M{"deleted": true, "updatedAt": s.now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, translate(err)
	}
	p := doc.model()
	return &p, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var doc productDoc
	if err := s.collection(productsCollection).FindOneAndDelete(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	p := doc.model()
	return &p, nil
}

func (s *Store) CountProducts(ctx context.Context, filter store.ProductFilter) (int64, error) {
	n, err := s.collection(productsCollection).CountDocuments(ctx, productMatch(filter))
	return n, translate(err)
}

func (s *Store) FindProducts(ctx context.Context, filter store.ProductFilter, sorts []store.Sort, page store.Page) ([]models.Product, error) {
	order, err := sortDoc(productFields, sorts)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(order)
	if page.Offset > 0 {
		opts.SetSkip(int64(page.Offset))
	}
	if page.Limit > 0 {
		opts.SetLimit(int64(page.Limit))
	}
	return s.findProducts(ctx, productMatch(filter), opts)
}

func (s *Store) FindProductsByDiscountPrice(ctx context.Context, filter store.ProductFilter, dir store.Direction, page store.Page) ([]models.Product, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: productMatch(filter)}},
		{{Key: "$addFields", Value: bson.M{"discountPrice": discountPriceExpr}}},
		{{Key: "$sort", Value: bson.D{{Key: "discountPrice", Value: direction(dir)}, {Key: "_id", Value: 1}}}},
	}
	if page.Offset > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: int64(page.Offset)}})
	}
	if page.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: int64(page.Limit)}})
	}

	cursor, err := s.collection(productsCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, translate(err)
	}
	return decodeProducts(ctx, cursor)
}

func (s *Store) EachProduct(ctx context.Context, fn func(*models.Product) error) error {
	cursor, err := s.collection(productsCollection).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return translate(err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc productDoc
		if err := cursor.Decode(&doc); err != nil {
			return err
		}
		p := doc.model()
		if err := fn(&p); err != nil {
			return err
		}
	}
	return cursor.Err()
}

func (s *Store) findProducts(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Product, error) {
	cursor, err := s.collection(productsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, translate(err)
	}
	return decodeProducts(ctx, cursor)
}

func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]models.Product, error) {
	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	products := make([]models.Product, len(docs))
	for i, doc := range docs {
		products[i] = doc.model()
	}
	return products, nil
}

// Orders

func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	order.Touch(s.now())
	_, err := s.collection(ordersCollection).InsertOne(ctx, toOrderDoc(order))
	return translate(err)
}

func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.findOrder(ctx, bson.M{"_id": id.String()})
}

func (s *Store) GetOrderByGatewayID(ctx context.Context, gatewayOrderID string) (*models.Order, error) {
	if gatewayOrderID == "" {
		return nil, store.ErrNotFound
	}
	return s.findOrder(ctx, bson.M{"gatewayOrderId": gatewayOrderID})
}

func (s *Store) findOrder(ctx context.Context, filter bson.M) (*models.Order, error) {
	var doc orderDoc
	if err := s.collection(ordersCollection).FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	o := doc.model()
	return &o, nil
}

func (s *Store) ListOrders(ctx context.Context, filter store.OrderFilter, sorts []store.Sort, page store.Page) ([]models.Order, int64, error) {
	order, err := sortDoc(orderFields, sorts)
	if err != nil {
		return nil, 0, err
	}

	match := bson.M{}
	if filter.UserID != nil {
		match["userId"] = filter.UserID.String()
	}

	total, err := s.collection(ordersCollection).CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, translate(err)
	}

	opts := options.Find().SetSort(order)
	if page.Offset > 0 {
		opts.SetSkip(int64(page.Offset))
	}
	if page.Limit > 0 {
		opts.SetLimit(int64(page.Limit))
	}
	cursor, err := s.collection(ordersCollection).Find(ctx, match, opts)
	if err != nil {
		return nil, 0, translate(err)
	}

	var docs []orderDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, err
	}
	orders := make([]models.Order, len(docs))
	for i, doc := range docs {
		orders[i] = doc.model()
	}
	return orders, total, nil
}

func (s *Store) UpdateOrder(ctx context.Context, id uuid.UUID, update store.OrderUpdate) (*models.Order, error) {
	set := bson.M{"updatedAt": s.now()}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.PaymentStatus != nil {
		set["paymentStatus"] = *update.PaymentStatus
	}
	return s.updateOrder(ctx, bson.M{"_id": id.String()}, set)
}

func (s *Store) updateOrder(ctx context.Context, filter bson.M, set bson.M) (*models.Order, error) {
	var doc orderDoc
	err := s.collection(ordersCollection).FindOneAndUpdate(ctx, filter, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, translate(err)
	}
	o := doc.model()
	return &o, nil
}

func (s *Store) SetGatewayOrderID(ctx context.Context, id uuid.UUID, gatewayOrderID string) error {
	result, err := s.collection(ordersCollection).UpdateByID(ctx, id.String(), bson.M{"$set": bson.M{
		"gatewayOrderId": gatewayOrderID,
		"updatedAt":      s.now(),
	}})
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) MarkOrderPaid(ctx context.Context, gatewayOrderID string) (*models.Order, bool, error) {
	if gatewayOrderID == "" {
		return nil, false, store.ErrNotFound
	}

	order, err := s.updateOrder(ctx,
		bson.M{"gatewayOrderId": gatewayOrderID, "paymentStatus": bson.M{"$ne": models.PaymentStatusReceived}},
		bson.M{
			"paymentStatus": models.PaymentStatusReceived,
			"status":        models.OrderStatusReceived,
			"updatedAt":     s.now(),
		},
	)
	if err == nil {
		return order, true, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, err
	}

	order, err = s.GetOrderByGatewayID(ctx, gatewayOrderID)
	if err != nil {
		return nil, false, err
	}
	return order, false, nil
}

// Users

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	user.Touch(s.now())
	if user.Role == "" {
		user.Role = models.UserRoleCustomer
	}
	_, err := s.collection(usersCollection).InsertOne(ctx, toUserDoc(user))
	return translate(err)
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id.String()}, options.FindOne())
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	pattern := "^" + regexp.QuoteMeta(email) + "$"
	return s.findUser(ctx, bson.M{"email": bson.M{"$regex": pattern, "$options": "i"}}, options.FindOne())
}

func (s *Store) findUser(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*models.User, error) {
	var doc userDoc
	if err := s.collection(usersCollection).FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	u := doc.model()
	return &u, nil
}

func (s *Store) ReplaceAddresses(ctx context.Context, id uuid.UUID, addresses models.Addresses) (*models.User, error) {
	list := []models.Address(addresses)
	if list == nil {
		list = []models.Address{}
	}

	var doc userDoc
	err := s.collection(usersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": bson.M{"addresses": list, "updatedAt": s.now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, translate(err)
	}
	u := doc.model()
	return &u, nil
}

// Cart

func (s *Store) AddCartItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	now := s.now()
	var doc cartItemDoc
	err := s.collection(cartCollection).FindOneAndUpdate(ctx,
		bson.M{"userId": item.UserID.String(), "productId": item.ProductID.String()},
		bson.M{
			"$inc":         bson.M{"quantity": item.Quantity},
			"$set":         bson.M{"updatedAt": now},
			"$setOnInsert": bson.M{"_id": uuid.New().String(), "createdAt": now},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, translate(err)
	}
	saved := doc.model()
	return &saved, nil
}

func (s *Store) GetCartItem(ctx context.Context, id uuid.UUID) (*models.CartItem, error) {
	var doc cartItemDoc
	if err := s.collection(cartCollection).FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	item := doc.model()
	return &item, nil
}

func (s *Store) ListCartItems(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	cursor, err := s.collection(cartCollection).Find(ctx,
		bson.M{"userId": userID.String()},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, translate(err)
	}
	var docs []cartItemDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	items := make([]models.CartItem, len(docs))
	for i, doc := range docs {
		items[i] = doc.model()
	}
	return items, nil
}

func (s *Store) UpdateCartItemQuantity(ctx context.Context, id uuid.UUID, quantity int) (*models.CartItem, error) {
	var doc cartItemDoc
	err := s.collection(cartCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": bson.M{"quantity": quantity, "updatedAt": s.now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, translate(err)
	}
	item := doc.model()
	return &item, nil
}

func (s *Store) DeleteCartItem(ctx context.Context, id uuid.UUID) error {
	result, err := s.collection(cartCollection).DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return translate(err)
	}
	if result.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ClearCart(ctx context.Context, userID uuid.UUID) error {
	_, err := s.collection(cartCollection).DeleteMany(ctx, bson.M{"userId": userID.String()})
	return translate(err)
}

// Brands and categories

func (s *Store) ListBrands(ctx context.Context) ([]models.Brand, error) {
	docs, err := s.listLookups(ctx, brandsCollection)
	if err != nil {
		return nil, err
	}
	brands := make([]models.Brand, len(docs))
	for i, doc := range docs {
		brands[i] = models.Brand{BaseModel: doc.base(), Label: doc.Label, Value: doc.Value}
	}
	return brands, nil
}

func (s *Store) CreateBrand(ctx context.Context, brand *models.Brand) error {
	brand.Touch(s.now())
	return s.insertLookup(ctx, brandsCollection, brand.BaseModel, brand.Label, brand.Value)
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	docs, err := s.listLookups(ctx, categoriesCollection)
	if err != nil {
		return nil, err
	}
	categories := make([]models.Category, len(docs))
	for i, doc := range docs {
		categories[i] = models.Category{BaseModel: doc.base(), Label: doc.Label, Value: doc.Value}
	}
	return categories, nil
}

func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	category.Touch(s.now())
	return s.insertLookup(ctx, categoriesCollection, category.BaseModel, category.Label, category.Value)
}

func (s *Store) listLookups(ctx context.Context, name string) ([]lookupDoc, error) {
	cursor, err := s.collection(name).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "label", Value: 1}}))
	if err != nil {
		return nil, translate(err)
	}
	var docs []lookupDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *Store) insertLookup(ctx context.Context, name string, base models.BaseModel, label, value string) error {
	_, err := s.collection(name).InsertOne(ctx, lookupDoc{
		ID:        base.ID.String(),
		Label:     label,
		Value:     value,
		CreatedAt: base.CreatedAt,
		UpdatedAt: base.UpdatedAt,
	})
	return translate(err)
}
