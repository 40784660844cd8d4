// internal/query/engine.go

// Package query answers product listing requests: filter, sort (stored or
// derived field), paginate, and report the filtered total.
package query

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/shopfront/storefront-api/internal/models"
	"github.com/shopfront/storefront-api/internal/store"
)

type Query struct {
	Filter store.ProductFilter
	Sort   *store.Sort
	Page   store.Page
}

// Result carries one page of products and the total over the filtered set.
type Result struct {
	Products []models.Product
	Total    int64
}

// Strategy executes a query for one class of sort key.
type Strategy interface {
	Execute(ctx context.Context, q Query) (*Result, error)
}

type Engine struct {
	stored  Strategy
	derived Strategy
}

func NewEngine(products store.ProductStore) *Engine {
	return &Engine{
		stored:  &storedFieldStrategy{products: products},
		derived: &derivedFieldStrategy{products: products},
	}
}

func (e *Engine) Run(ctx context.Context, q Query) (*Result, error) {
	return e.StrategyFor(q.Sort).Execute(ctx, q)
}

func (e *Engine) StrategyFor(sort *store.Sort) Strategy {
	if sort != nil && IsDerived(sort.Field) {
		return e.derived
	}
	return e.stored
}

type storedFieldStrategy struct {
	products store.ProductStore
}

func (s *storedFieldStrategy) Execute(ctx context.Context, q Query) (*Result, error) {
	var sorts []store.Sort
	if q.Sort != nil {
		sorts = []store.Sort{*q.Sort}
	}
	return run(ctx, s.products, q.Filter, func(ctx context.Context) ([]models.Product, error) {
		return s.products.FindProducts(ctx, q.Filter, sorts, q.Page)
	})
}

type derivedFieldStrategy struct {
	products store.ProductStore
}

func (s *derivedFieldStrategy) Execute(ctx context.Context, q Query) (*Result, error) {
	dir := store.Ascending
	if q.Sort != nil {
		dir = q.Sort.Direction
	}
	return run(ctx, s.products, q.Filter, func(ctx context.Context) ([]models.Product, error) {
		return s.products.FindProductsByDiscountPrice(ctx, q.Filter, dir, q.Page)
	})
}

// run performs the count and the page fetch as independent passes.
func run(ctx context.Context, products store.ProductStore, filter store.ProductFilter, find func(context.Context) ([]models.Product, error)) (*Result, error) {
	var (
		total int64
		rows  []models.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := products.CountProducts(gctx, filter)
		if err != nil {
			return fmt.Errorf("count products: %w", err)
		}
		total = n
		return nil
	})
	g.Go(func() error {
		found, err := find(gctx)
		if err != nil {
			return fmt.Errorf("find products: %w", err)
		}
		rows = found
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if rows == nil {
		rows = []models.Product{}
	}
	for i := range rows {
		rows[i].ComputeDiscountPrice()
	}
	return &Result{Products: rows, Total: total}, nil
}
