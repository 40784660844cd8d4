// internal/services/repair_service.go
package services

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/shopfront/storefront-api/internal/models"
	"github.com/shopfront/storefront-api/internal/store"
)

const (
	DefaultRepairPrice    = 1000
	DefaultRepairDiscount = 0
)

type RepairReport struct {
	Scanned int `json:"scanned"`
	Updated int `json:"updated"`
}

// RepairService fixes historical products whose price fields cannot be priced.
type RepairService struct {
	products store.ProductStore
}

func NewRepairService(products store.ProductStore) *RepairService {
	return &RepairService{products: products}
}

// FixPrices rewrites rows with a missing or non-positive price, or a discount
// outside [0, 100), with the defaults. Deleted rows are repaired too.
func (s *RepairService) FixPrices(ctx context.Context) (*RepairReport, error) {
	report := &RepairReport{}

	err := s.products.EachProduct(ctx, func(p *models.Product) error {
		report.Scanned++
		if !repairPricing(p) {
			return nil
		}
		if err := s.products.UpdateProduct(ctx, p); err != nil {
			return fmt.Errorf("update product %s: %w", p.ID, err)
		}
		report.Updated++
		logrus.WithFields(logrus.Fields{
			"product_id":          p.ID,
			"price":               p.Price,
			"discount_percentage": p.DiscountPercentage,
			"discount_price":      p.DiscountPrice,
		}).Info("Repaired product pricing")
		return nil
	})
	if err != nil {
		return report, storeError("repair prices", "product", err)
	}

	logrus.WithFields(logrus.Fields{
		"scanned": report.Scanned,
		"updated": report.Updated,
	}).Info("Price repair finished")
	return report, nil
}

// repairPricing reports whether p needed changes.
func repairPricing(p *models.Product) bool {
	changed := false
	if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) || p.Price <= 0 {
		p.Price = DefaultRepairPrice
		changed = true
	}
	d := p.DiscountPercentage
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 || d >= 100 {
		p.DiscountPercentage = DefaultRepairDiscount
		changed = true
	}
	if changed {
		p.ComputeDiscountPrice()
	}
	return changed
}
