// internal/services/import_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// SeedData is the layout of the catalog seed file.
type SeedData struct {
	Brands     []CreateLookupRequest  `json:"brands"`
	Categories []CreateLookupRequest  `json:"categories"`
	Products   []CreateProductRequest `json:"products"`
}

type ImportCounts struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

type ImportReport struct {
	Brands     ImportCounts `json:"brands"`
	Categories ImportCounts `json:"categories"`
	Products   ImportCounts `json:"products"`
}

// ImportService seeds lookups and products. Rows that already exist are
// skipped; rows that fail validation are counted and logged.
type ImportService struct {
	lookups  *LookupService
	products *ProductService
}

func NewImportService(lookups *LookupService, products *ProductService) *ImportService {
	return &ImportService{
		lookups:  lookups,
		products: products,
	}
}

func DecodeSeedData(r io.Reader) (*SeedData, error) {
	var data SeedData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode seed data: %w", err)
	}
	return &data, nil
}

func (s *ImportService) Import(ctx context.Context, data *SeedData) (*ImportReport, error) {
	report := &ImportReport{}

	for i := range data.Brands {
		_, err := s.lookups.CreateBrand(ctx, &data.Brands[i])
		if err := tally(&report.Brands, "brand", data.Brands[i].Value, err); err != nil {
			return report, err
		}
	}
	for i := range data.Categories {
		_, err := s.lookups.CreateCategory(ctx, &data.Categories[i])
		if err := tally(&report.Categories, "category", data.Categories[i].Value, err); err != nil {
			return report, err
		}
	}
	for i := range data.Products {
		_, err := s.products.CreateProduct(ctx, &data.Products[i])
		if err := tally(&report.Products, "product", data.Products[i].Title, err); err != nil {
			return report, err
		}
	}

	logrus.WithFields(logrus.Fields{
		"brands":     report.Brands,
		"categories": report.Categories,
		"products":   report.Products,
	}).Info("Import finished")
	return report, nil
}

// tally records the outcome of one insert. Only store failures and
// cancellation abort the import.
func tally(counts *ImportCounts, kind, key string, err error) error {
	var conflict *ConflictError
	var invalid *ValidationError
	switch {
	case err == nil:
		counts.Inserted++
		logrus.WithField(kind, key).Debug("Inserted")
	case errors.As(err, &conflict):
		counts.Skipped++
		logrus.WithField(kind, key).Info("Duplicate skipped")
	case errors.As(err, &invalid):
		counts.Failed++
		logrus.WithError(err).WithField(kind, key).Warn("Invalid row skipped")
	default:
		counts.Failed++
		return fmt.Errorf("import %s %q: %w", kind, key, err)
	}
	return nil
}
