// internal/store/postgres/postgres_test.go
package postgres

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shopfront/storefront-api/internal/database"
	"github.com/shopfront/storefront-api/internal/store"
	"github.com/shopfront/storefront-api/internal/store/storetest"
)

// Set STOREFRONT_TEST_POSTGRES_DSN to run against a scratch database.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("STOREFRONT_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("STOREFRONT_TEST_POSTGRES_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))

	storetest.Run(t, func(t *testing.T) store.Store {
		require.NoError(t, db.Exec("TRUNCATE products, orders, users, cart_items, brands, categories").Error)
		return New(db)
	})
}
