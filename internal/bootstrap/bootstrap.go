// internal/bootstrap/bootstrap.go

// Package bootstrap holds the process setup shared by the server and the
// maintenance commands.
package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/shopfront/storefront-api/internal/config"
	"github.com/shopfront/storefront-api/internal/database"
	"github.com/shopfront/storefront-api/internal/store"
	"github.com/shopfront/storefront-api/internal/store/memory"
	"github.com/shopfront/storefront-api/internal/store/mongo"
	"github.com/shopfront/storefront-api/internal/store/postgres"
)

func SetupLogging(cfg config.LogConfig) {
	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stdout)
}

// OpenStore connects the backend selected by STORE_DRIVER. The postgres
// schema is migrated before the store is returned.
func OpenStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case "postgres":
		db, err := database.Initialize(cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(db); err != nil {
			database.Close(db)
			return nil, err
		}
		return postgres.New(db), nil
	case "mongo":
		s, err := mongo.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "memory":
		logrus.Warn("Using in-memory store, data is lost on restart")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
