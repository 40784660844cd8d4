// cmd/fixprices/main.go
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/shopfront/storefront-api/internal/bootstrap"
	"github.com/shopfront/storefront-api/internal/config"
	"github.com/shopfront/storefront-api/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	bootstrap.SetupLogging(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := bootstrap.OpenStore(ctx, cfg.Store)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize store")
	}
	defer st.Close(context.Background())

	report, err := services.NewRepairService(st).FixPrices(ctx)
	if err != nil {
		logrus.WithError(err).Error("Price repair aborted")
		return
	}

	logrus.WithFields(logrus.Fields{
		"scanned": report.Scanned,
		"updated": report.Updated,
	}).Info("Price repair completed")
}
