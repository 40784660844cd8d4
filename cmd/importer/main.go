// cmd/importer/main.go
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/shopfront/storefront-api/internal/bootstrap"
	"github.com/shopfront/storefront-api/internal/config"
	"github.com/shopfront/storefront-api/internal/query"
	"github.com/shopfront/storefront-api/internal/services"
)

func main() {
	path := flag.String("file", "data.json", "path to the catalog seed file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	bootstrap.SetupLogging(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	f, err := os.Open(*path)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to open seed file")
	}
	defer f.Close()

	data, err := services.DecodeSeedData(f)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to decode seed file")
	}

	st, err := bootstrap.OpenStore(ctx, cfg.Store)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize store")
	}
	defer st.Close(context.Background())

	importer := services.NewImportService(
		services.NewLookupService(st),
		services.NewProductService(st, query.NewEngine(st)),
	)

	report, err := importer.Import(ctx, data)
	if err != nil {
		logrus.WithError(err).Error("Import aborted")
		return
	}

	logrus.WithFields(logrus.Fields{
		"file":       *path,
		"brands":     report.Brands,
		"categories": report.Categories,
		"products":   report.Products,
	}).Info("Import completed")
}
