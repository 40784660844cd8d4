// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/shopfront/storefront-api/internal/bootstrap"
	"github.com/shopfront/storefront-api/internal/config"
	"github.com/shopfront/storefront-api/internal/events"
	"github.com/shopfront/storefront-api/internal/i18n"
	"github.com/shopfront/storefront-api/internal/payment"
	"github.com/shopfront/storefront-api/internal/router"
	"github.com/shopfront/storefront-api/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	bootstrap.SetupLogging(cfg.Log)

	// Initialize i18n
	if err := i18n.Initialize(cfg.I18n.DefaultLocale); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize i18n")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize store
	st, err := bootstrap.OpenStore(ctx, cfg.Store)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize store")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			logrus.WithError(err).Error("Error closing store")
		}
	}()

	publisher := newPublisher(cfg.Kafka)
	defer publisher.Close()

	storage, err := services.NewStorageService(cfg.AWS)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize storage")
	}
	if !storage.Configured() {
		logrus.Warn("S3 credentials missing, image uploads are disabled")
	}

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	r := router.Initialize(router.Dependencies{
		Config:    cfg,
		Store:     st,
		Gateway:   newGateway(cfg.Payment),
		Publisher: publisher,
		Storage:   storage,
	})
	defer r.Close()

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logrus.WithFields(logrus.Fields{
			"port":  cfg.Server.Port,
			"store": cfg.Store.Driver,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logrus.Info("Shutting down server...")

		// Create a deadline for shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logrus.WithError(err).Error("Server stopped with error")
		return
	}
	logrus.Info("Server exited")
}

func newGateway(cfg config.PaymentConfig) payment.Gateway {
	switch cfg.Provider {
	case "stripe":
		return payment.NewStripe(cfg.StripeSecretKey)
	default:
		return payment.NewRazorpay(payment.RazorpayConfig{
			KeyID:     cfg.RazorpayKeyID,
			KeySecret: cfg.RazorpayKeySecret,
			BaseURL:   cfg.RazorpayBaseURL,
			Timeout:   time.Duration(cfg.Timeout) * time.Second,
			RetryMax:  cfg.RetryMax,
		})
	}
}

func newPublisher(cfg config.KafkaConfig) events.Publisher {
	if len(cfg.Brokers) == 0 {
		return events.Noop{}
	}
	logrus.WithField("topic", cfg.Topic).Info("Publishing order events to kafka")
	return events.NewKafkaPublisher(cfg.Brokers, cfg.Topic)
}
