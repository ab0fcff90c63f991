package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/shopsmart/shopsmart-backend/api"
	"github.com/shopsmart/shopsmart-backend/api/routes"
	"github.com/shopsmart/shopsmart-backend/internal/cart"
	"github.com/shopsmart/shopsmart-backend/pkg/config"
	"github.com/shopsmart/shopsmart-backend/pkg/fakestore"
	"github.com/shopsmart/shopsmart-backend/pkg/logger"
	"github.com/shopsmart/shopsmart-backend/pkg/metrics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	taxRate, err := cfg.Cart.TaxRate()
	if err != nil {
		logg.Error(context.Background(), "invalid cart tax rate", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	catalogMetrics := metrics.NewCatalogClientMetrics(registry)
	cartMetrics := metrics.NewCartIntentMetrics(registry)

	catalogClient, err := fakestore.NewClient(cfg.Catalog, logg, catalogMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to build catalog client", err)
		os.Exit(1)
	}

	cartManager := cart.NewManager(cfg.Cart.SessionTTL, cfg.Cart.SweepInterval)

	router := routes.NewRouter(routes.Deps{
		Config:        cfg,
		Logger:        logg,
		Provider:      catalogClient,
		CatalogPinger: catalogClient,
		CartManager:   cartManager,
		CartMetrics:   cartMetrics,
		TaxRate:       taxRate,
		Registry:      registry,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := api.NewServer(addr, router)

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down")
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		err := multierr.Append(
			server.Shutdown(timeoutCtx),
			cartManager.Close(),
		)
		if err != nil {
			logg.Error(ctx, "shutdown finished with errors", err)
			os.Exit(1)
		}
		logg.Info(ctx, "shutdown complete")
	}
}
