package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/orphancare/platform-backend/api/routes"
	"github.com/orphancare/platform-backend/internal/donations"
	"github.com/orphancare/platform-backend/internal/fulfillment"
	"github.com/orphancare/platform-backend/internal/inventory"
	"github.com/orphancare/platform-backend/internal/movements"
	"github.com/orphancare/platform-backend/internal/pledges"
	"github.com/orphancare/platform-backend/internal/requests"
	"github.com/orphancare/platform-backend/pkg/config"
	"github.com/orphancare/platform-backend/pkg/db"
	"github.com/orphancare/platform-backend/pkg/logger"
	"github.com/orphancare/platform-backend/pkg/metrics"
	"github.com/orphancare/platform-backend/pkg/migrate"
	"github.com/orphancare/platform-backend/pkg/redis"
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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	inventoryRepo := inventory.NewRepository(dbClient.DB())
	movementRepo := movements.NewRepository(dbClient.DB())
	requestRepo := requests.NewRepository(dbClient.DB())
	pledgeRepo := pledges.NewRepository(dbClient.DB())
	donationRepo := donations.NewRepository(dbClient.DB())

	inventoryService, err := inventory.NewService(inventoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	movementService, err := movements.NewService(movementRepo, inventoryRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create movements service", err)
		os.Exit(1)
	}

	requestService, err := requests.NewService(requestRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create requests service", err)
		os.Exit(1)
	}

	pledgeService, err := pledges.NewService(pledgeRepo, requestRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create pledges service", err)
		os.Exit(1)
	}

	fulfillmentMetrics := metrics.NewFulfillmentMetrics(prometheus.DefaultRegisterer)
	fulfillmentService, err := fulfillment.NewService(
		pledgeRepo, requestRepo, inventoryRepo, movementRepo,
		dbClient, logg, fulfillmentMetrics, cfg.Fulfillment,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create fulfillment service", err)
		os.Exit(1)
	}

	donationService, err := donations.NewService(donationRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create donations service", err)
		os.Exit(1)
	}

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

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, routes.Services{
			Inventory:   inventoryService,
			Movements:   movementService,
			Requests:    requestService,
			Pledges:     pledgeService,
			Fulfillment: fulfillmentService,
			Donations:   donationService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
