package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fx-payment-processor/config"
	httpHandler "fx-payment-processor/internal/adapter/http/handler"
	memStorage "fx-payment-processor/internal/adapter/storage/memory"
	redisStorage "fx-payment-processor/internal/adapter/storage/redis"
	"fx-payment-processor/internal/core/ports"
	"fx-payment-processor/internal/service"
	"fx-payment-processor/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting FX Payment Processor")

	ctx := context.Background()

	// Parse the seed exchange-rate table
	seedRates, err := cfg.Rates.SeedTable()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid seed rate table")
	}

	// Initialize in-memory stores
	walletStore := memStorage.NewWalletStore()
	txLog := memStorage.NewTransactionLog()
	rateStore := memStorage.NewRateStore(seedRates)
	locker := memStorage.NewUserLocker()
	log.Info().Int("rates", len(seedRates)).Msg("Ledger stores initialized")

	// Initialize the ledger engine
	ledger := service.NewLedgerService(walletStore, txLog, rateStore, locker, log)

	// Redis backs rate limiting only; the ledger itself is in-process.
	var rateLimitStore *redisStorage.RateLimitStore
	var healthCheckers []ports.HealthChecker
	if cfg.RateLimit.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		log.Info().Msg("Redis connected, rate limiting enabled")

		rateLimitStore = redisStorage.NewRateLimitStore(rdb)
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
	}

	if cfg.Admin.Key == "" {
		log.Warn().Msg("Admin key not set, rate table updates are disabled")
	}

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Ledger:         ledger,
		AdminKey:       cfg.Admin.Key,
		RateLimitStore: rateLimitStore,
		HealthCheckers: healthCheckers,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
