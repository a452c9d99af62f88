package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fiscal-payment-bridge/config"
	"fiscal-payment-bridge/internal/adapter/crm"
	"fiscal-payment-bridge/internal/adapter/gateway"
	httpHandler "fiscal-payment-bridge/internal/adapter/http/handler"
	pgStorage "fiscal-payment-bridge/internal/adapter/storage/postgres"
	redisStorage "fiscal-payment-bridge/internal/adapter/storage/redis"
	"fiscal-payment-bridge/internal/core/ports"
	"fiscal-payment-bridge/internal/service"
	"fiscal-payment-bridge/pkg/logger"
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
		Msg("Starting Fiscal Payment Bridge")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	settingsRepo := pgStorage.NewSettingsRepo(pool)
	billRepo := pgStorage.NewBillRepo(pool)
	logRepo := pgStorage.NewIntegrationLogRepo(pool)
	tokenCache := redisStorage.NewTokenCache(rdb)

	// Initialize outbound clients. Per-call deadlines come from the
	// service layer; the client timeouts are the hard ceiling.
	gatewayClient := gateway.NewClient(
		cfg.Gateway.BaseURL,
		&http.Client{Timeout: cfg.Gateway.PaymentTimeout},
		log,
	)
	notifier := crm.NewNotifier(&http.Client{Timeout: cfg.Gateway.NotifyTimeout}, log)

	// Initialize business services
	paymentSvc := service.NewPaymentService(
		settingsRepo,
		billRepo,
		logRepo,
		tokenCache,
		gatewayClient,
		service.PaymentConfig{
			PublicURL:      cfg.Server.PublicURL,
			AuthTimeout:    cfg.Gateway.AuthTimeout,
			PaymentTimeout: cfg.Gateway.PaymentTimeout,
			TokenTTL:       cfg.Gateway.TokenTTL,
		},
		log,
	)
	callbackSvc := service.NewCallbackService(billRepo, logRepo, notifier, cfg.Gateway.NotifyTimeout, log)
	settingsSvc := service.NewSettingsService(settingsRepo, log)
	logSvc := service.NewLogService(logRepo)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		PaymentSvc:     paymentSvc,
		CallbackSvc:    callbackSvc,
		SettingsSvc:    settingsSvc,
		LogSvc:         logSvc,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
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
