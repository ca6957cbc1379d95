package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shiptrack/internal/carrier"
	"shiptrack/internal/config"
	"shiptrack/internal/database"
	"shiptrack/internal/handler"
	"shiptrack/internal/metrics"
	"shiptrack/internal/policy"
	"shiptrack/internal/repository"
	"shiptrack/internal/router"
	"shiptrack/internal/seed"
	"shiptrack/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting shiptrack API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	shipmentRepo := repository.NewShipmentRepository(pool, logger)
	reportRepo := repository.NewReportRepository(pool, logger)

	// Load the status transition policy; an empty path allows everything
	transitionPolicy, err := policy.LoadFromFile(cfg.Policy.TransitionFile, logger)
	if err != nil {
		return fmt.Errorf("failed to load transition policy: %w", err)
	}

	// Select the carrier gateway
	var gateway carrier.Gateway
	switch cfg.Carrier.Mode {
	case "kafka":
		kafkaGateway := carrier.NewKafkaGateway(cfg.Carrier.KafkaBrokers, cfg.Carrier.KafkaTopic, logger)
		if closer, ok := kafkaGateway.(interface{ Close() error }); ok {
			defer func() {
				if err := closer.Close(); err != nil {
					logger.Error().Err(err).Msg("failed to close kafka gateway")
				}
			}()
		}
		gateway = kafkaGateway
		logger.Info().Strs("brokers", cfg.Carrier.KafkaBrokers).Str("topic", cfg.Carrier.KafkaTopic).Msg("using kafka carrier gateway")
	case "http":
		gateway = carrier.NewHTTPGateway(cfg.Carrier.HTTPEndpoint, cfg.Carrier.HTTPToken, logger)
		logger.Info().Str("endpoint", cfg.Carrier.HTTPEndpoint).Msg("using HTTP carrier gateway")
	default:
		gateway = carrier.NewLogGateway(logger)
		logger.Info().Msg("using log carrier gateway")
	}

	// Optionally load demo fixtures
	if cfg.Seed.Enabled {
		seeder := seed.New(productRepo, shipmentRepo, logger)
		if err := seeder.Run(ctx); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	shipmentService := service.NewShipmentService(shipmentRepo, productRepo, gateway, transitionPolicy, logger)
	reportService := service.NewReportService(reportRepo, logger)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, logger)
	shipmentHandler := handler.NewShipmentHandler(shipmentService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)

	// Initialize metrics and router
	httpMetrics := metrics.NewHTTPMetrics()
	mux := router.New(productHandler, shipmentHandler, reportHandler, httpMetrics, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
