package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"product-stream/internal/config"
	"product-stream/internal/database"
	"product-stream/internal/events"
	"product-stream/internal/handler"
	"product-stream/internal/metrics"
	"product-stream/internal/model"
	"product-stream/internal/repository"
	"product-stream/internal/router"
	"product-stream/internal/seed"
	"product-stream/internal/service"

	"github.com/rs/zerolog"
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
	logger.Info().Str("storage", cfg.Storage.Driver).Msg("starting product-stream API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize storage
	productRepo, closeStorage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStorage()

	// Seed the catalogue
	if cfg.Seed.Enabled {
		products, err := loadSeedProducts(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to load seed products: %w", err)
		}
		if err := seed.Seed(ctx, productRepo, products, cfg.Seed.Reset, logger); err != nil {
			return fmt.Errorf("failed to seed catalogue: %w", err)
		}
	}

	// Initialize metrics
	var metricsProvider *metrics.Provider
	if cfg.Metrics.Enabled {
		metricsProvider, err = metrics.Setup()
		if err != nil {
			return fmt.Errorf("failed to initialize metrics: %w", err)
		}
		defer func() {
			if err := metricsProvider.Shutdown(context.Background()); err != nil {
				logger.Error().Err(err).Msg("failed to shutdown metrics provider")
			}
		}()
	}

	var m *metrics.Metrics
	if metricsProvider != nil {
		m = metricsProvider.Metrics
	}

	// Initialize services
	eventSource := events.NewSource(cfg.Events.Interval, m, logger)
	productService := service.NewProductService(productRepo, eventSource, logger)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, logger)

	// Initialize router
	mux, err := router.New(productHandler, cfg.Auth.APIKey, metricsProvider, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize router: %w", err)
	}

	// Open event streams derive from serverCtx and end when it is cancelled.
	serverCtx, cancelStreams := context.WithCancel(ctx)
	defer cancelStreams()

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return serverCtx
		},
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Dur("event_interval", eventSource.Interval()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Event streams never finish on their own.
		cancelStreams()

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

// openStorage connects the configured storage driver and returns its repository
// together with a function releasing the connection.
func openStorage(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (repository.ProductRepository, func(), error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := database.Migrate(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return repository.NewProductRepository(pool, logger), pool.Close, nil

	case config.StorageMongo:
		client, err := database.NewMongoClient(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize mongodb: %w", err)
		}
		closeClient := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.TimeoutDuration())
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				logger.Error().Err(err).Msg("failed to disconnect mongodb")
			}
		}
		collection := database.ProductCollection(client, cfg.Mongo)
		return repository.NewMongoProductRepository(collection, logger), closeClient, nil

	default:
		logger.Warn().Msg("using in-memory storage; products are lost on restart")
		return repository.NewMemoryProductRepository(logger), func() {}, nil
	}
}

// loadSeedProducts reads SEED_FILE through S3 with local fallback, or returns
// the built-in catalogue when no file is configured.
func loadSeedProducts(ctx context.Context, cfg *config.Config, logger zerolog.Logger) ([]model.Product, error) {
	if cfg.Seed.File == "" {
		return seed.DefaultProducts(), nil
	}

	fileLoader := seed.NewFileLoader(logger)
	var s3Loader seed.Loader
	if cfg.S3.Enabled {
		loader, err := seed.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = loader
		}
	} else {
		logger.Info().Msg("using local file system for seed files (S3 disabled)")
	}

	loader := seed.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, cfg.S3.Enabled, logger)
	return loader.Load(ctx, cfg.Seed.File)
}
