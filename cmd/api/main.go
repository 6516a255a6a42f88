package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sales-order-booking/internal/cache"
	"sales-order-booking/internal/checkout"
	"sales-order-booking/internal/config"
	"sales-order-booking/internal/database"
	"sales-order-booking/internal/handler"
	"sales-order-booking/internal/notify"
	"sales-order-booking/internal/repository"
	"sales-order-booking/internal/router"
	"sales-order-booking/internal/service"
	"sales-order-booking/internal/session"
	"sales-order-booking/internal/storage"

	"github.com/redis/go-redis/v9"
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
	logger.Info().Msg("starting sales order booking API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	// Order cache is optional; the service reads the database without it
	var orderCache cache.OrderCache
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
		err := client.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, order cache disabled")
		} else {
			orderCache = cache.NewRedisCache(client, cfg.Redis.CacheTTL)
			logger.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.CacheTTL).Msg("order cache enabled")
		}
	}

	// Attachment storage: S3 with local directory fallback
	localStore := storage.NewLocalStore(cfg.Storage.LocalDir, cfg.Storage.PublicBaseURL, logger)
	var primaryStore storage.Store
	if cfg.S3.Enabled {
		s3Store, err := storage.NewS3Store(ctx, storage.S3Options{
			Bucket:        cfg.S3.Bucket,
			Region:        cfg.S3.Region,
			Prefix:        cfg.S3.Prefix,
			PublicBaseURL: cfg.S3.PublicBaseURL,
		}, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 store, falling back to local file system only")
		} else {
			primaryStore = s3Store
		}
	} else {
		logger.Info().Str("dir", cfg.Storage.LocalDir).Msg("using local file system for attachments (S3 disabled)")
	}
	attachments := storage.NewFallbackStore(primaryStore, localStore, logger)

	// Order-submitted notifications
	notifier, closeNotifiers := buildNotifier(cfg, logger)
	defer closeNotifiers()
	dispatcher := checkout.NewDispatcher(notifier, cfg.Notify.Timeout, logger)

	// Booking sessions
	registry := session.NewRegistry(checkout.Deps{
		Orders:     orderRepo,
		Uploader:   attachments,
		Dispatcher: dispatcher,
		Logger:     logger,
		Now:        time.Now,
	}, cfg.Session.IdleTimeout, cfg.Session.SweepInterval, logger)
	go registry.Run(ctx)

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	orderService := service.NewOrderService(orderRepo, orderCache, logger)

	// Initialize router
	mux := router.New(router.Handlers{
		Sessions: handler.NewSessionHandler(registry, logger),
		Profile:  handler.NewProfileHandler(registry, logger),
		Cart:     handler.NewCartHandler(registry, productService, logger),
		Checkout: handler.NewCheckoutHandler(registry, logger),
		Products: handler.NewProductHandler(productService, logger),
		Orders:   handler.NewOrderHandler(orderService, logger),
	}, router.Options{
		AttachmentsDir:  localStore.Dir(),
		AttachmentsPath: cfg.Storage.PublicBaseURL,
	}, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
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

		cancel()
		dispatcher.Wait()
		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// buildNotifier combines the configured notification sinks. The returned
// func releases their resources.
func buildNotifier(cfg *config.Config, logger zerolog.Logger) (notify.Notifier, func()) {
	var sinks []notify.Notifier
	closers := []func(){}

	if cfg.Notify.WebhookURL != "" {
		webhook := notify.NewWebhookNotifier(
			&http.Client{Timeout: cfg.Notify.Timeout},
			cfg.Notify.WebhookURL,
			cfg.Notify.FormField,
			logger,
		)
		sinks = append(sinks, notify.NewBreaker(webhook, notify.BreakerSettings{
			Name:                "order-webhook",
			ConsecutiveFailures: uint32(cfg.Notify.BreakerFailures),
			OpenTimeout:         cfg.Notify.BreakerOpenDelay,
		}, logger))
		logger.Info().Str("url", cfg.Notify.WebhookURL).Msg("order webhook enabled")
	}

	if cfg.Kafka.Enabled {
		kafkaNotifier := notify.NewKafkaNotifier(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		sinks = append(sinks, kafkaNotifier)
		closers = append(closers, func() {
			if err := kafkaNotifier.Close(); err != nil {
				logger.Error().Err(err).Msg("failed to close kafka writer")
			}
		})
		logger.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("order events enabled")
	}

	if len(sinks) == 0 {
		logger.Info().Msg("no order notification sinks configured")
	}

	return notify.Multi(sinks...), func() {
		for _, c := range closers {
			c()
		}
	}
}
