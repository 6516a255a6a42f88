package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"sales-order-booking/internal/config"
	"sales-order-booking/internal/database"
	"sales-order-booking/internal/repository"
	"sales-order-booking/internal/service"
	"sales-order-booking/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	file := flag.String("file", cfg.Catalog.File, "catalog JSON file; read from S3 first when S3 is enabled")
	flag.Parse()

	logger := config.NewLogger(cfg.Logger).With().Str("cmd", "seed").Logger()
	ctx := context.Background()

	// Catalog source: S3 object with local file fallback
	var primary storage.Store
	if cfg.S3.Enabled {
		s3Store, err := storage.NewS3Store(ctx, storage.S3Options{
			Bucket: cfg.S3.Bucket,
			Region: cfg.S3.Region,
			Prefix: cfg.S3.Prefix,
		}, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialise S3 store, reading catalog from local disk")
		} else {
			primary = s3Store
		}
	}
	source := storage.NewFallbackStore(primary, storage.NewLocalStore(".", "", logger), logger)

	data, err := source.Fetch(ctx, *file)
	if err != nil {
		return fmt.Errorf("failed to read catalog %s: %w", *file, err)
	}

	products, err := service.ParseCatalog(data)
	if err != nil {
		return err
	}

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

	catalog := service.NewProductService(repository.NewProductRepository(pool, logger), logger)
	n, err := catalog.Import(ctx, products)
	if err != nil {
		return err
	}

	logger.Info().Int("count", n).Str("file", *file).Msg("catalog seeded")
	return nil
}
