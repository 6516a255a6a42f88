package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"sales-order-booking/internal/config"
	"sales-order-booking/internal/database"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	down := flag.Int("down", 0, "roll back this many migrations instead of applying all pending ones")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := config.NewLogger(cfg.Logger).With().Str("cmd", "migrate").Logger()

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if *down > 0 {
		if err := database.MigrateDown(ctx, pool, *down, logger); err != nil {
			return fmt.Errorf("failed to roll back migrations: %w", err)
		}
		logger.Info().Int("steps", *down).Msg("migrations rolled back")
		return nil
	}

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	logger.Info().Msg("migrations applied")
	return nil
}
