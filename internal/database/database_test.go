package database

import (
	"context"
	"testing"
	"time"

	"sales-order-booking/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestPool starts a PostgreSQL container and returns a pool for it.
func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	pool, err := NewPool(ctx, config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "postgres",
		Password:        "postgres",
		Database:        "testdb",
		MaxConnections:  5,
		MinConnections:  1,
		MaxConnLifetime: 300,
	}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func TestPoolConfigFor(t *testing.T) {
	tests := []struct {
		name         string
		cfg          config.DatabaseConfig
		expectedMax  int32
		expectedMin  int32
		expectedLife time.Duration
	}{
		{
			name:         "Configured sizes",
			cfg:          config.DatabaseConfig{Host: "db", Port: 5432, User: "app", Database: "orders", MaxConnections: 20, MinConnections: 2, MaxConnLifetime: 300},
			expectedMax:  20,
			expectedMin:  2,
			expectedLife: 5 * time.Minute,
		},
		{
			name:         "Minimum above maximum is ignored",
			cfg:          config.DatabaseConfig{Host: "db", Port: 5432, User: "app", Database: "orders", MaxConnections: 2, MinConnections: 5, MaxConnLifetime: 60},
			expectedMax:  2,
			expectedMin:  0,
			expectedLife: time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc, err := poolConfigFor(tt.cfg)
			require.NoError(t, err)

			assert.Equal(t, tt.expectedMax, pc.MaxConns)
			assert.Equal(t, tt.expectedMin, pc.MinConns)
			assert.Equal(t, tt.expectedLife, pc.MaxConnLifetime)
			assert.Equal(t, config.AppName, pc.ConnConfig.RuntimeParams["application_name"])
			assert.Equal(t, "orders", pc.ConnConfig.Database)
		})
	}
}

func TestNewPool_CannotConnect(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := NewPool(ctx, config.DatabaseConfig{
		Host:           "127.0.0.1",
		Port:           1,
		User:           "postgres",
		Database:       "testdb",
		MaxConnections: 1,
		MinConnections: 1,
	}, zerolog.Nop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to")
	assert.Nil(t, pool)
}

func TestMigrate_CreatesSchemaAndIsIdempotent(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, pool, zerolog.Nop()))
	require.NoError(t, Migrate(ctx, pool, zerolog.Nop()))

	var tables int
	err := pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name IN ('customer_data', 'products')
	`).Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 2, tables)

	var status string
	err = pool.QueryRow(ctx, `
		INSERT INTO customer_data (store_name, location, customer_name, contact_person, delivery_date)
		VALUES ('s', 'l', 'c', 'p', '2026-01-02')
		RETURNING status
	`).Scan(&status)
	require.NoError(t, err)
	assert.Equal(t, "PENDING", status)
}

func TestMigrateDown(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, pool, zerolog.Nop()))
	require.NoError(t, MigrateDown(ctx, pool, 1, zerolog.Nop()))

	var exists bool
	err := pool.QueryRow(ctx, `SELECT to_regclass('public.products') IS NOT NULL`).Scan(&exists)
	require.NoError(t, err)
	assert.False(t, exists)
}
