package repository

import (
	"context"
	"testing"

	"sales-order-booking/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func testCatalog() []model.Product {
	return []model.Product{
		{ID: "P001", Name: "Banana Chips 100g", PackPrice: money("35.50"), CasePrice: money("820.00"), PackSize: "100g", Packing: "24"},
		{ID: "P002", Name: "Coconut Water 1L", PackPrice: money("65.00"), PackSize: "1L", Packing: "12"},
		{ID: "P003", Name: "Dried Mango 200g", PackPrice: money("120.00"), CasePrice: money("2800.00"), PackSize: "200g", Packing: "24"},
		{ID: "P004", Name: "Mango Juice 250ml", PackPrice: money("25.00"), CasePrice: money("560.00"), PackSize: "250ml", Packing: "24"},
	}
}

func TestProductRepository_Search(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, testCatalog()))

	tests := []struct {
		name     string
		query    string
		limit    int
		offset   int
		expected []string
	}{
		{name: "All products ordered by name", query: "", limit: 10, expected: []string{"P001", "P002", "P003", "P004"}},
		{name: "Case-insensitive match", query: "MANGO", limit: 10, expected: []string{"P003", "P004"}},
		{name: "Pagination", query: "", limit: 2, offset: 2, expected: []string{"P003", "P004"}},
		{name: "No match", query: "durian", limit: 10, expected: []string{}},
		{name: "Wildcard is literal", query: "%", limit: 10, expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := repo.Search(ctx, tt.query, tt.limit, tt.offset)
			require.NoError(t, err)

			ids := make([]string, 0, len(products))
			for _, p := range products {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestProductRepository_GetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, testCatalog()))

	tests := []struct {
		name      string
		id        string
		expectNil bool
	}{
		{
			name:      "Product exists",
			id:        "P001",
			expectNil: false,
		},
		{
			name:      "Product does not exist",
			id:        "P999",
			expectNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := repo.GetByID(ctx, tt.id)

			require.NoError(t, err)

			if tt.expectNil {
				assert.Nil(t, product)
			} else {
				require.NotNil(t, product)
				assert.Equal(t, "Banana Chips 100g", product.Name)
				assert.True(t, product.PackPrice.Decimal.Equal(decimal.RequireFromString("35.5")))
				assert.True(t, product.CasePrice.Decimal.Equal(decimal.RequireFromString("820")))
				assert.Equal(t, "100g", product.PackSize)
			}
		})
	}
}

func TestProductRepository_NullCasePrice(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, testCatalog()))

	product, err := repo.GetByID(ctx, "P002")
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.True(t, product.PackPrice.Valid)
	assert.False(t, product.CasePrice.Valid)
}

func TestProductRepository_UpsertOverwrites(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, testCatalog()))

	updated := testCatalog()[0]
	updated.PackPrice = money("40.00")
	require.NoError(t, repo.Upsert(ctx, []model.Product{updated}))

	product, err := repo.GetByID(ctx, "P001")
	require.NoError(t, err)
	assert.True(t, product.PackPrice.Decimal.Equal(decimal.NewFromInt(40)))

	all, err := repo.Search(ctx, "", 100, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	assert.NoError(t, repo.Upsert(ctx, nil))
}
