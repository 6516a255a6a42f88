package repository

import (
	"context"

	"sales-order-booking/internal/model"
)

// ProductRepository defines the interface for catalog data access operations.
type ProductRepository interface {
	// Search returns products whose name contains query, case-insensitively,
	// ordered by name. An empty query matches every product.
	Search(ctx context.Context, query string, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. It returns nil, nil when
	// the product does not exist.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Upsert inserts products or overwrites existing ones with the same ID.
	Upsert(ctx context.Context, products []model.Product) error
}

// OrderRepository defines the interface for the order table.
type OrderRepository interface {
	// Insert stores a new order and returns its server-assigned id.
	Insert(ctx context.Context, order *model.OrderRecord) (int64, error)

	// SelectPage returns one page of orders, newest first, plus the count of
	// every row matching the filter.
	SelectPage(ctx context.Context, q model.OrderQuery) (*model.OrderSlice, error)

	// SelectByID retrieves one order. It returns nil, nil when the order
	// does not exist.
	SelectByID(ctx context.Context, id int64) (*model.OrderRecord, error)
}
