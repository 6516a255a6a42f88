package service

import (
	"context"

	"sales-order-booking/internal/model"
)

// ProductService defines operations on the product catalog.
type ProductService interface {
	// Search returns products whose name contains query, with pagination.
	Search(ctx context.Context, query string, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Import validates products and stores them, replacing existing entries.
	Import(ctx context.Context, products []model.Product) (int, error)
}

// OrderService defines read operations over submitted orders.
type OrderService interface {
	// ListOrders returns one page of orders, newest first.
	ListOrders(ctx context.Context, page, pageSize int, filter model.OrderFilter) (*OrderPage, error)

	// GetOrder retrieves a single order with its decoded line items.
	GetOrder(ctx context.Context, id int64) (*OrderView, error)
}
