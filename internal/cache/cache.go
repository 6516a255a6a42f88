// Package cache keeps recently read orders in Redis.
package cache

import (
	"context"
	"errors"

	"sales-order-booking/internal/model"
)

// OrderCache is a read-through cache for single orders. Orders are only
// written by inserts, so entries are never invalidated; a status changed
// elsewhere shows up once the entry expires.
type OrderCache interface {
	Get(ctx context.Context, id int64) (*model.OrderRecord, error)
	Set(ctx context.Context, rec *model.OrderRecord) error
}

var ErrCacheMiss = errors.New("cache miss")
