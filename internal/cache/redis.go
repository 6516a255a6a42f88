package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"sales-order-booking/internal/model"

	"github.com/redis/go-redis/v9"
)

// NewRedisCache creates an order cache. Entries live for ttl plus up to 20%
// random jitter so entries written together do not expire together.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisCache{
		client:  client,
		baseTTL: ttl,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

// entry is the cached shape. The record's item blob is not part of its JSON
// form, so it is carried alongside.
type entry struct {
	Record model.OrderRecord `json:"record"`
	Items  string            `json:"items"`
}

func (r *RedisCache) Get(ctx context.Context, id int64) (*model.OrderRecord, error) {
	data, err := r.client.Get(ctx, cacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshal order failed: %w", err)
	}

	rec := e.Record
	rec.Items = e.Items
	return &rec, nil
}

func (r *RedisCache) Set(ctx context.Context, rec *model.OrderRecord) error {
	data, err := json.Marshal(entry{Record: *rec, Items: rec.Items})
	if err != nil {
		return fmt.Errorf("marshal order failed: %w", err)
	}

	if err := r.client.Set(ctx, cacheKey(rec.ID), data, r.ttl()).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) ttl() time.Duration {
	maxJitter := int64(r.baseTTL / 5)
	if maxJitter <= 0 {
		return r.baseTTL
	}
	return r.baseTTL + time.Duration(rand.Int64N(maxJitter+1))
}

func cacheKey(id int64) string {
	return fmt.Sprintf("order:%d", id)
}
