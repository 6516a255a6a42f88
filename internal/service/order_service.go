package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sales-order-booking/internal/cache"
	"sales-order-booking/internal/model"
	"sales-order-booking/internal/repository"

	"github.com/rs/zerolog"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	cache     cache.OrderCache
	logger    zerolog.Logger
}

// NewOrderService creates a new order service. orderCache may be nil.
func NewOrderService(orderRepo repository.OrderRepository, orderCache cache.OrderCache, logger zerolog.Logger) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cache:     orderCache,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// ListOrders returns one page of orders matching filter.
func (s *orderService) ListOrders(ctx context.Context, page, pageSize int, filter model.OrderFilter) (*OrderPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filter.Value = strings.TrimSpace(filter.Value)
	if filter.Value != "" && !filter.Field.Valid() {
		s.logger.Warn().Str("field", string(filter.Field)).Msg("invalid order filter field")
		return nil, &model.ValidationError{
			Fields: []string{"field"},
			Reason: "unsupported filter field",
		}
	}

	slice, err := s.orderRepo.SelectPage(ctx, model.OrderQuery{
		Filter: filter,
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	})
	if err != nil {
		s.logger.Error().Err(err).
			Int("page", page).
			Int("page_size", pageSize).
			Str("field", string(filter.Field)).
			Msg("failed to list orders")
		return nil, fmt.Errorf("%w: %w", model.ErrQueryFailed, err)
	}

	result := &OrderPage{
		Orders:     make([]OrderView, 0, len(slice.Records)),
		TotalCount: slice.TotalCount,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (slice.TotalCount + pageSize - 1) / pageSize,
	}
	for _, rec := range slice.Records {
		view := newOrderView(rec)
		if view.ItemsError != "" {
			s.logger.Warn().Int64("order_id", rec.ID).Str("error", view.ItemsError).Msg("order has unreadable items")
		}
		result.Orders = append(result.Orders, view)
	}

	s.logger.Debug().
		Int("count", len(result.Orders)).
		Int("total", result.TotalCount).
		Int("page", page).
		Msg("listed orders")

	return result, nil
}

// GetOrder retrieves one order, reading through the cache when one is configured.
func (s *orderService) GetOrder(ctx context.Context, id int64) (*OrderView, error) {
	if id <= 0 {
		return nil, model.ErrOrderNotFound
	}

	if s.cache != nil {
		rec, err := s.cache.Get(ctx, id)
		switch {
		case err == nil:
			s.logger.Debug().Int64("order_id", id).Msg("order served from cache")
			view := newOrderView(*rec)
			return &view, nil
		case !errors.Is(err, cache.ErrCacheMiss):
			s.logger.Warn().Err(err).Int64("order_id", id).Msg("order cache read failed")
		}
	}

	rec, err := s.orderRepo.SelectByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to get order")
		return nil, fmt.Errorf("%w: %w", model.ErrQueryFailed, err)
	}
	if rec == nil {
		s.logger.Debug().Int64("order_id", id).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, rec); err != nil {
			s.logger.Warn().Err(err).Int64("order_id", id).Msg("order cache write failed")
		}
	}

	view := newOrderView(*rec)
	return &view, nil
}
