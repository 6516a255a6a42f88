package service

import (
	"context"
	"fmt"
	"strings"

	"sales-order-booking/internal/model"
	"sales-order-booking/internal/repository"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// Search retrieves products by name with pagination.
func (s *productService) Search(ctx context.Context, query string, limit, offset int) ([]model.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	query = strings.TrimSpace(query)

	products, err := s.productRepo.Search(ctx, query, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Str("query", query).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to search products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Str("query", query).
		Int("limit", limit).
		Int("offset", offset).
		Msg("retrieved products")

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		s.logger.Warn().Msg("product ID is empty")
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Import validates every product before storing any of them.
func (s *productService) Import(ctx context.Context, products []model.Product) (int, error) {
	seen := make(map[string]struct{}, len(products))
	for i, p := range products {
		if err := validateProduct(p); err != nil {
			s.logger.Warn().Err(err).Int("index", i).Str("product_id", p.ID).Msg("invalid product")
			return 0, fmt.Errorf("product %d: %w", i, err)
		}
		if _, dup := seen[p.ID]; dup {
			return 0, fmt.Errorf("product %d: %w", i, &model.ValidationError{
				Fields: []string{"id"},
				Reason: fmt.Sprintf("duplicate product id %q", p.ID),
			})
		}
		seen[p.ID] = struct{}{}
	}

	if len(products) == 0 {
		return 0, nil
	}

	if err := s.productRepo.Upsert(ctx, products); err != nil {
		s.logger.Error().Err(err).Int("count", len(products)).Msg("failed to import products")
		return 0, fmt.Errorf("failed to import products: %w", err)
	}

	s.logger.Info().Int("count", len(products)).Msg("products imported")
	return len(products), nil
}

func validateProduct(p model.Product) error {
	var fields []string
	if strings.TrimSpace(p.ID) == "" {
		fields = append(fields, "id")
	}
	if strings.TrimSpace(p.Name) == "" {
		fields = append(fields, "name")
	}
	if len(fields) > 0 {
		return &model.ValidationError{Fields: fields, Reason: "product is incomplete"}
	}
	if p.PackPrice.Valid && p.PackPrice.Decimal.IsNegative() {
		return model.ErrInvalidPrice
	}
	if p.CasePrice.Valid && p.CasePrice.Decimal.IsNegative() {
		return model.ErrInvalidPrice
	}
	return nil
}
