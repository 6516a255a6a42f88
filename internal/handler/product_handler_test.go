package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"sales-order-booking/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductService is a mock implementation of ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) Search(ctx context.Context, query string, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, query, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Import(ctx context.Context, products []model.Product) (int, error) {
	args := m.Called(ctx, products)
	return args.Int(0), args.Error(1)
}

var testRice = model.Product{
	ID:        "0-Basmati-Rice",
	Name:      "Basmati Rice",
	PackPrice: decimal.NewNullDecimal(decimal.NewFromInt(120)),
	CasePrice: decimal.NewNullDecimal(decimal.NewFromInt(1380)),
	PackSize:  "5kg",
	Packing:   "12 x 5kg",
}

func TestProductHandler_Search(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		queryParams    string
		mockReturn     []model.Product
		mockError      error
		expectedStatus int
		expectService  bool
		query          string
		limit          int
		offset         int
	}{
		{
			name:           "Success with default pagination",
			mockReturn:     []model.Product{testRice},
			expectedStatus: http.StatusOK,
			expectService:  true,
			limit:          10,
		},
		{
			name:           "Success with search and pagination",
			queryParams:    "?q=rice&limit=5&offset=10",
			mockReturn:     []model.Product{testRice},
			expectedStatus: http.StatusOK,
			expectService:  true,
			query:          "rice",
			limit:          5,
			offset:         10,
		},
		{
			name:           "Invalid limit parameter",
			queryParams:    "?limit=abc",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid offset parameter",
			queryParams:    "?offset=xyz",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Service error",
			mockError:      errors.New("service error"),
			expectedStatus: http.StatusInternalServerError,
			expectService:  true,
			limit:          10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			h := NewProductHandler(mockService, logger)

			if tt.expectService {
				mockService.On("Search", mock.Anything, tt.query, tt.limit, tt.offset).
					Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/products"+tt.queryParams, nil)
			rec := httptest.NewRecorder()

			h.Search(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				var products []model.Product
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
				require.Len(t, products, 1)
				assert.Equal(t, "Basmati Rice", products[0].Name)
				assert.True(t, products[0].PackPrice.Decimal.Equal(decimal.NewFromInt(120)))
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestProductHandler_GetByID(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		productID      string
		mockReturn     *model.Product
		mockError      error
		expectedStatus int
	}{
		{name: "Success", productID: testRice.ID, mockReturn: &testRice, expectedStatus: http.StatusOK},
		{name: "Not found", productID: "missing", mockError: model.ErrProductNotFound, expectedStatus: http.StatusNotFound},
		{name: "Service error", productID: testRice.ID, mockError: errors.New("db down"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			h := NewProductHandler(mockService, logger)
			mockService.On("GetByID", mock.Anything, tt.productID).Return(tt.mockReturn, tt.mockError)

			req := httptest.NewRequest(http.MethodGet, "/api/products/"+tt.productID, nil)
			req = withURLParams(req, map[string]string{"productID": tt.productID})
			rec := httptest.NewRecorder()

			h.GetByID(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}
