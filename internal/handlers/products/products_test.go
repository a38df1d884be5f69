package products

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/ecoprint/b2b-manager/internal/domain"
	"github.com/ecoprint/b2b-manager/internal/query"
)

func NewMock(t *testing.T) (*chi.Mux, *MockService) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockService := NewMockService(ctrl)
	handler := New(mockService)

	router := chi.NewRouter()
	router.Get("/products", handler.ListProducts)
	router.Get("/products/{id}", handler.GetProduct)
	return router, mockService
}

func sampleProduct() domain.Product {
	return domain.Product{
		ID:          "product-1",
		Name:        "Business cards",
		SKU:         "BC-250",
		Description: "250 matte business cards",
		Price:       decimal.NewFromInt(10),
		Stock:       120,
	}
}

func TestListProducts(t *testing.T) {
	router, mockService := NewMock(t)

	tests := []struct {
		name           string
		url            string
		mockSetup      func()
		expectedStatus int
		checkBody      func(t *testing.T, body []byte)
	}{
		{
			name: "Successful Listing",
			url:  "/products",
			mockSetup: func() {
				mockService.EXPECT().
					List(gomock.Any(), query.Filter{}).
					Return([]domain.Product{sampleProduct()}, 1, nil)
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body []byte) {
				var resp struct {
					Data struct {
						Products []struct {
							ID    string  `json:"id"`
							Name  string  `json:"name"`
							Price float64 `json:"price"`
						} `json:"products"`
						Pagination struct {
							Total int `json:"total"`
							Limit int `json:"limit"`
						} `json:"pagination"`
					} `json:"data"`
				}
				assert.NoError(t, json.Unmarshal(body, &resp))
				assert.Len(t, resp.Data.Products, 1)
				assert.Equal(t, "product-1", resp.Data.Products[0].ID)
				assert.Equal(t, 10.0, resp.Data.Products[0].Price)
				assert.Equal(t, 1, resp.Data.Pagination.Total)
				assert.Equal(t, query.DefaultLimit, resp.Data.Pagination.Limit)
			},
		},
		{
			name: "Filters Forwarded",
			url:  "/products?searchTerm=paper&sortBy=price&sortOrder=asc&limit=5&offset=10",
			mockSetup: func() {
				mockService.EXPECT().
					List(gomock.Any(), query.Filter{
						SearchTerm: "paper",
						SortBy:     "price",
						SortOrder:  "asc",
						Limit:      5,
						Offset:     10,
					}).
					Return([]domain.Product{}, 0, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Non-Integer Limit",
			url:            "/products?limit=lots",
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Non-Integer Offset",
			url:            "/products?offset=ten",
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Invalid Filter",
			url:  "/products?sortBy=stock",
			mockSetup: func() {
				verr := domain.NewValidationError()
				verr.Add("sortBy", "unsupported sort field")
				mockService.EXPECT().
					List(gomock.Any(), query.Filter{SortBy: "stock"}).
					Return(nil, 0, verr)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Repository Error",
			url:  "/products",
			mockSetup: func() {
				mockService.EXPECT().
					List(gomock.Any(), query.Filter{}).
					Return(nil, 0, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.checkBody != nil {
				tt.checkBody(t, rec.Body.Bytes())
			}
		})
	}
}

func TestGetProduct(t *testing.T) {
	router, mockService := NewMock(t)

	tests := []struct {
		name           string
		mockSetup      func()
		expectedStatus int
	}{
		{
			name: "Successful Get",
			mockSetup: func() {
				product := sampleProduct()
				mockService.EXPECT().Get(gomock.Any(), "product-1").Return(&product, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Product Not Found",
			mockSetup: func() {
				mockService.EXPECT().Get(gomock.Any(), "product-1").Return(nil, domain.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "Repository Error",
			mockSetup: func() {
				mockService.EXPECT().Get(gomock.Any(), "product-1").Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			req := httptest.NewRequest(http.MethodGet, "/products/product-1", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}
