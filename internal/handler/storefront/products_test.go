package storefront

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/jokads/JokaTech/internal/catalog"
	"github.com/jokads/JokaTech/internal/domain"
	"github.com/jokads/JokaTech/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductHandler_List(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		check      func(t *testing.T, spec catalog.FilterSpec)
	}{
		{
			name:       "all filters",
			query:      "?category=Placas+Gr%C3%A1ficas&brand=NVIDIA&max_price=1200&q=rtx&sort=price-asc",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, spec catalog.FilterSpec) {
				assert.Equal(t, "Placas Gráficas", spec.Category)
				assert.Equal(t, "NVIDIA", spec.Brand)
				assert.Equal(t, "rtx", spec.Search)
				assert.Equal(t, catalog.SortPriceAsc, spec.Sort)
				require.NotNil(t, spec.PriceMax)
				assert.True(t, spec.PriceMax.Equal(decimal.NewFromInt(1200)))
			},
		},
		{
			name:       "no max price leaves bound open",
			query:      "",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, spec catalog.FilterSpec) {
				assert.Nil(t, spec.PriceMax)
				assert.Equal(t, catalog.SortFeatured, spec.Sort)
			},
		},
		{name: "unknown sort", query: "?sort=cheapest", wantStatus: http.StatusBadRequest},
		{name: "bad max price", query: "?max_price=abc", wantStatus: http.StatusBadRequest},
		{name: "negative max price", query: "?max_price=-5", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got catalog.FilterSpec
			called := false
			products := &mockProductService{
				listFunc: func(ctx context.Context, spec catalog.FilterSpec) ([]domain.Product, error) {
					called = true
					got = spec
					return []domain.Product{{ID: uuid.New(), Name: "RTX 4070"}}, nil
				},
			}
			h := NewProductHandler(products, &mockReviewService{})

			rec := httptest.NewRecorder()
			h.List(rec, newRequest(http.MethodGet, "/api/products"+tt.query, ""))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.check == nil {
				assert.False(t, called)
				return
			}
			tt.check(t, got)
			assert.EqualValues(t, 1, decodeBody(t, rec)["count"])
		})
	}
}

func TestProductHandler_ListMaxPriceFieldError(t *testing.T) {
	h := NewProductHandler(&mockProductService{}, &mockReviewService{})

	rec := httptest.NewRecorder()
	h.List(rec, newRequest(http.MethodGet, "/api/products?max_price=lots", ""))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields, ok := errorOf(t, rec)["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, fields, "max_price")
}

func TestProductHandler_Get(t *testing.T) {
	id := uuid.New()
	products := &mockProductService{
		getFunc: func(ctx context.Context, got uuid.UUID) (*domain.ProductDetail, error) {
			if got != id {
				return nil, domain.ErrProductNotFound
			}
			return &domain.ProductDetail{Product: domain.Product{ID: id, Name: "Ryzen 7"}}, nil
		},
	}
	h := NewProductHandler(products, &mockReviewService{})

	tests := []struct {
		name       string
		id         string
		wantStatus int
	}{
		{"found", id.String(), http.StatusOK},
		{"unknown", uuid.New().String(), http.StatusNotFound},
		{"malformed", "not-a-uuid", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Get(rec, newRequest(http.MethodGet, "/api/products/"+tt.id, "", "id", tt.id))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestProductHandler_CategoriesAndBrands(t *testing.T) {
	products := &mockProductService{
		countsFunc: func(ctx context.Context) ([]catalog.CategoryCount, error) {
			return []catalog.CategoryCount{{Category: catalog.AllCategories, Count: 3}}, nil
		},
	}
	h := NewProductHandler(products, &mockReviewService{})

	rec := httptest.NewRecorder()
	h.Categories(rec, newRequest(http.MethodGet, "/api/categories", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	cats := decodeBody(t, rec)["categories"].([]interface{})
	require.Len(t, cats, 1)

	rec = httptest.NewRecorder()
	h.Brands(rec, newRequest(http.MethodGet, "/api/brands", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	brands := decodeBody(t, rec)["brands"].([]interface{})
	assert.Len(t, brands, len(catalog.Brands()))
}

func TestProductHandler_CreateReview(t *testing.T) {
	productID := uuid.New()
	var gotInput service.ReviewInput
	reviews := &mockReviewService{
		createFunc: func(ctx context.Context, id uuid.UUID, input service.ReviewInput) (*domain.Review, error) {
			if input.Rating < 1 || input.Rating > 5 {
				return nil, domain.NewValidationError("review.create", "rating", "must be between 1 and 5")
			}
			gotInput = input
			return &domain.Review{ID: uuid.New(), ProductID: id, AuthorName: input.AuthorName, Rating: input.Rating}, nil
		},
	}
	h := NewProductHandler(&mockProductService{}, reviews)

	rec := httptest.NewRecorder()
	h.CreateReview(rec, newRequest(http.MethodPost, "/", `{"author_name":"Ana","rating":5,"comment":"top"}`, "id", productID.String()))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Ana", gotInput.AuthorName)
	assert.Equal(t, productID.String(), decodeBody(t, rec)["product_id"])

	rec = httptest.NewRecorder()
	h.CreateReview(rec, newRequest(http.MethodPost, "/", `{"author_name":"Ana","rating":9}`, "id", productID.String()))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.CreateReview(rec, newRequest(http.MethodPost, "/", `{"rating":`, "id", productID.String()))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
