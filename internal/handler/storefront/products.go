package storefront

import (
	"net/http"
	"strings"

	"github.com/jokads/JokaTech/internal/catalog"
	"github.com/jokads/JokaTech/internal/domain"
	"github.com/jokads/JokaTech/internal/handler"
	"github.com/jokads/JokaTech/internal/service"
	"github.com/shopspring/decimal"
)

// ProductHandler serves the catalog, product detail and reviews.
type ProductHandler struct {
	products service.ProductService
	reviews  service.ReviewService
}

// NewProductHandler creates a new product handler
func NewProductHandler(products service.ProductService, reviews service.ReviewService) *ProductHandler {
	return &ProductHandler{
		products: products,
		reviews:  reviews,
	}
}

// parseFilter reads category, brand, max_price, q and sort. A missing
// max_price leaves the upper bound open.
func parseFilter(r *http.Request) (catalog.FilterSpec, error) {
	q := r.URL.Query()

	sort, err := catalog.ParseSortKey(q.Get("sort"))
	if err != nil {
		return catalog.FilterSpec{}, err
	}

	spec := catalog.FilterSpec{
		Category: strings.TrimSpace(q.Get("category")),
		Brand:    strings.TrimSpace(q.Get("brand")),
		Search:   q.Get("q"),
		Sort:     sort,
	}

	if raw := strings.TrimSpace(q.Get("max_price")); raw != "" {
		max, err := decimal.NewFromString(raw)
		if err != nil || max.IsNegative() {
			return catalog.FilterSpec{}, domain.NewValidationError("catalog.filter", "max_price", "must be a non-negative number")
		}
		spec.PriceMax = &max
	}
	return spec, nil
}

// List handles GET /api/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	spec, err := parseFilter(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	products, err := h.products.List(r.Context(), spec)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, map[string]interface{}{
		"products": products,
		"count":    len(products),
	})
}

// Get handles GET /api/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	detail, err := h.products.Get(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, detail)
}

// Categories handles GET /api/categories
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	counts, err := h.products.CategoryCounts(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, map[string]interface{}{"categories": counts})
}

// Brands handles GET /api/brands
func (h *ProductHandler) Brands(w http.ResponseWriter, r *http.Request) {
	handler.JSON(w, http.StatusOK, map[string]interface{}{"brands": catalog.Brands()})
}

// CreateReview handles POST /api/products/{id}/reviews
func (h *ProductHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var input service.ReviewInput
	if err := handler.Decode(r, &input); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	review, err := h.reviews.Create(r.Context(), id, input)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusCreated, review)
}

// ListReviews handles GET /api/products/{id}/reviews
func (h *ProductHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	reviews, err := h.reviews.List(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, map[string]interface{}{"reviews": reviews})
}
