package admin

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/jokads/JokaTech/internal/domain"
	"github.com/jokads/JokaTech/internal/handler"
	"github.com/jokads/JokaTech/internal/middleware"
	"github.com/jokads/JokaTech/internal/service"
	"github.com/shopspring/decimal"
)

const maxImageSize = 5 << 20

// ProductHandler handles catalog management.
type ProductHandler struct {
	products service.ProductService
	logger   *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(products service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		logger:   logger,
	}
}

// Create handles POST /admin/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.ProductInput
	if err := handler.Decode(r, &input); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	product, err := h.products.Create(r.Context(), input)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusCreated, product)
}

// Update handles PUT /admin/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var input domain.ProductInput
	if err := handler.Decode(r, &input); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	product, err := h.products.Update(r.Context(), id, input)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, product)
}

type discountRequest struct {
	Percent decimal.Decimal `json:"percent"`
}

// Discount handles POST /admin/products/{id}/discount
func (h *ProductHandler) Discount(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req discountRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	result, err := h.products.ApplyDiscount(r.Context(), id, req.Percent)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	middleware.GetLogger(r.Context(), h.logger).Info("discount applied",
		"product_id", id,
		"percent", req.Percent.String(),
		"previous_price", result.PreviousPrice.String(),
		"price", result.Product.Price.String(),
	)
	handler.JSON(w, http.StatusOK, result)
}

// Delete handles DELETE /admin/products/{id}?confirm=true
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	confirm := r.URL.Query().Get("confirm") == "true"
	if err := h.products.Delete(r.Context(), id, confirm); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage handles POST /admin/products/{id}/image as multipart with
// an "image" file part.
func (h *ProductHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize+(1<<20))
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		handler.ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "product.image", "Invalid form data"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		handler.ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "product.image", "No image file provided"))
		return
	}
	defer file.Close()

	if header.Size > maxImageSize {
		handler.ErrorResponse(w, r, domain.Errorf(domain.ETOOLARGE, "product.image", "Image must be smaller than 5MB"))
		return
	}

	sniff := make([]byte, 512)
	n, _ := file.Read(sniff)
	contentType := http.DetectContentType(sniff[:n])
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		handler.InternalErrorResponse(w, r, err)
		return
	}

	product, err := h.products.UploadImage(r.Context(), id, contentType, file)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, product)
}
