package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jokads/JokaTech/internal/catalog"
	"github.com/jokads/JokaTech/internal/domain"
	"github.com/jokads/JokaTech/internal/pricing"
	"github.com/jokads/JokaTech/internal/repository"
	"github.com/jokads/JokaTech/internal/storage"
	"github.com/jokads/JokaTech/internal/telemetry"
	"github.com/shopspring/decimal"
)

// ProductCatalog is the cached, full product list.
type ProductCatalog interface {
	All(ctx context.Context) ([]domain.Product, error)
	Invalidate(ctx context.Context)
}

// ProductService covers storefront browsing and admin product management.
type ProductService interface {
	// List filters and sorts the cached catalog.
	List(ctx context.Context, spec catalog.FilterSpec) ([]domain.Product, error)

	// Get returns one product with its reviews, newest first.
	Get(ctx context.Context, id uuid.UUID) (*domain.ProductDetail, error)

	CategoryCounts(ctx context.Context) ([]catalog.CategoryCount, error)

	// Components groups the catalog by custom PC slot.
	Components(ctx context.Context) (map[domain.Slot][]domain.Product, error)

	Create(ctx context.Context, input domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, input domain.ProductInput) (*domain.Product, error)

	// ApplyDiscount reduces the stored price by percent once. Each call
	// compounds on the current price.
	ApplyDiscount(ctx context.Context, id uuid.UUID, percent decimal.Decimal) (*DiscountResult, error)

	// Delete requires confirm=true.
	Delete(ctx context.Context, id uuid.UUID, confirm bool) error

	UploadImage(ctx context.Context, id uuid.UUID, contentType string, content io.Reader) (*domain.Product, error)
}

// DiscountResult reports the price before and after a discount.
type DiscountResult struct {
	Product       domain.Product  `json:"product"`
	PreviousPrice decimal.Decimal `json:"previous_price"`
	Percent       decimal.Decimal `json:"percent"`
}

type productService struct {
	repo    repository.Querier
	catalog ProductCatalog
	storage storage.Storage
	metrics *telemetry.BusinessMetrics
	logger  *slog.Logger
}

// NewProductService creates a ProductService. storage may be nil, in
// which case image uploads fail with EINTERNAL.
func NewProductService(repo repository.Querier, cat ProductCatalog, store storage.Storage, metrics *telemetry.BusinessMetrics, logger *slog.Logger) ProductService {
	return &productService{
		repo:    repo,
		catalog: cat,
		storage: store,
		metrics: metrics,
		logger:  logger,
	}
}

// LoadProducts reads the full catalog from the database. It backs the
// product cache.
func LoadProducts(repo repository.Querier) func(ctx context.Context) ([]domain.Product, error) {
	return func(ctx context.Context) ([]domain.Product, error) {
		rows, err := repo.ListProducts(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list products: %w", err)
		}
		return productsFromRows(rows)
	}
}

func (s *productService) List(ctx context.Context, spec catalog.FilterSpec) ([]domain.Product, error) {
	products, err := s.catalog.All(ctx)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordSearch(searchKind(spec))
	return catalog.Filter(products, spec), nil
}

// searchKind labels a listing query for metrics by its most specific
// criterion.
func searchKind(spec catalog.FilterSpec) string {
	switch {
	case spec.Search != "":
		return "search"
	case !catalog.IsAllCategories(spec.Category):
		return "category"
	case !catalog.IsAllBrands(spec.Brand):
		return "brand"
	default:
		return "browse"
	}
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*domain.ProductDetail, error) {
	row, err := s.repo.GetProduct(ctx, repository.UUID(id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	product, err := productFromRow(row)
	if err != nil {
		return nil, err
	}

	reviewRows, err := s.repo.ListReviewsByProduct(ctx, row.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	reviews := make([]domain.Review, 0, len(reviewRows))
	for _, r := range reviewRows {
		reviews = append(reviews, reviewFromRow(r))
	}

	return &domain.ProductDetail{Product: product, Reviews: reviews}, nil
}

func (s *productService) CategoryCounts(ctx context.Context) ([]catalog.CategoryCount, error) {
	products, err := s.catalog.All(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.CategoryCounts(products), nil
}

func (s *productService) Components(ctx context.Context) (map[domain.Slot][]domain.Product, error) {
	products, err := s.catalog.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[domain.Slot][]domain.Product, len(domain.Slots))
	for _, slot := range domain.Slots {
		out[slot] = catalog.Filter(products, catalog.FilterSpec{
			Category: domain.SlotCategory[slot],
			Sort:     catalog.SortPriceAsc,
		})
	}
	return out, nil
}

func validateProductInput(op string, input domain.ProductInput) error {
	err := validateStruct(op, input)
	if err != nil && !domain.IsValidationError(err) {
		return err
	}
	if input.Price.IsNegative() {
		if err == nil {
			return domain.NewValidationError(op, "price", domain.ErrInvalidPrice.Message)
		}
		err = domain.AddFieldError(err, "price", domain.ErrInvalidPrice.Message)
	}
	return err
}

func encodeSpecs(specs map[string]string) ([]byte, error) {
	if specs == nil {
		specs = map[string]string{}
	}
	return json.Marshal(specs)
}

func (s *productService) Create(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	const op = "product.create"
	if err := validateProductInput(op, input); err != nil {
		return nil, err
	}
	specs, err := encodeSpecs(input.Specifications)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to encode specifications")
	}

	row, err := s.repo.CreateProduct(ctx, repository.CreateProductParams{
		Name:           input.Name,
		Description:    input.Description,
		Price:          repository.Numeric(input.Price),
		Category:       input.Category,
		Brand:          input.Brand,
		Stock:          int32(input.Stock),
		ImageUrl:       input.ImageURL,
		Specifications: specs,
		Featured:       input.Featured,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.catalog.Invalidate(ctx)
	return s.fromRow(row)
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, input domain.ProductInput) (*domain.Product, error) {
	const op = "product.update"
	if err := validateProductInput(op, input); err != nil {
		return nil, err
	}
	specs, err := encodeSpecs(input.Specifications)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to encode specifications")
	}

	row, err := s.repo.UpdateProduct(ctx, repository.UpdateProductParams{
		ID:             repository.UUID(id),
		Name:           input.Name,
		Description:    input.Description,
		Price:          repository.Numeric(input.Price),
		Category:       input.Category,
		Brand:          input.Brand,
		Stock:          int32(input.Stock),
		ImageUrl:       input.ImageURL,
		Specifications: specs,
		Featured:       input.Featured,
	})
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.catalog.Invalidate(ctx)
	return s.fromRow(row)
}

func (s *productService) ApplyDiscount(ctx context.Context, id uuid.UUID, percent decimal.Decimal) (*DiscountResult, error) {
	current, err := s.repo.GetProduct(ctx, repository.UUID(id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	previous := repository.Decimal(current.Price)
	discounted, err := pricing.ApplyDiscount(previous, percent)
	if err != nil {
		return nil, err
	}
	// The column is NUMERIC(12,2); round here so the response matches
	// what is stored.
	discounted = discounted.Round(2)

	row, err := s.repo.UpdateProductPrice(ctx, repository.UpdateProductPriceParams{
		ID:    current.ID,
		Price: repository.Numeric(discounted),
	})
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update price: %w", err)
	}

	s.catalog.Invalidate(ctx)
	product, err := s.fromRow(row)
	if err != nil {
		return nil, err
	}

	s.logger.Info("product discount applied",
		"product_id", id,
		"percent", percent.String(),
		"previous_price", pricing.Display(previous),
		"price", pricing.Display(product.Price),
	)
	return &DiscountResult{Product: *product, PreviousPrice: previous, Percent: percent}, nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID, confirm bool) error {
	if !confirm {
		return domain.ErrConfirmationRequired
	}

	n, err := s.repo.DeleteProduct(ctx, repository.UUID(id))
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if n == 0 {
		return domain.ErrProductNotFound
	}

	s.catalog.Invalidate(ctx)
	s.logger.Info("product deleted", "product_id", id)
	return nil
}

func (s *productService) UploadImage(ctx context.Context, id uuid.UUID, contentType string, content io.Reader) (*domain.Product, error) {
	if s.storage == nil {
		return nil, domain.Errorf(domain.EINTERNAL, "product.upload_image", "image storage is not configured")
	}

	key, err := storage.ProductImageKey(id, contentType)
	if err != nil {
		return nil, ErrInvalidImage
	}

	if _, err := s.repo.GetProduct(ctx, repository.UUID(id)); err != nil {
		if isNoRows(err) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	url, err := s.storage.Put(ctx, key, content, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	row, err := s.repo.UpdateProductImage(ctx, repository.UpdateProductImageParams{
		ID:       repository.UUID(id),
		ImageUrl: url,
	})
	if err != nil {
		// Don't leave an orphaned object behind.
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.logger.Warn("failed to remove orphaned image", "key", key, "error", delErr)
		}
		if isNoRows(err) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product image: %w", err)
	}

	s.catalog.Invalidate(ctx)
	return s.fromRow(row)
}

func (s *productService) fromRow(row repository.Product) (*domain.Product, error) {
	p, err := productFromRow(row)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
