package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jokads/JokaTech/internal/domain"
	"github.com/jokads/JokaTech/internal/repository"
	"github.com/shopspring/decimal"
)

var errNotImplemented = errors.New("not implemented")

// mockQuerier implements repository.Querier for testing. Unset lookups
// return pgx.ErrNoRows; unset writes return errNotImplemented.
type mockQuerier struct {
	ListProductsFunc         func(ctx context.Context) ([]repository.Product, error)
	GetProductFunc           func(ctx context.Context, id pgtype.UUID) (repository.Product, error)
	GetProductsByIDsFunc     func(ctx context.Context, ids []pgtype.UUID) ([]repository.Product, error)
	CreateProductFunc        func(ctx context.Context, arg repository.CreateProductParams) (repository.Product, error)
	UpdateProductFunc        func(ctx context.Context, arg repository.UpdateProductParams) (repository.Product, error)
	UpdateProductPriceFunc   func(ctx context.Context, arg repository.UpdateProductPriceParams) (repository.Product, error)
	UpdateProductImageFunc   func(ctx context.Context, arg repository.UpdateProductImageParams) (repository.Product, error)
	DeleteProductFunc        func(ctx context.Context, id pgtype.UUID) (int64, error)
	CountProductsFunc        func(ctx context.Context) (int64, error)
	RefreshProductRatingFunc func(ctx context.Context, productID pgtype.UUID) error

	CreateReviewFunc         func(ctx context.Context, arg repository.CreateReviewParams) (repository.Review, error)
	ListReviewsByProductFunc func(ctx context.Context, productID pgtype.UUID) ([]repository.Review, error)

	CreateOrderIfAbsentFunc   func(ctx context.Context, arg repository.CreateOrderParams) (repository.Order, error)
	GetOrderFunc              func(ctx context.Context, id pgtype.UUID) (repository.Order, error)
	GetOrderBySessionIDFunc   func(ctx context.Context, stripeSessionID string) (repository.Order, error)
	ListOrdersFunc            func(ctx context.Context, status pgtype.Text) ([]repository.Order, error)
	UpdateOrderStatusFunc     func(ctx context.Context, arg repository.UpdateOrderStatusParams) (repository.Order, error)
	SetOrderPaymentStatusFunc func(ctx context.Context, arg repository.SetOrderPaymentStatusParams) (int64, error)
	GetOrderStatsFunc         func(ctx context.Context) (repository.GetOrderStatsRow, error)
	ListCustomerSummariesFunc func(ctx context.Context) ([]repository.ListCustomerSummariesRow, error)

	CreateCustomPCRequestFunc     func(ctx context.Context, arg repository.CreateCustomPCRequestParams) (repository.CustomPcRequest, error)
	GetCustomPCRequestFunc        func(ctx context.Context, id pgtype.UUID) (repository.CustomPcRequest, error)
	ListCustomPCRequestsFunc      func(ctx context.Context, status pgtype.Text) ([]repository.CustomPcRequest, error)
	TransitionCustomPCRequestFunc func(ctx context.Context, arg repository.TransitionCustomPCRequestParams) (repository.CustomPcRequest, error)
	UpdateCustomPCNotesFunc       func(ctx context.Context, arg repository.UpdateCustomPCNotesParams) (repository.CustomPcRequest, error)

	GetCustomerLevelFunc    func(ctx context.Context, customerEmail string) (repository.CustomerLevel, error)
	ListCustomerLevelsFunc  func(ctx context.Context) ([]repository.CustomerLevel, error)
	UpsertCustomerLevelFunc func(ctx context.Context, arg repository.UpsertCustomerLevelParams) (repository.CustomerLevel, error)

	CreateSellerFunc  func(ctx context.Context, arg repository.CreateSellerParams) (repository.Seller, error)
	ListSellersFunc   func(ctx context.Context) ([]repository.Seller, error)
	ApproveSellerFunc func(ctx context.Context, arg repository.ApproveSellerParams) (repository.Seller, error)
	DeleteSellerFunc  func(ctx context.Context, id pgtype.UUID) (int64, error)

	GetAdminByEmailFunc func(ctx context.Context, email string) (repository.AdminUser, error)
	CreateAdminUserFunc func(ctx context.Context, arg repository.CreateAdminUserParams) (repository.AdminUser, error)
}

var _ repository.Querier = (*mockQuerier)(nil)

func (m *mockQuerier) ListProducts(ctx context.Context) ([]repository.Product, error) {
	if m.ListProductsFunc != nil {
		return m.ListProductsFunc(ctx)
	}
	return nil, nil
}

func (m *mockQuerier) GetProduct(ctx context.Context, id pgtype.UUID) (repository.Product, error) {
	if m.GetProductFunc != nil {
		return m.GetProductFunc(ctx, id)
	}
	return repository.Product{}, pgx.ErrNoRows
}

func (m *mockQuerier) GetProductsByIDs(ctx context.Context, ids []pgtype.UUID) ([]repository.Product, error) {
	if m.GetProductsByIDsFunc != nil {
		return m.GetProductsByIDsFunc(ctx, ids)
	}
	return nil, nil
}

func (m *mockQuerier) CreateProduct(ctx context.Context, arg repository.CreateProductParams) (repository.Product, error) {
	if m.CreateProductFunc != nil {
		return m.CreateProductFunc(ctx, arg)
	}
	return repository.Product{}, errNotImplemented
}

func (m *mockQuerier) UpdateProduct(ctx context.Context, arg repository.UpdateProductParams) (repository.Product, error) {
	if m.UpdateProductFunc != nil {
		return m.UpdateProductFunc(ctx, arg)
	}
	return repository.Product{}, errNotImplemented
}

func (m *mockQuerier) UpdateProductPrice(ctx context.Context, arg repository.UpdateProductPriceParams) (repository.Product, error) {
	if m.UpdateProductPriceFunc != nil {
		return m.UpdateProductPriceFunc(ctx, arg)
	}
	return repository.Product{}, errNotImplemented
}

func (m *mockQuerier) UpdateProductImage(ctx context.Context, arg repository.UpdateProductImageParams) (repository.Product, error) {
	if m.UpdateProductImageFunc != nil {
		return m.UpdateProductImageFunc(ctx, arg)
	}
	return repository.Product{}, errNotImplemented
}

func (m *mockQuerier) DeleteProduct(ctx context.Context, id pgtype.UUID) (int64, error) {
	if m.DeleteProductFunc != nil {
		return m.DeleteProductFunc(ctx, id)
	}
	return 0, nil
}

func (m *mockQuerier) CountProducts(ctx context.Context) (int64, error) {
	if m.CountProductsFunc != nil {
		return m.CountProductsFunc(ctx)
	}
	return 0, nil
}

func (m *mockQuerier) RefreshProductRating(ctx context.Context, productID pgtype.UUID) error {
	if m.RefreshProductRatingFunc != nil {
		return m.RefreshProductRatingFunc(ctx, productID)
	}
	return nil
}

func (m *mockQuerier) CreateReview(ctx context.Context, arg repository.CreateReviewParams) (repository.Review, error) {
	if m.CreateReviewFunc != nil {
		return m.CreateReviewFunc(ctx, arg)
	}
	return repository.Review{}, errNotImplemented
}

func (m *mockQuerier) ListReviewsByProduct(ctx context.Context, productID pgtype.UUID) ([]repository.Review, error) {
	if m.ListReviewsByProductFunc != nil {
		return m.ListReviewsByProductFunc(ctx, productID)
	}
	return nil, nil
}

func (m *mockQuerier) CreateOrderIfAbsent(ctx context.Context, arg repository.CreateOrderParams) (repository.Order, error) {
	if m.CreateOrderIfAbsentFunc != nil {
		return m.CreateOrderIfAbsentFunc(ctx, arg)
	}
	return repository.Order{}, errNotImplemented
}

func (m *mockQuerier) GetOrder(ctx context.Context, id pgtype.UUID) (repository.Order, error) {
	if m.GetOrderFunc != nil {
		return m.GetOrderFunc(ctx, id)
	}
	return repository.Order{}, pgx.ErrNoRows
}

func (m *mockQuerier) GetOrderBySessionID(ctx context.Context, stripeSessionID string) (repository.Order, error) {
	if m.GetOrderBySessionIDFunc != nil {
		return m.GetOrderBySessionIDFunc(ctx, stripeSessionID)
	}
	return repository.Order{}, pgx.ErrNoRows
}

func (m *mockQuerier) ListOrders(ctx context.Context, status pgtype.Text) ([]repository.Order, error) {
	if m.ListOrdersFunc != nil {
		return m.ListOrdersFunc(ctx, status)
	}
	return nil, nil
}

func (m *mockQuerier) UpdateOrderStatus(ctx context.Context, arg repository.UpdateOrderStatusParams) (repository.Order, error) {
	if m.UpdateOrderStatusFunc != nil {
		return m.UpdateOrderStatusFunc(ctx, arg)
	}
	return repository.Order{}, errNotImplemented
}

func (m *mockQuerier) SetOrderPaymentStatus(ctx context.Context, arg repository.SetOrderPaymentStatusParams) (int64, error) {
	if m.SetOrderPaymentStatusFunc != nil {
		return m.SetOrderPaymentStatusFunc(ctx, arg)
	}
	return 0, nil
}

func (m *mockQuerier) GetOrderStats(ctx context.Context) (repository.GetOrderStatsRow, error) {
	if m.GetOrderStatsFunc != nil {
		return m.GetOrderStatsFunc(ctx)
	}
	return repository.GetOrderStatsRow{}, nil
}

func (m *mockQuerier) ListCustomerSummaries(ctx context.Context) ([]repository.ListCustomerSummariesRow, error) {
	if m.ListCustomerSummariesFunc != nil {
		return m.ListCustomerSummariesFunc(ctx)
	}
	return nil, nil
}

func (m *mockQuerier) CreateCustomPCRequest(ctx context.Context, arg repository.CreateCustomPCRequestParams) (repository.CustomPcRequest, error) {
	if m.CreateCustomPCRequestFunc != nil {
		return m.CreateCustomPCRequestFunc(ctx, arg)
	}
	return repository.CustomPcRequest{}, errNotImplemented
}

func (m *mockQuerier) GetCustomPCRequest(ctx context.Context, id pgtype.UUID) (repository.CustomPcRequest, error) {
	if m.GetCustomPCRequestFunc != nil {
		return m.GetCustomPCRequestFunc(ctx, id)
	}
	return repository.CustomPcRequest{}, pgx.ErrNoRows
}

func (m *mockQuerier) ListCustomPCRequests(ctx context.Context, status pgtype.Text) ([]repository.CustomPcRequest, error) {
	if m.ListCustomPCRequestsFunc != nil {
		return m.ListCustomPCRequestsFunc(ctx, status)
	}
	return nil, nil
}

func (m *mockQuerier) TransitionCustomPCRequest(ctx context.Context, arg repository.TransitionCustomPCRequestParams) (repository.CustomPcRequest, error) {
	if m.TransitionCustomPCRequestFunc != nil {
		return m.TransitionCustomPCRequestFunc(ctx, arg)
	}
	return repository.CustomPcRequest{}, errNotImplemented
}

func (m *mockQuerier) UpdateCustomPCNotes(ctx context.Context, arg repository.UpdateCustomPCNotesParams) (repository.CustomPcRequest, error) {
	if m.UpdateCustomPCNotesFunc != nil {
		return m.UpdateCustomPCNotesFunc(ctx, arg)
	}
	return repository.CustomPcRequest{}, errNotImplemented
}

func (m *mockQuerier) GetCustomerLevel(ctx context.Context, customerEmail string) (repository.CustomerLevel, error) {
	if m.GetCustomerLevelFunc != nil {
		return m.GetCustomerLevelFunc(ctx, customerEmail)
	}
	return repository.CustomerLevel{}, pgx.ErrNoRows
}

func (m *mockQuerier) ListCustomerLevels(ctx context.Context) ([]repository.CustomerLevel, error) {
	if m.ListCustomerLevelsFunc != nil {
		return m.ListCustomerLevelsFunc(ctx)
	}
	return nil, nil
}

func (m *mockQuerier) UpsertCustomerLevel(ctx context.Context, arg repository.UpsertCustomerLevelParams) (repository.CustomerLevel, error) {
	if m.UpsertCustomerLevelFunc != nil {
		return m.UpsertCustomerLevelFunc(ctx, arg)
	}
	return levelRowFromParams(arg), nil
}

func (m *mockQuerier) CreateSeller(ctx context.Context, arg repository.CreateSellerParams) (repository.Seller, error) {
	if m.CreateSellerFunc != nil {
		return m.CreateSellerFunc(ctx, arg)
	}
	return repository.Seller{}, errNotImplemented
}

func (m *mockQuerier) ListSellers(ctx context.Context) ([]repository.Seller, error) {
	if m.ListSellersFunc != nil {
		return m.ListSellersFunc(ctx)
	}
	return nil, nil
}

func (m *mockQuerier) ApproveSeller(ctx context.Context, arg repository.ApproveSellerParams) (repository.Seller, error) {
	if m.ApproveSellerFunc != nil {
		return m.ApproveSellerFunc(ctx, arg)
	}
	return repository.Seller{}, pgx.ErrNoRows
}

func (m *mockQuerier) DeleteSeller(ctx context.Context, id pgtype.UUID) (int64, error) {
	if m.DeleteSellerFunc != nil {
		return m.DeleteSellerFunc(ctx, id)
	}
	return 0, nil
}

func (m *mockQuerier) GetAdminByEmail(ctx context.Context, email string) (repository.AdminUser, error) {
	if m.GetAdminByEmailFunc != nil {
		return m.GetAdminByEmailFunc(ctx, email)
	}
	return repository.AdminUser{}, pgx.ErrNoRows
}

func (m *mockQuerier) CreateAdminUser(ctx context.Context, arg repository.CreateAdminUserParams) (repository.AdminUser, error) {
	if m.CreateAdminUserFunc != nil {
		return m.CreateAdminUserFunc(ctx, arg)
	}
	return repository.AdminUser{}, errNotImplemented
}

// Test helpers

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ts(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func makeProductRow(id uuid.UUID, name, category, price string, stock int32) repository.Product {
	now := time.Now()
	return repository.Product{
		ID:             repository.UUID(id),
		Name:           name,
		Price:          repository.Numeric(decimal.RequireFromString(price)),
		Category:       category,
		Brand:          "AMD",
		Stock:          stock,
		Specifications: []byte(`{}`),
		CreatedAt:      ts(now),
		UpdatedAt:      ts(now),
	}
}

func makeProduct(id uuid.UUID, name, price string, stock int) domain.Product {
	return domain.Product{
		ID:       id,
		Name:     name,
		Category: "GPU",
		Brand:    "NVIDIA",
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
	}
}

func levelRowFromParams(arg repository.UpsertCustomerLevelParams) repository.CustomerLevel {
	now := time.Now()
	return repository.CustomerLevel{
		CustomerEmail:      arg.CustomerEmail,
		Level:              arg.Level,
		CurrentXp:          arg.CurrentXp,
		XpToNextLevel:      arg.XpToNextLevel,
		TotalPurchases:     arg.TotalPurchases,
		TotalSpent:         arg.TotalSpent,
		PositiveReviews:    arg.PositiveReviews,
		DiscountPercentage: arg.DiscountPercentage,
		CreatedAt:          ts(now),
		UpdatedAt:          ts(now),
	}
}

// fakeCatalog is an in-memory ProductCatalog.
type fakeCatalog struct {
	products    []domain.Product
	invalidated int
}

func (f *fakeCatalog) All(ctx context.Context) ([]domain.Product, error) {
	return f.products, nil
}

func (f *fakeCatalog) Invalidate(ctx context.Context) {
	f.invalidated++
}
