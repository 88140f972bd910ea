package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

type Querier interface {
	// Products
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id pgtype.UUID) (Product, error)
	GetProductsByIDs(ctx context.Context, ids []pgtype.UUID) ([]Product, error)
	CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error)
	UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error)
	UpdateProductPrice(ctx context.Context, arg UpdateProductPriceParams) (Product, error)
	UpdateProductImage(ctx context.Context, arg UpdateProductImageParams) (Product, error)
	DeleteProduct(ctx context.Context, id pgtype.UUID) (int64, error)
	CountProducts(ctx context.Context) (int64, error)
	RefreshProductRating(ctx context.Context, productID pgtype.UUID) error

	// Reviews
	CreateReview(ctx context.Context, arg CreateReviewParams) (Review, error)
	ListReviewsByProduct(ctx context.Context, productID pgtype.UUID) ([]Review, error)

	// Orders
	CreateOrderIfAbsent(ctx context.Context, arg CreateOrderParams) (Order, error)
	GetOrder(ctx context.Context, id pgtype.UUID) (Order, error)
	GetOrderBySessionID(ctx context.Context, stripeSessionID string) (Order, error)
	ListOrders(ctx context.Context, status pgtype.Text) ([]Order, error)
	UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error)
	SetOrderPaymentStatus(ctx context.Context, arg SetOrderPaymentStatusParams) (int64, error)
	GetOrderStats(ctx context.Context) (GetOrderStatsRow, error)
	ListCustomerSummaries(ctx context.Context) ([]ListCustomerSummariesRow, error)

	// Custom PC requests
	CreateCustomPCRequest(ctx context.Context, arg CreateCustomPCRequestParams) (CustomPcRequest, error)
	GetCustomPCRequest(ctx context.Context, id pgtype.UUID) (CustomPcRequest, error)
	ListCustomPCRequests(ctx context.Context, status pgtype.Text) ([]CustomPcRequest, error)
	TransitionCustomPCRequest(ctx context.Context, arg TransitionCustomPCRequestParams) (CustomPcRequest, error)
	UpdateCustomPCNotes(ctx context.Context, arg UpdateCustomPCNotesParams) (CustomPcRequest, error)

	// Customer levels
	GetCustomerLevel(ctx context.Context, customerEmail string) (CustomerLevel, error)
	ListCustomerLevels(ctx context.Context) ([]CustomerLevel, error)
	UpsertCustomerLevel(ctx context.Context, arg UpsertCustomerLevelParams) (CustomerLevel, error)

	// Sellers
	CreateSeller(ctx context.Context, arg CreateSellerParams) (Seller, error)
	ListSellers(ctx context.Context) ([]Seller, error)
	ApproveSeller(ctx context.Context, arg ApproveSellerParams) (Seller, error)
	DeleteSeller(ctx context.Context, id pgtype.UUID) (int64, error)

	// Admin users
	GetAdminByEmail(ctx context.Context, email string) (AdminUser, error)
	CreateAdminUser(ctx context.Context, arg CreateAdminUserParams) (AdminUser, error)
}
