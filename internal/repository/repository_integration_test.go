//go:build integration

package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jokads/JokaTech/internal"
	"github.com/jokads/JokaTech/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) *repository.Queries {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("jokatech"),
		postgres.WithUsername("jokatech"),
		postgres.WithPassword("jokatech"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	require.NoError(t, internal.RunMigrations(db))
	require.NoError(t, db.Close())

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return repository.New(pool)
}

func TestCreateOrderIfAbsent_IsIdempotent(t *testing.T) {
	q := setupTestDB(t)
	ctx := context.Background()

	params := repository.CreateOrderParams{
		CustomerName:    "Ana Silva",
		CustomerEmail:   "ana@example.com",
		ShippingAddress: "Rue 1, Luxembourg, 1234, Luxembourg",
		Items:           []byte(`[]`),
		TotalAmount:     repository.Numeric(decimal.RequireFromString("109.97")),
		Status:          "paid",
		PaymentStatus:   "paid",
		StripeSessionID: "cs_test_123",
	}

	first, err := q.CreateOrderIfAbsent(ctx, params)
	require.NoError(t, err)

	_, err = q.CreateOrderIfAbsent(ctx, params)
	assert.True(t, errors.Is(err, pgx.ErrNoRows))

	existing, err := q.GetOrderBySessionID(ctx, "cs_test_123")
	require.NoError(t, err)
	assert.Equal(t, first.ID, existing.ID)

	stats, err := q.GetOrderStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalOrders)
	assert.True(t, decimal.RequireFromString("109.97").Equal(repository.Decimal(stats.TotalRevenue)))
}

func TestProducts_CRUDAndRating(t *testing.T) {
	q := setupTestDB(t)
	ctx := context.Background()

	p, err := q.CreateProduct(ctx, repository.CreateProductParams{
		Name:           "RTX 4070",
		Price:          repository.Numeric(decimal.RequireFromString("599.99")),
		Category:       "GPU",
		Brand:          "NVIDIA",
		Stock:          4,
		Specifications: []byte(`{"vram":"12GB"}`),
	})
	require.NoError(t, err)

	for _, rating := range []int32{5, 4} {
		_, err := q.CreateReview(ctx, repository.CreateReviewParams{ProductID: p.ID, AuthorName: "x", Rating: rating})
		require.NoError(t, err)
	}
	require.NoError(t, q.RefreshProductRating(ctx, p.ID))

	got, err := q.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(2), got.ReviewsCount)
	assert.InDelta(t, 4.5, repository.Float(got.Rating), 1e-9)

	n, err := q.DeleteProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestTransitionCustomPCRequest_GuardsFromStatus(t *testing.T) {
	q := setupTestDB(t)
	ctx := context.Background()

	req, err := q.CreateCustomPCRequest(ctx, repository.CreateCustomPCRequestParams{
		CustomerName:   "Rui",
		CustomerEmail:  "rui@example.com",
		Cpu:            "Ryzen 7 7800X3D",
		RamIncluded:    true,
		EstimatedPrice: repository.Numeric(decimal.NewFromInt(1050)),
		AssemblyFee:    repository.Numeric(decimal.NewFromInt(50)),
	})
	require.NoError(t, err)

	approved, err := q.TransitionCustomPCRequest(ctx, repository.TransitionCustomPCRequestParams{
		ID: req.ID, Status: "approved", FromStatus: "pending",
	})
	require.NoError(t, err)
	assert.True(t, approved.ApprovedAt.Valid)

	_, err = q.TransitionCustomPCRequest(ctx, repository.TransitionCustomPCRequestParams{
		ID: req.ID, Status: "rejected", FromStatus: "pending",
	})
	assert.True(t, errors.Is(err, pgx.ErrNoRows))
}
