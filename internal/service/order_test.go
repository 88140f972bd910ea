package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jokads/JokaTech/internal/billing"
	"github.com/jokads/JokaTech/internal/clientstore"
	"github.com/jokads/JokaTech/internal/domain"
	"github.com/jokads/JokaTech/internal/events"
	"github.com/jokads/JokaTech/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// orderTable is an idempotent orders table keyed by payment session id,
// mirroring INSERT ... ON CONFLICT DO NOTHING.
type orderTable struct {
	mu      sync.Mutex
	rows    map[string]repository.Order
	inserts int
	levels  map[string]repository.CustomerLevel
}

func newOrderTable() *orderTable {
	return &orderTable{
		rows:   map[string]repository.Order{},
		levels: map[string]repository.CustomerLevel{},
	}
}

func (o *orderTable) querier() *mockQuerier {
	return &mockQuerier{
		CreateOrderIfAbsentFunc: func(ctx context.Context, arg repository.CreateOrderParams) (repository.Order, error) {
			o.mu.Lock()
			defer o.mu.Unlock()
			if _, ok := o.rows[arg.StripeSessionID]; ok {
				return repository.Order{}, pgx.ErrNoRows
			}
			now := time.Now()
			row := repository.Order{
				ID:              repository.UUID(uuid.New()),
				CustomerName:    arg.CustomerName,
				CustomerEmail:   arg.CustomerEmail,
				CustomerPhone:   arg.CustomerPhone,
				ShippingAddress: arg.ShippingAddress,
				Items:           arg.Items,
				TotalAmount:     arg.TotalAmount,
				Status:          arg.Status,
				PaymentStatus:   arg.PaymentStatus,
				StripeSessionID: arg.StripeSessionID,
				CreatedAt:       ts(now),
				UpdatedAt:       ts(now),
			}
			o.rows[arg.StripeSessionID] = row
			o.inserts++
			return row, nil
		},
		GetOrderBySessionIDFunc: func(ctx context.Context, id string) (repository.Order, error) {
			o.mu.Lock()
			defer o.mu.Unlock()
			if row, ok := o.rows[id]; ok {
				return row, nil
			}
			return repository.Order{}, pgx.ErrNoRows
		},
		GetCustomerLevelFunc: func(ctx context.Context, email string) (repository.CustomerLevel, error) {
			o.mu.Lock()
			defer o.mu.Unlock()
			if l, ok := o.levels[email]; ok {
				return l, nil
			}
			return repository.CustomerLevel{}, pgx.ErrNoRows
		},
		UpsertCustomerLevelFunc: func(ctx context.Context, arg repository.UpsertCustomerLevelParams) (repository.CustomerLevel, error) {
			o.mu.Lock()
			defer o.mu.Unlock()
			row := levelRowFromParams(arg)
			o.levels[arg.CustomerEmail] = row
			return row, nil
		},
	}
}

type orderFixture struct {
	svc      OrderService
	table    *orderTable
	store    *clientstore.MemoryStore
	bus      *events.MemoryBus
	provider *billing.MockProvider
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	table := newOrderTable()
	repo := table.querier()
	store := clientstore.NewMemoryStore()
	bus := events.NewMemoryBus()
	t.Cleanup(func() { bus.Close() })
	provider := billing.NewMockProvider()
	levels := NewLevelService(repo, testLogger())
	return &orderFixture{
		svc:      NewOrderService(repo, store, bus, provider, levels, nil, testLogger()),
		table:    table,
		store:    store,
		bus:      bus,
		provider: provider,
	}
}

// checkout runs a real checkout against the mock provider and marks the
// resulting session paid.
func (f *orderFixture) checkout(t *testing.T, session string) string {
	t.Helper()
	seedCart(t, f.store, session,
		domain.CartItem{Product: makeProduct(uuid.New(), "RTX 4060", "49.99", 5), Quantity: 2},
	)
	co := NewCheckoutService(f.store, f.bus, f.provider, "http://localhost", nil, testLogger())
	result, err := co.Checkout(context.Background(), session, validCheckoutRequest())
	require.NoError(t, err)
	require.NoError(t, f.provider.SimulatePaid(result.SessionID))
	return result.SessionID
}

func TestOrderService_ConfirmPayment_CreatesExactlyOnce(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	csID := f.checkout(t, "s")

	sub, err := f.bus.Subscribe(events.OfType(events.OrderConfirmed))
	require.NoError(t, err)
	defer sub.Close()

	first, err := f.svc.ConfirmPayment(ctx, "s", csID)
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, domain.OrderStatusPaid, first.Order.Status)
	assert.Equal(t, domain.PaymentStatusPaid, first.Order.PaymentStatus)
	assert.True(t, decimal.RequireFromString("109.97").Equal(first.Order.TotalAmount))
	require.Len(t, first.Order.Items, 1)
	assert.Equal(t, 2, first.Order.Items[0].Quantity)

	// Success page reloaded.
	second, err := f.svc.ConfirmPayment(ctx, "s", csID)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Order.ID, second.Order.ID)

	assert.Equal(t, 1, f.table.inserts)

	exists, err := clientstore.Exists(ctx, f.store, "s", clientstore.KeyPendingOrder)
	require.NoError(t, err)
	assert.False(t, exists)

	select {
	case e := <-sub.C:
		require.NotNil(t, e.Order)
		assert.Equal(t, first.Order.ID, e.Order.ID)
	case <-time.After(time.Second):
		t.Fatal("expected an order confirmed event")
	}
	select {
	case e := <-sub.C:
		t.Fatalf("unexpected second event %v", e.Type)
	default:
	}

	level := f.table.levels["ana@example.com"]
	assert.Equal(t, int32(1), level.TotalPurchases, "level counters bumped once")
	// 109 XP rolls level 1 (100 XP) over into level 2.
	assert.Equal(t, int32(2), level.Level)
	assert.Equal(t, int32(9), level.CurrentXp)
	assert.Equal(t, int32(200), level.XpToNextLevel)
}

func TestOrderService_ConfirmPayment_ConflictReturnsExisting(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	csID := f.checkout(t, "s")

	// Keep a copy of the pending order so a second tab can race the first.
	raw, err := f.store.Get(ctx, "s", clientstore.KeyPendingOrder)
	require.NoError(t, err)

	first, err := f.svc.ConfirmPayment(ctx, "s", csID)
	require.NoError(t, err)
	require.True(t, first.Created)

	require.NoError(t, f.store.Set(ctx, "s", clientstore.KeyPendingOrder, raw))
	second, err := f.svc.ConfirmPayment(ctx, "s", csID)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Order.ID, second.Order.ID)
	assert.Equal(t, 1, f.table.inserts)
}

func TestOrderService_ConfirmPayment_ReloadLimitedToConfirmingSession(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	csID := f.checkout(t, "buyer")

	first, err := f.svc.ConfirmPayment(ctx, "buyer", csID)
	require.NoError(t, err)
	require.True(t, first.Created)

	// The payment session id leaks through the success URL.
	got, err := f.svc.ConfirmPayment(ctx, "other", csID)
	assert.ErrorIs(t, err, domain.ErrPendingOrderNotFound)
	assert.Nil(t, got)

	reload, err := f.svc.ConfirmPayment(ctx, "buyer", csID)
	require.NoError(t, err)
	assert.False(t, reload.Created)
	assert.Equal(t, first.Order.ID, reload.Order.ID)

	// A later payment in the same browser replaces the remembered one.
	second := f.checkout(t, "buyer")
	_, err = f.svc.ConfirmPayment(ctx, "buyer", second)
	require.NoError(t, err)
	_, err = f.svc.ConfirmPayment(ctx, "buyer", csID)
	assert.ErrorIs(t, err, domain.ErrPendingOrderNotFound)
}

func TestOrderService_ConfirmPayment_InsertFailureKeepsPending(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	csID := f.checkout(t, "s")

	repo := f.table.querier()
	repo.CreateOrderIfAbsentFunc = func(ctx context.Context, arg repository.CreateOrderParams) (repository.Order, error) {
		return repository.Order{}, errors.New("connection refused")
	}
	svc := NewOrderService(repo, f.store, f.bus, f.provider, nil, nil, testLogger())

	_, err := svc.ConfirmPayment(ctx, "s", csID)
	require.Error(t, err)

	exists, err := clientstore.Exists(ctx, f.store, "s", clientstore.KeyPendingOrder)
	require.NoError(t, err)
	assert.True(t, exists, "pending order kept for retry")

	result, err := f.svc.ConfirmPayment(ctx, "s", csID)
	require.NoError(t, err)
	assert.True(t, result.Created)
}

func TestOrderService_ConfirmPayment_Errors(t *testing.T) {
	t.Run("unpaid session keeps pending order", func(t *testing.T) {
		f := newOrderFixture(t)
		ctx := context.Background()
		seedCart(t, f.store, "s", domain.CartItem{Product: makeProduct(uuid.New(), "x", "10", 0), Quantity: 1})
		co := NewCheckoutService(f.store, nil, f.provider, "http://localhost", nil, testLogger())
		res, err := co.Checkout(ctx, "s", validCheckoutRequest())
		require.NoError(t, err)

		_, err = f.svc.ConfirmPayment(ctx, "s", res.SessionID)
		assert.ErrorIs(t, err, ErrPaymentNotCompleted)
		assert.Equal(t, 0, f.table.inserts)

		exists, _ := clientstore.Exists(ctx, f.store, "s", clientstore.KeyPendingOrder)
		assert.True(t, exists)
	})

	t.Run("no pending order and no stored order", func(t *testing.T) {
		f := newOrderFixture(t)
		_, err := f.svc.ConfirmPayment(context.Background(), "s", "cs_unknown")
		assert.ErrorIs(t, err, domain.ErrPendingOrderNotFound)
	})

	t.Run("session reference required", func(t *testing.T) {
		f := newOrderFixture(t)
		_, err := f.svc.ConfirmPayment(context.Background(), "s", "")
		assert.ErrorIs(t, err, domain.ErrMissingSessionRef)
	})

	t.Run("mismatched payment session", func(t *testing.T) {
		f := newOrderFixture(t)
		f.checkout(t, "s")
		_, err := f.svc.ConfirmPayment(context.Background(), "s", "cs_someone_else")
		assert.ErrorIs(t, err, ErrSessionMismatch)
	})
}

func orderRow(id uuid.UUID, status domain.OrderStatus) repository.Order {
	now := time.Now()
	return repository.Order{
		ID:            repository.UUID(id),
		CustomerEmail: "ana@example.com",
		Items:         []byte(`[]`),
		TotalAmount:   repository.Numeric(decimal.RequireFromString("10")),
		Status:        string(status),
		PaymentStatus: string(domain.PaymentStatusPaid),
		CreatedAt:     ts(now),
		UpdatedAt:     ts(now),
	}
}

func TestOrderService_Transition(t *testing.T) {
	tests := []struct {
		name     string
		from     domain.OrderStatus
		to       domain.OrderStatus
		raceLost bool
		wantErr  error
	}{
		{name: "paid to processing", from: domain.OrderStatusPaid, to: domain.OrderStatusProcessing},
		{name: "shipped to delivered", from: domain.OrderStatusShipped, to: domain.OrderStatusDelivered},
		{name: "any open status can cancel", from: domain.OrderStatusProcessing, to: domain.OrderStatusCancelled},
		{name: "skip ahead", from: domain.OrderStatusPaid, to: domain.OrderStatusDelivered, wantErr: domain.ErrInvalidTransition},
		{name: "terminal", from: domain.OrderStatusDelivered, to: domain.OrderStatusCancelled, wantErr: domain.ErrInvalidTransition},
		{name: "concurrent change", from: domain.OrderStatusPaid, to: domain.OrderStatusProcessing, raceLost: true, wantErr: domain.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := uuid.New()
			var guard string
			repo := &mockQuerier{
				GetOrderFunc: func(ctx context.Context, _ pgtype.UUID) (repository.Order, error) {
					return orderRow(id, tt.from), nil
				},
				UpdateOrderStatusFunc: func(ctx context.Context, arg repository.UpdateOrderStatusParams) (repository.Order, error) {
					guard = arg.FromStatus
					if tt.raceLost {
						return repository.Order{}, pgx.ErrNoRows
					}
					return orderRow(id, domain.OrderStatus(arg.Status)), nil
				},
			}
			svc := NewOrderService(repo, clientstore.NewMemoryStore(), nil, billing.NewMockProvider(), nil, nil, testLogger())

			order, err := svc.Transition(context.Background(), id, tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, order.Status)
			assert.Equal(t, string(tt.from), guard, "update guarded on the status read")
		})
	}
}

func TestOrderService_List_RejectsUnknownStatus(t *testing.T) {
	svc := NewOrderService(&mockQuerier{}, clientstore.NewMemoryStore(), nil, billing.NewMockProvider(), nil, nil, testLogger())
	_, err := svc.List(context.Background(), "lost")
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	orders, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderService_ReconcileWebhook(t *testing.T) {
	tests := []struct {
		name       string
		event      *billing.WebhookEvent
		rows       int64
		wantUpdate bool
		wantErr    bool
	}{
		{
			name: "completed and paid",
			event: &billing.WebhookEvent{ID: "evt_1", Type: billing.EventCheckoutSessionCompleted,
				Session: &billing.CheckoutSession{ID: "cs_1", PaymentStatus: billing.PaymentStatusPaid}},
			rows:       1,
			wantUpdate: true,
		},
		{
			name: "order not created yet",
			event: &billing.WebhookEvent{ID: "evt_2", Type: billing.EventCheckoutSessionCompleted,
				Session: &billing.CheckoutSession{ID: "cs_2", PaymentStatus: billing.PaymentStatusPaid}},
			rows:       0,
			wantUpdate: true,
		},
		{
			name: "completed but unpaid",
			event: &billing.WebhookEvent{ID: "evt_3", Type: billing.EventCheckoutSessionCompleted,
				Session: &billing.CheckoutSession{ID: "cs_3", PaymentStatus: billing.PaymentStatusUnpaid}},
		},
		{
			name:  "other event ignored",
			event: &billing.WebhookEvent{ID: "evt_4", Type: "customer.created"},
		},
		{
			name:    "completed without session",
			event:   &billing.WebhookEvent{ID: "evt_5", Type: billing.EventCheckoutSessionCompleted},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated := false
			repo := &mockQuerier{
				SetOrderPaymentStatusFunc: func(ctx context.Context, arg repository.SetOrderPaymentStatusParams) (int64, error) {
					updated = true
					assert.Equal(t, string(domain.PaymentStatusPaid), arg.PaymentStatus)
					return tt.rows, nil
				},
				CreateOrderIfAbsentFunc: func(ctx context.Context, arg repository.CreateOrderParams) (repository.Order, error) {
					t.Fatal("webhooks must never create orders")
					return repository.Order{}, nil
				},
			}
			svc := NewOrderService(repo, clientstore.NewMemoryStore(), nil, billing.NewMockProvider(), nil, nil, testLogger())

			err := svc.ReconcileWebhook(context.Background(), tt.event)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUpdate, updated)
		})
	}
}
