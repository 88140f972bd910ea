package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jokads/JokaTech/internal/billing"
	"github.com/jokads/JokaTech/internal/clientstore"
	"github.com/jokads/JokaTech/internal/domain"
	"github.com/jokads/JokaTech/internal/events"
	"github.com/jokads/JokaTech/internal/repository"
	"github.com/jokads/JokaTech/internal/telemetry"
)

// OrderService turns confirmed payments into orders and drives the admin
// fulfilment lifecycle.
type OrderService interface {
	// ConfirmPayment creates the order for a paid checkout session.
	//
	// Flow:
	// 1. Load the session's pending order; without one, a reload of the
	//    success page returns the stored order, but only to the session
	//    that confirmed it
	// 2. Verify with the payment provider that the session is paid
	// 3. Insert the order keyed by the payment session id; a conflict
	//    returns the existing order with Created=false
	// 4. Remember the payment session as this session's last order and
	//    drop the pending order
	// 5. For a new order only: announce it and credit the customer level
	//
	// A failed insert keeps the pending order so the call can be retried.
	ConfirmPayment(ctx context.Context, session, checkoutSessionID string) (*ConfirmResult, error)

	List(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Order, error)

	// Transition moves an order along the fulfilment lifecycle. The update
	// is guarded on the status that was read, so a concurrent change makes
	// it fail with ErrInvalidTransition instead of overwriting.
	Transition(ctx context.Context, id uuid.UUID, to domain.OrderStatus) (*domain.Order, error)

	// ReconcileWebhook applies a verified provider event. Orders are never
	// created here; only the payment status of an existing order changes.
	ReconcileWebhook(ctx context.Context, event *billing.WebhookEvent) error
}

// ConfirmResult is the order plus whether this call created it.
type ConfirmResult struct {
	Order   domain.Order `json:"order"`
	Created bool         `json:"created"`
}

type orderService struct {
	repo    repository.Querier
	store   clientstore.Store
	bus     events.Bus
	billing billing.Provider
	levels  LevelService
	metrics *telemetry.BusinessMetrics
	logger  *slog.Logger
}

// NewOrderService creates a new OrderService instance
func NewOrderService(
	repo repository.Querier,
	store clientstore.Store,
	bus events.Bus,
	provider billing.Provider,
	levels LevelService,
	metrics *telemetry.BusinessMetrics,
	logger *slog.Logger,
) OrderService {
	return &orderService{
		repo:    repo,
		store:   store,
		bus:     bus,
		billing: provider,
		levels:  levels,
		metrics: metrics,
		logger:  logger,
	}
}

func (s *orderService) ConfirmPayment(ctx context.Context, session, checkoutSessionID string) (*ConfirmResult, error) {
	if checkoutSessionID == "" {
		return nil, domain.ErrMissingSessionRef
	}
	if session == "" {
		return nil, domain.ErrSessionRequired
	}

	hasPending, err := clientstore.Exists(ctx, s.store, session, clientstore.KeyPendingOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to read pending order: %w", err)
	}
	if !hasPending {
		// Reload of the success page. Only the session that confirmed this
		// payment gets the stored order back.
		last, err := clientstore.Load[string](ctx, s.store, s.logger, session, clientstore.KeyLastOrder)
		if err != nil {
			return nil, err
		}
		if last != checkoutSessionID {
			return nil, domain.ErrPendingOrderNotFound
		}
		order, err := s.getBySession(ctx, checkoutSessionID)
		if err != nil {
			if domain.IsCode(err, domain.ENOTFOUND) {
				return nil, domain.ErrPendingOrderNotFound
			}
			return nil, err
		}
		s.metrics.RecordOrder(order.TotalAmount, false)
		return &ConfirmResult{Order: *order, Created: false}, nil
	}

	pending, err := clientstore.Load[domain.PendingOrder](ctx, s.store, s.logger, session, clientstore.KeyPendingOrder)
	if err != nil {
		return nil, err
	}
	if len(pending.Items) == 0 {
		// Load resets an unreadable document to the zero value.
		return nil, domain.ErrPendingOrderNotFound
	}
	if pending.CheckoutSession != "" && pending.CheckoutSession != checkoutSessionID {
		return nil, ErrSessionMismatch
	}

	checkout, err := s.billing.GetCheckoutSession(ctx, checkoutSessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify checkout session: %w", err)
	}
	if !checkout.IsPaid() {
		return nil, ErrPaymentNotCompleted
	}

	items, err := json.Marshal(domain.OrderItemsFromCart(pending.Items))
	if err != nil {
		return nil, domain.Internal(err, "order.confirm", "failed to encode order items")
	}

	created := true
	row, err := s.repo.CreateOrderIfAbsent(ctx, repository.CreateOrderParams{
		CustomerName:    pending.CustomerName,
		CustomerEmail:   pending.CustomerEmail,
		CustomerPhone:   pending.CustomerPhone,
		ShippingAddress: pending.ShippingAddress,
		Items:           items,
		TotalAmount:     repository.Numeric(pending.TotalAmount),
		Status:          string(domain.OrderStatusPaid),
		PaymentStatus:   string(domain.PaymentStatusPaid),
		StripeSessionID: checkoutSessionID,
	})
	if isNoRows(err) {
		created = false
		row, err = s.repo.GetOrderBySessionID(ctx, checkoutSessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// The order exists; a leftover pending order resolves to it on retry.
	if err := clientstore.Save(ctx, s.store, session, clientstore.KeyLastOrder, checkoutSessionID); err != nil {
		s.logger.Warn("failed to record confirmed payment session", "error", err)
	} else if err := s.store.Delete(ctx, session, clientstore.KeyPendingOrder); err != nil {
		s.logger.Warn("failed to delete pending order", "error", err)
	}

	order, err := orderFromRow(row)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordOrder(order.TotalAmount, created)
	if !created {
		return &ConfirmResult{Order: order, Created: false}, nil
	}

	s.logger.Info("order created",
		"order_id", order.ID,
		"checkout_session", checkoutSessionID,
		"total", order.TotalAmount.StringFixed(2),
	)

	publish(ctx, s.bus, s.logger, events.NewOrderConfirmed(session, order))

	if s.levels != nil {
		if _, err := s.levels.RecordPurchase(ctx, order.CustomerEmail, order.TotalAmount); err != nil {
			s.logger.Warn("failed to record purchase on customer level",
				"order_id", order.ID,
				"error", err,
			)
			telemetry.CaptureError(err, map[string]interface{}{"order_id": order.ID.String()})
		}
	}

	return &ConfirmResult{Order: order, Created: true}, nil
}

func (s *orderService) getBySession(ctx context.Context, checkoutSessionID string) (*domain.Order, error) {
	row, err := s.repo.GetOrderBySessionID(ctx, checkoutSessionID)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	order, err := orderFromRow(row)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *orderService) List(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	if status != "" && !status.Valid() {
		return nil, domain.Errorf(domain.EINVALID, "order.list", "unknown order status %q", status)
	}
	rows, err := s.repo.ListOrders(ctx, repository.Text(string(status)))
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	orders := make([]domain.Order, 0, len(rows))
	for _, r := range rows {
		o, err := orderFromRow(r)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	row, err := s.repo.GetOrder(ctx, repository.UUID(id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	order, err := orderFromRow(row)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *orderService) Transition(ctx context.Context, id uuid.UUID, to domain.OrderStatus) (*domain.Order, error) {
	if !to.Valid() {
		return nil, domain.Errorf(domain.EINVALID, "order.transition", "unknown order status %q", to)
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(to) {
		return nil, domain.ErrInvalidTransition
	}

	row, err := s.repo.UpdateOrderStatus(ctx, repository.UpdateOrderStatusParams{
		ID:         repository.UUID(id),
		Status:     string(to),
		FromStatus: string(current.Status),
	})
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrInvalidTransition
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order, err := orderFromRow(row)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordOrderTransition(string(to))
	s.logger.Info("order status changed",
		"order_id", id,
		"from", current.Status,
		"to", to,
	)
	return &order, nil
}

func (s *orderService) ReconcileWebhook(ctx context.Context, event *billing.WebhookEvent) error {
	if event == nil {
		return domain.Errorf(domain.EINVALID, "order.webhook", "empty webhook event")
	}

	switch event.Type {
	case billing.EventCheckoutSessionCompleted:
		if event.Session == nil || event.Session.ID == "" {
			s.metrics.RecordWebhook(event.Type, "invalid")
			return domain.ErrMissingSessionRef
		}
		if !event.Session.IsPaid() {
			s.metrics.RecordWebhook(event.Type, "unpaid")
			return nil
		}
		n, err := s.repo.SetOrderPaymentStatus(ctx, repository.SetOrderPaymentStatusParams{
			StripeSessionID: event.Session.ID,
			PaymentStatus:   string(domain.PaymentStatusPaid),
		})
		if err != nil {
			s.metrics.RecordWebhook(event.Type, "error")
			return fmt.Errorf("failed to reconcile payment status: %w", err)
		}
		if n == 0 {
			// The shopper has not returned to the success page yet.
			s.logger.Info("webhook for checkout session without order",
				"event_id", event.ID,
				"checkout_session", event.Session.ID,
			)
			s.metrics.RecordWebhook(event.Type, "no_order")
			return nil
		}
		s.metrics.RecordWebhook(event.Type, "reconciled")
	case billing.EventCheckoutSessionExpired:
		s.logger.Info("checkout session expired", "event_id", event.ID)
		s.metrics.RecordWebhook(event.Type, "ignored")
	default:
		s.metrics.RecordWebhook(event.Type, "ignored")
	}
	return nil
}
