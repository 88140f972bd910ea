package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jokads/JokaTech/internal/clientstore"
	"github.com/jokads/JokaTech/internal/domain"
	"github.com/jokads/JokaTech/internal/events"
	"github.com/jokads/JokaTech/internal/pricing"
	"github.com/jokads/JokaTech/internal/repository"
	"github.com/jokads/JokaTech/internal/telemetry"
)

// CartService provides business logic for shopping cart operations.
// The cart is one document per client session; every mutation rewrites it
// whole and then announces the new item count on the bus.
type CartService interface {
	Get(ctx context.Context, session string) (*domain.CartSummary, error)
	Add(ctx context.Context, session string, productID uuid.UUID, quantity int) (*domain.CartSummary, error)
	SetQuantity(ctx context.Context, session string, productID uuid.UUID, quantity int) (*domain.CartSummary, error)
	Remove(ctx context.Context, session string, productID uuid.UUID) (*domain.CartSummary, error)
	Clear(ctx context.Context, session string) error

	// Count is the sum of quantities, 0 for a missing or unreadable cart.
	Count(ctx context.Context, session string) int
}

type cartService struct {
	repo    repository.Querier
	store   clientstore.Store
	bus     events.Bus
	metrics *telemetry.BusinessMetrics
	logger  *slog.Logger
}

// NewCartService creates a new CartService instance
func NewCartService(repo repository.Querier, store clientstore.Store, bus events.Bus, metrics *telemetry.BusinessMetrics, logger *slog.Logger) CartService {
	return &cartService{
		repo:    repo,
		store:   store,
		bus:     bus,
		metrics: metrics,
		logger:  logger,
	}
}

// Summarize prices a cart with the storefront's shipping rule.
func Summarize(c domain.Cart) *domain.CartSummary {
	if c == nil {
		c = domain.Cart{}
	}
	totals := pricing.Totals(pricing.LinesFromCart(c))
	return &domain.CartSummary{
		Items:    c,
		Count:    c.Count(),
		Subtotal: totals.Subtotal,
		Shipping: totals.Shipping,
		Total:    totals.Total,
	}
}

func (s *cartService) load(ctx context.Context, session string) (domain.Cart, error) {
	if session == "" {
		return nil, domain.ErrSessionRequired
	}
	return clientstore.Load[domain.Cart](ctx, s.store, s.logger, session, clientstore.KeyCart)
}

// save writes the cart and announces the new count.
func (s *cartService) save(ctx context.Context, session string, c domain.Cart) (*domain.CartSummary, error) {
	if err := clientstore.Save(ctx, s.store, session, clientstore.KeyCart, c); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	publish(ctx, s.bus, s.logger, events.NewCartChanged(session, c.Count()))
	return Summarize(c), nil
}

func (s *cartService) Get(ctx context.Context, session string) (*domain.CartSummary, error) {
	c, err := s.load(ctx, session)
	if err != nil {
		return nil, err
	}
	return Summarize(c), nil
}

func (s *cartService) Add(ctx context.Context, session string, productID uuid.UUID, quantity int) (*domain.CartSummary, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	c, err := s.load(ctx, session)
	if err != nil {
		return nil, err
	}

	row, err := s.repo.GetProduct(ctx, repository.UUID(productID))
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

	if i := c.Find(productID); i >= 0 {
		c[i].Product = product
		c[i].Quantity = domain.ClampQuantity(product, c[i].Quantity+quantity)
	} else {
		c = append(c, domain.CartItem{
			Product:  product,
			Quantity: domain.ClampQuantity(product, quantity),
		})
	}

	summary, err := s.save(ctx, session, c)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordCartAdd(product.Category)
	return summary, nil
}

func (s *cartService) SetQuantity(ctx context.Context, session string, productID uuid.UUID, quantity int) (*domain.CartSummary, error) {
	c, err := s.load(ctx, session)
	if err != nil {
		return nil, err
	}
	i := c.Find(productID)
	if i < 0 {
		return nil, domain.ErrCartItemNotFound
	}
	c[i].Quantity = domain.ClampQuantity(c[i].Product, quantity)
	return s.save(ctx, session, c)
}

func (s *cartService) Remove(ctx context.Context, session string, productID uuid.UUID) (*domain.CartSummary, error) {
	c, err := s.load(ctx, session)
	if err != nil {
		return nil, err
	}
	i := c.Find(productID)
	if i < 0 {
		return nil, domain.ErrCartItemNotFound
	}
	c = append(c[:i], c[i+1:]...)
	return s.save(ctx, session, c)
}

func (s *cartService) Clear(ctx context.Context, session string) error {
	if session == "" {
		return domain.ErrSessionRequired
	}
	if err := s.store.Delete(ctx, session, clientstore.KeyCart); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	publish(ctx, s.bus, s.logger, events.NewCartChanged(session, 0))
	s.metrics.RecordCartCleared()
	return nil
}

func (s *cartService) Count(ctx context.Context, session string) int {
	c, err := s.load(ctx, session)
	if err != nil {
		return 0
	}
	return c.Count()
}

// publish is best effort: a failed broadcast never fails the mutation
// that caused it.
func publish(ctx context.Context, bus events.Bus, logger *slog.Logger, e events.Event) {
	if bus == nil {
		return
	}
	if err := bus.Publish(ctx, e); err != nil {
		logger.Warn("failed to publish event", "type", e.Type, "error", err)
	}
}
