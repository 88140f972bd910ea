package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// BusinessMetrics holds Prometheus metrics for storefront observability.
// Every Record method is safe on a nil receiver so tests can pass nil.
type BusinessMetrics struct {
	// Catalog
	ProductSearches *prometheus.CounterVec

	// Cart
	CartItemsAdded *prometheus.CounterVec
	CartCleared    prometheus.Counter

	// Checkout funnel
	CheckoutStarted prometheus.Counter
	CheckoutFailed  *prometheus.CounterVec

	// Orders
	OrdersCreated    prometheus.Counter
	OrderDuplicates  prometheus.Counter
	OrderValue       prometheus.Histogram
	OrderTransitions *prometheus.CounterVec
	RevenueCollected prometheus.Counter

	// Custom PC builder
	CustomPCRequests *prometheus.CounterVec

	// Webhooks
	WebhookReceived *prometheus.CounterVec

	// Email delivery
	EmailSent   *prometheus.CounterVec
	EmailFailed *prometheus.CounterVec
}

// NewBusinessMetrics creates and registers all business metrics on reg.
func NewBusinessMetrics(namespace string, reg prometheus.Registerer) *BusinessMetrics {
	if namespace == "" {
		namespace = "jokatech"
	}
	subsystem := "business"
	factory := promauto.With(reg)

	return &BusinessMetrics{
		ProductSearches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "product_searches_total",
				Help:      "Total catalog listings by active filter",
			},
			[]string{"filter_type"}, // filter_type: category, brand, price, search, none
		),
		CartItemsAdded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_items_added_total",
				Help:      "Total add to cart actions",
			},
			[]string{"category"},
		),
		CartCleared: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "cart_cleared_total",
			Help:      "Total carts cleared",
		}),
		CheckoutStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "checkout_started_total",
			Help:      "Total checkout sessions created",
		}),
		CheckoutFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_failed_total",
				Help:      "Total checkout submissions that did not reach payment",
			},
			[]string{"reason"}, // reason: validation, empty_cart, payment_provider, store
		),
		OrdersCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "orders_created_total",
			Help:      "Total orders created after payment confirmation",
		}),
		OrderDuplicates: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "order_confirmations_duplicate_total",
			Help:      "Payment confirmations that resolved to an existing order",
		}),
		OrderValue: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "order_value_euros",
			Help:      "Order totals in euros",
			Buckets:   []float64{25, 50, 100, 250, 500, 1000, 2000, 5000},
		}),
		OrderTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_transitions_total",
				Help:      "Admin order status changes",
			},
			[]string{"to"},
		),
		RevenueCollected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "revenue_collected_cents",
			Help:      "Total revenue collected in cents",
		}),
		CustomPCRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "custom_pc_requests_total",
				Help:      "Custom PC requests by lifecycle status",
			},
			[]string{"status"}, // status: pending, approved, rejected, completed
		),
		WebhookReceived: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "webhooks_received_total",
				Help:      "Payment webhooks by event type and outcome",
			},
			[]string{"event_type", "outcome"},
		),
		EmailSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "emails_sent_total",
				Help:      "Total emails sent by type",
			},
			[]string{"email_type"},
		),
		EmailFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "emails_failed_total",
				Help:      "Total email delivery failures",
			},
			[]string{"email_type"},
		),
	}
}

func (m *BusinessMetrics) RecordSearch(filterType string) {
	if m == nil {
		return
	}
	m.ProductSearches.WithLabelValues(filterType).Inc()
}

func (m *BusinessMetrics) RecordCartAdd(category string) {
	if m == nil {
		return
	}
	m.CartItemsAdded.WithLabelValues(category).Inc()
}

func (m *BusinessMetrics) RecordCartCleared() {
	if m == nil {
		return
	}
	m.CartCleared.Inc()
}

func (m *BusinessMetrics) RecordCheckoutStarted() {
	if m == nil {
		return
	}
	m.CheckoutStarted.Inc()
}

func (m *BusinessMetrics) RecordCheckoutFailed(reason string) {
	if m == nil {
		return
	}
	m.CheckoutFailed.WithLabelValues(reason).Inc()
}

// RecordOrder counts a confirmation. Duplicates only bump OrderDuplicates.
func (m *BusinessMetrics) RecordOrder(total decimal.Decimal, created bool) {
	if m == nil {
		return
	}
	if !created {
		m.OrderDuplicates.Inc()
		return
	}
	m.OrdersCreated.Inc()
	m.OrderValue.Observe(total.InexactFloat64())
	m.RevenueCollected.Add(float64(total.Shift(2).Round(0).IntPart()))
}

func (m *BusinessMetrics) RecordOrderTransition(to string) {
	if m == nil {
		return
	}
	m.OrderTransitions.WithLabelValues(to).Inc()
}

func (m *BusinessMetrics) RecordCustomPC(status string) {
	if m == nil {
		return
	}
	m.CustomPCRequests.WithLabelValues(status).Inc()
}

func (m *BusinessMetrics) RecordWebhook(eventType, outcome string) {
	if m == nil {
		return
	}
	m.WebhookReceived.WithLabelValues(eventType, outcome).Inc()
}

func (m *BusinessMetrics) RecordEmail(emailType string, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.EmailFailed.WithLabelValues(emailType).Inc()
		return
	}
	m.EmailSent.WithLabelValues(emailType).Inc()
}
