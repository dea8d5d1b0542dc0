package telemetry

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for business-level observability.
// Every recording method is safe to call on a nil receiver.
type BusinessMetrics struct {
	// Product engagement
	ProductViews    *prometheus.CounterVec
	ProductSearches *prometheus.CounterVec

	// Cart
	CartItemsAdd *prometheus.CounterVec
	CartUpdated  *prometheus.CounterVec
	CartCleared  *prometheus.CounterVec
	CartValue    prometheus.Histogram

	// Coupons
	CouponAttempts *prometheus.CounterVec

	// Checkout funnel
	CheckoutQuoted    *prometheus.CounterVec
	CheckoutCompleted *prometheus.CounterVec
	CheckoutRejected  *prometheus.CounterVec

	// Orders
	OrdersCreated      *prometheus.CounterVec
	OrderValue         *prometheus.HistogramVec
	OrderItemCount     prometheus.Histogram
	OrdersCancelled    *prometheus.CounterVec
	OrderStatusChanged *prometheus.CounterVec
	OrdersDeleted      prometheus.Counter

	// Auth & accounts
	Signups              prometheus.Counter
	Logins               prometheus.Counter
	LoginFailed          prometheus.Counter
	LoyaltyPointsAwarded prometheus.Counter

	// Saved lists
	WishlistToggles *prometheus.CounterVec
	CompareToggles  *prometheus.CounterVec

	// Sessions
	ActiveSessions prometheus.Gauge

	// Infrastructure seen from the business side
	PersistenceFailures *prometheus.CounterVec
	GeocodeRequests     *prometheus.CounterVec
	GeocodeLatency      prometheus.Histogram
	EventsPublished     *prometheus.CounterVec
}

// NewBusinessMetrics creates and registers all business metrics on reg.
// A nil reg registers on the Prometheus default registry.
func NewBusinessMetrics(namespace string, reg prometheus.Registerer) *BusinessMetrics {
	if namespace == "" {
		namespace = "techstore"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	subsystem := "business"
	factory := promauto.With(reg)

	// VND amounts from 100k to 100M
	moneyBuckets := []float64{100_000, 500_000, 1_000_000, 2_000_000, 5_000_000, 10_000_000, 20_000_000, 50_000_000, 100_000_000}

	m := &BusinessMetrics{
		// =======================================================================
		// Product Engagement
		// =======================================================================
		ProductViews: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "product_views_total",
				Help:      "Total product detail views",
			},
			[]string{"product_id"},
		),
		ProductSearches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "product_searches_total",
				Help:      "Total product list queries by filter type",
			},
			[]string{"filter_type"}, // filter_type: category, price, search, none
		),

		// =======================================================================
		// Cart
		// =======================================================================
		CartItemsAdd: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_items_added_total",
				Help:      "Total units added to carts",
			},
			[]string{"product_id"},
		),
		CartUpdated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_updates_total",
				Help:      "Total cart mutations",
			},
			[]string{"action"}, // action: add, remove, update_quantity
		),
		CartCleared: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_cleared_total",
				Help:      "Total carts emptied",
			},
			[]string{"reason"}, // reason: checkout, manual
		),
		CartValue: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_value_vnd",
				Help:      "Cart subtotal observed at checkout",
				Buckets:   moneyBuckets,
			},
		),

		// =======================================================================
		// Coupons
		// =======================================================================
		CouponAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "coupon_attempts_total",
				Help:      "Coupon applications by outcome",
			},
			[]string{"outcome"}, // outcome: applied or a rejection reason
		),

		// =======================================================================
		// Checkout Funnel
		// =======================================================================
		CheckoutQuoted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_quotes_total",
				Help:      "Total checkout price previews",
			},
			[]string{"shipping_method"},
		),
		CheckoutCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_completed_total",
				Help:      "Total completed checkouts",
			},
			[]string{"shipping_method", "payment_method"},
		),
		CheckoutRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_rejected_total",
				Help:      "Total rejected checkout attempts",
			},
			[]string{"reason"},
		),

		// =======================================================================
		// Orders
		// =======================================================================
		OrdersCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_created_total",
				Help:      "Total orders placed",
			},
			[]string{"payment_method"},
		),
		OrderValue: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_value_vnd",
				Help:      "Order totals in VND",
				Buckets:   moneyBuckets,
			},
			[]string{"shipping_method"},
		),
		OrderItemCount: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_item_count",
				Help:      "Units per order",
				Buckets:   []float64{1, 2, 3, 5, 10, 20},
			},
		),
		OrdersCancelled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_cancelled_total",
				Help:      "Total orders cancelled by customers",
			},
			[]string{"from_status"},
		),
		OrderStatusChanged: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_status_changes_total",
				Help:      "Total fulfilment status transitions",
			},
			[]string{"to_status"},
		),
		OrdersDeleted: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_deleted_total",
				Help:      "Total orders removed from customer history",
			},
		),

		// =======================================================================
		// Auth & Accounts
		// =======================================================================
		Signups: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "signups_total",
				Help:      "Total account registrations",
			},
		),
		Logins: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "logins_total",
				Help:      "Total successful logins",
			},
		),
		LoginFailed: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "login_failures_total",
				Help:      "Total failed login attempts",
			},
		),
		LoyaltyPointsAwarded: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "loyalty_points_awarded_total",
				Help:      "Total loyalty points credited",
			},
		),

		// =======================================================================
		// Saved Lists
		// =======================================================================
		WishlistToggles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "wishlist_toggles_total",
				Help:      "Wishlist additions and removals",
			},
			[]string{"action"},
		),
		CompareToggles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "compare_toggles_total",
				Help:      "Compare list additions, removals and rejections",
			},
			[]string{"action"},
		),

		ActiveSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "active_sessions",
				Help:      "Storefront sessions held in memory",
			},
		),

		// =======================================================================
		// Infrastructure
		// =======================================================================
		PersistenceFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "persistence_failures_total",
				Help:      "Storage writes that failed and were kept in memory only",
			},
			[]string{"key"},
		),
		GeocodeRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "geocode_requests_total",
				Help:      "Address geocoding lookups by outcome",
			},
			[]string{"outcome"}, // outcome: found, not_found, error
		),
		GeocodeLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "geocode_duration_seconds",
				Help:      "Geocoder call duration",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5},
			},
		),
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "events_published_total",
				Help:      "Order events published by type and outcome",
			},
			[]string{"type", "outcome"},
		),
	}

	return m
}

// =============================================================================
// Recording helpers
// =============================================================================

func (m *BusinessMetrics) RecordProductView(productID int) {
	if m == nil {
		return
	}
	m.ProductViews.WithLabelValues(strconv.Itoa(productID)).Inc()
}

func (m *BusinessMetrics) RecordProductSearch(filterType string) {
	if m == nil {
		return
	}
	m.ProductSearches.WithLabelValues(filterType).Inc()
}

func (m *BusinessMetrics) RecordCartAdd(productID, quantity int) {
	if m == nil {
		return
	}
	m.CartItemsAdd.WithLabelValues(strconv.Itoa(productID)).Add(float64(quantity))
	m.CartUpdated.WithLabelValues("add").Inc()
}

func (m *BusinessMetrics) RecordCartUpdate(action string) {
	if m == nil {
		return
	}
	m.CartUpdated.WithLabelValues(action).Inc()
}

func (m *BusinessMetrics) RecordCartCleared(reason string) {
	if m == nil {
		return
	}
	m.CartCleared.WithLabelValues(reason).Inc()
}

func (m *BusinessMetrics) RecordCoupon(outcome string) {
	if m == nil {
		return
	}
	m.CouponAttempts.WithLabelValues(outcome).Inc()
}

func (m *BusinessMetrics) RecordQuote(shippingMethod string) {
	if m == nil {
		return
	}
	m.CheckoutQuoted.WithLabelValues(shippingMethod).Inc()
}

func (m *BusinessMetrics) RecordCheckoutRejected(reason string) {
	if m == nil {
		return
	}
	m.CheckoutRejected.WithLabelValues(reason).Inc()
}

// RecordOrderPlaced records a completed checkout.
func (m *BusinessMetrics) RecordOrderPlaced(shippingMethod, paymentMethod string, subtotal, total int64, units int) {
	if m == nil {
		return
	}
	m.CheckoutCompleted.WithLabelValues(shippingMethod, paymentMethod).Inc()
	m.OrdersCreated.WithLabelValues(paymentMethod).Inc()
	m.OrderValue.WithLabelValues(shippingMethod).Observe(float64(total))
	m.OrderItemCount.Observe(float64(units))
	m.CartValue.Observe(float64(subtotal))
}

func (m *BusinessMetrics) RecordOrderCancelled(fromStatus string) {
	if m == nil {
		return
	}
	m.OrdersCancelled.WithLabelValues(fromStatus).Inc()
}

func (m *BusinessMetrics) RecordOrderStatus(toStatus string) {
	if m == nil {
		return
	}
	m.OrderStatusChanged.WithLabelValues(toStatus).Inc()
}

func (m *BusinessMetrics) RecordOrdersDeleted(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.OrdersDeleted.Add(float64(n))
}

func (m *BusinessMetrics) RecordSignup() {
	if m == nil {
		return
	}
	m.Signups.Inc()
}

func (m *BusinessMetrics) RecordLogin(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.Logins.Inc()
	} else {
		m.LoginFailed.Inc()
	}
}

func (m *BusinessMetrics) RecordPointsAwarded(points int64) {
	if m == nil || points <= 0 {
		return
	}
	m.LoyaltyPointsAwarded.Add(float64(points))
}

func (m *BusinessMetrics) RecordWishlistToggle(action string) {
	if m == nil {
		return
	}
	m.WishlistToggles.WithLabelValues(action).Inc()
}

func (m *BusinessMetrics) RecordCompareToggle(action string) {
	if m == nil {
		return
	}
	m.CompareToggles.WithLabelValues(action).Inc()
}

func (m *BusinessMetrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(n))
}

func (m *BusinessMetrics) RecordPersistenceFailure(key string) {
	if m == nil {
		return
	}
	m.PersistenceFailures.WithLabelValues(key).Inc()
}

func (m *BusinessMetrics) RecordGeocode(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.GeocodeRequests.WithLabelValues(outcome).Inc()
	m.GeocodeLatency.Observe(seconds)
}

func (m *BusinessMetrics) RecordEvent(eventType string, ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	m.EventsPublished.WithLabelValues(eventType, outcome).Inc()
}
