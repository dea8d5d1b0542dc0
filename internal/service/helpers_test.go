package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/techstore/internal/address"
	"github.com/dukerupert/techstore/internal/auth"
	"github.com/dukerupert/techstore/internal/catalog"
	"github.com/dukerupert/techstore/internal/domain"
	"github.com/dukerupert/techstore/internal/notify"
	"github.com/dukerupert/techstore/internal/pricing"
	"github.com/dukerupert/techstore/internal/shipping"
	"github.com/dukerupert/techstore/internal/storage"
	"github.com/dukerupert/techstore/internal/telemetry"
)

// ============================================================================
// Test doubles
// ============================================================================

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newMetrics() *telemetry.BusinessMetrics {
	return telemetry.NewBusinessMetrics("test", prometheus.NewRegistry())
}

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

func newClock() *fixedClock {
	return &fixedClock{now: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.OrderEvent
	err    error
}

func (p *recordingPublisher) PublishOrderEvent(_ context.Context, e domain.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []domain.OrderEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.OrderEventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type recordingLoyalty struct {
	awards map[string]int64
	err    error
}

func (l *recordingLoyalty) AwardPoints(_ context.Context, userID string, points int64) error {
	if l.err != nil {
		return l.err
	}
	if l.awards == nil {
		l.awards = make(map[string]int64)
	}
	l.awards[userID] += points
	return nil
}

// brokenStore fails every operation.
type brokenStore struct{}

var errDiskFull = errors.New("disk full")

func (brokenStore) Get(context.Context, string) ([]byte, error) { return nil, errDiskFull }
func (brokenStore) Put(context.Context, string, []byte) error   { return errDiskFull }
func (brokenStore) Delete(context.Context, string) error        { return errDiskFull }

// mutableCatalog lets tests change prices after lines were added.
type mutableCatalog struct {
	products map[int]domain.Product
}

func newMutableCatalog(products ...domain.Product) *mutableCatalog {
	c := &mutableCatalog{products: make(map[int]domain.Product)}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (c *mutableCatalog) FindByID(_ context.Context, id int) (domain.Product, bool) {
	p, ok := c.products[id]
	return p, ok
}

func (c *mutableCatalog) List(context.Context, domain.ProductFilter) []domain.Product { return nil }
func (c *mutableCatalog) Categories(context.Context) []string                         { return nil }

// ============================================================================
// Fixture
// ============================================================================

// fixture wires one session's services against in-memory collaborators.
type fixture struct {
	ctx      context.Context
	store    *storage.MemoryStore
	clock    *fixedClock
	outbox   *notify.Outbox
	events   *recordingPublisher
	metrics  *telemetry.BusinessMetrics
	orders   domain.OrderRepository
	users    domain.UserRepository
	cart     domain.CartService
	coupons  domain.CouponService
	account  domain.AccountService
	checkout domain.CheckoutService
	orderSvc domain.OrderService
	geocoder *address.MockGeocoder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{
		ctx:      ctx,
		store:    storage.NewMemoryStore(),
		clock:    newClock(),
		outbox:   notify.NewOutbox(),
		events:   &recordingPublisher{},
		metrics:  newMetrics(),
		geocoder: address.NewMockGeocoder(&domain.Coordinates{Lat: 10.8185, Lng: 106.6588}),
	}
	logger := discardLogger()
	session := storage.WithNamespace(f.store, "sessions/test")

	f.orders = NewOrderRepository(ctx, f.store, logger, f.metrics)
	f.users = NewUserRepository(ctx, f.store, logger, f.metrics)
	f.cart = NewCartService(ctx, session, catalog.Default(), logger, f.metrics)
	f.coupons = NewCouponService(f.cart, pricing.DefaultTable(), f.outbox, logger, f.metrics)
	f.account = NewAccountService(ctx, AccountDeps{
		Users:    f.users,
		Session:  session,
		Hasher:   auth.NewHasher(bcrypt.MinCost),
		Notifier: f.outbox,
		Clock:    f.clock,
		Logger:   logger,
		Metrics:  f.metrics,
	})
	f.checkout = NewCheckoutService(CheckoutDeps{
		Cart:     f.cart,
		Coupons:  f.coupons,
		Shipping: shipping.NewFlatRateProvider(shipping.DefaultRates()),
		Orders:   f.orders,
		Loyalty:  f.account,
		Events:   f.events,
		Notifier: f.outbox,
		Clock:    f.clock,
		IDs:      NewOrderIDs(),
		Logger:   logger,
		Metrics:  f.metrics,
	})
	f.orderSvc = NewOrderService(OrderDeps{
		Orders:    f.orders,
		Geocoder:  f.geocoder,
		Warehouse: shipping.NewWarehouse(10.772726, 106.698804),
		Events:    f.events,
		Notifier:  f.outbox,
		Clock:     f.clock,
		Logger:    logger,
		Metrics:   f.metrics,
	})
	return f
}

// signUp registers and signs in a customer.
func (f *fixture) signUp(t *testing.T, email string) domain.User {
	t.Helper()
	u, err := f.account.Register(f.ctx, domain.RegisterParams{
		Name:            "Test Customer",
		Email:           email,
		Password:        "s3cret-pass",
		ConfirmPassword: "s3cret-pass",
	})
	require.NoError(t, err)
	f.outbox.Drain()
	return u
}

func (f *fixture) params() domain.CheckoutParams {
	return domain.CheckoutParams{
		ShippingMethod:  domain.ShippingExpress,
		PaymentMethod:   domain.PaymentCOD,
		DeliveryAddress: "12 Nguyen Hue, District 1, Ho Chi Minh City",
	}
}

func str(s string) *string { return &s }
