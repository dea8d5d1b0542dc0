package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/techstore/internal/address"
	"github.com/dukerupert/techstore/internal/auth"
	"github.com/dukerupert/techstore/internal/domain"
	"github.com/dukerupert/techstore/internal/notify"
	"github.com/dukerupert/techstore/internal/pricing"
	"github.com/dukerupert/techstore/internal/shipping"
	"github.com/dukerupert/techstore/internal/storage"
	"github.com/dukerupert/techstore/internal/telemetry"
)

const sessionIDBytes = 32

// GenerateSessionID generates a cryptographically secure session ID
// Uses 32 bytes of random data encoded as base64 URL-safe string
func GenerateSessionID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return base64.URLEncoding.EncodeToString(b), nil
}

// validSessionID reports whether id could have come from GenerateSessionID.
func validSessionID(id string) bool {
	b, err := base64.URLEncoding.DecodeString(id)
	return err == nil && len(b) == sessionIDBytes
}

// Session is the state of one storefront visitor: the equivalent of a
// browser tab. Callers hold Lock for the duration of a request so that the
// session's operations never interleave.
type Session struct {
	ID string

	mu       sync.Mutex
	lastSeen time.Time // guarded by SessionManager.mu

	Outbox   *notify.Outbox
	Cart     domain.CartService
	Coupons  domain.CouponService
	Checkout domain.CheckoutService
	Orders   domain.OrderService
	Account  domain.AccountService
	Wishlist domain.WishlistService
	Compare  domain.CompareService
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Summary prices the cart with the applied coupon, before shipping.
func (s *Session) Summary(ctx context.Context) domain.CartSummary {
	lines := s.Cart.Lines(ctx)
	subtotal := pricing.Subtotal(lines)
	discount := s.Coupons.Discount(ctx, subtotal)

	sum := domain.CartSummary{
		Lines:     lines,
		ItemCount: s.Cart.ItemCount(ctx),
		Subtotal:  subtotal,
		Discount:  discount,
		Total:     pricing.ComputeTotal(subtotal, discount, 0),
	}
	if c, ok := s.Coupons.Applied(ctx); ok {
		sum.AppliedCoupon = &c
	}
	return sum
}

// RemoveFromCart drops the product and clears the coupon once the cart is empty.
func (s *Session) RemoveFromCart(ctx context.Context, productID int) {
	s.Cart.Remove(ctx, productID)
	s.clearCouponIfEmpty(ctx)
}

// UpdateCartQuantity adjusts the product and clears the coupon once the cart is empty.
func (s *Session) UpdateCartQuantity(ctx context.Context, productID, delta int) {
	s.Cart.UpdateQuantity(ctx, productID, delta)
	s.clearCouponIfEmpty(ctx)
}

func (s *Session) clearCouponIfEmpty(ctx context.Context) {
	if s.Cart.IsEmpty(ctx) {
		s.Coupons.ClearApplied(ctx)
	}
}

// PlaceOrder completes checkout for the signed-in user, if any.
func (s *Session) PlaceOrder(ctx context.Context, params domain.CheckoutParams) (domain.Order, error) {
	var userID string
	if u, ok := s.Account.Current(ctx); ok {
		userID = u.ID
	}
	return s.Checkout.Complete(ctx, userID, params)
}

// SessionDeps are the process-wide collaborators shared by every session.
type SessionDeps struct {
	Store          storage.Store
	Catalog        domain.Catalog
	Coupons        domain.CouponTable
	Shipping       shipping.Provider
	Addresses      address.Validator
	Geocoder       address.Geocoder
	Warehouse      shipping.Warehouse
	GeocodeTimeout time.Duration
	Orders         domain.OrderRepository
	Users          domain.UserRepository
	Hasher         *auth.Hasher
	Events         domain.EventPublisher
	Clock          domain.Clock
	IDs            domain.IDGenerator
	Logger         *slog.Logger
	Metrics        *telemetry.BusinessMetrics
	IdleTTL        time.Duration
}

// SessionManager owns the live sessions of the process.
type SessionManager struct {
	deps     SessionDeps
	logger   *slog.Logger
	operator domain.OrderService

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionManager creates a manager. Sessions are restored from
// deps.Store on first use and evicted from memory after IdleTTL.
func NewSessionManager(deps SessionDeps) *SessionManager {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Clock == nil {
		deps.Clock = domain.SystemClock{}
	}
	if deps.IDs == nil {
		deps.IDs = NewOrderIDs()
	}
	if deps.Addresses == nil {
		deps.Addresses = address.NewBasicValidator()
	}
	if deps.IdleTTL <= 0 {
		deps.IdleTTL = 2 * time.Hour
	}
	return &SessionManager{
		deps:     deps,
		logger:   deps.Logger.With("component", "sessions"),
		sessions: make(map[string]*Session),
		operator: NewOrderService(OrderDeps{
			Orders:         deps.Orders,
			Geocoder:       deps.Geocoder,
			Warehouse:      deps.Warehouse,
			GeocodeTimeout: deps.GeocodeTimeout,
			Events:         deps.Events,
			Notifier:       notify.NewLogger(deps.Logger),
			Clock:          deps.Clock,
			Logger:         deps.Logger,
			Metrics:        deps.Metrics,
		}),
	}
}

// Operator returns the order service used for fulfilment actions that are not
// tied to a customer session.
func (m *SessionManager) Operator() domain.OrderService {
	return m.operator
}

// Open returns the session for id, restoring it from storage when it is not
// live. An empty or malformed id starts a new session; created reports that.
func (m *SessionManager) Open(ctx context.Context, id string) (sess *Session, created bool, err error) {
	if !validSessionID(id) {
		id, err = GenerateSessionID()
		if err != nil {
			return nil, false, err
		}
		created = true
	}

	m.mu.Lock()
	if s, ok := m.sessions[id]; ok {
		s.lastSeen = m.deps.Clock.Now()
		m.mu.Unlock()
		return s, created, nil
	}
	m.mu.Unlock()

	fresh := m.build(domain.NewContextWithSessionID(ctx, id), id)

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another request may have restored the same session meanwhile.
	if s, ok := m.sessions[id]; ok {
		s.lastSeen = m.deps.Clock.Now()
		return s, created, nil
	}
	fresh.lastSeen = m.deps.Clock.Now()
	m.sessions[id] = fresh
	m.deps.Metrics.SetActiveSessions(len(m.sessions))
	return fresh, created, nil
}

func (m *SessionManager) build(ctx context.Context, id string) *Session {
	d := m.deps
	logger := d.Logger.With("session_id", id)
	store := storage.WithNamespace(d.Store, "sessions/"+id)
	outbox := notify.NewOutbox()
	notifier := notify.Multi{outbox, notify.NewLogger(logger)}

	cart := NewCartService(ctx, store, d.Catalog, logger, d.Metrics)
	coupons := NewCouponService(cart, d.Coupons, notifier, logger, d.Metrics)
	account := NewAccountService(ctx, AccountDeps{
		Users:    d.Users,
		Session:  store,
		Hasher:   d.Hasher,
		Notifier: notifier,
		Clock:    d.Clock,
		Logger:   logger,
		Metrics:  d.Metrics,
	})

	return &Session{
		ID:      id,
		Outbox:  outbox,
		Cart:    cart,
		Coupons: coupons,
		Account: account,
		Checkout: NewCheckoutService(CheckoutDeps{
			Cart:      cart,
			Coupons:   coupons,
			Shipping:  d.Shipping,
			Addresses: d.Addresses,
			Orders:    d.Orders,
			Loyalty:   account,
			Events:    d.Events,
			Notifier:  notifier,
			Clock:     d.Clock,
			IDs:       d.IDs,
			Logger:    logger,
			Metrics:   d.Metrics,
		}),
		Orders: NewOrderService(OrderDeps{
			Orders:         d.Orders,
			Geocoder:       d.Geocoder,
			Warehouse:      d.Warehouse,
			GeocodeTimeout: d.GeocodeTimeout,
			Events:         d.Events,
			Notifier:       notifier,
			Clock:          d.Clock,
			Logger:         logger,
			Metrics:        d.Metrics,
		}),
		Wishlist: NewWishlistService(ctx, store, d.Catalog, notifier, logger, d.Metrics),
		Compare:  NewCompareService(ctx, store, d.Catalog, notifier, logger, d.Metrics),
	}
}

// Len reports the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep evicts sessions idle since before now minus IdleTTL. A session that
// is in use is kept. Evicted sessions can be restored from storage later;
// only the applied coupon is lost.
func (m *SessionManager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, s := range m.sessions {
		if now.Sub(s.lastSeen) < m.deps.IdleTTL {
			continue
		}
		if !s.mu.TryLock() {
			continue
		}
		delete(m.sessions, id)
		s.mu.Unlock()
		evicted++
	}
	if evicted > 0 {
		m.logger.Debug("evicted idle sessions", "count", evicted, "live", len(m.sessions))
	}
	m.deps.Metrics.SetActiveSessions(len(m.sessions))
	return evicted
}

// Run sweeps idle sessions every interval until ctx is done.
func (m *SessionManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(m.deps.Clock.Now())
		}
	}
}

type sessionContextKey struct{}

// NewContextWithSession attaches a session to ctx.
func NewContextWithSession(ctx context.Context, s *Session) context.Context {
	ctx = domain.NewContextWithSessionID(ctx, s.ID)
	return context.WithValue(ctx, sessionContextKey{}, s)
}

// SessionFromContext returns the session attached by NewContextWithSession.
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionContextKey{}).(*Session)
	return s
}
