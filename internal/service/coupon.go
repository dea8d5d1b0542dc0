package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dukerupert/techstore/internal/domain"
	"github.com/dukerupert/techstore/internal/notify"
	"github.com/dukerupert/techstore/internal/pricing"
	"github.com/dukerupert/techstore/internal/telemetry"
)

type couponService struct {
	cart     domain.CartService
	table    domain.CouponTable
	notifier domain.Notifier
	logger   *slog.Logger
	metrics  *telemetry.BusinessMetrics

	applied *domain.Coupon
}

// NewCouponService creates the coupon evaluator for one session. The applied
// coupon lives only as long as the service.
func NewCouponService(cart domain.CartService, table domain.CouponTable, notifier domain.Notifier, logger *slog.Logger, metrics *telemetry.BusinessMetrics) domain.CouponService {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &couponService{
		cart:     cart,
		table:    table,
		notifier: notifier,
		logger:   logger.With("service", "coupon"),
		metrics:  metrics,
	}
}

// Apply validates code against the cart and makes it the sole applied coupon.
// A rejected coupon leaves any previously applied coupon in place.
func (s *couponService) Apply(ctx context.Context, code string) (domain.Coupon, error) {
	const op = "coupon.apply"

	code = pricing.NormalizeCode(code)
	if code == "" {
		return domain.Coupon{}, s.reject(ctx, op, domain.ErrEmptyCouponCode, domain.ErrEmptyCouponCode.Message)
	}
	if s.cart.IsEmpty(ctx) {
		return domain.Coupon{}, s.reject(ctx, op, domain.ErrCouponEmptyCart, domain.ErrCouponEmptyCart.Message)
	}

	coupon, ok := s.table.Lookup(code)
	if !ok {
		return domain.Coupon{}, s.reject(ctx, op, domain.ErrInvalidCoupon,
			fmt.Sprintf("Coupon %s is invalid or has expired", code))
	}

	subtotal := s.cart.Subtotal(ctx)
	if !pricing.Eligible(subtotal, coupon) {
		return domain.Coupon{}, s.reject(ctx, op, domain.ErrBelowMinimum,
			fmt.Sprintf("Coupon %s requires a minimum order of %d VND", coupon.Code, coupon.MinOrder))
	}

	if s.applied != nil && s.applied.Code == coupon.Code {
		s.metrics.RecordCoupon(domain.ReasonAlreadyApplied)
		s.notifier.Notify(ctx, domain.ErrAlreadyApplied.Message, domain.NotifyInfo)
		return coupon, domain.ErrAlreadyApplied.WithOp(op)
	}

	s.applied = &coupon
	s.metrics.RecordCoupon("applied")
	s.logger.InfoContext(ctx, "coupon applied",
		"code", coupon.Code,
		"discount", coupon.Discount.String(),
		"subtotal", subtotal,
	)
	s.notifier.Notify(ctx, fmt.Sprintf("Coupon %s applied: %s", coupon.Code, coupon.Description), domain.NotifySuccess)
	return coupon, nil
}

func (s *couponService) reject(ctx context.Context, op string, sentinel *domain.Error, message string) error {
	s.metrics.RecordCoupon(sentinel.Reason)
	s.notifier.Notify(ctx, message, domain.NotifyError)

	err := sentinel.WithOp(op)
	err.Message = message
	return err
}

func (s *couponService) Applied(ctx context.Context) (domain.Coupon, bool) {
	if s.applied == nil {
		return domain.Coupon{}, false
	}
	return *s.applied, true
}

// Discount evaluates the applied coupon against subtotal. The minimum is
// enforced only when the coupon is applied.
func (s *couponService) Discount(ctx context.Context, subtotal int64) int64 {
	if s.applied == nil {
		return 0
	}
	return pricing.ComputeDiscount(subtotal, *s.applied)
}

func (s *couponService) ClearApplied(ctx context.Context) {
	if s.applied == nil {
		return
	}
	s.logger.DebugContext(ctx, "coupon cleared", "code", s.applied.Code)
	s.applied = nil
}
