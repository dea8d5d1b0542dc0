package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukerupert/techstore/internal/address"
	"github.com/dukerupert/techstore/internal/domain"
	"github.com/dukerupert/techstore/internal/notify"
	"github.com/dukerupert/techstore/internal/pricing"
	"github.com/dukerupert/techstore/internal/shipping"
	"github.com/dukerupert/techstore/internal/telemetry"
)

// CheckoutDeps are the collaborators of a session's checkout.
type CheckoutDeps struct {
	Cart      domain.CartService
	Coupons   domain.CouponService
	Shipping  shipping.Provider
	Addresses address.Validator
	Orders    domain.OrderRepository
	Loyalty   domain.LoyaltyAwarder
	Events    domain.EventPublisher
	Notifier  domain.Notifier
	Clock     domain.Clock
	IDs       domain.IDGenerator
	Logger    *slog.Logger
	Metrics   *telemetry.BusinessMetrics
}

type checkoutService struct {
	CheckoutDeps
	logger *slog.Logger
}

// NewCheckoutService creates the checkout for one session.
func NewCheckoutService(deps CheckoutDeps) domain.CheckoutService {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Clock == nil {
		deps.Clock = domain.SystemClock{}
	}
	if deps.IDs == nil {
		deps.IDs = NewOrderIDs()
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.Discard{}
	}
	if deps.Addresses == nil {
		deps.Addresses = address.NewBasicValidator()
	}
	return &checkoutService{
		CheckoutDeps: deps,
		logger:       deps.Logger.With("service", "checkout"),
	}
}

func (s *checkoutService) Quote(ctx context.Context, method domain.ShippingMethod) (domain.Quote, error) {
	rate, err := s.rate(ctx, "checkout.quote", method)
	if err != nil {
		return domain.Quote{}, err
	}

	subtotal := s.Cart.Subtotal(ctx)
	discount := s.Coupons.Discount(ctx, subtotal)

	s.Metrics.RecordQuote(string(method))
	return domain.Quote{
		Subtotal:       subtotal,
		Discount:       discount,
		ShippingMethod: method,
		ShippingFee:    rate.Fee,
		Total:          pricing.ComputeTotal(subtotal, discount, rate.Fee),
	}, nil
}

// Complete places the order. Checks run in this order: empty cart, signed-in
// user, delivery address, shipping method, payment method.
func (s *checkoutService) Complete(ctx context.Context, userID string, params domain.CheckoutParams) (domain.Order, error) {
	const op = "checkout.complete"

	if s.Cart.IsEmpty(ctx) {
		return domain.Order{}, s.reject(ctx, domain.ErrEmptyCart.WithOp(op))
	}
	if userID == "" {
		return domain.Order{}, s.reject(ctx, domain.ErrNotAuthenticated.WithOp(op))
	}

	deliveryAddress, err := s.validateAddress(ctx, op, params.DeliveryAddress)
	if err != nil {
		return domain.Order{}, s.reject(ctx, err)
	}

	rate, err := s.rate(ctx, op, params.ShippingMethod)
	if err != nil {
		return domain.Order{}, s.reject(ctx, err)
	}
	if !params.PaymentMethod.Valid() {
		return domain.Order{}, s.reject(ctx, domain.ErrUnknownPaymentMethod.WithOp(op))
	}

	lines := s.Cart.Lines(ctx)
	subtotal := pricing.Subtotal(lines)
	discount := s.Coupons.Discount(ctx, subtotal)
	total := pricing.ComputeTotal(subtotal, discount, rate.Fee)

	now := s.Clock.Now()
	order := domain.Order{
		ID:              s.IDs.NewOrderID(now),
		UserID:          userID,
		Items:           lines,
		Subtotal:        subtotal,
		Discount:        discount,
		ShippingFee:     rate.Fee,
		Total:           total,
		Status:          domain.OrderStatusPending,
		Date:            now,
		DeliveryAddress: deliveryAddress,
		ShippingMethod:  params.ShippingMethod,
		PaymentMethod:   params.PaymentMethod,
	}
	if coupon, ok := s.Coupons.Applied(ctx); ok {
		desc := coupon.Description
		order.AppliedCoupon = &desc
	}
	if params.DeliveryCoordinates != nil {
		c := *params.DeliveryCoordinates
		order.DeliveryCoordinates = &c
	}

	if err := s.Orders.Append(ctx, order.Clone()); err != nil {
		return domain.Order{}, domain.Internal(err, op, "Could not save your order")
	}

	units := s.Cart.ItemCount(ctx)
	s.Cart.Clear(ctx)
	s.Coupons.ClearApplied(ctx)

	points := domain.LoyaltyPoints(total)
	if s.Loyalty != nil && points > 0 {
		if err := s.Loyalty.AwardPoints(ctx, userID, points); err != nil {
			s.logger.WarnContext(ctx, "failed to award loyalty points",
				"order_id", order.ID,
				"user_id", userID,
				"points", points,
				"error", err,
			)
		}
	}

	s.publish(ctx, order)
	s.Metrics.RecordOrderPlaced(string(order.ShippingMethod), string(order.PaymentMethod), subtotal, total, units)
	s.logger.InfoContext(ctx, "order placed",
		"order_id", order.ID,
		"user_id", userID,
		"total", total,
		"points", points,
	)
	s.Notifier.Notify(ctx, fmt.Sprintf("Order %s placed. You earned %d points.", order.ID, points), domain.NotifySuccess)

	return order, nil
}

func (s *checkoutService) validateAddress(ctx context.Context, op, raw string) (string, error) {
	res, err := s.Addresses.Validate(ctx, raw)
	if err != nil {
		return "", domain.Internal(err, op, "Could not validate the delivery address")
	}
	if res.NormalizedAddress == "" {
		return "", domain.ErrEmptyAddress.WithOp(op)
	}
	if !res.IsValid {
		var verr error
		for _, fe := range res.Errors {
			if verr == nil {
				verr = domain.NewValidationError(op, fe.Field, fe.Message)
				continue
			}
			verr = domain.AddFieldError(verr, fe.Field, fe.Message)
		}
		if verr == nil {
			verr = domain.Invalid(op, "Invalid delivery address")
		}
		return "", verr
	}
	return res.NormalizedAddress, nil
}

func (s *checkoutService) rate(ctx context.Context, op string, method domain.ShippingMethod) (shipping.Rate, error) {
	rate, err := s.Shipping.Rate(ctx, method)
	if errors.Is(err, shipping.ErrUnknownMethod) {
		return shipping.Rate{}, domain.ErrUnknownShippingMethod.WithOp(op)
	}
	if err != nil {
		return shipping.Rate{}, domain.Internal(err, op, "Could not price shipping")
	}
	return rate, nil
}

func (s *checkoutService) reject(ctx context.Context, err error) error {
	reason := domain.ErrorReason(err)
	if reason == "" {
		reason = domain.ErrorCode(err)
	}
	if domain.IsValidationError(err) {
		reason = "validation"
	}
	s.Metrics.RecordCheckoutRejected(reason)
	s.Notifier.Notify(ctx, notificationText(err), domain.NotifyError)
	return err
}

func (s *checkoutService) publish(ctx context.Context, order domain.Order) {
	if s.Events == nil {
		return
	}
	err := s.Events.PublishOrderEvent(ctx, domain.OrderEvent{
		Type:       domain.OrderPlaced,
		OrderID:    order.ID,
		UserID:     order.UserID,
		Status:     order.Status,
		Total:      order.Total,
		OccurredAt: order.Date,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to publish order event", "order_id", order.ID, "error", err)
	}
}

// notificationText picks the user-facing text for a rejection.
func notificationText(err error) string {
	if fields := domain.GetValidationFields(err); len(fields) > 0 {
		for _, msg := range fields {
			return msg
		}
	}
	return domain.ErrorMessage(err)
}
