package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Order-related domain errors.
var (
	ErrOrderNotFound         = &Error{Code: ENOTFOUND, Reason: ReasonOrderNotFound, Message: "Order not found"}
	ErrNotCancellable        = &Error{Code: EPRECONDITION, Reason: ReasonNotCancellable, Message: "This order can no longer be cancelled"}
	ErrTerminalStatus        = &Error{Code: EPRECONDITION, Reason: ReasonTerminalStatus, Message: "This order has already been closed"}
	ErrEmptyCart             = &Error{Code: EPRECONDITION, Reason: ReasonEmptyCart, Message: "Your cart is empty"}
	ErrNotAuthenticated      = &Error{Code: EUNAUTHORIZED, Reason: ReasonNotAuthenticated, Message: "Please sign in to place an order"}
	ErrEmptyAddress          = &Error{Code: EINVALID, Reason: ReasonEmptyAddress, Message: "Please enter a delivery address"}
	ErrUnknownShippingMethod = &Error{Code: EINVALID, Reason: ReasonUnknownShippingMethod, Message: "Unknown shipping method"}
	ErrUnknownPaymentMethod  = &Error{Code: EINVALID, Reason: ReasonUnknownPaymentMethod, Message: "Unknown payment method"}
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsTerminal reports whether no further transition is allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Next returns the fulfilment successor of s: pending to shipped, shipped to delivered.
func (s OrderStatus) Next() (OrderStatus, bool) {
	switch s {
	case OrderStatusPending:
		return OrderStatusShipped, true
	case OrderStatusShipped:
		return OrderStatusDelivered, true
	default:
		return "", false
	}
}

// CanTransition reports whether s may move to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if next == OrderStatusCancelled {
		return !s.IsTerminal()
	}
	n, ok := s.Next()
	return ok && n == next
}

// Label is the customer-facing status name.
func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusPending:
		return "Processing"
	case OrderStatusShipped:
		return "Shipping"
	case OrderStatusDelivered:
		return "Delivered"
	case OrderStatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// ShippingMethod identifies a delivery tier.
type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
	ShippingSameDay  ShippingMethod = "same-day"
)

// PaymentMethod identifies how the customer intends to pay. No payment is processed.
type PaymentMethod string

const (
	PaymentCOD  PaymentMethod = "cod"
	PaymentBank PaymentMethod = "bank"
	PaymentMoMo PaymentMethod = "momo"
	PaymentCard PaymentMethod = "card"
)

// Valid reports whether m is one of the accepted payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCOD, PaymentBank, PaymentMoMo, PaymentCard:
		return true
	}
	return false
}

// Coordinates is a WGS84 point. It is stored as a [lat, lng] pair.
type Coordinates struct {
	Lat float64
	Lng float64
}

func (c Coordinates) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Lat, c.Lng})
}

func (c *Coordinates) UnmarshalJSON(b []byte) error {
	var pair []float64
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("coordinates: want 2 values, got %d", len(pair))
	}
	c.Lat, c.Lng = pair[0], pair[1]
	return nil
}

// Order is a completed purchase. Everything but Status and DeliveryCoordinates
// is fixed at creation.
type Order struct {
	ID                  string         `json:"id"`
	UserID              string         `json:"userId"`
	Items               []CartLine     `json:"items"`
	Subtotal            int64          `json:"subtotal"`
	Discount            int64          `json:"discount"`
	ShippingFee         int64          `json:"shippingFee"`
	Total               int64          `json:"total"`
	Status              OrderStatus    `json:"status"`
	Date                time.Time      `json:"date"`
	AppliedCoupon       *string        `json:"appliedCoupon"`
	DeliveryAddress     string         `json:"deliveryAddress"`
	DeliveryCoordinates *Coordinates   `json:"deliveryCoords"`
	ShippingMethod      ShippingMethod `json:"shippingMethod"`
	PaymentMethod       PaymentMethod  `json:"paymentMethod"`
}

// Clone returns a deep copy of the order.
func (o Order) Clone() Order {
	c := o
	c.Items = CloneLines(o.Items)
	if o.AppliedCoupon != nil {
		s := *o.AppliedCoupon
		c.AppliedCoupon = &s
	}
	if o.DeliveryCoordinates != nil {
		p := *o.DeliveryCoordinates
		c.DeliveryCoordinates = &p
	}
	return c
}

// LoyaltyPoints is the award for a completed order: one point per 100,000 VND, rounded down.
func LoyaltyPoints(total int64) int64 {
	if total <= 0 {
		return 0
	}
	return total / 100000
}

// CheckoutParams carries the customer's delivery and payment choices.
type CheckoutParams struct {
	ShippingMethod      ShippingMethod
	PaymentMethod       PaymentMethod
	DeliveryAddress     string
	DeliveryCoordinates *Coordinates
}

// Quote is a checkout price preview.
type Quote struct {
	Subtotal       int64          `json:"subtotal"`
	Discount       int64          `json:"discount"`
	ShippingMethod ShippingMethod `json:"shippingMethod"`
	ShippingFee    int64          `json:"shippingFee"`
	Total          int64          `json:"total"`
}

// CheckoutService turns the session cart into an order.
type CheckoutService interface {
	// Quote prices the cart for the given shipping method without side effects.
	Quote(ctx context.Context, method ShippingMethod) (Quote, error)

	// Complete places the order for userID, clears the cart and the applied
	// coupon, and awards loyalty points.
	Complete(ctx context.Context, userID string, params CheckoutParams) (Order, error)
}

// TrackingStep is one entry of an order's status timeline.
type TrackingStep struct {
	Status  OrderStatus `json:"status"`
	Label   string      `json:"label"`
	Reached bool        `json:"reached"`
	Current bool        `json:"current"`
}

// Tracking describes where an order is and how far it has to travel.
type Tracking struct {
	Order      Order          `json:"order"`
	Timeline   []TrackingStep `json:"timeline"`
	Warehouse  Coordinates    `json:"warehouse"`
	DistanceKm *float64       `json:"distanceKm,omitempty"`
	ETA        string         `json:"eta,omitempty"`
}

// OrderService manages the persisted orders of signed-in users.
// Every operation is scoped to the owning user.
type OrderService interface {
	// ListForUser returns the user's orders in placement order.
	ListForUser(ctx context.Context, userID string) ([]Order, error)

	// Get returns one order owned by userID.
	Get(ctx context.Context, orderID, userID string) (Order, error)

	// Cancel moves a pending or shipped order to cancelled.
	Cancel(ctx context.Context, orderID, userID string) (Order, error)

	// Delete removes the order if userID owns it. Other users' orders are left alone.
	Delete(ctx context.Context, orderID, userID string) error

	// DeleteMany removes every listed order owned by userID.
	DeleteMany(ctx context.Context, orderIDs []string, userID string) error

	// AdvanceStatus moves an order one step along pending, shipped, delivered.
	AdvanceStatus(ctx context.Context, orderID string) (Order, error)

	// Track returns the status timeline and delivery distance of an order.
	Track(ctx context.Context, orderID, userID string) (Tracking, error)
}

// OrderRepository persists the shared order list.
type OrderRepository interface {
	// Append adds a new order at the end of the list.
	Append(ctx context.Context, order Order) error

	// List returns every order in insertion order.
	List(ctx context.Context) ([]Order, error)

	// Update applies fn to the order with the given id and saves the result.
	// It returns ErrOrderNotFound when no order matches. An error from fn
	// aborts the update and is returned as is.
	Update(ctx context.Context, orderID string, fn func(*Order) error) (Order, error)

	// DeleteWhere removes every order for which match returns true and reports how many went.
	DeleteWhere(ctx context.Context, match func(Order) bool) (int, error)
}
