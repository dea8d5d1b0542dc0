package storefront

import (
	"net/http"

	"github.com/dukerupert/techstore/internal/domain"
)

// CheckoutHandler prices and places orders from the session cart.
type CheckoutHandler struct{}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler() *CheckoutHandler {
	return &CheckoutHandler{}
}

type quoteRequest struct {
	ShippingMethod domain.ShippingMethod `json:"shippingMethod"`
}

// Method and address checks stay in the checkout service so that rejections
// carry their business reason.
type checkoutRequest struct {
	ShippingMethod      domain.ShippingMethod `json:"shippingMethod"`
	PaymentMethod       domain.PaymentMethod  `json:"paymentMethod"`
	DeliveryAddress     string                `json:"deliveryAddress"`
	DeliveryCoordinates *domain.Coordinates   `json:"deliveryCoords"`
}

// Quote handles POST /api/checkout/quote
func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := decode(r, "checkout.quote", &req); err != nil {
		fail(w, r, err)
		return
	}

	q, err := currentSession(r).Checkout.Quote(r.Context(), req.ShippingMethod)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, q)
}

// PlaceOrder handles POST /api/checkout
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decode(r, "checkout.complete", &req); err != nil {
		fail(w, r, err)
		return
	}

	order, err := currentSession(r).PlaceOrder(r.Context(), domain.CheckoutParams{
		ShippingMethod:      req.ShippingMethod,
		PaymentMethod:       req.PaymentMethod,
		DeliveryAddress:     req.DeliveryAddress,
		DeliveryCoordinates: req.DeliveryCoordinates,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, order)
}
