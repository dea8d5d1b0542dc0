package storefront

import (
	"net/http"

	"github.com/dukerupert/techstore/internal/domain"
)

// CartHandler handles the cart and the applied coupon of the session.
type CartHandler struct {
	catalog domain.Catalog
}

// NewCartHandler creates a new cart handler. The catalog is consulted for
// availability before an add reaches the session cart.
func NewCartHandler(catalog domain.Catalog) *CartHandler {
	return &CartHandler{catalog: catalog}
}

type addToCartRequest struct {
	ProductID            int     `json:"productId" validate:"required,gt=0"`
	Quantity             int     `json:"quantity" validate:"max=99"`
	SelectedColor        *string `json:"selectedColor"`
	SelectedStorage      *string `json:"selectedStorage"`
	SelectedMemory       *string `json:"selectedMemory"`
	SelectedConnectivity *string `json:"selectedConnectivity"`
}

type updateQuantityRequest struct {
	Delta int `json:"delta" validate:"required,min=-99,max=99"`
}

type applyCouponRequest struct {
	Code string `json:"code"`
}

// View handles GET /api/cart
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, currentSession(r).Summary(r.Context()))
}

// Add handles POST /api/cart/items
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := decode(r, "cart.add", &req); err != nil {
		fail(w, r, err)
		return
	}

	if product, ok := h.catalog.FindByID(r.Context(), req.ProductID); ok && !product.InStock {
		fail(w, r, domain.ErrOutOfStock.WithOp("cart.add"))
		return
	}

	sess := currentSession(r)
	sel := domain.VariantSelection{
		Color:        req.SelectedColor,
		Storage:      req.SelectedStorage,
		Memory:       req.SelectedMemory,
		Connectivity: req.SelectedConnectivity,
	}
	// An unknown id leaves the cart untouched and is not an error.
	if sess.Cart.Add(r.Context(), req.ProductID, req.Quantity, sel) {
		sess.Outbox.Notify(r.Context(), "Added to cart", domain.NotifySuccess)
	} else {
		sess.Outbox.Notify(r.Context(), "This product is no longer available", domain.NotifyInfo)
	}
	respond(w, r, http.StatusOK, sess.Summary(r.Context()))
}

// UpdateQuantity handles PATCH /api/cart/items/{productId}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r, "productId")
	if err != nil {
		fail(w, r, err)
		return
	}
	var req updateQuantityRequest
	if err := decode(r, "cart.update_quantity", &req); err != nil {
		fail(w, r, err)
		return
	}

	sess := currentSession(r)
	sess.UpdateCartQuantity(r.Context(), id, req.Delta)
	respond(w, r, http.StatusOK, sess.Summary(r.Context()))
}

// Remove handles DELETE /api/cart/items/{productId}
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r, "productId")
	if err != nil {
		fail(w, r, err)
		return
	}

	sess := currentSession(r)
	sess.RemoveFromCart(r.Context(), id)
	respond(w, r, http.StatusOK, sess.Summary(r.Context()))
}

// Clear handles DELETE /api/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	sess.Cart.Clear(r.Context())
	sess.Coupons.ClearApplied(r.Context())
	respond(w, r, http.StatusOK, sess.Summary(r.Context()))
}

// ApplyCoupon handles POST /api/cart/coupon
//
// Re-applying the coupon already in effect is not an error: the response is
// 200 with the unchanged summary and an info notification.
func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req applyCouponRequest
	if err := decode(r, "coupon.apply", &req); err != nil {
		fail(w, r, err)
		return
	}

	sess := currentSession(r)
	if _, err := sess.Coupons.Apply(r.Context(), req.Code); err != nil && !domain.IsSoft(err) {
		fail(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, sess.Summary(r.Context()))
}

// RemoveCoupon handles DELETE /api/cart/coupon
func (h *CartHandler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	sess.Coupons.ClearApplied(r.Context())
	respond(w, r, http.StatusOK, sess.Summary(r.Context()))
}
