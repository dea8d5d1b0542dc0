package storefront

import (
	"net/http"

	"github.com/dukerupert/techstore/internal/domain"
	"github.com/dukerupert/techstore/internal/service"
)

// OrderHandler exposes the signed-in customer's order history. Routes are
// mounted behind middleware.RequireUser.
type OrderHandler struct{}

// NewOrderHandler creates a new order handler
func NewOrderHandler() *OrderHandler {
	return &OrderHandler{}
}

type deleteOrdersRequest struct {
	OrderIDs []string `json:"orderIds" validate:"required,min=1,dive,required"`
}

// userID returns the signed-in user's id. A request that logged out earlier
// in the same session gets ErrNotAuthenticated.
func userID(r *http.Request, sess *service.Session, op string) (string, error) {
	u, ok := sess.Account.Current(r.Context())
	if !ok {
		return "", domain.ErrNotAuthenticated.WithOp(op)
	}
	return u.ID, nil
}

// List handles GET /api/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	uid, err := userID(r, sess, "order.list")
	if err != nil {
		fail(w, r, err)
		return
	}

	orders, err := sess.Orders.ListForUser(r.Context(), uid)
	if err != nil {
		fail(w, r, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	respond(w, r, http.StatusOK, orders)
}

// Get handles GET /api/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	uid, err := userID(r, sess, "order.get")
	if err != nil {
		fail(w, r, err)
		return
	}

	order, err := sess.Orders.Get(r.Context(), r.PathValue("id"), uid)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, order)
}

// Cancel handles POST /api/orders/{id}/cancel
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	uid, err := userID(r, sess, "order.cancel")
	if err != nil {
		fail(w, r, err)
		return
	}

	order, err := sess.Orders.Cancel(r.Context(), r.PathValue("id"), uid)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, order)
}

// Delete handles DELETE /api/orders/{id}
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	uid, err := userID(r, sess, "order.delete")
	if err != nil {
		fail(w, r, err)
		return
	}

	if err := sess.Orders.Delete(r.Context(), r.PathValue("id"), uid); err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, nil)
}

// DeleteMany handles POST /api/orders/delete
func (h *OrderHandler) DeleteMany(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	uid, err := userID(r, sess, "order.delete_many")
	if err != nil {
		fail(w, r, err)
		return
	}

	var req deleteOrdersRequest
	if err := decode(r, "order.delete_many", &req); err != nil {
		fail(w, r, err)
		return
	}
	if err := sess.Orders.DeleteMany(r.Context(), req.OrderIDs, uid); err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, nil)
}

// Track handles GET /api/orders/{id}/tracking
func (h *OrderHandler) Track(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	uid, err := userID(r, sess, "order.track")
	if err != nil {
		fail(w, r, err)
		return
	}

	tracking, err := sess.Orders.Track(r.Context(), r.PathValue("id"), uid)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, tracking)
}

// FulfilmentHandler serves operator endpoints that move orders along.
type FulfilmentHandler struct {
	orders domain.OrderService
}

// NewFulfilmentHandler creates a new fulfilment handler
func NewFulfilmentHandler(orders domain.OrderService) *FulfilmentHandler {
	return &FulfilmentHandler{orders: orders}
}

// Advance handles POST /api/admin/orders/{id}/advance
func (h *FulfilmentHandler) Advance(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.AdvanceStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, order)
}
