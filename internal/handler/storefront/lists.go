package storefront

import (
	"net/http"

	"github.com/dukerupert/techstore/internal/domain"
)

// ListHandler serves the wishlist and the comparison list.
type ListHandler struct{}

// NewListHandler creates a new list handler
func NewListHandler() *ListHandler {
	return &ListHandler{}
}

type toggleResult struct {
	ProductID int              `json:"productId"`
	Active    bool             `json:"active"`
	Items     []domain.Product `json:"items"`
}

func nonNil(items []domain.Product) []domain.Product {
	if items == nil {
		return []domain.Product{}
	}
	return items
}

// Wishlist handles GET /api/wishlist
func (h *ListHandler) Wishlist(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, nonNil(currentSession(r).Wishlist.Items(r.Context())))
}

// ToggleWishlist handles POST /api/wishlist/{productId}
func (h *ListHandler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r, "productId")
	if err != nil {
		fail(w, r, err)
		return
	}

	sess := currentSession(r)
	active, err := sess.Wishlist.Toggle(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, toggleResult{ProductID: id, Active: active, Items: nonNil(sess.Wishlist.Items(r.Context()))})
}

// Compare handles GET /api/compare
func (h *ListHandler) Compare(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, nonNil(currentSession(r).Compare.Items(r.Context())))
}

// ToggleCompare handles POST /api/compare/{productId}
func (h *ListHandler) ToggleCompare(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r, "productId")
	if err != nil {
		fail(w, r, err)
		return
	}

	sess := currentSession(r)
	active, err := sess.Compare.Toggle(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, toggleResult{ProductID: id, Active: active, Items: nonNil(sess.Compare.Items(r.Context()))})
}

// ClearCompare handles DELETE /api/compare
func (h *ListHandler) ClearCompare(w http.ResponseWriter, r *http.Request) {
	currentSession(r).Compare.Clear(r.Context())
	respond(w, r, http.StatusOK, []domain.Product{})
}
