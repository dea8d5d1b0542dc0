package storefront

import (
	"net/http"
	"strings"

	"github.com/dukerupert/techstore/internal/domain"
	"github.com/dukerupert/techstore/internal/shipping"
	"github.com/dukerupert/techstore/internal/telemetry"
)

// CouponLister lists the coupons customers can use.
type CouponLister interface {
	All() []domain.Coupon
}

// CatalogHandler serves products and the other read-only storefront data.
type CatalogHandler struct {
	catalog  domain.Catalog
	coupons  CouponLister
	shipping shipping.Provider
	metrics  *telemetry.BusinessMetrics
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog domain.Catalog, coupons CouponLister, rates shipping.Provider, metrics *telemetry.BusinessMetrics) *CatalogHandler {
	return &CatalogHandler{
		catalog:  catalog,
		coupons:  coupons,
		shipping: rates,
		metrics:  metrics,
	}
}

type productQuery struct {
	Category string `json:"category" validate:"max=50"`
	Search   string `json:"search" validate:"max=100"`
	Sort     string `json:"sort" validate:"omitempty,oneof=default price-low price-high name rating"`
	MinPrice int64  `json:"minPrice"`
	MaxPrice int64  `json:"maxPrice" validate:"omitempty,gtefield=MinPrice"`
}

// productView is a product with the visitor's saved-list flags.
type productView struct {
	domain.Product
	OnSale     bool `json:"onSale"`
	InWishlist bool `json:"inWishlist"`
}

// List handles GET /api/products
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := productQuery{
		Category: strings.TrimSpace(q.Get("category")),
		Search:   strings.TrimSpace(q.Get("search")),
		Sort:     q.Get("sort"),
	}
	var err error
	if query.MinPrice, err = queryInt64(r, "minPrice"); err != nil {
		fail(w, r, err)
		return
	}
	if query.MaxPrice, err = queryInt64(r, "maxPrice"); err != nil {
		fail(w, r, err)
		return
	}
	if err := validateStruct("catalog.list", &query); err != nil {
		fail(w, r, err)
		return
	}

	products := h.catalog.List(r.Context(), domain.ProductFilter{
		Category: query.Category,
		MinPrice: query.MinPrice,
		MaxPrice: query.MaxPrice,
		Search:   query.Search,
		Sort:     domain.ProductSort(query.Sort),
	})
	h.metrics.RecordProductSearch(filterType(query))

	sess := currentSession(r)
	views := make([]productView, len(products))
	for i, p := range products {
		views[i] = productView{Product: p, OnSale: p.OnSale(), InWishlist: sess.Wishlist.Contains(r.Context(), p.ID)}
	}
	respond(w, r, http.StatusOK, views)
}

func filterType(q productQuery) string {
	switch {
	case q.Search != "":
		return "search"
	case q.Category != "" && q.Category != "all":
		return "category"
	case q.MinPrice > 0 || q.MaxPrice > 0:
		return "price"
	default:
		return "none"
	}
}

// Get handles GET /api/products/{id}
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	p, ok := h.catalog.FindByID(r.Context(), id)
	if !ok {
		fail(w, r, domain.ErrProductNotFound.WithOp("catalog.get"))
		return
	}
	h.metrics.RecordProductView(id)

	sess := currentSession(r)
	respond(w, r, http.StatusOK, productView{Product: p, OnSale: p.OnSale(), InWishlist: sess.Wishlist.Contains(r.Context(), id)})
}

// Categories handles GET /api/categories
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, h.catalog.Categories(r.Context()))
}

// Coupons handles GET /api/coupons
func (h *CatalogHandler) Coupons(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, h.coupons.All())
}

// ShippingMethods handles GET /api/shipping-methods
func (h *CatalogHandler) ShippingMethods(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, h.shipping.Rates(r.Context()))
}
