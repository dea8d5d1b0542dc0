package routes

import (
	"net/http"

	"github.com/dukerupert/techstore/internal/handler/storefront"
	"github.com/dukerupert/techstore/internal/router"
)

// StorefrontDeps contains dependencies for the customer-facing JSON API
type StorefrontDeps struct {
	// Session attaches the visitor session. Every storefront route needs it.
	Session router.Middleware

	// CSRF guards the cookie-authenticated unsafe methods
	CSRF router.Middleware

	// StrictLimit throttles sign-in, sign-up and coupon attempts
	StrictLimit router.Middleware

	Catalog  *storefront.CatalogHandler
	Cart     *storefront.CartHandler
	Checkout *storefront.CheckoutHandler
	Orders   *storefront.OrderHandler
	Account  *storefront.AccountHandler
	Lists    *storefront.ListHandler
}

// AdminDeps contains dependencies for operator routes
type AdminDeps struct {
	// OperatorToken is the bearer token of fulfilment calls. Empty disables them.
	OperatorToken string

	Fulfilment *storefront.FulfilmentHandler
}

// SystemDeps contains dependencies for probes and scraping
type SystemDeps struct {
	Health  http.HandlerFunc
	Metrics http.Handler
}
