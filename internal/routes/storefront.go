package routes

import (
	"github.com/dukerupert/techstore/internal/middleware"
	"github.com/dukerupert/techstore/internal/router"
)

// RegisterStorefrontRoutes registers the customer-facing JSON API.
// Every route runs inside the visitor's session.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	s := r.Group(deps.Session, deps.CSRF)

	// Catalog
	s.Get("/api/products", deps.Catalog.List)
	s.Get("/api/products/{id}", deps.Catalog.Get)
	s.Get("/api/categories", deps.Catalog.Categories)
	s.Get("/api/coupons", deps.Catalog.Coupons)
	s.Get("/api/shipping-methods", deps.Catalog.ShippingMethods)

	// Cart
	s.Get("/api/cart", deps.Cart.View)
	s.Delete("/api/cart", deps.Cart.Clear)
	s.Post("/api/cart/items", deps.Cart.Add)
	s.Patch("/api/cart/items/{productId}", deps.Cart.UpdateQuantity)
	s.Delete("/api/cart/items/{productId}", deps.Cart.Remove)
	s.Post("/api/cart/coupon", deps.Cart.ApplyCoupon, deps.StrictLimit)
	s.Delete("/api/cart/coupon", deps.Cart.RemoveCoupon)

	// Checkout
	s.Post("/api/checkout/quote", deps.Checkout.Quote)
	s.Post("/api/checkout", deps.Checkout.PlaceOrder)

	// Account
	s.Get("/api/account", deps.Account.Me)
	s.Post("/api/account/register", deps.Account.Register, deps.StrictLimit)
	s.Post("/api/account/login", deps.Account.Login, deps.StrictLimit)
	s.Post("/api/account/logout", deps.Account.Logout)

	// Wishlist and comparison
	s.Get("/api/wishlist", deps.Lists.Wishlist)
	s.Post("/api/wishlist/{productId}", deps.Lists.ToggleWishlist)
	s.Get("/api/compare", deps.Lists.Compare)
	s.Delete("/api/compare", deps.Lists.ClearCompare)
	s.Post("/api/compare/{productId}", deps.Lists.ToggleCompare)

	// Order history (require sign-in)
	orders := s.Group(middleware.RequireUser)
	orders.Get("/api/orders", deps.Orders.List)
	orders.Post("/api/orders/delete", deps.Orders.DeleteMany)
	orders.Get("/api/orders/{id}", deps.Orders.Get)
	orders.Delete("/api/orders/{id}", deps.Orders.Delete)
	orders.Post("/api/orders/{id}/cancel", deps.Orders.Cancel)
	orders.Get("/api/orders/{id}/tracking", deps.Orders.Track)
}
