package routes

import (
	"github.com/dukerupert/techstore/internal/middleware"
	"github.com/dukerupert/techstore/internal/router"
)

// RegisterAdminRoutes registers fulfilment routes for the operator.
// They authenticate with a bearer token and carry no visitor session.
func RegisterAdminRoutes(r *router.Router, deps AdminDeps) {
	admin := r.Group(middleware.RequireOperatorToken(deps.OperatorToken))

	admin.Post("/api/admin/orders/{id}/advance", deps.Fulfilment.Advance)
}
