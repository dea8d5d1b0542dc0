package routes

import (
	"github.com/dukerupert/techstore/internal/router"
)

// RegisterSystemRoutes registers the health probe and the metrics endpoint.
// Metrics bypass the middleware chain so scrapes are not counted as traffic.
func RegisterSystemRoutes(r *router.Router, deps SystemDeps) {
	r.Get("/health", deps.Health)
	r.Mount("GET /metrics", deps.Metrics)
}
