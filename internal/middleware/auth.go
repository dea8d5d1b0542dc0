package middleware

import (
	"net/http"

	"github.com/dukerupert/techstore/internal/domain"
)

// RequireUser ensures the session is signed in, returning 401 if not.
// Must be used after Session.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if domain.UserFromContext(r.Context()) == nil {
			respondUnauthorized(w, r, "Please sign in to continue")
			return
		}

		next.ServeHTTP(w, r)
	})
}
