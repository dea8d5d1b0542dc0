package middleware

import (
	"net/http"

	"github.com/dukerupert/techstore/internal/cookie"
	"github.com/dukerupert/techstore/internal/domain"
	"github.com/dukerupert/techstore/internal/service"
)

// Session attaches the visitor's storefront session to the request.
//
// The session id travels in the session cookie; a missing or malformed id
// starts a new session and sets the cookie. The session stays locked until
// the handler returns, so requests of one visitor are handled one at a time.
// The signed-in user, if any, is added with domain.NewContextWithUser.
func Session(manager *service.SessionManager, cookies *cookie.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, created, err := manager.Open(r.Context(), cookies.SessionID(r))
			if err != nil {
				respondInternalError(w, r, err)
				return
			}
			if created {
				cookies.SetSession(w, sess.ID)
			}

			sess.Lock()
			defer sess.Unlock()

			ctx := service.NewContextWithSession(r.Context(), sess)
			ctx = WithLogger(ctx, GetLogger(ctx).With("session_id", sess.ID))
			if u, ok := sess.Account.Current(ctx); ok {
				ctx = domain.NewContextWithUser(ctx, &u)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
