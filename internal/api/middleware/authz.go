package middleware

import (
	"net/http"

	"github.com/rollcall-app/rollcall/internal/api/response"
)

// RequireAdmin returns middleware that rejects identities without the admin
// claim with 403. The claim check is strict boolean equality.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			caller := GetIdentity(r.Context())
			if caller == nil {
				response.Err(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Authorization header required", requestID)
				return
			}

			if !caller.IsAdmin() {
				response.Err(w, http.StatusForbidden, "FORBIDDEN", "Admin claim required", requestID)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
