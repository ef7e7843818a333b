package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rollcall-app/rollcall/internal/api/response"
	"github.com/rollcall-app/rollcall/internal/identity"
)

const identityKey contextKey = "identity"

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. Returns "" when the header is absent or malformed.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return ""
	}
	return parts[1]
}

// Auth is middleware that extracts the bearer token and resolves it to an
// Identity via the verifier. Missing or invalid tokens return 401. The
// header check rejects malformed requests before any external call is made.
func Auth(verifier identity.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			token := BearerToken(r)
			if token == "" {
				response.Err(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Authorization header required", requestID)
				return
			}

			caller, err := verifier.Verify(r.Context(), token)
			if err != nil {
				response.Err(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Invalid or expired token", requestID)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity retrieves the authenticated Identity from the request context.
func GetIdentity(ctx context.Context) *identity.Identity {
	if id, ok := ctx.Value(identityKey).(*identity.Identity); ok {
		return id
	}
	return nil
}
