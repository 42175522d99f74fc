package auth

import (
	"net/http"
	"strings"

	"github.com/contalibre/contalibre/internal/shared"
)

// RequireUser rejects requests without a valid bearer token and stores
// the authenticated user id in the request context.
func RequireUser(issuer *TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				shared.WriteError(w, shared.ErrInvalidCredentials)
				return
			}
			userID, err := issuer.Verify(raw)
			if err != nil {
				shared.WriteError(w, shared.ErrInvalidCredentials)
				return
			}
			next.ServeHTTP(w, r.WithContext(shared.ContextWithUserID(r.Context(), userID)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
