package httpx

import (
	"net/http"
	"strings"

	"librarium/internal/auth"
)

// AuthMiddleware resolves the bearer token into a Principal before any
// handler runs. It fails closed: a missing, malformed, invalid or expired
// token never reaches the service layer.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := auth.ParseToken(secret, token)
			if err != nil {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
				return
			}

			p := Principal{ID: claims.Sub, Role: claims.Role}
			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), p)))
		})
	}
}

// RequireAdmin marks a route admin-only. Wrapping the route is the single
// place the decision lives; handlers do not repeat the role check.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFrom(r)
		if !ok || !p.IsAdmin() {
			JSONError(w, r, http.StatusForbidden, "FORBIDDEN", "Admins only", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
