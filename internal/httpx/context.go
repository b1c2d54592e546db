package httpx

import (
	"context"
	"net/http"
)

type contextKey string

const (
	principalKey contextKey = "principal"
	requestIDKey contextKey = "requestID"
)

// Principal is the caller identity the auth middleware resolved from the
// bearer token. Handlers thread it explicitly into service calls; nothing
// below the HTTP layer reads it from context.
type Principal struct {
	ID   string
	Role string
}

func (p Principal) IsAdmin() bool {
	return p.Role == "admin"
}

// PrincipalFrom retrieves the caller identity attached by AuthMiddleware.
func PrincipalFrom(r *http.Request) (Principal, bool) {
	p, ok := r.Context().Value(principalKey).(Principal)
	return p, ok
}

func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
