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

// Principal is the authenticated caller attached by AuthMiddleware.
type Principal struct {
	UserID   int64
	Username string
	Email    string
}

// PrincipalFrom retrieves the authenticated caller from the request context.
func PrincipalFrom(r *http.Request) (Principal, bool) {
	p, ok := r.Context().Value(principalKey).(Principal)
	return p, ok
}

// ContextWithPrincipal returns a new context carrying p.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// RequestIDFrom retrieves the request id set by RequestIDMiddleware.
func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
