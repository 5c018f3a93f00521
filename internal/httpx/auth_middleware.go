package httpx

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"libraryapi/internal/platform/crypto"
)

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Parse(token string) (*crypto.Claims, error)
}

// AuthMiddleware rejects requests without a valid bearer token and attaches
// the caller's Principal to the request context.
func AuthMiddleware(verifier TokenVerifier, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				tokenVerifications.WithLabelValues("missing").Inc()
				w.Header().Set("WWW-Authenticate", `Bearer`)
				Unauthorized(w, r, "Missing or invalid authorization header")
				return
			}
			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

			claims, err := verifier.Parse(token)
			if err != nil {
				tokenVerifications.WithLabelValues("rejected").Inc()
				log.Debug("bearer token rejected",
					zap.String("path", r.URL.Path),
					zap.String("request_id", RequestIDFrom(r)),
					zap.Error(err),
				)
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				Unauthorized(w, r, "Invalid or expired token")
				return
			}

			userID, _ := claims.UserID()
			tokenVerifications.WithLabelValues("accepted").Inc()

			ctx := ContextWithPrincipal(r.Context(), Principal{
				UserID:   userID,
				Username: claims.Username,
				Email:    claims.Email,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
