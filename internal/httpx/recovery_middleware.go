package httpx

import (
	"net/http"

	"go.uber.org/zap"
)

func RecoveryMiddleware(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := wrapWriter(w)
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					log.Error("panic recovered",
						zap.String("request_id", RequestIDFrom(r)),
						zap.Any("error", err),
						zap.StackSkip("stack", 1),
					)
					if !rw.wroteHeader() {
						InternalError(rw, r)
					}
				}
			}()
			next.ServeHTTP(rw, r)
		})
	}
}
