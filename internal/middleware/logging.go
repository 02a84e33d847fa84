package middleware

import (
	"net/http"
	"time"

	logpkg "github.com/chefchat/chefchat/internal/logger"
	"github.com/chefchat/chefchat/internal/request"
	"go.uber.org/zap"
)

// Logging emits one structured line per completed request. Paths are
// sanitized before logging so query strings never reach the logs.
func Logging(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", logpkg.SanitizePath(r.URL.Path)),
				zap.String("client_ip", request.ClientIP(r)),
				zap.Int("status_code", rec.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusRecorder captures the status code written downstream. WriteHeader is
// forwarded unconditionally; handlers that never call it leave the default
// 200 in place.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}
