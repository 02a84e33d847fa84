package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ErrorHandler recovers panics from downstream handlers. The panic value is
// logged server-side only; the client gets the standard error envelope with
// a generic message.
func ErrorHandler(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic_recovered",
						zap.Any("error", rec),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)
					writeErrorEnvelope(w, http.StatusInternalServerError,
						"Internal Server Error", "An unexpected error occurred", logger)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// writeErrorEnvelope emits the same success/error/message/timestamp shape
// the handlers package uses, so middleware failures are indistinguishable
// from handler failures on the wire. Messages longer than 200 characters
// are truncated.
func writeErrorEnvelope(w http.ResponseWriter, status int, errorType, message string, logger *zap.Logger) {
	if len(message) > 200 {
		message = message[:200] + "..."
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	envelope := map[string]any{
		"success":   false,
		"error":     errorType,
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		logger.Error("failed_to_encode_error_response",
			zap.Error(err),
			zap.Int("status_code", status),
		)
	}
}
