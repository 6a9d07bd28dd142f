package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"
	"time"

	"go.uber.org/zap"
)

// ErrorHandler recovers panics from downstream handlers. The client gets the
// same JSON envelope the API handlers emit, so a panic is indistinguishable
// from any other 500 on the wire; the panic value and stack go to the log only.
func ErrorHandler(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}

				logger.Error("panic_recovered",
					zap.Any("panic", rec),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.ByteString("stack", debug.Stack()),
				)

				writePanicResponse(w, r, logger)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// writePanicResponse emits the standard error envelope. If the handler already
// wrote headers before panicking this write fails silently, which is the best
// we can do mid-response.
func writePanicResponse(w http.ResponseWriter, r *http.Request, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)

	body := map[string]any{
		"success":   false,
		"error":     "Internal Server Error",
		"message":   "An unexpected error occurred",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed_to_encode_panic_response",
			zap.Error(err),
			zap.String("path", r.URL.Path),
		)
	}
}
