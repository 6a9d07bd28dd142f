package middleware

import (
	"context"
	"net/http"
	"time"
)

const (
	// DefaultRequestTimeout is the default request timeout (30 seconds)
	DefaultRequestTimeout = 30 * time.Second
)

// timeoutResponseBody mirrors the API error envelope. http.TimeoutHandler
// writes a fixed body, so there is no per-request timestamp here.
const timeoutResponseBody = `{"success":false,"error":"Request Timeout","message":"The request did not complete in time"}`

// Timeout creates a middleware that enforces a timeout on request handlers.
// The deadline is carried on the request context as well, so repository calls
// holding the context stop when the response has already timed out.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			r = r.WithContext(ctx)

			handler := http.TimeoutHandler(next, timeout, timeoutResponseBody)
			handler.ServeHTTP(w, r)
		})
	}
}
