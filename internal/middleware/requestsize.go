package middleware

import (
	"encoding/json"
	"net/http"
	"time"
)

const (
	// DefaultMaxRequestSize is the default maximum request body size (1MB)
	DefaultMaxRequestSize int64 = 1 << 20 // 1MB
)

// MaxRequestSize limits the size of request bodies. Oversized bodies that
// declare their length are rejected up front with the API error envelope;
// bodies that lie about their length are cut off by MaxBytesReader and
// surface as a MaxBytesError in the handler's decoder.
func MaxRequestSize(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRequestSize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"success":   false,
					"error":     "Request Entity Too Large",
					"message":   "Request body exceeds the maximum size",
					"timestamp": time.Now().UTC().Format(time.RFC3339),
				})
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			defer r.Body.Close()

			next.ServeHTTP(w, r)
		})
	}
}
