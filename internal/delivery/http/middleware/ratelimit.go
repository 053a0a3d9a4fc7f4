package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	h "gamecatalog/internal/delivery/http/helpers"
)

// RateLimitByIP limits each client IP to requests per window; excess requests get 429
// in the standard JSON envelope. A non-positive limit disables limiting.
func RateLimitByIP(requests int, window time.Duration) func(http.HandlerFunc) http.HandlerFunc {
	if requests <= 0 {
		return func(next http.HandlerFunc) http.HandlerFunc { return next }
	}
	limiter := httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			h.WriteJSONError(w, http.StatusTooManyRequests, h.ErrCodeTooManyRequests, "too many requests")
		}),
	)
	return func(next http.HandlerFunc) http.HandlerFunc {
		return limiter(next).ServeHTTP
	}
}
