package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/httprate"
)

const MsgRateLimited = "rate-limited: Too many requests"

// RateLimit allows requests per window for each client IP.
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	return Wrap(httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, MsgRateLimited, http.StatusTooManyRequests)
		}),
	))
}
