package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Wrap adapts a net/http middleware to gin. When the wrapped middleware
// answers the request itself, the gin chain is aborted.
func Wrap(mw func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		called := false
		mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)
		if !called {
			c.Abort()
		}
	}
}
