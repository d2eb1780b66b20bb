package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/kloda-app/kloda/backend/internal/domain"
	"github.com/kloda-app/kloda/backend/internal/transport/http/response"
	"github.com/kloda-app/kloda/backend/pkg/httputil"
)

const identityKey = "identity"

// Authorizer resolves bearer access tokens.
type Authorizer interface {
	Authorize(ctx context.Context, accessToken string) (domain.Identity, error)
	Authenticate(ctx context.Context, accessToken string) domain.Identity
}

// Authorize rejects requests without a valid bearer token with 401.
func Authorize(a Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := httputil.GetBearerToken(c.Request)
		identity, err := a.Authorize(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// Authenticate resolves the bearer token if present; otherwise the request
// continues as anonymous.
func Authenticate(a Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := httputil.GetBearerToken(c.Request)
		c.Set(identityKey, a.Authenticate(c.Request.Context(), token))
		c.Next()
	}
}

// IdentityFrom returns the identity set by Authorize or Authenticate.
func IdentityFrom(c *gin.Context) domain.Identity {
	if v, ok := c.Get(identityKey); ok {
		if identity, ok := v.(domain.Identity); ok {
			return identity
		}
	}
	return domain.Anonymous()
}
