package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/e2ecommerce/server/internal/module/user"
	"github.com/e2ecommerce/server/internal/shared/response"
)

const (
	actorKey  = "actor"
	claimsKey = "claims"
)

// TokenValidator verifies an access token and returns its claims.
type TokenValidator interface {
	ValidateToken(token string) (*user.Claims, error)
}

// RequireAuth validates the bearer token and attaches the actor to the
// request context.
func RequireAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Set(actorKey, user.Actor{ID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

// CurrentActor returns the actor set by RequireAuth. The zero actor is
// returned on unauthenticated requests.
func CurrentActor(c *gin.Context) user.Actor {
	v, ok := c.Get(actorKey)
	if !ok {
		return user.Actor{}
	}
	actor, _ := v.(user.Actor)
	return actor
}
