package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/e2ecommerce/server/internal/module/user"
	"github.com/e2ecommerce/server/internal/shared/response"
)

// RequireRoles rejects requests whose actor holds none of the given roles.
// Must be mounted after RequireAuth.
func RequireRoles(roles ...user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := CurrentActor(c)
		if !actor.Is(roles...) {
			response.Forbidden(c, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}
