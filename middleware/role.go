package middleware

import (
	"net/http"

	"marche/models"
	"marche/utils"

	"github.com/gin-gonic/gin"
)

// RequireRoles lets the request through only when the authenticated caller
// has one of roles. It must run after JWTAuthMiddleware.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "Authentication required", Code: "unauthorized"})
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse{Error: "Your role cannot use this endpoint", Code: "forbidden_role"})
	}
}
