package middleware

import (
	"errors"
	"net/http"
	"strings"

	userRepo "marche/database/repository/user"
	"marche/models"
	"marche/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const actorKey = "actor"

// JWTAuthMiddleware validates the bearer token and loads the caller. The role
// comes from the stored user, not the token, so role changes apply at once.
func JWTAuthMiddleware(users userRepo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "Missing or invalid Authorization header", Code: "unauthorized"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "Invalid token", Code: "unauthorized"})
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if !errors.Is(err, utils.ErrNotFound) {
				zap.L().Error("auth user lookup failed", zap.String("userId", claims.UserID), zap.Error(err))
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "User not found", Code: "unauthorized"})
			return
		}

		c.Set(actorKey, models.Actor{UserID: user.ID, Role: user.Role})
		c.Next()
	}
}

// ActorFrom returns the caller set by JWTAuthMiddleware.
func ActorFrom(c *gin.Context) (models.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return models.Actor{}, false
	}
	actor, ok := v.(models.Actor)
	return actor, ok
}
