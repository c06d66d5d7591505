package handlers

import (
	"net/http"

	"marche/middleware"
	"marche/models"
	"marche/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves the request-scoped logger, or the global one.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get(middleware.LoggerKey); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger()
}

// actorOrAbort returns the authenticated caller or writes a 401.
func actorOrAbort(c *gin.Context) (models.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "unauthorized")
		return models.Actor{}, false
	}
	return actor, true
}

// bindJSON decodes the body into dst or writes a 400.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		getLogger(c).Debug("invalid request body", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", "invalid_body")
		return false
	}
	return true
}
