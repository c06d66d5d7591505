package handlers

import (
	"net/http"

	"marche/utils"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	Pingers []utils.Pinger
}

func NewHealthHandler(pingers ...utils.Pinger) *HealthHandler {
	return &HealthHandler{Pingers: pingers}
}

// LivenessHandler reports liveness without touching dependencies.
func (h *HealthHandler) LivenessHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "marché API is running"})
}

// DBCheckHandler probes every backing store now.
func (h *HealthHandler) DBCheckHandler(c *gin.Context) {
	status := utils.CheckHealth(c.Request.Context(), h.Pingers)
	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
