package handlers

import (
	"net/http"

	"marche/models"
	"marche/services/review"
	"marche/utils"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	Service review.ReviewService
}

func NewReviewHandler(svc review.ReviewService) *ReviewHandler {
	return &ReviewHandler{Service: svc}
}

func (h *ReviewHandler) AddEventReviewHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req models.ReviewInput
	if !bindJSON(c, &req) {
		return
	}
	rv, err := h.Service.AddEventReview(c.Request.Context(), actor, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rv)
}

func (h *ReviewHandler) AddServiceReviewHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req models.ReviewInput
	if !bindJSON(c, &req) {
		return
	}
	rv, err := h.Service.AddServiceReview(c.Request.Context(), actor, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rv)
}

func (h *ReviewHandler) EventProviderReviewsHandler(c *gin.Context) {
	sum, err := h.Service.EventProviderSummary(c.Request.Context(), c.Param("eventId"), c.Param("providerId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h *ReviewHandler) ServiceReviewsHandler(c *gin.Context) {
	sum, err := h.Service.ServiceSummary(c.Request.Context(), c.Param("serviceId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}
