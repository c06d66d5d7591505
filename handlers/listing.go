package handlers

import (
	"net/http"

	"marche/models"
	"marche/services/listing"
	"marche/utils"

	"github.com/gin-gonic/gin"
)

type ListingHandler struct {
	Service listing.ListingService
}

func NewListingHandler(svc listing.ListingService) *ListingHandler {
	return &ListingHandler{Service: svc}
}

func (h *ListingHandler) CreateServiceHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req models.ServiceListing
	if !bindJSON(c, &req) {
		return
	}
	l, err := h.Service.Create(c.Request.Context(), actor, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (h *ListingHandler) UpdateServiceHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req models.ServiceListing
	if !bindJSON(c, &req) {
		return
	}
	l, err := h.Service.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *ListingHandler) GetServiceHandler(c *gin.Context) {
	l, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *ListingHandler) ListServicesHandler(c *gin.Context) {
	var filter models.ServiceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid query parameters", "invalid_query")
		return
	}
	list, err := h.Service.List(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type OrderHandler struct {
	Service listing.OrderService
}

func NewOrderHandler(svc listing.OrderService) *OrderHandler {
	return &OrderHandler{Service: svc}
}

func (h *OrderHandler) RequestOrderHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req models.OrderRequest
	if !bindJSON(c, &req) {
		return
	}
	o, err := h.Service.Request(c.Request.Context(), actor, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

// transition adapts one of the order moves to a handler.
func (h *OrderHandler) transition(move func(*gin.Context, models.Actor, string) (*models.ServiceOrder, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorOrAbort(c)
		if !ok {
			return
		}
		o, err := move(c, actor, c.Param("id"))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func (h *OrderHandler) AcceptOrderHandler() gin.HandlerFunc {
	return h.transition(func(c *gin.Context, a models.Actor, id string) (*models.ServiceOrder, error) {
		return h.Service.Accept(c.Request.Context(), a, id)
	})
}

func (h *OrderHandler) CompleteOrderHandler() gin.HandlerFunc {
	return h.transition(func(c *gin.Context, a models.Actor, id string) (*models.ServiceOrder, error) {
		return h.Service.Complete(c.Request.Context(), a, id)
	})
}

func (h *OrderHandler) CancelOrderHandler() gin.HandlerFunc {
	return h.transition(func(c *gin.Context, a models.Actor, id string) (*models.ServiceOrder, error) {
		return h.Service.Cancel(c.Request.Context(), a, id)
	})
}

func (h *OrderHandler) ListMyOrdersHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	list, err := h.Service.ListMine(c.Request.Context(), actor)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
