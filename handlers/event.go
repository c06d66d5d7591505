package handlers

import (
	"net/http"

	"marche/models"
	"marche/services/event"
	"marche/utils"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	Service event.EventService
}

func NewEventHandler(svc event.EventService) *EventHandler {
	return &EventHandler{Service: svc}
}

func (h *EventHandler) CreateEventHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req models.Event
	if !bindJSON(c, &req) {
		return
	}
	ev, err := h.Service.Create(c.Request.Context(), actor, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ev)
}

func (h *EventHandler) ListEventsHandler(c *gin.Context) {
	var filter models.EventFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid query parameters", "invalid_query")
		return
	}
	events, err := h.Service.List(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetEventHandler(c *gin.Context) {
	ev, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

func (h *EventHandler) ReserveEventHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	res, err := h.Service.Reserve(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *EventHandler) CancelReservationHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	if err := h.Service.CancelReservation(c.Request.Context(), actor, c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EventHandler) ListMyReservationsHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	list, err := h.Service.ListReservations(c.Request.Context(), actor)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *EventHandler) CheckInHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req struct {
		EventID  string `json:"eventId" binding:"required"`
		TicketID string `json:"ticketId" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Service.CheckIn(c.Request.Context(), actor, req.EventID, req.TicketID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
