package handlers

import (
	"net/http"

	"marche/models"
	"marche/services/registration"
	"marche/utils"

	"github.com/gin-gonic/gin"
)

type RegistrationHandler struct {
	Service registration.RegistrationService
}

func NewRegistrationHandler(svc registration.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{Service: svc}
}

type saveRegistrationBody struct {
	models.RegistrationInput
	Action registration.Action `json:"action"`
}

func (h *RegistrationHandler) SaveRegistrationHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var body saveRegistrationBody
	if !bindJSON(c, &body) {
		return
	}
	if body.Action == "" {
		body.Action = registration.ActionSaveDraft
	}
	reg, err := h.Service.Save(c.Request.Context(), actor, c.Param("id"), body.RegistrationInput, body.Action)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reg)
}

func (h *RegistrationHandler) GenerateSlotsHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req models.SlotGenerationInput
	if !bindJSON(c, &req) {
		return
	}
	reg, err := h.Service.GenerateSlots(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reg)
}

func (h *RegistrationHandler) ApproveHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	res, err := h.Service.Approve(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *RegistrationHandler) RejectHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	reg, err := h.Service.Reject(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reg)
}

func (h *RegistrationHandler) ListEventRegistrationsHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	view, err := h.Service.ListForEvent(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RegistrationHandler) ListApprovedProvidersHandler(c *gin.Context) {
	regs, err := h.Service.ListApproved(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, regs)
}

func (h *RegistrationHandler) ListMyRegistrationsHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	regs, err := h.Service.ListMine(c.Request.Context(), actor)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, regs)
}
