package handlers

import (
	"net/http"

	"marche/models"
	"marche/services/user"
	"marche/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	Service user.UserService
}

func NewUserHandler(svc user.UserService) *UserHandler {
	return &UserHandler{Service: svc}
}

func (h *UserHandler) DemoLoginHandler(c *gin.Context) {
	var req models.DemoLoginRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.Service.DemoLogin(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) GetMeHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	u, err := h.Service.GetMe(c.Request.Context(), actor)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) CreateUserHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req models.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Service.Create(c.Request.Context(), actor, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *UserHandler) ListUsersHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	users, err := h.Service.List(c.Request.Context(), actor)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) LinkLineHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req models.LinkLineRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Service.LinkLine(c.Request.Context(), actor, req.LineUserID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) UpdateNotificationSettingsHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req models.LineNotificationSettings
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Service.UpdateNotificationSettings(c.Request.Context(), actor, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u.LineNotificationSettings)
}

func (h *UserHandler) UpdateFCMTokenHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req models.FCMTokenRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Service.UpdateFCMToken(c.Request.Context(), actor, req.Token); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) ToggleFavoriteHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	state, err := h.Service.ToggleFavorite(c.Request.Context(), actor, c.Param("providerId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *UserHandler) ListFavoritesHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	favs, err := h.Service.ListFavorites(c.Request.Context(), actor)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, favs)
}
