package handlers

import (
	"net/http"

	"marche/models"
	"marche/services/chat"
	"marche/utils"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	Service chat.ChatService
}

func NewChatHandler(svc chat.ChatService) *ChatHandler {
	return &ChatHandler{Service: svc}
}

func (h *ChatHandler) SendMessageHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req models.SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	msg, err := h.Service.Send(c.Request.Context(), actor, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *ChatHandler) SessionMessagesHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	msgs, err := h.Service.ListSession(c.Request.Context(), actor, c.Param("sessionId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (h *ChatHandler) UnreadCountHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	n, err := h.Service.UnreadCount(c.Request.Context(), actor)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (h *ChatHandler) ConversationHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	msgs, err := h.Service.ListBetween(c.Request.Context(), actor, c.Param("userId"), c.Param("otherUserId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}
