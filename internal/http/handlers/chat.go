package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/meet-highlight-backend/internal/domain/highlight"
	"github.com/yungbote/meet-highlight-backend/internal/http/response"
	"github.com/yungbote/meet-highlight-backend/internal/platform/logger"
	"github.com/yungbote/meet-highlight-backend/internal/services"
)

type ChatHandler struct {
	log  *logger.Logger
	chat services.ChatService
}

func NewChatHandler(log *logger.Logger, chat services.ChatService) *ChatHandler {
	return &ChatHandler{log: log.With("handler", "ChatHandler"), chat: chat}
}

func (h *ChatHandler) Condense(c *gin.Context) {
	var req struct {
		Messages []highlight.ChatMessage `json:"messages"`
	}
	if err := decodeJSON(c, &req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	response.RespondOK(c, gin.H{"prompt": h.chat.Condense(c.Request.Context(), req.Messages)})
}
