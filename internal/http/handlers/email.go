package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/meet-highlight-backend/internal/http/response"
	"github.com/yungbote/meet-highlight-backend/internal/platform/logger"
	"github.com/yungbote/meet-highlight-backend/internal/services"
)

type EmailHandler struct {
	log   *logger.Logger
	email services.EmailService
}

func NewEmailHandler(log *logger.Logger, email services.EmailService) *EmailHandler {
	return &EmailHandler{log: log.With("handler", "EmailHandler"), email: email}
}

func (h *EmailHandler) Send(c *gin.Context) {
	var req struct {
		To      string `json:"to"`
		Subject string `json:"subject"`
		HTML    string `json:"html"`
	}
	if err := decodeJSON(c, &req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.email.Send(c.Request.Context(), req.To, req.Subject, req.HTML); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
