package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/meet-highlight-backend/internal/http/response"
)

type MeetValuesHandler struct {
	values []string
}

func NewMeetValuesHandler(values []string) *MeetValuesHandler {
	return &MeetValuesHandler{values: append([]string(nil), values...)}
}

func (h *MeetValuesHandler) List(c *gin.Context) {
	response.RespondOK(c, h.values)
}
