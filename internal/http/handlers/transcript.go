package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/meet-highlight-backend/internal/http/response"
	"github.com/yungbote/meet-highlight-backend/internal/platform/logger"
	"github.com/yungbote/meet-highlight-backend/internal/services"
)

var errExpectedList = errors.New("Expected a list of slides")

type TranscriptHandler struct {
	log         *logger.Logger
	transcripts services.TranscriptService
}

func NewTranscriptHandler(log *logger.Logger, transcripts services.TranscriptService) *TranscriptHandler {
	return &TranscriptHandler{log: log.With("handler", "TranscriptHandler"), transcripts: transcripts}
}

func (h *TranscriptHandler) List(c *gin.Context) {
	ids, err := h.transcripts.List(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	out := make([]gin.H, 0, len(ids))
	for _, id := range ids {
		out = append(out, gin.H{"id": id})
	}
	response.RespondOK(c, out)
}

func (h *TranscriptHandler) Get(c *gin.Context) {
	items, err := h.transcripts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, items)
}

func (h *TranscriptHandler) Create(c *gin.Context) {
	items, ok := bindList(c)
	if !ok {
		return
	}
	id, err := h.transcripts.Create(c.Request.Context(), items)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"id": id})
}

func (h *TranscriptHandler) Replace(c *gin.Context) {
	items, ok := bindList(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.transcripts.Replace(c.Request.Context(), id, items); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"id": id, "updated": true})
}

// bindList accepts only a JSON array body.
func bindList(c *gin.Context) ([]any, bool) {
	var body any
	if err := decodeJSON(c, &body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "expected_list", errExpectedList)
		return nil, false
	}
	items, ok := body.([]any)
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "expected_list", errExpectedList)
		return nil, false
	}
	return items, true
}
