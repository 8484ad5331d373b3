package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/meet-highlight-backend/internal/http/response"
	"github.com/yungbote/meet-highlight-backend/internal/platform/logger"
	"github.com/yungbote/meet-highlight-backend/internal/services"
)

const noScriptText = "No script available."

// multipartOverhead leaves room for boundaries and headers around the file.
const multipartOverhead = 1 << 20

type SessionHandler struct {
	log      *logger.Logger
	sessions services.SessionService
	maxBytes int64
}

func NewSessionHandler(log *logger.Logger, sessions services.SessionService, maxBytes int64) *SessionHandler {
	return &SessionHandler{
		log:      log.With("handler", "SessionHandler"),
		sessions: sessions,
		maxBytes: maxBytes,
	}
}

// Upload handles POST /api/files/upload with a multipart "file" field.
func (h *SessionHandler) Upload(c *gin.Context) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large", errors.New("File too large"))
		default:
			response.RespondError(c, http.StatusBadRequest, "no_file", errors.New("No file provided"))
		}
		return
	}
	if h.maxBytes > 0 && fh.Size > h.maxBytes {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large", errors.New("File too large"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_multipart_form", err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_multipart_form", err)
		return
	}

	res, err := h.sessions.Upload(c.Request.Context(), fh.Filename, data)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, res)
}

func (h *SessionHandler) List(c *gin.Context) {
	ids, err := h.sessions.List(c.Request.Context())
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

func (h *SessionHandler) Get(c *gin.Context) {
	doc, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, doc)
}

// Download serves the highlight script as a text attachment.
func (h *SessionHandler) Download(c *gin.Context) {
	id := c.Param("id")
	txt := h.sessions.ScriptText(c.Request.Context(), id)
	if txt == "" {
		txt = noScriptText
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="script_%s.txt"`, id))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(txt))
}
