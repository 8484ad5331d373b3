package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/meet-highlight-backend/internal/domain/highlight"
	"github.com/yungbote/meet-highlight-backend/internal/http/response"
	"github.com/yungbote/meet-highlight-backend/internal/platform/logger"
	"github.com/yungbote/meet-highlight-backend/internal/services"
)

type generateBody struct {
	SlidesText      string          `json:"slides_text"`
	SlideTexts      []string        `json:"slide_texts"`
	InstructorStyle []string        `json:"instructor_style"`
	RequestedModes  []string        `json:"requested_modes"`
	ContextFlags    json.RawMessage `json:"context_flags"`
	CustomIdeas     json.RawMessage `json:"custom_ideas"`
	MeetValues      []string        `json:"meet_values"`
	FreeTextNotes   []string        `json:"free_text_notes"`
}

// config applies defaults for omitted context flags. custom_ideas may be a
// list or the comma separated form field.
func (b generateBody) config() (highlight.GenerationConfig, error) {
	flags := highlight.DefaultContextFlags()
	if len(b.ContextFlags) > 0 && string(b.ContextFlags) != "null" {
		if err := json.Unmarshal(b.ContextFlags, &flags); err != nil {
			return highlight.GenerationConfig{}, err
		}
	}
	var ideas []string
	if len(b.CustomIdeas) > 0 && string(b.CustomIdeas) != "null" {
		if err := json.Unmarshal(b.CustomIdeas, &ideas); err != nil {
			var raw string
			if err := json.Unmarshal(b.CustomIdeas, &raw); err != nil {
				return highlight.GenerationConfig{}, err
			}
			ideas = highlight.SplitIdeas(raw)
		}
	}
	return highlight.GenerationConfig{
		InstructorStyle: b.InstructorStyle,
		RequestedModes:  b.RequestedModes,
		ContextFlags:    flags,
		CustomIdeas:     ideas,
		MeetValues:      b.MeetValues,
		FreeTextNotes:   b.FreeTextNotes,
	}, nil
}

type GenerateHandler struct {
	log      *logger.Logger
	generate services.GenerateService
}

func NewGenerateHandler(log *logger.Logger, generate services.GenerateService) *GenerateHandler {
	return &GenerateHandler{log: log.With("handler", "GenerateHandler"), generate: generate}
}

func (h *GenerateHandler) bind(c *gin.Context) (generateBody, highlight.GenerationConfig, bool) {
	var body generateBody
	if err := decodeJSON(c, &body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return body, highlight.GenerationConfig{}, false
	}
	cfg, err := body.config()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errInvalidJSON)
		return body, highlight.GenerationConfig{}, false
	}
	return body, cfg, true
}

// Generate handles POST /api/generate with the slide text in the body.
func (h *GenerateHandler) Generate(c *gin.Context) {
	body, cfg, ok := h.bind(c)
	if !ok {
		return
	}
	res, err := h.generate.Generate(c.Request.Context(), services.GenerateRequest{
		SlidesText: body.SlidesText,
		SlideTexts: body.SlideTexts,
		Config:     cfg,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// GenerateForSession handles POST /api/sessions/:id/generate using the
// stored upload's text.
func (h *GenerateHandler) GenerateForSession(c *gin.Context) {
	_, cfg, ok := h.bind(c)
	if !ok {
		return
	}
	res, err := h.generate.GenerateForSession(c.Request.Context(), c.Param("id"), cfg)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, res)
}
