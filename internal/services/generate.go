package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/meet-highlight-backend/internal/data/docstore"
	"github.com/yungbote/meet-highlight-backend/internal/domain/highlight"
	"github.com/yungbote/meet-highlight-backend/internal/modules/highlight/prompts"
	"github.com/yungbote/meet-highlight-backend/internal/platform/apierr"
	"github.com/yungbote/meet-highlight-backend/internal/platform/logger"
)

type GenerateRequest struct {
	SlidesText string
	SlideTexts []string
	// Images and SourceSessionID are copied onto the snapshot when the
	// request started from an uploaded session.
	Images          []string
	SourceSessionID string
	Config          highlight.GenerationConfig
}

type GenerateResult struct {
	SessionID       string                   `json:"session_id"`
	HighlightScript string                   `json:"highlight_script"`
	MissingSupport  highlight.MissingSupport `json:"missing_support"`
	Mode            highlight.Mode           `json:"mode"`
}

type GenerateService interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
	GenerateForSession(ctx context.Context, sessionID string, cfg highlight.GenerationConfig) (*GenerateResult, error)
}

type generateService struct {
	log        *logger.Logger
	store      docstore.Store
	gen        GenerationClient
	meetValues []string
}

// NewGenerateService uses meetValues when a request names none.
func NewGenerateService(log *logger.Logger, store docstore.Store, gen GenerationClient, meetValues []string) GenerateService {
	return &generateService{
		log:        log.With("service", "GenerateService"),
		store:      store,
		gen:        gen,
		meetValues: meetValues,
	}
}

func (s *generateService) GenerateForSession(ctx context.Context, sessionID string, cfg highlight.GenerationConfig) (*GenerateResult, error) {
	doc, err := s.store.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, sessionLoadError(err)
	}
	sess := highlight.SessionFromDoc(sessionID, doc)
	return s.Generate(ctx, GenerateRequest{
		SlidesText:      sess.SlidesText,
		SlideTexts:      sess.SlideTexts,
		Images:          sess.Images,
		SourceSessionID: sessionID,
		Config:          cfg,
	})
}

func (s *generateService) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	if strings.TrimSpace(req.SlidesText) == "" {
		return nil, invalid("slides_text_required", "slides_text is required")
	}
	cfg := req.Config.Normalize()
	if len(cfg.MeetValues) == 0 {
		cfg.MeetValues = append([]string(nil), s.meetValues...)
	}

	mode := prompts.Choose(req.SlideTexts)
	notes := s.notes(ctx, cfg.FreeTextNotes)
	prompt := prompts.Build(mode, prompts.ParamsFromConfig(cfg, req.SlidesText, req.SlideTexts, notes))

	output := strings.TrimSpace(s.gen.Complete(ctx, prompt))
	if output == "" {
		return nil, apierr.BadGateway("empty_llm_response", ErrUpstreamEmpty)
	}
	if IsErrorOutput(output) {
		// Kept as the script; the caller sees the diagnostic text.
		s.log.Warn("Generation returned an error diagnostic", "mode", mode, "source_session_id", req.SourceSessionID)
	}

	id := uuid.NewString()
	snap := highlight.Session{
		Name:            highlight.GeneratedSessionName,
		SlidesText:      req.SlidesText,
		SlideTexts:      req.SlideTexts,
		Images:          req.Images,
		Config:          cfg.Doc(),
		HighlightScript: output,
		Metadata:        map[string]any{highlight.FieldMode: string(mode)},
	}
	doc := snap.Doc()
	doc[highlight.FieldCreatedAt] = time.Now().UTC().Format(time.RFC3339)
	if req.SourceSessionID != "" {
		doc[highlight.FieldSourceSession] = req.SourceSessionID
	}
	if err := s.store.CreateSession(ctx, id, doc); err != nil {
		s.log.Error("Failed to store generated session", "session_id", id, "error", err)
		return nil, apierr.Internal("session_create_failed", err)
	}

	return &GenerateResult{
		SessionID:       id,
		HighlightScript: output,
		MissingSupport:  prompts.ParseMissingSupport(output),
		Mode:            mode,
	}, nil
}

// notes refines free-text notes through the model when one is configured,
// falling back to local bullet normalisation.
func (s *generateService) notes(ctx context.Context, raw []string) string {
	if s.gen.Offline() {
		return prompts.PreprocessFreeText(raw)
	}
	refined := prompts.RefineNotes(ctx, s.gen, raw)
	if IsErrorOutput(refined) {
		s.log.Warn("Note refinement failed, using local bullets")
		return prompts.PreprocessFreeText(raw)
	}
	return refined
}
