package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/yungbote/meet-highlight-backend/internal/data/docstore"
	"github.com/yungbote/meet-highlight-backend/internal/domain/highlight"
	"github.com/yungbote/meet-highlight-backend/internal/modules/highlight/extractor"
	"github.com/yungbote/meet-highlight-backend/internal/platform/apierr"
	"github.com/yungbote/meet-highlight-backend/internal/platform/logger"
)

// RenderWarning is surfaced when slide images could not be produced.
const RenderWarning = "Slide images could not be rendered; continuing without previews"

// SlideRenderer rasterizes an uploaded deck into servable image paths.
type SlideRenderer interface {
	Render(ctx context.Context, kind string, data []byte, sessionID string) ([]string, error)
}

type UploadResult struct {
	SessionID string   `json:"session_id"`
	Chars     int      `json:"chars"`
	Images    []string `json:"images"`
	Slides    int      `json:"slides"`
	Warning   string   `json:"warning,omitempty"`
}

type SessionService interface {
	Upload(ctx context.Context, filename string, data []byte) (*UploadResult, error)
	Get(ctx context.Context, id string) (highlight.Document, error)
	List(ctx context.Context) ([]string, error)
	// ScriptText returns the stored highlight script, or "" when the session
	// or the script is missing.
	ScriptText(ctx context.Context, id string) string
}

type sessionService struct {
	log      *logger.Logger
	store    docstore.Store
	renderer SlideRenderer
	maxBytes int64
}

// NewSessionService accepts a nil renderer; uploads then carry no images.
func NewSessionService(log *logger.Logger, store docstore.Store, renderer SlideRenderer, maxBytes int64) SessionService {
	return &sessionService{
		log:      log.With("service", "SessionService"),
		store:    store,
		renderer: renderer,
		maxBytes: maxBytes,
	}
}

func (s *sessionService) Upload(ctx context.Context, filename string, data []byte) (*UploadResult, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return nil, invalid("empty_filename", "Empty filename")
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, tooLarge("File too large")
	}

	res := extractor.Extract(filename, data)
	if !res.Usable() {
		return nil, invalid("no_text", "Unable to extract text")
	}

	id := uuid.NewString()
	sess := highlight.Session{
		Name:       filename,
		SlidesText: res.Text,
		SlideTexts: res.Units,
		Images:     []string{},
		Metadata:   map[string]any{"kind": res.Kind},
	}
	doc := sess.Doc()
	doc[highlight.FieldCreatedAt] = time.Now().UTC().Format(time.RFC3339)
	if err := s.store.CreateSession(ctx, id, doc); err != nil {
		s.log.Error("Failed to create session", "session_id", id, "error", err)
		return nil, apierr.Internal("session_create_failed", err)
	}

	out := &UploadResult{
		SessionID: id,
		Chars:     utf8.RuneCountInString(res.Text),
		Images:    []string{},
		Slides:    len(res.Units),
	}
	if s.renderer == nil || (res.Kind != highlight.KindPDF && res.Kind != highlight.KindPPTX) {
		return out, nil
	}

	images, err := s.renderer.Render(ctx, res.Kind, data, id)
	if err != nil {
		s.log.Warn("Slide rendering failed", "session_id", id, "kind", res.Kind, "error", err)
		out.Warning = RenderWarning
		return out, nil
	}
	if len(images) == 0 {
		return out, nil
	}
	if err := s.store.UpdateSession(ctx, id, highlight.Document{highlight.FieldImages: stringsToAny(images)}); err != nil {
		s.log.Warn("Failed to attach images to session", "session_id", id, "error", err)
		out.Warning = RenderWarning
		return out, nil
	}
	out.Images = images
	return out, nil
}

func (s *sessionService) Get(ctx context.Context, id string) (highlight.Document, error) {
	doc, err := s.store.LoadSession(ctx, id)
	if err != nil {
		return nil, sessionLoadError(err)
	}
	if _, ok := doc[highlight.FieldID]; !ok {
		doc[highlight.FieldID] = id
	}
	return doc, nil
}

func (s *sessionService) List(ctx context.Context) ([]string, error) {
	ids, err := s.store.ListSessions(ctx)
	if err != nil {
		return nil, apierr.Internal("session_list_failed", err)
	}
	return ids, nil
}

func (s *sessionService) ScriptText(ctx context.Context, id string) string {
	doc, err := s.store.LoadSession(ctx, id)
	if err != nil {
		if !errors.Is(err, docstore.ErrNotFound) {
			s.log.Warn("Failed to load session for download", "session_id", id, "error", err)
		}
		return ""
	}
	return highlight.SessionFromDoc(id, doc).HighlightScript
}

func sessionLoadError(err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return apierr.NotFound("session_not_found", errors.New("Session not found"))
	}
	return apierr.Internal("session_load_failed", err)
}

func stringsToAny(in []string) []any {
	out := make([]any, 0, len(in))
	for _, s := range in {
		out = append(out, s)
	}
	return out
}
