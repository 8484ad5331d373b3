package render

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/yungbote/meet-highlight-backend/internal/domain/highlight"
	"github.com/yungbote/meet-highlight-backend/internal/platform/localmedia"
	"github.com/yungbote/meet-highlight-backend/internal/platform/logger"
)

const DefaultDPI = 160

// Config locates the public uploads directory and the URL prefix it is
// served under.
type Config struct {
	// UploadsDir is the filesystem directory backing URLPrefix.
	UploadsDir string
	// URLPrefix is the externally visible prefix, e.g. /static/uploads.
	URLPrefix string
	DPI       int
}

// Renderer rasterizes decks into per-session page images.
type Renderer struct {
	log       *logger.Logger
	tools     localmedia.Tools
	cfg       Config
	publisher *Publisher
}

func New(log *logger.Logger, tools localmedia.Tools, cfg Config, publisher *Publisher) *Renderer {
	if cfg.DPI <= 0 {
		cfg.DPI = DefaultDPI
	}
	if cfg.URLPrefix == "" {
		cfg.URLPrefix = "/static/uploads"
	}
	cfg.URLPrefix = "/" + strings.Trim(cfg.URLPrefix, "/")
	return &Renderer{
		log:       log.With("service", "SlideRenderer"),
		tools:     tools,
		cfg:       cfg,
		publisher: publisher,
	}
}

// Render returns one public path per page, in page order. Kinds other than
// pdf and pptx produce no images.
func (r *Renderer) Render(ctx context.Context, kind string, data []byte, sessionID string) ([]string, error) {
	if sessionID == "" || strings.ContainsAny(sessionID, `/\`) || sessionID == "." || sessionID == ".." {
		return nil, fmt.Errorf("render: invalid session id %q", sessionID)
	}
	switch kind {
	case highlight.KindPDF:
		return r.renderPDFBytes(ctx, data, sessionID)
	case highlight.KindPPTX:
		return r.renderPPTX(ctx, data, sessionID)
	default:
		return []string{}, nil
	}
}

func (r *Renderer) renderPDFBytes(ctx context.Context, data []byte, sessionID string) ([]string, error) {
	work, err := os.MkdirTemp("", "meet-render-*")
	if err != nil {
		return nil, fmt.Errorf("render: temp dir: %w", err)
	}
	defer os.RemoveAll(work)

	pdfPath := filepath.Join(work, "deck.pdf")
	if err := os.WriteFile(pdfPath, data, 0o600); err != nil {
		return nil, fmt.Errorf("render: write pdf: %w", err)
	}
	return r.renderPDF(ctx, pdfPath, work, sessionID)
}

func (r *Renderer) renderPPTX(ctx context.Context, data []byte, sessionID string) ([]string, error) {
	// Removed on every exit path, including a converter timeout.
	work, err := os.MkdirTemp("", "meet-convert-*")
	if err != nil {
		return nil, fmt.Errorf("render: temp dir: %w", err)
	}
	defer os.RemoveAll(work)

	inPath := filepath.Join(work, "deck.pptx")
	if err := os.WriteFile(inPath, data, 0o600); err != nil {
		return nil, fmt.Errorf("render: write pptx: %w", err)
	}
	pdfPath, err := r.tools.ConvertOfficeToPDF(ctx, inPath, filepath.Join(work, "pdf"))
	if err != nil {
		return nil, fmt.Errorf("render: convert: %w", err)
	}
	return r.renderPDF(ctx, pdfPath, work, sessionID)
}

// renderPDF rasterizes into a scratch dir under work, then moves pages into
// the session directory as page_001.png, page_002.png, ...
func (r *Renderer) renderPDF(ctx context.Context, pdfPath, work, sessionID string) ([]string, error) {
	scratch := filepath.Join(work, "pages")
	raw, err := r.tools.RenderPDFToImages(ctx, pdfPath, scratch, localmedia.PDFRenderOptions{DPI: r.cfg.DPI, Format: "png"})
	if err != nil {
		return nil, fmt.Errorf("render: rasterize: %w", err)
	}

	outDir := filepath.Join(r.cfg.UploadsDir, sessionID)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("render: mkdir: %w", err)
	}

	files := make([]string, 0, len(raw))
	paths := make([]string, 0, len(raw))
	for i, src := range raw {
		name := PageName(i)
		dst := filepath.Join(outDir, name)
		if err := moveFile(src, dst); err != nil {
			return nil, fmt.Errorf("render: store page %d: %w", i+1, err)
		}
		files = append(files, dst)
		paths = append(paths, path.Join(r.cfg.URLPrefix, sessionID, name))
	}

	if r.publisher != nil {
		urls, err := r.publisher.Publish(ctx, sessionID, files)
		if err != nil {
			r.log.Warn("publish slide images failed; serving local copies", "session_id", sessionID, "error", err)
			return paths, nil
		}
		return urls, nil
	}
	r.log.Debug("slides rendered", "session_id", sessionID, "pages", len(paths))
	return paths, nil
}

// PageName is the stored filename of the zero-based page index i.
func PageName(i int) string {
	return fmt.Sprintf("page_%03d.png", i+1)
}

func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	// Rename fails across devices, e.g. tmpfs to a mounted static dir.
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return err
	}
	return os.Remove(src)
}
