package localmedia

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/meet-highlight-backend/internal/platform/ctxutil"
	"github.com/yungbote/meet-highlight-backend/internal/platform/logger"
)

// Tools wraps the system binaries used to turn decks into page images.
//
// REQUIRED BINARIES at runtime:
// - libreoffice (soffice) for PPTX -> PDF
// - pdftoppm (poppler-utils) for PDF -> page images
type Tools interface {
	AssertReady(ctx context.Context) error
	ConvertOfficeToPDF(ctx context.Context, inputPath string, outDir string) (pdfPath string, err error)
	// RenderPDFToImages returns the produced images in page order.
	RenderPDFToImages(ctx context.Context, pdfPath string, outDir string, opts PDFRenderOptions) ([]string, error)
}

type PDFRenderOptions struct {
	DPI    int
	Format string // "png" or "jpeg"
}

type Options struct {
	SofficePath    string
	PdftoppmPath   string
	ConvertTimeout time.Duration
	RenderTimeout  time.Duration
}

type tools struct {
	log *logger.Logger

	sofficePath  string
	pdftoppmPath string

	convertTimeout time.Duration
	renderTimeout  time.Duration
}

func New(log *logger.Logger, opts Options) Tools {
	if opts.SofficePath == "" {
		opts.SofficePath = "soffice"
	}
	if opts.PdftoppmPath == "" {
		opts.PdftoppmPath = "pdftoppm"
	}
	if opts.ConvertTimeout <= 0 {
		opts.ConvertTimeout = 2 * time.Minute
	}
	if opts.RenderTimeout <= 0 {
		opts.RenderTimeout = 2 * time.Minute
	}
	return &tools{
		log:            log.With("service", "MediaTools"),
		sofficePath:    opts.SofficePath,
		pdftoppmPath:   opts.PdftoppmPath,
		convertTimeout: opts.ConvertTimeout,
		renderTimeout:  opts.RenderTimeout,
	}
}

func (m *tools) AssertReady(ctx context.Context) error {
	for _, bin := range []string{m.sofficePath, m.pdftoppmPath} {
		if err := m.assertBinary(bin); err != nil {
			return err
		}
	}
	return nil
}

func (m *tools) assertBinary(name string) error {
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("missing required binary %q in PATH: %w", name, err)
	}
	return nil
}

func (m *tools) ConvertOfficeToPDF(ctx context.Context, inputPath string, outDir string) (string, error) {
	ctx = ctxutil.Default(ctx)
	if err := m.assertBinary(m.sofficePath); err != nil {
		return "", err
	}
	if inputPath == "" {
		return "", fmt.Errorf("inputPath required")
	}
	if outDir == "" {
		return "", fmt.Errorf("outDir required")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir outDir: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, m.convertTimeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, m.sofficePath,
		"--headless",
		"--nologo",
		"--nolockcheck",
		"--nodefault",
		"--norestore",
		"--convert-to", "pdf",
		"--outdir", outDir,
		inputPath,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("soffice convert failed: %w; out=%s", err, string(out))
	}
	m.log.Debug("soffice convert done", "input", filepath.Base(inputPath), "duration_ms", time.Since(start).Milliseconds())

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	pdfPath := filepath.Join(outDir, base+".pdf")
	if _, statErr := os.Stat(pdfPath); statErr != nil {
		pdfPath2, err2 := newestFileWithExt(outDir, ".pdf")
		if err2 != nil {
			return "", fmt.Errorf("pdf output not found at %s and scan failed: %v; soffice out=%s", pdfPath, err2, string(out))
		}
		pdfPath = pdfPath2
	}
	return pdfPath, nil
}

func (m *tools) RenderPDFToImages(ctx context.Context, pdfPath string, outDir string, opts PDFRenderOptions) ([]string, error) {
	ctx = ctxutil.Default(ctx)
	if err := m.assertBinary(m.pdftoppmPath); err != nil {
		return nil, err
	}
	if pdfPath == "" {
		return nil, fmt.Errorf("pdfPath required")
	}
	if outDir == "" {
		return nil, fmt.Errorf("outDir required")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir outDir: %w", err)
	}

	dpi := opts.DPI
	if dpi <= 0 {
		dpi = 160
	}
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "png"
	}
	if format != "png" && format != "jpeg" && format != "jpg" {
		return nil, fmt.Errorf("unsupported render format: %s", format)
	}

	ctx, cancel := context.WithTimeout(ctx, m.renderTimeout)
	defer cancel()

	prefix := filepath.Join(outDir, "raw")
	args := []string{"-r", strconv.Itoa(dpi)}
	if format == "png" {
		args = append(args, "-png")
	} else {
		args = append(args, "-jpeg")
	}
	args = append(args, pdfPath, prefix)

	cmd := exec.CommandContext(ctx, m.pdftoppmPath, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w; out=%s", err, string(out))
	}

	paths, err := pageOrdered(outDir, `^raw-(\d+)\.(png|jpe?g)$`)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no images produced by pdftoppm; out=%s", string(out))
	}
	return paths, nil
}

// ---------- helpers ----------

func newestFileWithExt(dir, ext string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	var newest string
	var newestMod time.Time
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.ToLower(filepath.Ext(e.Name())) != ext {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = filepath.Join(dir, e.Name())
			newestMod = info.ModTime()
		}
	}
	if newest == "" {
		return "", fmt.Errorf("no %s files in %s", ext, dir)
	}
	return newest, nil
}

// pageOrdered lists files whose lowercased name matches pattern, ordered by
// the first capture group read as a page number. pdftoppm pads the page
// number to the width of the page count, so name order is not enough.
func pageOrdered(dir string, pattern string) ([]string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	type page struct {
		n    int
		path string
	}
	var pages []page
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := re.FindStringSubmatch(strings.ToLower(e.Name()))
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		pages = append(pages, page{n: n, path: filepath.Join(dir, e.Name())})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].n < pages[j].n })
	out := make([]string, 0, len(pages))
	for _, p := range pages {
		out = append(out, p.path)
	}
	return out, nil
}
