package extractor

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/yungbote/meet-highlight-backend/internal/domain/highlight"
)

// Result is what an uploaded deck boils down to before prompting.
type Result struct {
	Kind string
	// Text is the whole deck; Units holds one entry per page or slide.
	Text  string
	Units []string
}

// Usable reports whether any text survived extraction. Callers treat a
// false result as a validation failure.
func (r Result) Usable() bool {
	if strings.TrimSpace(r.Text) != "" {
		return true
	}
	for _, u := range r.Units {
		if strings.TrimSpace(u) != "" {
			return true
		}
	}
	return false
}

// Extract dispatches on the filename extension. It never returns an error:
// malformed input degrades to empty text.
func Extract(filename string, data []byte) Result {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(filename))) {
	case ".pdf":
		pages := extractPDFPages(data)
		return Result{Kind: highlight.KindPDF, Text: strings.Join(pages, "\n"), Units: pages}
	case ".pptx":
		slides := extractPPTXSlides(data)
		return Result{Kind: highlight.KindPPTX, Text: strings.Join(slides, "\n"), Units: slides}
	default:
		return extractPlain(data)
	}
}

func extractPlain(data []byte) Result {
	if !isProbablyText(data) {
		return Result{Kind: highlight.KindBin, Text: "", Units: []string{}}
	}
	text := strings.ToValidUTF8(string(data), "\uFFFD")
	return Result{Kind: highlight.KindTXT, Text: text, Units: []string{text}}
}

// isProbablyText rejects buffers with NUL bytes or with no decodable runes
// at all; everything else is decoded best-effort.
func isProbablyText(b []byte) bool {
	if len(b) == 0 {
		return true
	}
	sample := b
	if len(sample) > 4096 {
		sample = sample[:4096]
	}
	valid := 0
	for len(sample) > 0 {
		r, size := utf8.DecodeRune(sample)
		if r == 0 {
			return false
		}
		if r != utf8.RuneError || size > 1 {
			valid++
		}
		sample = sample[size:]
	}
	return valid > 0
}

func normalizeUnit(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(s)
}
