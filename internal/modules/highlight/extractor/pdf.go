package extractor

import (
	"bytes"

	pdf "github.com/ledongthuc/pdf"
)

// extractPDFPages returns one entry per page in document order. Pages whose
// text cannot be read become empty strings so indices stay aligned with the
// rendered images.
func extractPDFPages(data []byte) (pages []string) {
	pages = []string{}
	if len(data) < 5 || string(data[:5]) != "%PDF-" {
		return pages
	}
	// The parser panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			pages = []string{}
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return pages
	}
	n := r.NumPage()
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, pageText(r.Page(i)))
	}
	return out
}

func pageText(p pdf.Page) (text string) {
	if p.V.IsNull() {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()
	raw, err := p.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return normalizeUnit(raw)
}
