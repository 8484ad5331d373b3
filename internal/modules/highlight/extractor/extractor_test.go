package extractor

import (
	"archive/zip"
	"bytes"
	"fmt"
	"testing"
)

func TestExtractPlainText(t *testing.T) {
	res := Extract("notes.txt", []byte("Hello"))
	if res.Kind != "txt" {
		t.Fatalf("kind: want txt, got %q", res.Kind)
	}
	if res.Text != "Hello" {
		t.Fatalf("text: want Hello, got %q", res.Text)
	}
	if len(res.Units) != 1 || res.Units[0] != "Hello" {
		t.Fatalf("units: want [Hello], got %#v", res.Units)
	}
	if !res.Usable() {
		t.Fatalf("expected usable result")
	}
}

func TestExtractInvalidUTF8IsReplaced(t *testing.T) {
	res := Extract("weird.md", []byte{'a', 0xff, 'b'})
	if res.Kind != "txt" {
		t.Fatalf("kind: want txt, got %q", res.Kind)
	}
	if res.Text != "a\uFFFDb" {
		t.Fatalf("text: got %q", res.Text)
	}
}

func TestExtractBinary(t *testing.T) {
	res := Extract("blob", []byte{0x00, 0x01, 0x02})
	if res.Kind != "bin" {
		t.Fatalf("kind: want bin, got %q", res.Kind)
	}
	if res.Text != "" || len(res.Units) != 0 {
		t.Fatalf("expected empty text and units, got %q %#v", res.Text, res.Units)
	}
	if res.Usable() {
		t.Fatalf("binary result must not be usable")
	}
}

func TestExtractMalformedPDFDegrades(t *testing.T) {
	res := Extract("deck.PDF", []byte("%PDF-1.4 not really a pdf"))
	if res.Kind != "pdf" {
		t.Fatalf("kind: want pdf, got %q", res.Kind)
	}
	if res.Usable() {
		t.Fatalf("malformed pdf must not yield usable text: %#v", res)
	}
}

func TestExtractMalformedPPTXDegrades(t *testing.T) {
	res := Extract("deck.pptx", []byte("not a zip"))
	if res.Kind != "pptx" || len(res.Units) != 0 {
		t.Fatalf("unexpected result %#v", res)
	}
}

func TestExtractPPTXOrdersSlidesNumerically(t *testing.T) {
	data := buildPPTX(t, map[int][][]string{
		1:  {{"Intro", "Welcome"}, {}},
		2:  {{"Second"}},
		10: {{"Tenth"}, {"Extra shape"}},
	})
	res := Extract("deck.pptx", data)
	if res.Kind != "pptx" {
		t.Fatalf("kind: want pptx, got %q", res.Kind)
	}
	want := []string{"Intro\nWelcome", "Second", "Tenth\nExtra shape"}
	if len(res.Units) != len(want) {
		t.Fatalf("units: want %d, got %d (%#v)", len(want), len(res.Units), res.Units)
	}
	for i := range want {
		if res.Units[i] != want[i] {
			t.Fatalf("unit %d: want %q, got %q", i, want[i], res.Units[i])
		}
	}
	if res.Text != "Intro\nWelcome\nSecond\nTenth\nExtra shape" {
		t.Fatalf("joined text: got %q", res.Text)
	}
}

func TestUsableWithBlankText(t *testing.T) {
	r := Result{Kind: "pdf", Text: "  \n", Units: []string{"", " "}}
	if r.Usable() {
		t.Fatalf("blank text and blank units must not be usable")
	}
}

// buildPPTX writes a minimal archive: slide number -> shapes -> paragraphs.
func buildPPTX(t *testing.T, slides map[int][][]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for num, shapes := range slides {
		w, err := zw.Create(fmt.Sprintf("ppt/slides/slide%d.xml", num))
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		var body bytes.Buffer
		body.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
		body.WriteString(`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree>`)
		for _, paras := range shapes {
			body.WriteString(`<p:sp><p:txBody>`)
			for _, p := range paras {
				fmt.Fprintf(&body, `<a:p><a:r><a:t>%s</a:t></a:r></a:p>`, p)
			}
			body.WriteString(`</p:txBody></p:sp>`)
		}
		body.WriteString(`</p:spTree></p:cSld></p:sld>`)
		if _, err := w.Write(body.Bytes()); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	// Non-slide parts must be ignored.
	if w, err := zw.Create("ppt/slides/_rels/slide1.xml.rels"); err == nil {
		_, _ = w.Write([]byte("<Relationships/>"))
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}
