package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"
)

// extractPPTXSlides returns one entry per slide, ordered by slide number.
// Within a slide every text-bearing shape contributes its paragraphs joined
// by newlines; shapes without text are skipped.
func extractPPTXSlides(data []byte) []string {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return []string{}
	}

	type slideFile struct {
		num  int
		file *zip.File
	}
	var slides []slideFile
	for _, f := range zr.File {
		name := f.Name
		if path.Dir(name) != "ppt/slides" || !strings.HasSuffix(name, ".xml") {
			continue
		}
		base := strings.TrimSuffix(path.Base(name), ".xml")
		if !strings.HasPrefix(base, "slide") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(base, "slide"))
		if err != nil {
			continue
		}
		slides = append(slides, slideFile{num: n, file: f})
	}
	// slide10 must follow slide9, so sort by number rather than name.
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	out := make([]string, 0, len(slides))
	for _, s := range slides {
		out = append(out, readSlide(s.file))
	}
	return out
}

func readSlide(f *zip.File) string {
	rc, err := f.Open()
	if err != nil {
		return ""
	}
	defer rc.Close()
	raw, err := io.ReadAll(io.LimitReader(rc, 32<<20))
	if err != nil {
		return ""
	}
	shapes := slideShapes(raw)
	return normalizeUnit(strings.Join(shapes, "\n"))
}

// slideShapes walks the slide XML and collects text per shape. Group shapes
// nest p:sp elements, so shapes are tracked by depth rather than by parent.
func slideShapes(raw []byte) []string {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	var (
		shapes     []string
		paragraphs []string
		para       strings.Builder
		inShape    int
		inPara     bool
		inText     bool
	)
	flushShape := func() {
		var kept []string
		for _, p := range paragraphs {
			if strings.TrimSpace(p) != "" {
				kept = append(kept, p)
			}
		}
		if len(kept) > 0 {
			shapes = append(shapes, strings.Join(kept, "\n"))
		}
		paragraphs = nil
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "sp":
				if inShape == 0 {
					paragraphs = nil
				}
				inShape++
			case "p":
				if inShape > 0 && t.Name.Space != "" && isDrawingNS(t.Name.Space) {
					inPara = true
					para.Reset()
				}
			case "t":
				if inPara {
					inText = true
				}
			case "br":
				if inPara {
					para.WriteString("\n")
				}
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if inPara && isDrawingNS(t.Name.Space) {
					paragraphs = append(paragraphs, para.String())
					inPara = false
				}
			case "sp":
				if inShape > 0 {
					inShape--
					if inShape == 0 {
						flushShape()
					}
				}
			}
		}
	}
	return shapes
}

func isDrawingNS(ns string) bool {
	return strings.Contains(ns, "drawingml")
}
