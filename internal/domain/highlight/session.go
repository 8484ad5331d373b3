package highlight

import "strings"

// Document is the stored shape of every entity: a free-form JSON object.
// Stores never interpret it beyond top-level keys.
type Document = map[string]any

const (
	FieldID              = "id"
	FieldName            = "name"
	FieldSlidesText      = "slides_text"
	FieldSlideTexts      = "slide_texts"
	FieldImages          = "images"
	FieldConfig          = "config"
	FieldHighlightScript = "highlight_script"
	FieldMetadata        = "metadata"
	FieldSourceSession   = "source_session_id"
	FieldMode            = "mode"
	FieldCreatedAt       = "created_at"
)

const GeneratedSessionName = "generated"

// File kinds recorded in metadata.kind.
const (
	KindPDF  = "pdf"
	KindPPTX = "pptx"
	KindTXT  = "txt"
	KindBin  = "bin"
)

// Session is the typed view of a stored session document.
type Session struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	SlidesText      string         `json:"slides_text"`
	SlideTexts      []string       `json:"slide_texts"`
	Images          []string       `json:"images"`
	Config          map[string]any `json:"config,omitempty"`
	HighlightScript string         `json:"highlight_script,omitempty"`
	Metadata        map[string]any `json:"metadata"`
}

// Doc renders the session as a storable document. Config and
// highlight_script are only present once a generation produced them.
func (s Session) Doc() Document {
	doc := Document{
		FieldName:       s.Name,
		FieldSlidesText: s.SlidesText,
		FieldSlideTexts: stringsToAny(s.SlideTexts),
		FieldImages:     stringsToAny(s.Images),
		FieldMetadata:   nonNilMap(s.Metadata),
	}
	if s.ID != "" {
		doc[FieldID] = s.ID
	}
	if s.Config != nil {
		doc[FieldConfig] = s.Config
	}
	if s.HighlightScript != "" {
		doc[FieldHighlightScript] = s.HighlightScript
	}
	return doc
}

// SessionFromDoc reads the known fields back out of a stored document,
// tolerating both []string and []any for list fields.
func SessionFromDoc(id string, doc Document) Session {
	s := Session{
		ID:              id,
		Name:            str(doc[FieldName]),
		SlidesText:      str(doc[FieldSlidesText]),
		SlideTexts:      StringList(doc[FieldSlideTexts]),
		Images:          StringList(doc[FieldImages]),
		HighlightScript: str(doc[FieldHighlightScript]),
		Metadata:        asMap(doc[FieldMetadata]),
	}
	if cfg := asMap(doc[FieldConfig]); len(cfg) > 0 {
		s.Config = cfg
	}
	if s.ID == "" {
		s.ID = str(doc[FieldID])
	}
	if s.Metadata == nil {
		s.Metadata = map[string]any{}
	}
	// Older snapshots kept the script inside metadata.
	if s.HighlightScript == "" {
		s.HighlightScript = str(s.Metadata[FieldHighlightScript])
	}
	return s
}

// Kind returns metadata.kind, or "" when absent.
func (s Session) Kind() string {
	return str(s.Metadata["kind"])
}

// HasSlideTexts reports whether the per-slide texts carry any content.
func (s Session) HasSlideTexts() bool {
	for _, t := range s.SlideTexts {
		if strings.TrimSpace(t) != "" {
			return true
		}
	}
	return false
}

func StringList(v any) []string {
	switch t := v.(type) {
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	case []any:
		out := make([]string, 0, len(t))
		for _, it := range t {
			if s, ok := it.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

func stringsToAny(in []string) []any {
	out := make([]any, 0, len(in))
	for _, s := range in {
		out = append(out, s)
	}
	return out
}

func nonNilMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
