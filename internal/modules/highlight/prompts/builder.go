package prompts

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yungbote/meet-highlight-backend/internal/domain/highlight"
)

const (
	MaxDeckChars   = 8000
	MaxSlideChars  = 1000
	MaxNoteLines   = 30
	truncateMarker = " …"
)

// Placeholders keep the rendered template readable when a field is empty.
const (
	placeholderNoSlides = "(no slide text)"
	placeholderNeutral  = "(neutral)"
	placeholderNone     = "(none)"
	placeholderEmpty    = "Slide 1:\n(Empty)"
	defaultModeLabel    = "hooks"
)

// Params carries everything a template needs. Nil slices are treated as empty.
type Params struct {
	MeetValues      []string
	SlidesText      string
	SlideTexts      []string
	InstructorStyle []string
	RequestedModes  []string
	ContextFlags    highlight.ContextFlags
	CustomIdeas     []string
	// RefinedNotes is the output of RefineNotes or PreprocessFreeText.
	RefinedNotes string
}

// ParamsFromConfig copies the generation config into template params.
func ParamsFromConfig(cfg highlight.GenerationConfig, slidesText string, slideTexts []string, notes string) Params {
	return Params{
		MeetValues:      cfg.MeetValues,
		SlidesText:      slidesText,
		SlideTexts:      slideTexts,
		InstructorStyle: cfg.InstructorStyle,
		RequestedModes:  cfg.RequestedModes,
		ContextFlags:    cfg.ContextFlags,
		CustomIdeas:     cfg.CustomIdeas,
		RefinedNotes:    notes,
	}
}

// Completer is the single model call the builder may need.
type Completer interface {
	Complete(ctx context.Context, prompt string) string
}

// RefineNotes asks the model to tighten raw instructor notes. Blank input
// returns "" without calling the model.
func RefineNotes(ctx context.Context, c Completer, notes []string) string {
	joined := strings.Join(notes, "\n")
	if strings.TrimSpace(joined) == "" || c == nil {
		return ""
	}
	return strings.TrimSpace(c.Complete(ctx, refineInstruction+joined))
}

// PreprocessFreeText bullet-normalises notes locally, keeping at most
// MaxNoteLines non-blank lines.
func PreprocessFreeText(notes []string) string {
	var lines []string
	for _, block := range notes {
		for _, ln := range strings.Split(strings.ReplaceAll(block, "\r\n", "\n"), "\n") {
			if strings.TrimSpace(ln) == "" {
				continue
			}
			lines = append(lines, "- "+strings.Trim(ln, " -•"))
			if len(lines) == MaxNoteLines {
				return strings.Join(lines, "\n")
			}
		}
	}
	return strings.Join(lines, "\n")
}

// BuildWholeDeck renders the time-blocked outline prompt.
func BuildWholeDeck(p Params) string {
	slides := truncateRunes(p.SlidesText, MaxDeckChars)
	if slides == "" {
		slides = placeholderNoSlides
	}
	return render(wholeDeckTemplate, p, map[string]string{
		"slides_text": slides,
	})
}

// BuildSlideAligned renders the per-slide prompt. Each slide is numbered
// from 1 and capped at MaxSlideChars.
func BuildSlideAligned(p Params) string {
	blocks := make([]string, 0, len(p.SlideTexts))
	for i, txt := range p.SlideTexts {
		txt = strings.ReplaceAll(strings.TrimSpace(txt), "\r", "")
		if utf8.RuneCountInString(txt) > MaxSlideChars {
			txt = truncateRunes(txt, MaxSlideChars) + truncateMarker
		}
		blocks = append(blocks, fmt.Sprintf("Slide %d:\n%s\n", i+1, txt))
	}
	dump := strings.Join(blocks, "\n")
	if dump == "" {
		dump = placeholderEmpty
	}
	n := len(p.SlideTexts)
	if n < 1 {
		n = 1
	}
	return render(slideAlignedTemplate, p, map[string]string{
		"slides_dump": dump,
		"n_slides":    fmt.Sprintf("%d", n),
	})
}

// Choose prefers the slide-aligned template whenever at least one per-slide
// text carries content.
func Choose(slideTexts []string) highlight.Mode {
	for _, t := range slideTexts {
		if strings.TrimSpace(t) != "" {
			return highlight.ModeSlideAligned
		}
	}
	return highlight.ModeWholeDeck
}

// Build picks the template for mode.
func Build(mode highlight.Mode, p Params) string {
	if mode == highlight.ModeSlideAligned {
		return BuildSlideAligned(p)
	}
	return BuildWholeDeck(p)
}

func render(tmpl string, p Params, extra map[string]string) string {
	values := joinList(p.MeetValues, "")
	modes := joinList(p.RequestedModes, defaultModeLabel)
	common := strings.NewReplacer(
		"{{requested_modes}}", modes,
		"{{meet_values}}", values,
	).Replace(commonRulesTemplate)

	notes := strings.TrimSpace(p.RefinedNotes)
	if notes == "" {
		notes = placeholderNone
	}

	pairs := []string{
		"{{meet_values}}", values,
		"{{instructor_style}}", joinList(p.InstructorStyle, placeholderNeutral),
		"{{context_flags}}", FormatContextFlags(p.ContextFlags),
		"{{custom_ideas}}", joinList(p.CustomIdeas, placeholderNone),
		"{{free_text_notes}}", notes,
		"{{common_rules}}", common,
	}
	for k, v := range extra {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	// A single pass, so placeholders inside user text are left alone.
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// FormatContextFlags renders flags in a stable key order.
func FormatContextFlags(f highlight.ContextFlags) string {
	return fmt.Sprintf("post_DU=%t, last_session_of_day=%t, mixed_skill=%t, instructor_count=%d",
		f.PostDU, f.LastSessionOfDay, f.MixedSkill, f.InstructorCount)
}

func joinList(items []string, placeholder string) string {
	kept := make([]string, 0, len(items))
	for _, it := range items {
		if s := strings.TrimSpace(it); s != "" {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return placeholder
	}
	return strings.Join(kept, ", ")
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
