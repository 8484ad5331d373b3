package prompts

import (
	"regexp"
	"strings"

	"github.com/yungbote/meet-highlight-backend/internal/domain/highlight"
)

var (
	missingSupportRe = regexp.MustCompile(`(?is)missing support.*`)
	slidesNeededRe   = regexp.MustCompile(`(?i)slides_needed\s*[:=]\s*\[([^\]]*)\]`)
	propsRe          = regexp.MustCompile(`(?i)props\s*[:=]\s*\[([^\]]*)\]`)
)

// ParseMissingSupport pulls the optional asset and prop lists out of model
// output. Anything it cannot match is left empty.
func ParseMissingSupport(text string) highlight.MissingSupport {
	ms := highlight.EmptyMissingSupport()
	block := missingSupportRe.FindString(text)
	if block == "" {
		return ms
	}
	if m := slidesNeededRe.FindStringSubmatch(block); m != nil {
		ms.SlidesNeeded = splitItems(m[1])
	}
	if m := propsRe.FindStringSubmatch(block); m != nil {
		ms.Props = splitItems(m[1])
	}
	return ms
}

func splitItems(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		item := strings.Trim(strings.TrimSpace(part), `"'`)
		item = strings.TrimSpace(item)
		if item == "" || item == "…" {
			continue
		}
		out = append(out, item)
	}
	return out
}
