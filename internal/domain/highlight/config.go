package highlight

import "strings"

const DefaultRequestedMode = "full-highlight-script"

// ContextFlags describe the room the session is taught in.
type ContextFlags struct {
	PostDU           bool `json:"post_DU"`
	LastSessionOfDay bool `json:"last_session_of_day"`
	MixedSkill       bool `json:"mixed_skill"`
	InstructorCount  int  `json:"instructor_count"`
}

func DefaultContextFlags() ContextFlags {
	return ContextFlags{MixedSkill: true, InstructorCount: 1}
}

// GenerationConfig is the request-scoped set of generation parameters.
// It is persisted only as the config field of a generated session.
type GenerationConfig struct {
	InstructorStyle []string     `json:"instructor_style"`
	RequestedModes  []string     `json:"requested_modes"`
	ContextFlags    ContextFlags `json:"context_flags"`
	CustomIdeas     []string     `json:"custom_ideas"`
	MeetValues      []string     `json:"meet_values"`
	FreeTextNotes   []string     `json:"free_text_notes"`
}

// Normalize trims list entries, drops blanks, and fills the defaults that
// callers may omit.
func (c GenerationConfig) Normalize() GenerationConfig {
	out := GenerationConfig{
		InstructorStyle: compact(c.InstructorStyle),
		RequestedModes:  compact(c.RequestedModes),
		ContextFlags:    c.ContextFlags,
		CustomIdeas:     compact(c.CustomIdeas),
		MeetValues:      compact(c.MeetValues),
		FreeTextNotes:   c.FreeTextNotes,
	}
	if len(out.RequestedModes) == 0 {
		out.RequestedModes = []string{DefaultRequestedMode}
	}
	if out.ContextFlags.InstructorCount < 1 {
		out.ContextFlags.InstructorCount = 1
	}
	if out.FreeTextNotes == nil {
		out.FreeTextNotes = []string{}
	}
	return out
}

// Doc is the persisted form stored under a generated session's config.
func (c GenerationConfig) Doc() map[string]any {
	return map[string]any{
		"instructor_style": stringsToAny(c.InstructorStyle),
		"requested_modes":  stringsToAny(c.RequestedModes),
		"context_flags": map[string]any{
			"post_DU":             c.ContextFlags.PostDU,
			"last_session_of_day": c.ContextFlags.LastSessionOfDay,
			"mixed_skill":         c.ContextFlags.MixedSkill,
			"instructor_count":    c.ContextFlags.InstructorCount,
		},
		"custom_ideas":    stringsToAny(c.CustomIdeas),
		"meet_values":     stringsToAny(c.MeetValues),
		"free_text_notes": stringsToAny(c.FreeTextNotes),
	}
}

// SplitIdeas turns the comma separated "custom ideas" form field into a list.
func SplitIdeas(raw string) []string {
	return compact(strings.Split(raw, ","))
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
