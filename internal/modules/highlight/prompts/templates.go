package prompts

const commonRulesTemplate = `
COMMON RULES
1. Generate only the sections the user asked for: {{requested_modes}}
      hooks • punchlines • acts • vibe-reset • clarifying-Qs
2. If a section is NOT requested, omit it entirely.
3. Never rewrite slide text verbatim; reference it like [Slide 7].
4. Bullet limits: Hook ≤20 words, Punchline ≤25, Clarifying-A ≤25.
5. Tie every suggestion to exactly ONE MEET value ({{meet_values}}).
6. Output *plain text* – no markdown, no numbering outside the bullets.
`

const wholeDeckTemplate = `
# MEET – Highlight Script Outline (multi-slide)

CONTEXT
• MEET values……….. {{meet_values}}
• Instructor style…. {{instructor_style}}
• Context flags……. {{context_flags}}
• Custom ideas……. {{custom_ideas}}
• Instructor notes… {{free_text_notes}}

SLIDES (flat text)
{{slides_text}}

{{common_rules}}

FORMAT
For each time block use:
[MM:SS–MM:SS] <SectionName> – <One-line label>
• Goal: …
• Instructor Actions / Lines: …
• MEET Value Tie-In: …

TOTAL length ≤600 tokens.

BEGIN!
`

const slideAlignedTemplate = `
# MEET – Per-Slide Teaching Script

CONTEXT
• MEET values……….. {{meet_values}}
• Instructor style…. {{instructor_style}}
• Context flags……. {{context_flags}}
• Custom ideas……. {{custom_ideas}}
• Instructor notes… {{free_text_notes}}

SLIDES (text only, no images)
{{slides_dump}}

{{common_rules}}

FORMAT
For EACH slide i = 1..{{n_slides}} output block:

[Slide {i}]
Hook: …
Punchline: …
Acts:
1) …
Clarifying-Qs:
Q: …?  A: …
MEET Value: …

Only use content present in that slide's text; do not invent facts.

If the slide needs assets add at end:
Missing support: slides_needed=[…], props=[…]

BEGIN!
`

const refineInstruction = "Rewrite the following instructor notes into ≤8 crisp bullets, " +
	"≤20 words each, no trailing punctuation:\n\n"

const condenseInstruction = "Condense the following chat between an instructor and an assistant " +
	"into at most 6 short bullets that capture the instructor's requests and decisions. " +
	"Plain text only.\n\n"
