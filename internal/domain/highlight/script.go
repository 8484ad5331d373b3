package highlight

// MissingSupport lists what the model says the instructor still has to prepare.
type MissingSupport struct {
	SlidesNeeded []string `json:"slides_needed"`
	Props        []string `json:"props"`
}

func EmptyMissingSupport() MissingSupport {
	return MissingSupport{SlidesNeeded: []string{}, Props: []string{}}
}

// ChatMessage is one role/content pair of a chat-style history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Mode selects the prompt template.
type Mode string

const (
	ModeWholeDeck    Mode = "whole_deck"
	ModeSlideAligned Mode = "slide_aligned"
)
